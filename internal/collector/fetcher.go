package collector

import "github.com/miguelfer1410/stocks-crypto-analizer/internal/model"

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchBars returns OHLCV history for the asset over the given period,
	// at the interval the period implies. An empty slice with a nil error
	// means the provider had no data.
	FetchBars(asset model.Asset, period model.Period) ([]model.OHLCV, error)
	Name() string
}
