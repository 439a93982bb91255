package collector

import (
	"log"
	"time"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

// Status classifies the result of one symbol's fetch.
type Status string

const (
	StatusFetched Status = "fetched"
	StatusEmpty   Status = "empty"  // provider had no usable data
	StatusFailed  Status = "failed" // provider unreachable or malformed
)

// Outcome is the typed per-symbol fetch result. Partial success across a
// batch is the expected mode: callers inspect the status instead of
// aborting on the first failure.
type Outcome struct {
	Asset  model.Asset
	Status Status
	Series *model.PriceSeries
	Err    error
}

// Collector fetches price history for a set of assets, one provider call
// per asset, sequentially.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Fetch retrieves one asset's series for the period. Empty or all-null
// provider responses become StatusEmpty, provider errors StatusFailed;
// neither is propagated as an error.
func (c *Collector) Fetch(asset model.Asset, period model.Period) Outcome {
	bars, err := c.Fetcher.FetchBars(asset, period)
	if err != nil {
		log.Printf("[WARN] fetch %s (%s): %v", asset.Symbol, period, err)
		return Outcome{Asset: asset, Status: StatusFailed, Err: err}
	}
	if len(bars) == 0 {
		log.Printf("[WARN] no data for %s (%s)", asset.Symbol, period)
		return Outcome{Asset: asset, Status: StatusEmpty}
	}
	nativeCurrency := "USD"
	if asset.Kind == model.AssetStock && hasLSESuffix(asset.Symbol) {
		nativeCurrency = "GBP"
	}
	return Outcome{
		Asset:  asset,
		Status: StatusFetched,
		Series: &model.PriceSeries{
			Symbol:    asset.Symbol,
			Currency:  nativeCurrency,
			Bars:      bars,
			FetchedAt: time.Now(),
		},
	}
}

// FetchAll fetches every asset sequentially and returns one outcome per
// asset, in input order. Failing symbols never abort the batch.
func (c *Collector) FetchAll(assets []model.Asset, period model.Period) []Outcome {
	outcomes := make([]Outcome, 0, len(assets))
	for _, a := range assets {
		outcomes = append(outcomes, c.Fetch(a, period))
	}
	return outcomes
}

func hasLSESuffix(symbol string) bool {
	return len(symbol) > 2 && symbol[len(symbol)-2:] == ".L"
}
