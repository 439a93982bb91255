package collector

import (
	"time"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Bars    map[string][]model.OHLCV // keyed by symbol; nil entry means no data
	Err     map[string]error         // per-symbol fetch error
	Fetched []string                 // symbols requested, in order
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(asset model.Asset, period model.Period) ([]model.OHLCV, error) {
	m.Fetched = append(m.Fetched, asset.Symbol)
	if err, ok := m.Err[asset.Symbol]; ok {
		return nil, err
	}
	if m.Bars != nil {
		return m.Bars[asset.Symbol], nil
	}
	return GenerateBars(m.Price, 60), nil
}

// GenerateBars produces a deterministic drifting series for tests.
func GenerateBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
