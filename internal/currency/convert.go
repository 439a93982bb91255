package currency

import (
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

// Convert returns a copy of the series scaled into EUR using the cached
// rate for the series' native currency. Price columns scale linearly;
// volume is coerced to integer units. The input series is not modified.
func Convert(cache *RateCache, s *model.PriceSeries) *model.PriceSeries {
	if s == nil {
		return nil
	}
	rate := cache.Rate(s.Currency)
	out := &model.PriceSeries{
		Symbol:    s.Symbol,
		Currency:  "EUR",
		Bars:      make([]model.OHLCV, len(s.Bars)),
		FetchedAt: s.FetchedAt,
	}
	for i, b := range s.Bars {
		out.Bars[i] = model.OHLCV{
			Time:   b.Time,
			Open:   b.Open * rate,
			High:   b.High * rate,
			Low:    b.Low * rate,
			Close:  b.Close * rate,
			Volume: float64(int64(b.Volume)),
		}
	}
	return out
}
