// Package analyzer runs the per-view pipeline: fetch price history,
// normalize currency, derive indicators, fit forecasts, and assemble the
// renderable figure bundle.
package analyzer

import (
	"log"
	"time"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/calculator"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/collector"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/currency"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/forecast"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/metrics"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

// Analyzer owns the fetched series and derived data for one view. It is
// not shared between views: each request or refresh builds its own
// instance; only the rate cache and the forecast cache are long-lived
// and passed in by reference.
type Analyzer struct {
	collector *collector.Collector
	rates     *currency.RateCache
	fcache    *forecast.Cache
	metrics   *metrics.Metrics
	horizon   int

	assets     []model.Asset
	data       map[string]*model.PriceSeries
	indicators map[string]*model.IndicatorSet
	forecasts  map[string]*model.Forecast
	outcomes   map[string]collector.Status
}

// New creates an analyzer for the given assets. metrics may be nil.
func New(col *collector.Collector, rates *currency.RateCache, fcache *forecast.Cache, m *metrics.Metrics, assets []model.Asset, horizon int) *Analyzer {
	if horizon <= 0 {
		horizon = forecast.DefaultHorizon
	}
	return &Analyzer{
		collector:  col,
		rates:      rates,
		fcache:     fcache,
		metrics:    m,
		horizon:    horizon,
		assets:     assets,
		data:       make(map[string]*model.PriceSeries, len(assets)),
		indicators: make(map[string]*model.IndicatorSet, len(assets)),
		forecasts:  make(map[string]*model.Forecast, len(assets)),
		outcomes:   make(map[string]collector.Status, len(assets)),
	}
}

// FetchData fetches every asset's series for the period, converts it to
// EUR and computes indicators. Symbols that fail or come back empty keep
// rendering as absent data; the batch never aborts.
func (a *Analyzer) FetchData(period model.Period) {
	for _, out := range a.collector.FetchAll(a.assets, period) {
		a.outcomes[out.Asset.Symbol] = out.Status
		if out.Status != collector.StatusFetched {
			if out.Status == collector.StatusFailed && a.metrics != nil {
				a.metrics.FetchFailures.WithLabelValues(out.Asset.Symbol).Inc()
			}
			continue
		}
		converted := currency.Convert(a.rates, out.Series)
		a.data[out.Asset.Symbol] = converted
		a.indicators[out.Asset.Symbol] = calculator.Compute(converted)
	}
}

// Series returns the converted series for a symbol, nil when absent.
func (a *Analyzer) Series(symbol string) *model.PriceSeries { return a.data[symbol] }

// Indicators returns the indicator set for a symbol, nil when absent.
func (a *Analyzer) Indicators(symbol string) *model.IndicatorSet { return a.indicators[symbol] }

// Outcome returns the fetch status for a symbol.
func (a *Analyzer) Outcome(symbol string) collector.Status { return a.outcomes[symbol] }

// Quotes returns the latest and previous EUR close per fetched symbol.
func (a *Analyzer) Quotes() map[string]*model.PriceSeries { return a.data }

// ForecastFor fits (or recalls) the forecast for one asset. The model
// input is always the fixed two-year daily history, independent of the
// period currently displayed. Returns nil when history is insufficient.
func (a *Analyzer) ForecastFor(asset model.Asset) *model.Forecast {
	now := time.Now()
	if f, ok := a.fcache.Get(asset.Symbol, now); ok {
		if a.metrics != nil {
			a.metrics.ForecastCacheHits.Inc()
		}
		a.forecasts[asset.Symbol] = f
		return f
	}
	if a.metrics != nil {
		a.metrics.ForecastCacheMiss.Inc()
	}

	out := a.collector.Fetch(asset, model.Period2Y)
	if out.Status != collector.StatusFetched {
		// Not cached: a transient provider failure degrades this render
		// only, the next refresh tries again.
		log.Printf("[WARN] no forecast history for %s", asset.Symbol)
		return nil
	}
	converted := currency.Convert(a.rates, out.Series)

	f := forecast.Fit(asset.Symbol, converted.Bars, a.horizon)
	if f == nil {
		log.Printf("[INFO] insufficient history for %s forecast (%d bars)", asset.Symbol, len(converted.Bars))
	}
	a.fcache.Put(asset.Symbol, now, f)
	a.forecasts[asset.Symbol] = f
	return f
}
