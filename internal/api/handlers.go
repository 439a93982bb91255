// Package api exposes the dashboard data over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/analyzer"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/collector"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/currency"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/forecast"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/metrics"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/scheduler"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	collector *collector.Collector
	rates     *currency.RateCache
	fcache    *forecast.Cache
	metrics   *metrics.Metrics
	scheduler *scheduler.Scheduler

	holdings      []model.Holding
	assetBySymbol map[string]model.Asset
	defaultPeriod model.Period
	horizon       int
}

// NewHandler creates a new Handler over the configured holdings.
func NewHandler(col *collector.Collector, rates *currency.RateCache, fcache *forecast.Cache, m *metrics.Metrics, sched *scheduler.Scheduler, holdings []model.Holding, defaultPeriod model.Period, horizon int) *Handler {
	byn := make(map[string]model.Asset, len(holdings))
	for _, h := range holdings {
		byn[h.Symbol] = model.Asset{Symbol: h.Symbol, Kind: h.Kind}
	}
	return &Handler{
		collector:     col,
		rates:         rates,
		fcache:        fcache,
		metrics:       m,
		scheduler:     sched,
		holdings:      holdings,
		assetBySymbol: byn,
		defaultPeriod: defaultPeriod,
		horizon:       horizon,
	}
}

// GetFigure handles GET /api/v1/figure?symbols=BTC,ETH&period=1y&forecast=true.
// symbols filters to a subset of the configured holdings; absent means all.
func (h *Handler) GetFigure(w http.ResponseWriter, r *http.Request) {
	period := h.defaultPeriod
	if s := r.URL.Query().Get("period"); s != "" {
		p, err := model.ParsePeriod(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		period = p
	}

	assets, err := h.selectAssets(r.URL.Query().Get("symbols"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	withForecast := true
	if s := r.URL.Query().Get("forecast"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			http.Error(w, "forecast must be a boolean", http.StatusBadRequest)
			return
		}
		withForecast = b
	}

	an := analyzer.New(h.collector, h.rates, h.fcache, h.metrics, assets, h.horizon)
	an.FetchData(period)

	respondJSON(w, http.StatusOK, an.BuildFigure(period, withForecast))
}

// GetPortfolio handles GET /api/v1/portfolio. It serves the latest
// scheduled snapshot, computing one on the spot the first time.
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	snap := h.scheduler.Latest()
	if snap == nil {
		http.Error(w, "no snapshot available", http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// GetHoldings handles GET /api/v1/holdings: the static configured list.
func (h *Handler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.holdings)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":      "healthy",
		"rates_stale": h.rates.Stale(),
	}
	respondJSON(w, http.StatusOK, status)
}

// selectAssets resolves the comma-separated symbols filter against the
// configured holdings. Unknown symbols are rejected rather than fetched.
func (h *Handler) selectAssets(filter string) ([]model.Asset, error) {
	if filter == "" {
		assets := make([]model.Asset, len(h.holdings))
		for i, hold := range h.holdings {
			assets[i] = model.Asset{Symbol: hold.Symbol, Kind: hold.Kind}
		}
		return assets, nil
	}

	var assets []model.Asset
	for _, s := range strings.Split(filter, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		a, ok := h.assetBySymbol[s]
		if !ok {
			return nil, fmt.Errorf("unknown symbol %q", s)
		}
		assets = append(assets, a)
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("symbols filter matched nothing")
	}
	return assets, nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
