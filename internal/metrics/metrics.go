// Package metrics exposes the dashboard's Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the dashboard.
type Metrics struct {
	RefreshDur        prometheus.Histogram
	RefreshSkipped    prometheus.Counter
	FetchFailures     *prometheus.CounterVec
	ForecastCacheHits prometheus.Counter
	ForecastCacheMiss prometheus.Counter
	FigureBuildDur    prometheus.Histogram
	SnapshotsRecorded prometheus.Counter
}

// New registers and returns all dashboard metrics.
func New() *Metrics {
	m := &Metrics{
		RefreshDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_refresh_duration_seconds",
			Help:    "Portfolio refresh latency (fetch + aggregate + record)",
			Buckets: prometheus.DefBuckets,
		}),
		RefreshSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_refresh_skipped_total",
			Help: "Ticks skipped because a refresh was still in flight",
		}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_fetch_failures_total",
			Help: "Per-symbol provider fetch failures",
		}, []string{"symbol"}),
		ForecastCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_forecast_cache_hits_total",
			Help: "Forecasts served from the per-day cache",
		}),
		ForecastCacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_forecast_cache_misses_total",
			Help: "Forecast model fits",
		}),
		FigureBuildDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_figure_build_duration_seconds",
			Help:    "Figure bundle build latency (fetch through forecast)",
			Buckets: prometheus.DefBuckets,
		}),
		SnapshotsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_snapshots_recorded_total",
			Help: "Portfolio snapshots persisted to the recorder",
		}),
	}

	prometheus.MustRegister(
		m.RefreshDur,
		m.RefreshSkipped,
		m.FetchFailures,
		m.ForecastCacheHits,
		m.ForecastCacheMiss,
		m.FigureBuildDur,
		m.SnapshotsRecorded,
	)
	return m
}
