// Package scheduler drives the periodic portfolio refresh.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/analyzer"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/collector"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/currency"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/forecast"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/metrics"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/portfolio"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/recorder"
)

// Scheduler refreshes the portfolio snapshot on a cron interval and
// keeps the latest one for the API. Overlapping ticks are skipped
// rather than queued: an in-flight refresh owns the shared state until
// it finishes.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Rates     *currency.RateCache
	Forecasts *forecast.Cache
	Metrics   *metrics.Metrics
	Recorder  recorder.Recorder

	holdings []model.Holding
	assets   []model.Asset
	currency string
	horizon  int

	busy sync.Mutex // held for the duration of one refresh

	mu     sync.RWMutex
	latest *model.PortfolioSnapshot
}

// NewScheduler creates a scheduler over the configured holdings.
func NewScheduler(col *collector.Collector, rates *currency.RateCache, fcache *forecast.Cache, m *metrics.Metrics, rec recorder.Recorder, holdings []model.Holding, displayCurrency string, horizon int) *Scheduler {
	assets := make([]model.Asset, len(holdings))
	for i, h := range holdings {
		assets[i] = model.Asset{Symbol: h.Symbol, Kind: h.Kind}
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Rates:     rates,
		Forecasts: fcache,
		Metrics:   m,
		Recorder:  rec,
		holdings:  holdings,
		assets:    assets,
		currency:  displayCurrency,
		horizon:   horizon,
	}
}

// Register adds the refresh task under the given cron spec (seconds
// granularity).
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// Latest returns the most recent snapshot, refreshing synchronously the
// first time (or when a caller needs one before the first tick fired).
func (s *Scheduler) Latest() *model.PortfolioSnapshot {
	s.mu.RLock()
	snap := s.latest
	s.mu.RUnlock()
	if snap != nil {
		return snap
	}
	s.RefreshNow()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// RefreshNow executes the refresh immediately (manual trigger or first
// API hit before any tick).
func (s *Scheduler) RefreshNow() { s.refreshTask() }

func (s *Scheduler) refreshTask() {
	if !s.busy.TryLock() {
		log.Println("[INFO] refresh still in flight, skipping tick")
		if s.Metrics != nil {
			s.Metrics.RefreshSkipped.Inc()
		}
		return
	}
	defer s.busy.Unlock()

	// A failure anywhere in one refresh must not take the process down;
	// the next tick is the retry.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] refresh panic recovered: %v", r)
		}
	}()

	start := time.Now()

	an := analyzer.New(s.Collector, s.Rates, s.Forecasts, s.Metrics, s.assets, s.horizon)
	an.FetchData(model.Period1D)

	var evt recorder.RefreshEvent
	for _, a := range s.assets {
		switch an.Outcome(a.Symbol) {
		case collector.StatusFetched:
			evt.Fetched++
		case collector.StatusEmpty:
			evt.Empty++
		default:
			evt.Failed++
		}
	}

	quotes := portfolio.QuotesFromOutcomes(an.Quotes())
	snap := portfolio.BuildSnapshot(s.holdings, quotes, s.currency, time.Now())

	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()

	if err := s.Recorder.RecordSnapshot(snap); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
	} else if s.Metrics != nil {
		s.Metrics.SnapshotsRecorded.Inc()
	}

	evt.Duration = time.Since(start)
	if err := s.Recorder.RecordRefresh(&evt); err != nil {
		log.Printf("[ERROR] record refresh: %v", err)
	}
	if s.Metrics != nil {
		s.Metrics.RefreshDur.Observe(evt.Duration.Seconds())
	}
	log.Printf("[INFO] refresh done in %s (fetched=%d empty=%d failed=%d)",
		evt.Duration.Round(time.Millisecond), evt.Fetched, evt.Empty, evt.Failed)
}
