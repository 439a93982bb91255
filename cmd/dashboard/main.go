package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/api"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/collector"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/config"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/currency"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/forecast"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/metrics"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/recorder"
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] dashboard starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	defaultPeriod, _ := model.ParsePeriod(cfg.Dashboard.DefaultPeriod)

	// Init fetcher and collector
	fetcher := collector.NewYahooFetcher(cfg.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher)

	// Long-lived caches and metrics
	rates := currency.NewRateCache(cfg.Proxy)
	fcache := forecast.NewCache()
	m := metrics.New()

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init scheduler
	sched := scheduler.NewScheduler(col, rates, fcache, m, rec,
		cfg.Holdings, cfg.Dashboard.DisplayCurrency, cfg.Dashboard.ForecastHorizon)
	if err := sched.Register(cfg.Dashboard.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register refresh task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	handler := api.NewHandler(col, rates, fcache, m, sched,
		cfg.Holdings, defaultPeriod, cfg.Dashboard.ForecastHorizon)
	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      api.SetupRoutes(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	go func() {
		log.Printf("[INFO] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] dashboard is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] dashboard stopped")
}
