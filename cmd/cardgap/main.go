package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/guarzo/cardgap/internal/cache"
	"github.com/guarzo/cardgap/internal/config"
	"github.com/guarzo/cardgap/internal/ebay"
	"github.com/guarzo/cardgap/internal/point130"
	"github.com/guarzo/cardgap/internal/refresh"
	"github.com/guarzo/cardgap/internal/rules"
	"github.com/guarzo/cardgap/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}

	resultCache, err := cache.New(cfg.CachePath)
	if err != nil {
		return err
	}
	if pruned, err := resultCache.Prune(); err != nil {
		log.Printf("cache prune: %v", err)
	} else if pruned > 0 {
		log.Printf("cache: pruned %d expired entries", pruned)
	}

	classifier, err := rules.NewMemoized(rules.Default(), 4096)
	if err != nil {
		return err
	}

	var fetchers []refresh.Fetcher
	if cfg.EbayAppID != "" {
		client := ebay.NewClient(cfg.EbayAppID)
		client.SetRateLimit(cfg.RatePerSec)
		fetchers = append(fetchers, client)
	}
	if cfg.Point130Enabled {
		client := point130.NewClient()
		client.SetRateLimit(cfg.RatePerSec)
		fetchers = append(fetchers, client)
	}
	if len(fetchers) == 0 {
		log.Println("warning: no fetchers configured; refresh batches will be no-ops")
	}

	worker := refresh.NewWorker(store, fetchers, classifier, resultCache, refresh.Config{
		BatchSize: cfg.BatchSize,
		RateLimit: rate.Limit(cfg.RatePerSec),
		CacheTTL:  cfg.CacheTTL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RefreshCron, func() {
		if updated, err := worker.RunBatch(ctx); err != nil {
			log.Printf("refresh batch: %v", err)
		} else if updated > 0 {
			log.Printf("refresh batch: updated %d cards", updated)
		}
	}); err != nil {
		return err
	}

	// First batch right away; the schedule takes over after that.
	if updated, err := worker.RunBatch(ctx); err != nil {
		log.Printf("initial refresh batch: %v", err)
	} else {
		log.Printf("initial refresh batch: updated %d cards", updated)
	}

	scheduler.Start()
	defer scheduler.Stop()

	<-ctx.Done()
	log.Println("shutting down")
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("metrics server: %v", err)
	}
}
