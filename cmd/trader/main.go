package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hjmartin/autobidder/internal/bid"
	"github.com/hjmartin/autobidder/internal/bus"
	"github.com/hjmartin/autobidder/internal/config"
	"github.com/hjmartin/autobidder/internal/ladder"
	"github.com/hjmartin/autobidder/internal/market"
	"github.com/hjmartin/autobidder/internal/pricing"
	"github.com/hjmartin/autobidder/internal/refprice"
	"github.com/hjmartin/autobidder/internal/scheduler"
	"github.com/hjmartin/autobidder/internal/store"
	"github.com/hjmartin/autobidder/internal/stream"
	"github.com/hjmartin/autobidder/internal/version"
	"github.com/hjmartin/autobidder/internal/watch"
)

func main() {
	configPath := flag.String("config", "configs/trader.yaml", "path to config file")
	autostart := flag.Bool("start", true, "begin bidding immediately")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting trader",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"market_url", cfg.Market.BaseURL,
		"platform", cfg.Market.Platform,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Select the item store backend
	var itemStore store.Store
	var pg *store.PGStore
	if cfg.Database.Host != "" {
		pg, err = store.ConnectPG(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		itemStore = pg
	} else {
		itemStore = store.NewFileStore(cfg.Items.File, logger)
		logger.Info("using file item store", "path", cfg.Items.File)
	}

	items, err := itemStore.LoadItems(ctx)
	if err != nil {
		logger.Error("failed to load candidate list", "error", err)
		os.Exit(1)
	}
	if len(items) == 0 {
		logger.Warn("candidate list is empty, nothing will be bid on")
	}
	logger.Info("candidate list loaded", "items", len(items))

	// Price ladder
	priceLadder := ladder.Default()
	if len(cfg.Ladder.Tiers) > 0 {
		tiers := make([]ladder.Tier, len(cfg.Ladder.Tiers))
		for i, t := range cfg.Ladder.Tiers {
			tiers[i] = ladder.Tier{Ceiling: t.Ceiling, Step: t.Step}
		}
		priceLadder, err = ladder.New(tiers)
		if err != nil {
			logger.Error("invalid ladder configuration", "error", err)
			os.Exit(1)
		}
	}

	// Marketplace client and reference lookup
	client := market.NewHTTPClient(
		cfg.Market.BaseURL,
		market.WithPlatform(cfg.Market.Platform),
		market.WithTimeout(cfg.Market.Timeout),
		market.WithLogger(logger),
	)
	lookup := refprice.NewHTTPLookup(cfg.Reference.URL, cfg.Reference.Timeout, logger)

	// Presentation stream
	hub := stream.NewHub()
	policy := pricing.New(priceLadder, itemStore, hub.Publish, logger)

	queue := bus.New()
	sched := scheduler.New(
		scheduler.Config{
			Platform:          cfg.Market.Platform,
			CycleInterval:     cfg.Bidding.CycleInterval,
			TickInterval:      cfg.Bidding.TickInterval,
			AutoUpdate:        cfg.Bidding.AutoUpdate,
			UpdateInterval:    cfg.Bidding.UpdateInterval,
			SessionMax:        cfg.Bidding.SessionMax,
			PacingPause:       cfg.Bidding.PacingPause,
			BanStep:           cfg.Bidding.BanStep,
			ErrorLimit:        cfg.Bidding.ErrorLimit,
			DecayInterval:     cfg.Bidding.DecayInterval,
			DeviationPct:      cfg.Bidding.DeviationPct,
			MinBidSamples:     cfg.Bidding.MinBidSamples,
			RepriceHorizonSec: cfg.Watcher.RepriceHorizonSec,
			Bid: bid.Config{
				MinCredits: cfg.Bidding.MinCredits,
				PageSize:   cfg.Watcher.PageSize,
				SearchKind: cfg.Watcher.SearchKind,
			},
			Watch: watch.Config{
				HorizonSec:   cfg.Watcher.HorizonSec,
				PageSize:     cfg.Watcher.PageSize,
				MaxPages:     cfg.Watcher.MaxPages,
				PollInterval: cfg.Watcher.PollInterval,
				SearchKind:   cfg.Watcher.SearchKind,
			},
		},
		client, lookup, policy, priceLadder, items, queue, hub, logger,
	)

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: createMetricsHandler(cfg, pg, sched),
	}
	streamServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Stream.Port),
		Handler: createStreamHandler(cfg, hub, logger),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("starting stream server", "port", cfg.Stream.Port, "path", cfg.Stream.Path)
		if err := streamServer.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("stream server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		metricsServer.Shutdown(shutdownCtx)
		streamServer.Shutdown(shutdownCtx)
		return nil
	})

	if *autostart {
		if err := sched.Start(ctx); err != nil {
			logger.Error("failed to start bidding", "error", err)
			cancel()
		}
	} else {
		logger.Info("autostart disabled, scheduler idle")
	}

	logger.Info("trader running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("trader exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("trader stopped")
}

// createMetricsHandler serves Prometheus metrics and the health check.
func createMetricsHandler(cfg *config.TraderConfig, pg *store.PGStore, sched *scheduler.Scheduler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancelHealth := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancelHealth()

		health := struct {
			Status     string         `json:"status"`
			State      string         `json:"state"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			State:      sched.CurrentState().String(),
			Components: make(map[string]any),
		}

		if pg != nil {
			if err := pg.Ping(ctx); err != nil {
				health.Status = "unhealthy"
				health.Components["database"] = map[string]string{
					"status": "disconnected",
					"error":  err.Error(),
				}
			} else {
				health.Components["database"] = "connected"
			}
		}

		sess := sched.Session()
		health.Components["session"] = map[string]any{
			"cycle":    sess.Cycle,
			"errors":   sess.Errors,
			"ban_wait": sess.BanWait,
			"won":      sess.Won,
			"sold":     sess.Sold,
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}

// createStreamHandler serves the websocket observer endpoint.
func createStreamHandler(cfg *config.TraderConfig, hub *stream.Hub, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(cfg.Stream.Path, stream.NewServer(hub, logger).Handler())
	return mux
}
