// Command forecastd keeps sales forecasts warm. It refreshes projections
// from stored invoices on a cron schedule, sweeps expired staging records,
// archives nightly CSV/XLSX snapshots, and serves Prometheus metrics.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/FACorreiaa/supplier-invoice-tracker/pkg/config"
)

func main() {
	once := flag.Bool("once", false, "run a single forecast refresh and exit")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	deps, err := InitDependencies(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dependencies", slog.Any("error", err))
		os.Exit(1)
	}
	defer deps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *once {
		if err := deps.ForecastService.RefreshAll(ctx); err != nil {
			logger.Error("forecast refresh failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	// Warm the caches once at startup before the schedule takes over.
	if err := deps.ForecastService.RefreshAll(ctx); err != nil {
		logger.Warn("initial forecast refresh failed", slog.Any("error", err))
	}

	if err := deps.Scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	deps.StartMetricsServer()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	<-deps.Scheduler.Stop().Done()
}
