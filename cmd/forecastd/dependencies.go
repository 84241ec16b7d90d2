package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/export"
	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/forecast"
	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/staging"
	"github.com/FACorreiaa/supplier-invoice-tracker/pkg/config"
	"github.com/FACorreiaa/supplier-invoice-tracker/pkg/cron"
	"github.com/FACorreiaa/supplier-invoice-tracker/pkg/db"
	"github.com/FACorreiaa/supplier-invoice-tracker/pkg/storage"
)

// Dependencies holds all daemon dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	InvoiceRepo     *invoice.Repository
	StagingStore    *staging.Store
	InvoiceService  *invoice.Service
	ForecastService *forecast.Service
	ExportService   *export.Service
	ExportArchive   storage.Archive
	Scheduler       *cron.Scheduler
}

// InitDependencies initializes all daemon dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	database, err := db.New(db.Config{
		DSN:             cfg.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	deps.DB = database

	if err := deps.DB.RunMigrations(); err != nil {
		deps.DB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database connected and migrations completed successfully")

	deps.InvoiceRepo = invoice.NewRepository(deps.DB.Pool)
	deps.StagingStore = staging.NewStore(cfg.Staging.TTL, logger)
	deps.InvoiceService = invoice.NewService(deps.InvoiceRepo, deps.StagingStore, logger)
	deps.ForecastService = forecast.NewService(deps.InvoiceRepo, forecast.Options{
		Horizon:        cfg.Forecast.Horizon,
		TrainingWindow: cfg.Forecast.TrainingWindow,
	}, logger)
	deps.ExportService = export.NewService(deps.InvoiceService, logger)

	archive, err := storage.NewLocalArchive(cfg.Export.OutputDir)
	if err != nil {
		deps.DB.Close()
		return nil, fmt.Errorf("failed to init export archive: %w", err)
	}
	deps.ExportArchive = archive

	deps.Scheduler = cron.NewScheduler(
		deps.ForecastService,
		deps.StagingStore,
		deps.ExportService,
		deps.ExportArchive,
		cfg.Forecast.RefreshSpec,
		cfg.Export.ArchiveSpec,
		cfg.Staging.SweepInterval,
		logger,
	)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// StartMetricsServer exposes Prometheus metrics when enabled.
func (d *Dependencies) StartMetricsServer() {
	if !d.Config.Observability.MetricsEnabled {
		return
	}

	addr := fmt.Sprintf(":%d", d.Config.Observability.MetricsPort)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		d.Logger.Info("metrics server listening", slog.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			d.Logger.Error("metrics server stopped", slog.Any("error", err))
		}
	}()
}

// Close releases held resources.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
