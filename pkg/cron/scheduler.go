// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/export"
	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/forecast"
	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/staging"
	"github.com/FACorreiaa/supplier-invoice-tracker/pkg/storage"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron        *cron.Cron
	forecasts   *forecast.Service
	staged      *staging.Store
	exports     *export.Service
	archive     storage.Archive
	refreshSpec string
	archiveSpec string
	sweepEvery  time.Duration
	logger      *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(forecasts *forecast.Service, staged *staging.Store, exports *export.Service, archive storage.Archive, refreshSpec, archiveSpec string, sweepEvery time.Duration, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:        c,
		forecasts:   forecasts,
		staged:      staged,
		exports:     exports,
		archive:     archive,
		refreshSpec: refreshSpec,
		archiveSpec: archiveSpec,
		sweepEvery:  sweepEvery,
		logger:      logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.refreshSpec, s.refreshForecasts)
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc(everySpec(s.sweepEvery), s.sweepStaging)
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc(s.archiveSpec, s.archiveExports)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers a forecast refresh (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.refreshForecasts()
}

func everySpec(interval time.Duration) string {
	if interval < time.Minute {
		interval = time.Minute
	}
	return "@every " + interval.String()
}

// refreshForecasts regenerates all cached forecasts from stored invoices.
func (s *Scheduler) refreshForecasts() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	s.logger.Info("starting forecast refresh")

	start := time.Now()
	if err := s.forecasts.RefreshAll(ctx); err != nil {
		s.logger.Error("forecast refresh failed", slog.Any("error", err))
		return
	}

	s.logger.Info("forecast refresh completed",
		slog.Duration("elapsed", time.Since(start)),
	)
}

// sweepStaging evicts staged records that were never confirmed.
func (s *Scheduler) sweepStaging() {
	evicted := s.staged.Sweep()
	if evicted > 0 {
		s.logger.Info("staging sweep completed", slog.Int("evicted", evicted))
	}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// archiveExports writes a CSV and an XLSX snapshot of all stored invoices to
// the archive.
func (s *Scheduler) archiveExports() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stamp := time.Now().Format("2006-01-02")

	csvBytes, err := s.exports.ExportCSV(ctx)
	if err != nil {
		s.logger.Error("export archive failed", slog.Any("error", err))
		return
	}
	name := fmt.Sprintf("invoices-%s.csv", stamp)
	if _, err := s.archive.Save(ctx, name, "text/csv", bytes.NewReader(csvBytes)); err != nil {
		s.logger.Error("export archive failed", slog.String("artifact", name), slog.Any("error", err))
		return
	}

	xlsxBytes, err := s.exports.ExportXLSX(ctx)
	if err != nil {
		s.logger.Error("export archive failed", slog.Any("error", err))
		return
	}
	name = fmt.Sprintf("invoices-%s.xlsx", stamp)
	if _, err := s.archive.Save(ctx, name, xlsxContentType, bytes.NewReader(xlsxBytes)); err != nil {
		s.logger.Error("export archive failed", slog.String("artifact", name), slog.Any("error", err))
		return
	}

	s.logger.Info("export archive completed", slog.String("date", stamp))
}
