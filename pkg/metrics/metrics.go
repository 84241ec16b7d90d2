// Package metrics exposes the Prometheus instruments shared across the
// application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExtractionsTotal counts extraction attempts by supplier key and outcome
	// (ok, empty_input, unreadable, unknown_supplier, missing_fields,
	// malformed_amount).
	ExtractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_extractions_total",
		Help: "Invoice extraction attempts by supplier and outcome.",
	}, []string{"supplier", "outcome"})

	// LineItemsSkipped counts line-item rows dropped for numeric conversion
	// failures.
	LineItemsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_line_items_skipped_total",
		Help: "Line item rows skipped during extraction.",
	}, []string{"supplier"})

	// ExtractionDuration observes end-to-end extraction latency in seconds.
	ExtractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invoice_extraction_duration_seconds",
		Help:    "End-to-end PDF extraction duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"supplier"})

	// ForecastRefreshTotal counts forecast refresh runs by outcome.
	ForecastRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forecast_refresh_total",
		Help: "Forecast refresh runs by outcome.",
	}, []string{"period", "outcome"})
)
