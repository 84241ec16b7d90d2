// Package extraction turns supplier invoice PDFs into validated invoice
// records. The Service is the dispatcher: it routes a (text, supplier key)
// pair to the registered parser pair, numbers the line items, and validates
// the mandatory header fields.
package extraction

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/extraction/extractor"
	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/extraction/normalizer"
	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/extraction/supplier"
	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
	"github.com/FACorreiaa/supplier-invoice-tracker/pkg/metrics"
)

// ErrUnknownSupplier indicates the supplied key has no registered parser
// pair. The caller must retry with a valid key; no extraction is attempted.
var ErrUnknownSupplier = errors.New("unknown supplier key")

// TextExtractor converts a document byte stream into a plain-text blob.
type TextExtractor interface {
	ExtractText(r io.Reader) (string, error)
}

// Service is the extraction pipeline entry point. It is stateless per call:
// concurrent extractions need no coordination.
type Service struct {
	extractor TextExtractor
	detector  *supplier.Detector
	logger    *slog.Logger
}

// NewService wires the pipeline. It validates the supplier registry so a
// misconfigured parser mapping fails here, at startup, rather than on the
// first request.
func NewService(tx TextExtractor, logger *slog.Logger) (*Service, error) {
	if err := supplier.ValidateRegistry(); err != nil {
		return nil, fmt.Errorf("supplier registry: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: tx,
		detector:  supplier.NewDetector(),
		logger:    logger,
	}, nil
}

// Extract runs the full pipeline on a PDF byte stream: text extraction,
// header and line-item parsing for the given supplier, and mandatory-field
// validation. On failure it returns a typed error, never a partial record.
func (s *Service) Extract(r io.Reader, key invoice.SupplierKey) (*invoice.Record, error) {
	start := time.Now()

	text, err := s.extractor.ExtractText(r)
	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues(key.String(), extractOutcome(err)).Inc()
		return nil, err
	}

	rec, err := s.ExtractFromText(text, key)
	if err != nil {
		return nil, err
	}

	metrics.ExtractionDuration.WithLabelValues(key.String()).Observe(time.Since(start).Seconds())
	return rec, nil
}

// ExtractDocumentText pulls the raw text out of a PDF byte stream without
// parsing it. Used when the supplier must be detected before dispatch.
func (s *Service) ExtractDocumentText(r io.Reader) (string, error) {
	return s.extractor.ExtractText(r)
}

// ExtractFromText parses an already-extracted text blob. It fails with
// ErrUnknownSupplier for an unregistered key regardless of text content, and
// with *invoice.MissingFieldsError when any mandatory header field is absent.
func (s *Service) ExtractFromText(text string, key invoice.SupplierKey) (*invoice.Record, error) {
	pair, ok := supplier.Lookup(key)
	if !ok {
		metrics.ExtractionsTotal.WithLabelValues(key.String(), "unknown_supplier").Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnknownSupplier, key)
	}

	header, err := pair.Header(text)
	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues(key.String(), extractOutcome(err)).Inc()
		return nil, fmt.Errorf("parse header for %s: %w", key, err)
	}
	if err := header.Validate(); err != nil {
		metrics.ExtractionsTotal.WithLabelValues(key.String(), "missing_fields").Inc()
		return nil, err
	}

	items, rowErrs := pair.LineItems(text)
	for _, rowErr := range rowErrs {
		// Per-row failures are absorbed: the rest of the document stays usable.
		s.logger.Warn("skipping line item",
			slog.String("supplier", key.String()),
			slog.String("invoice_no", header.InvoiceNo),
			slog.String("error", rowErr.Error()),
		)
		metrics.LineItemsSkipped.WithLabelValues(key.String()).Inc()
	}
	for i := range items {
		items[i].LineNumber = i + 1
	}

	metrics.ExtractionsTotal.WithLabelValues(key.String(), "ok").Inc()
	return &invoice.Record{
		SupplierKey: key,
		Header:      header,
		Address:     normalizer.ParseAddress(header.RawAddress),
		LineItems:   items,
	}, nil
}

// DetectSupplier suggests the supplier key for a text blob based on anchor
// phrases. The suggestion is advisory; Extract still requires an explicit key.
func (s *Service) DetectSupplier(text string) (invoice.SupplierKey, bool) {
	return s.detector.Detect(text)
}

func extractOutcome(err error) string {
	switch {
	case errors.Is(err, extractor.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, extractor.ErrUnreadableDocument):
		return "unreadable"
	case errors.Is(err, normalizer.ErrMalformedAmount):
		return "malformed_amount"
	default:
		return "error"
	}
}
