package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
	"github.com/FACorreiaa/supplier-invoice-tracker/pkg/metrics"
)

// SeriesSource supplies the monthly sales series the model trains on.
type SeriesSource interface {
	MonthlySales(ctx context.Context, key *invoice.SupplierKey) ([]invoice.SalesPoint, error)
}

// Service generates and caches sales forecasts per supplier. A nil supplier
// key addresses the all-suppliers aggregate.
type Service struct {
	source SeriesSource
	opts   Options
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]cached
}

type cached struct {
	result      *Result
	generatedAt time.Time
}

// NewService creates a forecast service.
func NewService(source SeriesSource, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source: source,
		opts:   opts,
		logger: logger,
		cache:  make(map[string]cached),
	}
}

const aggregateKey = "ALL"

func cacheKey(key *invoice.SupplierKey) string {
	if key == nil {
		return aggregateKey
	}
	return key.String()
}

// Forecast returns the cached projection for a supplier, generating it on
// first use.
func (s *Service) Forecast(ctx context.Context, key *invoice.SupplierKey) (*Result, error) {
	ck := cacheKey(key)

	s.mu.RLock()
	c, ok := s.cache[ck]
	s.mu.RUnlock()
	if ok {
		return c.result, nil
	}

	return s.Refresh(ctx, key)
}

// Refresh regenerates the projection for a supplier and replaces the cached
// copy.
func (s *Service) Refresh(ctx context.Context, key *invoice.SupplierKey) (*Result, error) {
	ck := cacheKey(key)

	series, err := s.loadSeries(ctx, key)
	if err != nil {
		metrics.ForecastRefreshTotal.WithLabelValues(ck, "error").Inc()
		return nil, err
	}

	result, err := Generate(series, s.opts)
	if err != nil {
		metrics.ForecastRefreshTotal.WithLabelValues(ck, "error").Inc()
		return nil, fmt.Errorf("generate forecast for %s: %w", ck, err)
	}

	s.mu.Lock()
	s.cache[ck] = cached{result: result, generatedAt: time.Now()}
	s.mu.Unlock()

	metrics.ForecastRefreshTotal.WithLabelValues(ck, "success").Inc()
	s.logger.Info("forecast refreshed",
		slog.String("series", ck),
		slog.Int("training_points", len(result.Historical)),
		slog.Int("forecast_points", len(result.Forecast)))
	return result, nil
}

// RefreshAll regenerates the aggregate and every per-supplier projection.
// Suppliers whose series is still too short are logged and skipped.
func (s *Service) RefreshAll(ctx context.Context) error {
	if _, err := s.Refresh(ctx, nil); err != nil {
		s.logger.Warn("aggregate forecast refresh failed", slog.Any("error", err))
	}

	for _, key := range invoice.Keys() {
		key := key
		if _, err := s.Refresh(ctx, &key); err != nil {
			s.logger.Warn("supplier forecast refresh failed",
				slog.String("supplier", key.String()),
				slog.Any("error", err))
		}
	}
	return nil
}

// Validate cross-validates the model on a supplier's series.
func (s *Service) Validate(ctx context.Context, key *invoice.SupplierKey, opts CVOptions) ([]FoldResult, error) {
	series, err := s.loadSeries(ctx, key)
	if err != nil {
		return nil, err
	}
	if opts.Model == nil {
		opts.Model = s.opts.Model
	}
	return CrossValidate(series, opts)
}

func (s *Service) loadSeries(ctx context.Context, key *invoice.SupplierKey) ([]Point, error) {
	sales, err := s.source.MonthlySales(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load sales series: %w", err)
	}

	series := make([]Point, len(sales))
	for i, sp := range sales {
		series[i] = Point{Period: sp.Period, Value: sp.Total.InexactFloat64()}
	}
	return series, nil
}
