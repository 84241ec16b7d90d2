package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
)

type fakeSeriesSource struct {
	series map[string][]invoice.SalesPoint
	calls  int
	err    error
}

func (f *fakeSeriesSource) MonthlySales(ctx context.Context, key *invoice.SupplierKey) ([]invoice.SalesPoint, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	ck := "ALL"
	if key != nil {
		ck = key.String()
	}
	return f.series[ck], nil
}

func salesSeries(n int, base float64) []invoice.SalesPoint {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	out := make([]invoice.SalesPoint, n)
	for i := range out {
		out[i] = invoice.SalesPoint{
			Period: start.AddDate(0, i, 0),
			Total:  decimal.NewFromFloat(base + float64(i)*50),
		}
	}
	return out
}

func TestServiceForecastCachesResult(t *testing.T) {
	source := &fakeSeriesSource{series: map[string][]invoice.SalesPoint{
		"ALL": salesSeries(18, 2000),
	}}
	svc := NewService(source, Options{}, nil)

	first, err := svc.Forecast(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Len(t, first.Forecast, 6)

	second, err := svc.Forecast(context.Background(), nil)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, source.calls, "cached forecast should not reload the series")
}

func TestServiceRefreshReplacesCache(t *testing.T) {
	source := &fakeSeriesSource{series: map[string][]invoice.SalesPoint{
		"ALL": salesSeries(18, 2000),
	}}
	svc := NewService(source, Options{}, nil)

	first, err := svc.Forecast(context.Background(), nil)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), nil)
	require.NoError(t, err)
	assert.NotSame(t, first, refreshed)
	assert.Equal(t, 2, source.calls)
}

func TestServiceRefreshSourceFailure(t *testing.T) {
	source := &fakeSeriesSource{err: assert.AnError}
	svc := NewService(source, Options{}, nil)

	_, err := svc.Forecast(context.Background(), nil)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestServicePerSupplierSeries(t *testing.T) {
	key := invoice.Supplier2
	source := &fakeSeriesSource{series: map[string][]invoice.SalesPoint{
		"ALL":       salesSeries(18, 5000),
		"SUPPLIER2": salesSeries(18, 1000),
	}}
	svc := NewService(source, Options{}, nil)

	aggregate, err := svc.Forecast(context.Background(), nil)
	require.NoError(t, err)
	supplier, err := svc.Forecast(context.Background(), &key)
	require.NoError(t, err)

	assert.Greater(t, aggregate.Forecast[0].Value, supplier.Forecast[0].Value)
}

func TestServiceRefreshAllSkipsShortSeries(t *testing.T) {
	source := &fakeSeriesSource{series: map[string][]invoice.SalesPoint{
		"ALL":       salesSeries(18, 5000),
		"SUPPLIER1": salesSeries(18, 1500),
		// SUPPLIER2 and SUPPLIER3 have no sales yet
	}}
	svc := NewService(source, Options{}, nil)

	require.NoError(t, svc.RefreshAll(context.Background()))

	_, err := svc.Forecast(context.Background(), nil)
	require.NoError(t, err)

	key := invoice.Supplier1
	_, err = svc.Forecast(context.Background(), &key)
	require.NoError(t, err)
}

func TestServiceValidate(t *testing.T) {
	source := &fakeSeriesSource{series: map[string][]invoice.SalesPoint{
		"ALL": salesSeries(30, 2000),
	}}
	svc := NewService(source, Options{}, nil)

	folds, err := svc.Validate(context.Background(), nil, CVOptions{})
	require.NoError(t, err)
	assert.Len(t, folds, 4)
}
