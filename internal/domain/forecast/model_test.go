package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlySeries(n int, base, step float64) []Point {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	series := make([]Point, n)
	for i := 0; i < n; i++ {
		series[i] = Point{
			Period: start.AddDate(0, i, 0),
			Value:  base + step*float64(i),
		}
	}
	return series
}

func TestDampedTrendFollowsLinearSeries(t *testing.T) {
	model := NewDampedTrend()
	values := []float64{100, 110, 120, 130, 140, 150}

	require.NoError(t, model.Fit(values))

	fitted := model.Fitted()
	require.Len(t, fitted, len(values))

	// one-step-ahead predictions track a clean trend closely
	for i := 2; i < len(values); i++ {
		assert.InDelta(t, values[i], fitted[i], 15)
	}

	projected := model.Forecast(3)
	require.Len(t, projected, 3)
	assert.Greater(t, projected[0], values[len(values)-1]*0.9)
	// damped trend keeps increasing but decelerates
	assert.Greater(t, projected[1], projected[0])
	assert.Less(t, projected[2]-projected[1], projected[1]-projected[0])
}

func TestDampedTrendTooShort(t *testing.T) {
	model := NewDampedTrend()
	assert.ErrorIs(t, model.Fit([]float64{100}), ErrInsufficientData)
}

func TestSeasonalNaiveRepeatsLastSeason(t *testing.T) {
	model := &SeasonalNaive{Period: 4}
	values := []float64{10, 20, 30, 40, 11, 21, 31, 41}

	require.NoError(t, model.Fit(values))

	fitted := model.Fitted()
	require.Len(t, fitted, len(values))
	// within the first season points predict themselves
	assert.Equal(t, 10.0, fitted[0])
	// afterwards the season-lagged value
	assert.Equal(t, 10.0, fitted[4])
	assert.Equal(t, 40.0, fitted[7])

	projected := model.Forecast(6)
	assert.Equal(t, []float64{11, 21, 31, 41, 11, 21}, projected)
}

func TestSeasonalNaiveShortSeriesClampsSeason(t *testing.T) {
	model := &SeasonalNaive{Period: 12}
	values := []float64{100, 200, 300}

	require.NoError(t, model.Fit(values))

	projected := model.Forecast(4)
	assert.Equal(t, []float64{100, 200, 300, 100}, projected)
}

func TestGenerateDefaults(t *testing.T) {
	series := monthlySeries(30, 1000, 50)

	res, err := Generate(series, Options{})
	require.NoError(t, err)

	// training capped to the 24 most recent periods
	assert.Len(t, res.Historical, 24)
	assert.Equal(t, series[6].Period, res.Historical[0].Period)

	// six future months, starting right after the last observation
	require.Len(t, res.Forecast, 6)
	last := series[len(series)-1].Period
	assert.Equal(t, last.AddDate(0, 1, 0), res.Forecast[0].Period)
	assert.Equal(t, last.AddDate(0, 6, 0), res.Forecast[5].Period)

	require.NotNil(t, res.Metrics)
	assert.Greater(t, res.Metrics.AccuracyPercentage, 50.0)
}

func TestGenerateOutlierFloor(t *testing.T) {
	series := monthlySeries(12, 1000, 50)
	series[3].Value = 5 // bad month drops out of training

	res, err := Generate(series, Options{OutlierFloor: 100})
	require.NoError(t, err)
	assert.Len(t, res.Historical, 11)
}

func TestGenerateAllFiltered(t *testing.T) {
	series := monthlySeries(6, 10, 1)

	_, err := Generate(series, Options{OutlierFloor: 1000})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestGenerateDropsNonPositiveProjections(t *testing.T) {
	// steep decline drives the projection below zero
	series := monthlySeries(12, 1200, -100)

	res, err := Generate(series, Options{})
	require.NoError(t, err)
	for _, p := range res.Forecast {
		assert.Greater(t, p.Value, 0.0)
	}
}
