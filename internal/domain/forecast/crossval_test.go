package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatForecaster predicts a constant regardless of the series.
type flatForecaster struct {
	value  float64
	fitted []float64
}

func (f *flatForecaster) Fit(values []float64) error {
	f.fitted = make([]float64, len(values))
	for i := range f.fitted {
		f.fitted[i] = f.value
	}
	return nil
}

func (f *flatForecaster) Fitted() []float64 { return f.fitted }

func (f *flatForecaster) Forecast(h int) []float64 {
	out := make([]float64, h)
	for i := range out {
		out[i] = f.value
	}
	return out
}

func TestCrossValidateFoldLayout(t *testing.T) {
	series := monthlySeries(30, 1000, 0) // constant series

	folds, err := CrossValidate(series, CVOptions{
		Model: func() Forecaster { return &flatForecaster{value: 1000} },
	})
	require.NoError(t, err)

	// fold starts at 12, 16, 20, 24 (each needs 6 test periods from 30)
	require.Len(t, folds, 4)

	first := folds[0]
	assert.Equal(t, series[11].Period, first.TrainEnd)
	assert.Equal(t, series[12].Period, first.TestStart)
	assert.Equal(t, series[17].Period, first.TestEnd)

	// predictions equal the constant series: perfect accuracy
	for _, f := range folds {
		assert.Equal(t, 100.0, f.Accuracy)
		assert.Zero(t, f.MAE)
		assert.Zero(t, f.RMSE)
	}
}

func TestCrossValidateTrainingWindowCap(t *testing.T) {
	series := monthlySeries(40, 1000, 10)

	var trainSizes []int
	folds, err := CrossValidate(series, CVOptions{
		Workers: 1,
		Model: func() Forecaster {
			return &sizeRecordingForecaster{sizes: &trainSizes}
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, folds)

	for _, size := range trainSizes {
		assert.LessOrEqual(t, size, 24)
	}
}

type sizeRecordingForecaster struct {
	flatForecaster
	sizes *[]int
}

func (f *sizeRecordingForecaster) Fit(values []float64) error {
	*f.sizes = append(*f.sizes, len(values))
	return f.flatForecaster.Fit(values)
}

func TestCrossValidateNotEnoughData(t *testing.T) {
	series := monthlySeries(18, 1000, 10) // needs more than 12+6

	_, err := CrossValidate(series, CVOptions{})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCrossValidateRealModel(t *testing.T) {
	series := monthlySeries(36, 1000, 25)

	folds, err := CrossValidate(series, CVOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, folds)

	for _, f := range folds {
		assert.Greater(t, f.Accuracy, 50.0)
		assert.True(t, f.TrainEnd.Before(f.TestStart))
	}
}
