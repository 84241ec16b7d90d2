// Package forecast projects future invoice volume from monthly sales totals
// and scores the projection with standard accuracy metrics.
package forecast

import (
	"errors"
	"math"
)

// ErrInsufficientData is returned when a series is too short to fit or score.
var ErrInsufficientData = errors.New("forecast: insufficient data")

// Metrics scores predictions against actuals.
type Metrics struct {
	MAE                float64
	MSE                float64
	RMSE               float64
	MAPE               float64
	R2                 float64
	AccuracyPercentage float64
}

// CalculateMetrics compares actual and predicted values pairwise. Pairs with
// a NaN on either side are dropped; at least two clean pairs are required.
// MAPE guards division by zero by substituting 0.0001 for zero actuals, and
// the accuracy percentage is 100-MAPE clipped to [0, 100].
func CalculateMetrics(actual, predicted []float64) (*Metrics, error) {
	n := len(actual)
	if len(predicted) < n {
		n = len(predicted)
	}

	var cleanActual, cleanPredicted []float64
	for i := 0; i < n; i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		cleanActual = append(cleanActual, actual[i])
		cleanPredicted = append(cleanPredicted, predicted[i])
	}

	if len(cleanActual) < 2 {
		return nil, ErrInsufficientData
	}

	var sumAbs, sumSq, sumPct float64
	for i := range cleanActual {
		diff := cleanActual[i] - cleanPredicted[i]
		sumAbs += math.Abs(diff)
		sumSq += diff * diff

		denom := cleanActual[i]
		if denom == 0 {
			denom = 0.0001
		}
		sumPct += math.Abs(diff / denom)
	}

	count := float64(len(cleanActual))
	m := &Metrics{
		MAE:  sumAbs / count,
		MSE:  sumSq / count,
		MAPE: sumPct / count * 100,
	}
	m.RMSE = math.Sqrt(m.MSE)
	m.R2 = rSquared(cleanActual, cleanPredicted)
	m.AccuracyPercentage = math.Max(0, math.Min(100-m.MAPE, 100))

	return m, nil
}

// rSquared is the coefficient of determination. A constant actual series
// yields zero residual variance; R2 degenerates to zero unless the fit is
// exact.
func rSquared(actual, predicted []float64) float64 {
	var mean float64
	for _, a := range actual {
		mean += a
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i := range actual {
		ssRes += (actual[i] - predicted[i]) * (actual[i] - predicted[i])
		ssTot += (actual[i] - mean) * (actual[i] - mean)
	}

	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}
