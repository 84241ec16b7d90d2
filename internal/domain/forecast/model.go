package forecast

import (
	"fmt"
	"math"
	"time"
)

// Point is one period of the sales series.
type Point struct {
	Period time.Time
	Value  float64
}

// Forecaster fits a series and produces in-sample fitted values plus a
// future projection. Implementations are not safe for concurrent use; each
// fit gets its own instance.
type Forecaster interface {
	Fit(values []float64) error
	Fitted() []float64
	Forecast(horizon int) []float64
}

// NewForecaster returns a fresh model instance for one fit.
type NewForecaster func() Forecaster

// DampedTrend is an additive Holt model with a damped trend component. The
// damping keeps long-horizon projections from running away on short series.
type DampedTrend struct {
	Alpha float64 // level smoothing
	Beta  float64 // trend smoothing
	Phi   float64 // damping, in (0, 1]

	level  float64
	trend  float64
	fitted []float64
}

// NewDampedTrend returns a model with the default smoothing parameters.
func NewDampedTrend() Forecaster {
	return &DampedTrend{Alpha: 0.4, Beta: 0.2, Phi: 0.9}
}

// Fit runs the smoothing recursion over the series and records one-step-ahead
// fitted values.
func (d *DampedTrend) Fit(values []float64) error {
	if len(values) < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrInsufficientData, len(values))
	}

	d.level = values[0]
	d.trend = values[1] - values[0]
	d.fitted = make([]float64, len(values))
	d.fitted[0] = values[0]

	for i := 1; i < len(values); i++ {
		d.fitted[i] = d.level + d.Phi*d.trend

		prevLevel := d.level
		d.level = d.Alpha*values[i] + (1-d.Alpha)*(prevLevel+d.Phi*d.trend)
		d.trend = d.Beta*(d.level-prevLevel) + (1-d.Beta)*d.Phi*d.trend
	}
	return nil
}

// Fitted returns the one-step-ahead predictions over the training series.
func (d *DampedTrend) Fitted() []float64 {
	return d.fitted
}

// Forecast projects horizon periods past the end of the training series.
func (d *DampedTrend) Forecast(horizon int) []float64 {
	out := make([]float64, horizon)
	damp := 0.0
	for h := 1; h <= horizon; h++ {
		damp += math.Pow(d.Phi, float64(h))
		out[h-1] = d.level + damp*d.trend
	}
	return out
}

// SeasonalNaive repeats the last observed season. It serves as a baseline
// model for strongly periodic series and for sanity-checking the default.
type SeasonalNaive struct {
	Period int // season length in periods, default 12

	values []float64
	fitted []float64
}

// NewSeasonalNaive returns a baseline model with a 12-period season.
func NewSeasonalNaive() Forecaster {
	return &SeasonalNaive{Period: 12}
}

// Fit records the series. Points inside the first season predict themselves.
func (s *SeasonalNaive) Fit(values []float64) error {
	if len(values) < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrInsufficientData, len(values))
	}
	if s.Period <= 0 {
		s.Period = 12
	}

	s.values = append([]float64(nil), values...)
	s.fitted = make([]float64, len(values))
	for i, v := range values {
		if i >= s.Period {
			s.fitted[i] = values[i-s.Period]
		} else {
			s.fitted[i] = v
		}
	}
	return nil
}

// Fitted returns the season-lagged predictions over the training series.
func (s *SeasonalNaive) Fitted() []float64 {
	return s.fitted
}

// Forecast cycles through the last observed season.
func (s *SeasonalNaive) Forecast(horizon int) []float64 {
	period := s.Period
	if period > len(s.values) {
		period = len(s.values)
	}

	out := make([]float64, horizon)
	start := len(s.values) - period
	for i := 0; i < horizon; i++ {
		out[i] = s.values[start+i%period]
	}
	return out
}

// Result bundles a projection with its in-sample fit and accuracy.
type Result struct {
	Historical []Point
	Forecast   []Point
	Metrics    *Metrics
}

// Options tunes a forecast run. Zero values fall back to the defaults.
type Options struct {
	Horizon        int     // future periods to project (default 6)
	TrainingWindow int     // most recent periods to train on (default 24)
	OutlierFloor   float64 // drop periods at or below this total (default drops non-positive)
	Model          NewForecaster
}

func (o Options) withDefaults() Options {
	if o.Horizon <= 0 {
		o.Horizon = 6
	}
	if o.TrainingWindow <= 0 {
		o.TrainingWindow = 24
	}
	if o.Model == nil {
		o.Model = NewDampedTrend
	}
	return o
}

// Generate fits the model on the series tail and projects the next periods.
// Training is capped to the most recent TrainingWindow periods, periods at
// or below the outlier floor are dropped, and non-positive projected values
// are omitted from the result.
func Generate(series []Point, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	if len(series) > opts.TrainingWindow {
		series = series[len(series)-opts.TrainingWindow:]
	}

	var train []Point
	for _, p := range series {
		if p.Value > opts.OutlierFloor {
			train = append(train, p)
		}
	}
	if len(train) == 0 {
		return nil, fmt.Errorf("%w: no data after outlier filtering", ErrInsufficientData)
	}

	values := make([]float64, len(train))
	for i, p := range train {
		values[i] = p.Value
	}

	model := opts.Model()
	if err := model.Fit(values); err != nil {
		return nil, err
	}

	fitted := model.Fitted()
	historical := make([]Point, len(train))
	for i, p := range train {
		historical[i] = Point{Period: p.Period, Value: fitted[i]}
	}

	last := train[len(train)-1].Period
	projected := model.Forecast(opts.Horizon)
	forecast := make([]Point, 0, opts.Horizon)
	for h, v := range projected {
		if v <= 0 {
			continue
		}
		forecast = append(forecast, Point{
			Period: nextMonth(last, h+1),
			Value:  v,
		})
	}

	metrics, err := CalculateMetrics(values, fitted)
	if err != nil {
		metrics = nil
	}

	return &Result{Historical: historical, Forecast: forecast, Metrics: metrics}, nil
}

// nextMonth returns the first day of the month n months after t's month.
func nextMonth(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
}
