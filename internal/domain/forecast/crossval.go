package forecast

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// FoldResult scores one expanding-window fold.
type FoldResult struct {
	TrainEnd  time.Time
	TestStart time.Time
	TestEnd   time.Time
	Accuracy  float64
	MAE       float64
	RMSE      float64
}

// CVOptions tunes cross-validation. Zero values fall back to the defaults.
type CVOptions struct {
	InitialPeriods int // first training window size (default 12)
	Step           int // fold start spacing (default 4)
	TestPeriods    int // periods scored per fold (default 6)
	TrainingWindow int // cap on fold training data (default 24)
	Workers        int // concurrent folds (default 4)
	Model          NewForecaster
}

func (o CVOptions) withDefaults() CVOptions {
	if o.InitialPeriods <= 0 {
		o.InitialPeriods = 12
	}
	if o.Step <= 0 {
		o.Step = 4
	}
	if o.TestPeriods <= 0 {
		o.TestPeriods = 6
	}
	if o.TrainingWindow <= 0 {
		o.TrainingWindow = 24
	}
	if o.Workers <= 0 || o.Workers > 4 {
		o.Workers = 4
	}
	if o.Model == nil {
		o.Model = NewDampedTrend
	}
	return o
}

// CrossValidate scores the model over expanding training windows. Each fold
// trains on the series up to its start index, capped to the training window,
// and is scored on the following test periods. Folds run concurrently;
// folds that fail to fit or score are skipped.
func CrossValidate(series []Point, opts CVOptions) ([]FoldResult, error) {
	opts = opts.withDefaults()

	if len(series) <= opts.InitialPeriods+opts.TestPeriods {
		return nil, fmt.Errorf("%w: need more than %d points, got %d",
			ErrInsufficientData, opts.InitialPeriods+opts.TestPeriods, len(series))
	}

	sorted := make([]Point, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Period.Before(sorted[j].Period) })

	var starts []int
	for i := opts.InitialPeriods; i < len(sorted)-opts.TestPeriods+1; i += opts.Step {
		starts = append(starts, i)
	}

	results := make([]*FoldResult, len(starts))
	var wg sync.WaitGroup
	sem := make(chan struct{}, opts.Workers)

	for idx, start := range starts {
		wg.Add(1)
		go func(idx, start int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = scoreFold(sorted, start, opts)
		}(idx, start)
	}
	wg.Wait()

	var out []FoldResult
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no fold produced a score", ErrInsufficientData)
	}
	return out, nil
}

func scoreFold(series []Point, start int, opts CVOptions) *FoldResult {
	train := series[:start]
	if len(train) > opts.TrainingWindow {
		train = train[len(train)-opts.TrainingWindow:]
	}

	end := start + opts.TestPeriods
	if end > len(series) {
		end = len(series)
	}
	test := series[start:end]
	if len(test) == 0 {
		return nil
	}

	values := make([]float64, len(train))
	for i, p := range train {
		values[i] = p.Value
	}

	model := opts.Model()
	if err := model.Fit(values); err != nil {
		return nil
	}

	predicted := model.Forecast(len(test))
	actual := make([]float64, len(test))
	for i, p := range test {
		actual[i] = p.Value
	}

	metrics, err := CalculateMetrics(actual, predicted)
	if err != nil {
		return nil
	}

	return &FoldResult{
		TrainEnd:  train[len(train)-1].Period,
		TestStart: test[0].Period,
		TestEnd:   test[len(test)-1].Period,
		Accuracy:  metrics.AccuracyPercentage,
		MAE:       metrics.MAE,
		RMSE:      metrics.RMSE,
	}
}
