package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quantcore/internal/market"
	"quantcore/types"
)

var ErrInvalidFolds = fmt.Errorf("invalid walk-forward partition: %w", types.ErrConfiguration)

// Fold is one anchored train/test split: train is [TrainStart, TrainEnd)
// and test is [TrainEnd, TestEnd). TrainStart is always zero.
type Fold struct {
	TrainStart int `json:"train_start"`
	TrainEnd   int `json:"train_end"`
	TestEnd    int `json:"test_end"`
}

func (f Fold) TestSize() int {
	return f.TestEnd - f.TrainEnd
}

type WalkForwardConfig struct {
	TrainSize int
	TestSize  int
	// Step defaults to TestSize when not positive.
	Step int
}

// Folds partitions n bars into expanding folds. The train segment always
// starts at bar zero and grows by step after every fold.
func Folds(n, trainSize, testSize, step int) ([]Fold, error) {
	if trainSize <= 0 {
		return nil, fmt.Errorf("train size %d: %w", trainSize, ErrInvalidFolds)
	}
	if testSize <= 0 {
		return nil, fmt.Errorf("test size %d: %w", testSize, ErrInvalidFolds)
	}
	if step <= 0 {
		step = testSize
	}
	var folds []Fold
	for end := trainSize; end+testSize <= n; end += step {
		folds = append(folds, Fold{TrainStart: 0, TrainEnd: end, TestEnd: end + testSize})
	}
	return folds, nil
}

// FoldMetrics are the test segment statistics of one combo on one fold.
type FoldMetrics struct {
	Fold        Fold
	Sharpe      types.NullFloat
	CAGR        types.NullFloat
	TotalReturn types.NullFloat
	MaxDrawdown types.NullFloat
	Err         error
}

// Aggregated averages a combo's fold metrics, ignoring undefined values per
// field.
type Aggregated struct {
	Short          int
	Long           int
	AvgSharpe      types.NullFloat
	AvgCAGR        types.NullFloat
	AvgTotalReturn types.NullFloat
	AvgMaxDrawdown types.NullFloat
	Folds          []FoldMetrics
}

// AggregateKeys are the keys Aggregated.Metric recognizes.
var AggregateKeys = []string{"avg_sharpe", "avg_cagr", "avg_total_return", "avg_max_drawdown"}

// Metric looks up an aggregate by its export name.
func (a Aggregated) Metric(key string) types.NullFloat {
	switch key {
	case "avg_sharpe":
		return a.AvgSharpe
	case "avg_cagr":
		return a.AvgCAGR
	case "avg_total_return":
		return a.AvgTotalReturn
	case "avg_max_drawdown":
		return a.AvgMaxDrawdown
	default:
		return types.Undefined
	}
}

// Score is the value a combo is ranked by for key, with the same fallback
// TopWalkForward uses. It is undefined when neither value is.
func (a Aggregated) Score(key string) types.NullFloat {
	if v := a.Metric(key); v.Valid {
		return v
	}
	return a.AvgTotalReturn
}

// WalkForward scores every combo out of sample. For each fold, signals are
// generated over train+test so the averages are warm at the boundary, then
// only the test tail is simulated, from fresh capital.
func (o *Optimizer) WalkForward(ctx context.Context, series market.Series, shorts, longs []int, cfg WalkForwardConfig) ([]Aggregated, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	folds, err := Folds(series.Len(), cfg.TrainSize, cfg.TestSize, cfg.Step)
	if err != nil {
		return nil, err
	}
	combos := Combos(shorts, longs)
	runID := uuid.New().String()
	logger := o.logger.With(zap.String("run_id", runID), zap.String("mode", "walk_forward"))
	logger.Info("walk-forward started",
		zap.Int("bars", series.Len()),
		zap.Int("combos", len(combos)),
		zap.Int("folds", len(folds)),
		zap.Int("workers", o.workers),
	)
	start := time.Now()

	perFold := make([][]FoldMetrics, len(combos))
	for i := range perFold {
		perFold[i] = make([]FoldMetrics, len(folds))
	}
	bar := o.newProgressBar(len(combos)*len(folds), "Walk-forward in progress...")
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for ci, combo := range combos {
		for fi, fold := range folds {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				fm := o.evaluateFold(series, combo, fold)
				if fm.Err != nil {
					logger.Warn("fold failed",
						zap.Int("short", combo.Short),
						zap.Int("long", combo.Long),
						zap.Int("train_end", fold.TrainEnd),
						zap.Error(fm.Err),
					)
				}
				perFold[ci][fi] = fm
				tick(bar)
				return nil
			})
		}
	}
	err = g.Wait()
	finish(bar)
	if err != nil {
		return nil, err
	}

	aggregated := make([]Aggregated, len(combos))
	for i, combo := range combos {
		aggregated[i] = aggregate(combo, perFold[i])
	}
	logger.Info("walk-forward finished",
		zap.Int("combos", len(aggregated)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return aggregated, nil
}

func (o *Optimizer) evaluateFold(series market.Series, combo Combo, fold Fold) FoldMetrics {
	fm := FoldMetrics{Fold: fold}
	window := series.Slice(fold.TrainStart, fold.TestEnd)
	signals, err := o.newGenerator(combo.Short, combo.Long).GenerateSignals(window.Close)
	if err != nil {
		fm.Err = fmt.Errorf("generate signals: %w", err)
		return fm
	}
	if len(signals) != window.Len() {
		fm.Err = fmt.Errorf("generator returned %d signals for %d bars: %w", len(signals), window.Len(), types.ErrInvalidInput)
		return fm
	}
	test := series.Slice(fold.TrainEnd, fold.TestEnd)
	res, err := o.simulator.Run(test, signals[len(signals)-fold.TestSize():])
	if err != nil {
		fm.Err = err
		return fm
	}
	fm.Sharpe = res.Sharpe
	fm.CAGR = res.CAGR
	fm.TotalReturn = types.NewNullFloat(res.TotalReturn)
	fm.MaxDrawdown = types.NewNullFloat(res.MaxDrawdown)
	return fm
}

// aggregate averages in fold order so the result does not depend on which
// worker finished first.
func aggregate(combo Combo, folds []FoldMetrics) Aggregated {
	pick := func(field func(FoldMetrics) types.NullFloat) types.NullFloat {
		values := make([]types.NullFloat, len(folds))
		for i, f := range folds {
			values[i] = field(f)
		}
		return types.Mean(values)
	}
	return Aggregated{
		Short:          combo.Short,
		Long:           combo.Long,
		AvgSharpe:      pick(func(f FoldMetrics) types.NullFloat { return f.Sharpe }),
		AvgCAGR:        pick(func(f FoldMetrics) types.NullFloat { return f.CAGR }),
		AvgTotalReturn: pick(func(f FoldMetrics) types.NullFloat { return f.TotalReturn }),
		AvgMaxDrawdown: pick(func(f FoldMetrics) types.NullFloat { return f.MaxDrawdown }),
		Folds:          folds,
	}
}
