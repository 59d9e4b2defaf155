package optimizer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quantcore/internal/engine"
	"quantcore/internal/market"
	"quantcore/types"
)

// GridResult is the outcome of one combo. Err is set, and Result nil, when
// that combo could not be simulated.
type GridResult struct {
	Short  int
	Long   int
	Result *engine.Result
	Err    error
}

func (r GridResult) Metric(name string) types.NullFloat {
	if r.Result == nil {
		return types.Undefined
	}
	return r.Result.Metric(name)
}

// GridSearch runs one full simulation per combo. Results come back in
// enumeration order regardless of which worker finished first. A malformed
// series fails the whole batch; a failure inside one combo is recorded on
// its result and logged.
func (o *Optimizer) GridSearch(ctx context.Context, series market.Series, shorts, longs []int) ([]GridResult, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	combos := Combos(shorts, longs)
	runID := uuid.New().String()
	logger := o.logger.With(zap.String("run_id", runID), zap.String("mode", "grid"))
	logger.Info("grid search started",
		zap.Int("bars", series.Len()),
		zap.Int("combos", len(combos)),
		zap.Int("workers", o.workers),
	)
	start := time.Now()

	results := make([]GridResult, len(combos))
	bar := o.newProgressBar(len(combos), "Grid search in progress...")
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, combo := range combos {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := engine.Backtest(series, o.newGenerator(combo.Short, combo.Long), o.simulator)
			results[i] = GridResult{Short: combo.Short, Long: combo.Long, Result: res, Err: err}
			if err != nil {
				logger.Warn("combo failed",
					zap.Int("short", combo.Short),
					zap.Int("long", combo.Long),
					zap.Error(err),
				)
			}
			tick(bar)
			return nil
		})
	}
	err := g.Wait()
	finish(bar)
	if err != nil {
		return nil, err
	}

	logger.Info("grid search finished",
		zap.Int("combos", len(results)),
		zap.Int("failed", countGridFailures(results)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

func countGridFailures(results []GridResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
