package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"quantcore/internal/config"
	"quantcore/internal/market"
	"quantcore/internal/optimizer"
	"quantcore/internal/report"
	"quantcore/internal/repository"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "backtest.yaml", "path to the YAML run config")
	flag.Parse()

	cfg, err := config.LoadRunConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func run(ctx context.Context, cfg config.RunConfig, logger *zap.Logger) error {
	series, err := loadSeries(ctx, cfg.Data)
	if err != nil {
		return err
	}
	logger.Info("series loaded",
		zap.String("source", string(cfg.Data.Source)),
		zap.Int("bars", series.Len()),
		zap.Bool("high_low", series.HasRange()))

	opts := []optimizer.Option{
		optimizer.WithLogger(logger),
		optimizer.WithWorkers(cfg.Workers),
	}
	if cfg.Progress {
		opts = append(opts, optimizer.WithProgress(os.Stderr))
	}
	opt, err := optimizer.New(cfg.Simulation, opts...)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out := func(name string) string { return filepath.Join(cfg.OutputDir, name) }

	results, err := opt.GridSearch(ctx, series, cfg.Grid.Shorts, cfg.Grid.Longs)
	if err != nil {
		return fmt.Errorf("grid search: %w", err)
	}
	top := optimizer.TopResults(results, cfg.Grid.TopN, cfg.Grid.Metric)

	if err := report.WriteFile(out("grid.csv"), func(w io.Writer) error {
		return report.WriteGridCSV(w, results)
	}); err != nil {
		return err
	}
	if err := report.WriteFile(out("top.csv"), func(w io.Writer) error {
		return report.WriteTopCSV(w, top)
	}); err != nil {
		return err
	}

	if len(top) > 0 && top[0].Result != nil {
		best := top[0]
		logBestCombo(logger, best, cfg.Grid.Metric)
		if err := report.WriteFile(out("trades.csv"), func(w io.Writer) error {
			return report.WriteTradesCSV(w, best.Result.Trades)
		}); err != nil {
			return err
		}
	}

	if !cfg.WalkForward.Enabled {
		return nil
	}

	agg, err := opt.WalkForward(ctx, series, cfg.Grid.Shorts, cfg.Grid.Longs, cfg.WalkForward.WalkForwardConfig)
	if err != nil {
		return fmt.Errorf("walk forward: %w", err)
	}
	wfTop := optimizer.TopWalkForward(agg, cfg.WalkForward.TopN, cfg.WalkForward.SortKey)

	if err := report.WriteFile(out("wf_results.csv"), func(w io.Writer) error {
		return report.WriteWalkForwardCSV(w, agg)
	}); err != nil {
		return err
	}
	if err := report.WriteFile(out("wf_results.json"), func(w io.Writer) error {
		return report.WriteWalkForwardJSON(w, agg)
	}); err != nil {
		return err
	}
	if err := report.WriteFile(out("wf_top.csv"), func(w io.Writer) error {
		return report.WriteWalkForwardTopCSV(w, wfTop, cfg.WalkForward.SortKey)
	}); err != nil {
		return err
	}

	if len(wfTop) > 0 {
		logger.Info("best walk-forward combo",
			zap.Int("short", wfTop[0].Short),
			zap.Int("long", wfTop[0].Long),
			zap.Int("folds", len(wfTop[0].Folds)),
			zap.Stringer(cfg.WalkForward.SortKey, wfTop[0].Score(cfg.WalkForward.SortKey)))
	}
	return nil
}

func logBestCombo(logger *zap.Logger, best optimizer.GridResult, metric string) {
	logger.Info("best combo",
		zap.Int("short", best.Short),
		zap.Int("long", best.Long),
		zap.String("metric", metric),
		zap.Stringer("score", best.Metric(metric)),
		zap.Float64("total_return", best.Result.TotalReturn),
		zap.Float64("max_drawdown", best.Result.MaxDrawdown),
		zap.Int("trades", len(best.Result.Trades)))
}

func loadSeries(ctx context.Context, data config.DataConfig) (market.Series, error) {
	switch data.Source {
	case config.SourcePostgres:
		db, err := repository.NewDatabase(ctx, data.DatabaseURL)
		if err != nil {
			return market.Series{}, fmt.Errorf("connect: %w", err)
		}
		defer db.Close()
		feed := market.Feed{
			Ticker:   data.Ticker,
			Interval: data.Interval,
			Start:    data.Start,
			End:      data.End,
		}
		return feed.Load(ctx, db)
	default:
		return repository.LoadCSV(data.CSVPath, data.CloseColumn)
	}
}
