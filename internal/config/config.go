package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"quantcore/internal/engine"
	"quantcore/internal/indicator"
	"quantcore/internal/optimizer"
	"quantcore/types"
)

const DatabaseURLEnv = "QUANTCORE_DATABASE_URL"

type Source string

const (
	SourceCSV      Source = "csv"
	SourcePostgres Source = "postgres"
)

type YAMLConfig struct {
	Data struct {
		Source      string `yaml:"source"`
		CSVPath     string `yaml:"csv_path"`
		CloseColumn string `yaml:"close_column"`
		DatabaseURL string `yaml:"database_url"`
		Ticker      string `yaml:"ticker"`
		Interval    string `yaml:"interval"`
		Start       string `yaml:"start"`
		End         string `yaml:"end"`
	} `yaml:"data"`

	Simulation struct {
		InitialCapital float64 `yaml:"initial_capital"`
		CommissionRate float64 `yaml:"commission_rate"`
		SlippageRate   float64 `yaml:"slippage_rate"`
		RiskFraction   float64 `yaml:"risk_fraction"`
		Leverage       float64 `yaml:"leverage"`
		Sizing         string  `yaml:"sizing"`
		ATRPeriod      int     `yaml:"atr_period"`
		ATRMethod      string  `yaml:"atr_method"`
		Annualization  float64 `yaml:"annualization"`
	} `yaml:"simulation"`

	Grid struct {
		Shorts []int  `yaml:"shorts"`
		Longs  []int  `yaml:"longs"`
		TopN   int    `yaml:"top_n"`
		Metric string `yaml:"metric"`
	} `yaml:"grid"`

	WalkForward struct {
		Enabled   *bool  `yaml:"enabled"`
		TrainSize int    `yaml:"train_size"`
		TestSize  int    `yaml:"test_size"`
		Step      int    `yaml:"step"`
		TopN      int    `yaml:"top_n"`
		SortKey   string `yaml:"sort_key"`
	} `yaml:"walk_forward"`

	OutputDir string `yaml:"output_dir"`
	Workers   int    `yaml:"workers"`
	Progress  *bool  `yaml:"progress"`
	LogLevel  string `yaml:"log_level"`
}

type DataConfig struct {
	Source      Source
	CSVPath     string
	CloseColumn string
	DatabaseURL string
	Ticker      string
	Interval    types.Interval
	Start       time.Time
	End         time.Time
}

type GridConfig struct {
	Shorts []int
	Longs  []int
	TopN   int
	Metric string
}

type WalkForwardConfig struct {
	Enabled bool
	optimizer.WalkForwardConfig
	TopN    int
	SortKey string
}

type RunConfig struct {
	Data        DataConfig
	Simulation  engine.Config
	Grid        GridConfig
	WalkForward WalkForwardConfig
	OutputDir   string
	Workers     int
	Progress    bool
	LogLevel    string
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Data: DataConfig{
			Source:   SourceCSV,
			Interval: types.Day,
		},
		Simulation: engine.DefaultConfig(),
		Grid: GridConfig{
			Shorts: []int{3, 5, 7},
			Longs:  []int{20, 30, 40},
			TopN:   5,
			Metric: "sharpe",
		},
		WalkForward: WalkForwardConfig{
			Enabled:           true,
			WalkForwardConfig: optimizer.WalkForwardConfig{TrainSize: 150, TestSize: 50},
			TopN:              5,
			SortKey:           "avg_sharpe",
		},
		OutputDir: ".",
		Progress:  true,
		LogLevel:  "info",
	}
}

func LoadRunConfig(path string) (RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read config: %w", err)
	}
	return ParseRunConfig(raw)
}

// ParseRunConfig overlays the set fields of a YAML document on
// DefaultRunConfig. The database URL environment variable wins over the file.
func ParseRunConfig(raw []byte) (RunConfig, error) {
	var yc YAMLConfig
	if err := yaml.Unmarshal(raw, &yc); err != nil {
		return RunConfig{}, fmt.Errorf("parse yaml: %w", err)
	}

	cfg := DefaultRunConfig()
	if err := applyData(&cfg.Data, yc); err != nil {
		return RunConfig{}, err
	}
	if err := applySimulation(&cfg, yc); err != nil {
		return RunConfig{}, err
	}

	if len(yc.Grid.Shorts) > 0 {
		cfg.Grid.Shorts = yc.Grid.Shorts
	}
	if len(yc.Grid.Longs) > 0 {
		cfg.Grid.Longs = yc.Grid.Longs
	}
	if yc.Grid.TopN > 0 {
		cfg.Grid.TopN = yc.Grid.TopN
	}
	if yc.Grid.Metric != "" {
		if !slices.Contains(engine.MetricNames, yc.Grid.Metric) {
			return RunConfig{}, fmt.Errorf("unknown grid.metric %q: %w", yc.Grid.Metric, types.ErrConfiguration)
		}
		cfg.Grid.Metric = yc.Grid.Metric
	}

	wf := yc.WalkForward
	if wf.Enabled != nil {
		cfg.WalkForward.Enabled = *wf.Enabled
	}
	if wf.TrainSize > 0 {
		cfg.WalkForward.TrainSize = wf.TrainSize
	}
	if wf.TestSize > 0 {
		cfg.WalkForward.TestSize = wf.TestSize
	}
	if wf.Step > 0 {
		cfg.WalkForward.Step = wf.Step
	}
	if wf.TopN > 0 {
		cfg.WalkForward.TopN = wf.TopN
	}
	if wf.SortKey != "" {
		if !slices.Contains(optimizer.AggregateKeys, wf.SortKey) {
			return RunConfig{}, fmt.Errorf("unknown walk_forward.sort_key %q: %w", wf.SortKey, types.ErrConfiguration)
		}
		cfg.WalkForward.SortKey = wf.SortKey
	}

	if yc.OutputDir != "" {
		cfg.OutputDir = yc.OutputDir
	}
	if yc.Workers > 0 {
		cfg.Workers = yc.Workers
	}
	if yc.Progress != nil {
		cfg.Progress = *yc.Progress
	}
	if yc.LogLevel != "" {
		cfg.LogLevel = yc.LogLevel
	}
	return cfg, nil
}

func applyData(d *DataConfig, yc YAMLConfig) error {
	switch Source(yc.Data.Source) {
	case "":
	case SourceCSV, SourcePostgres:
		d.Source = Source(yc.Data.Source)
	default:
		return fmt.Errorf("unknown data.source %q: %w", yc.Data.Source, types.ErrConfiguration)
	}
	d.CSVPath = yc.Data.CSVPath
	d.CloseColumn = yc.Data.CloseColumn
	d.Ticker = yc.Data.Ticker
	d.DatabaseURL = yc.Data.DatabaseURL
	if env := os.Getenv(DatabaseURLEnv); env != "" {
		d.DatabaseURL = env
	}
	if yc.Data.Interval != "" {
		interval, err := types.ParseInterval(yc.Data.Interval)
		if err != nil {
			return fmt.Errorf("invalid data.interval: %w", err)
		}
		d.Interval = interval
	}
	if yc.Data.Start != "" {
		t, err := time.ParseInLocation("2006-01-02", yc.Data.Start, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid data.start: %w", err)
		}
		d.Start = t
	}
	if yc.Data.End != "" {
		t, err := time.ParseInLocation("2006-01-02", yc.Data.End, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid data.end: %w", err)
		}
		d.End = t
	}

	switch d.Source {
	case SourceCSV:
		if d.CSVPath == "" {
			return fmt.Errorf("data.csv_path is required for csv source: %w", types.ErrConfiguration)
		}
	case SourcePostgres:
		if d.DatabaseURL == "" || d.Ticker == "" {
			return fmt.Errorf("data.database_url and data.ticker are required for postgres source: %w", types.ErrConfiguration)
		}
	}
	return nil
}

func applySimulation(cfg *RunConfig, yc YAMLConfig) error {
	sim := yc.Simulation
	s := &cfg.Simulation
	if sim.InitialCapital > 0 {
		s.InitialCapital = sim.InitialCapital
	}
	if sim.CommissionRate > 0 {
		s.CommissionRate = sim.CommissionRate
	}
	if sim.SlippageRate > 0 {
		s.SlippageRate = sim.SlippageRate
	}
	if sim.RiskFraction > 0 {
		s.RiskFraction = sim.RiskFraction
	}
	if sim.Leverage > 0 {
		s.Leverage = sim.Leverage
	}
	if sim.Sizing != "" {
		mode, err := engine.ParseSizingMode(sim.Sizing)
		if err != nil {
			return fmt.Errorf("invalid simulation.sizing: %w", err)
		}
		s.Sizing = mode
	}
	if sim.ATRPeriod > 0 {
		s.ATRPeriod = sim.ATRPeriod
	}
	if sim.ATRMethod != "" {
		method, err := indicator.ParseATRMethod(sim.ATRMethod)
		if err != nil {
			return fmt.Errorf("invalid simulation.atr_method: %w", err)
		}
		s.ATRMethod = method
	}
	switch {
	case sim.Annualization > 0:
		s.Annualization = sim.Annualization
	default:
		if bars, ok := types.BarsPerYear[cfg.Data.Interval]; ok {
			s.Annualization = bars
		}
	}
	return s.Validate()
}
