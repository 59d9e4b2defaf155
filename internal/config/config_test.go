package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quantcore/internal/engine"
	"quantcore/internal/indicator"
	"quantcore/types"
)

func TestParseRunConfig(t *testing.T) {
	raw := []byte(`
data:
  source: csv
  csv_path: prices.csv
  close_column: adj_close
  interval: "60"
  start: "2024-01-02"
simulation:
  initial_capital: 50000
  commission_rate: 0.001
  sizing: ATR
  atr_method: wilder
grid:
  shorts: [2, 4]
  longs: [10]
  metric: total_return
walk_forward:
  enabled: false
  train_size: 100
  step: 25
workers: 3
progress: false
`)
	cfg, err := ParseRunConfig(raw)
	if err != nil {
		t.Fatalf("ParseRunConfig() error = %v", err)
	}

	if cfg.Data.CSVPath != "prices.csv" || cfg.Data.CloseColumn != "adj_close" {
		t.Errorf("data = %+v", cfg.Data)
	}
	if cfg.Data.Interval != types.Hour {
		t.Errorf("interval = %q, want %q", cfg.Data.Interval, types.Hour)
	}
	if want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC); !cfg.Data.Start.Equal(want) {
		t.Errorf("start = %v, want %v", cfg.Data.Start, want)
	}

	sim := cfg.Simulation
	if sim.InitialCapital != 50000 || sim.CommissionRate != 0.001 {
		t.Errorf("simulation = %+v", sim)
	}
	if sim.Sizing != engine.SizingATR || sim.ATRMethod != indicator.ATRMethodWilder {
		t.Errorf("sizing = %q method = %q", sim.Sizing, sim.ATRMethod)
	}
	if sim.RiskFraction != 0.01 || sim.ATRPeriod != 14 {
		t.Errorf("unset simulation fields lost their defaults: %+v", sim)
	}
	if sim.Annualization != types.BarsPerYear[types.Hour] {
		t.Errorf("annualization = %v, want %v", sim.Annualization, types.BarsPerYear[types.Hour])
	}

	if len(cfg.Grid.Shorts) != 2 || len(cfg.Grid.Longs) != 1 || cfg.Grid.Metric != "total_return" {
		t.Errorf("grid = %+v", cfg.Grid)
	}
	if cfg.Grid.TopN != 5 {
		t.Errorf("grid top n = %d, want default 5", cfg.Grid.TopN)
	}

	wf := cfg.WalkForward
	if wf.Enabled {
		t.Error("walk forward should be disabled")
	}
	if wf.TrainSize != 100 || wf.TestSize != 50 || wf.Step != 25 {
		t.Errorf("walk forward = %+v", wf.WalkForwardConfig)
	}
	if cfg.Workers != 3 || cfg.Progress {
		t.Errorf("workers = %d progress = %v", cfg.Workers, cfg.Progress)
	}
}

func TestParseRunConfigExplicitAnnualization(t *testing.T) {
	cfg, err := ParseRunConfig([]byte("data:\n  csv_path: a.csv\n  interval: W\nsimulation:\n  annualization: 365\n"))
	if err != nil {
		t.Fatalf("ParseRunConfig() error = %v", err)
	}
	if cfg.Simulation.Annualization != 365 {
		t.Errorf("annualization = %v, want 365", cfg.Simulation.Annualization)
	}
}

func TestParseRunConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"missing csv path", "data:\n  source: csv\n", types.ErrConfiguration},
		{"unknown source", "data:\n  source: s3\n", types.ErrConfiguration},
		{"postgres without ticker", "data:\n  source: postgres\n  database_url: postgres://x\n", types.ErrConfiguration},
		{"bad interval", "data:\n  csv_path: a.csv\n  interval: 3h\n", types.ErrConfiguration},
		{"bad sizing", "data:\n  csv_path: a.csv\nsimulation:\n  sizing: kelly\n", engine.ErrUnknownSizingMode},
		{"unknown grid metric", "data:\n  csv_path: a.csv\ngrid:\n  metric: sharp\n", types.ErrConfiguration},
		{"unknown sort key", "data:\n  csv_path: a.csv\nwalk_forward:\n  sort_key: sharpe\n", types.ErrConfiguration},
		{"bad atr method", "data:\n  csv_path: a.csv\nsimulation:\n  atr_method: ema\n", indicator.ErrUnknownATRMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRunConfig([]byte(tt.raw))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseRunConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := ParseRunConfig([]byte("data:\n  csv_path: a.csv\n  start: 01/02/2024\n")); err == nil {
		t.Error("expected error for malformed start date")
	}
	if _, err := ParseRunConfig([]byte("grid: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestDatabaseURLFromEnv(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "postgres://env")
	cfg, err := ParseRunConfig([]byte("data:\n  source: postgres\n  database_url: postgres://file\n  ticker: AAPL\n"))
	if err != nil {
		t.Fatalf("ParseRunConfig() error = %v", err)
	}
	if cfg.Data.DatabaseURL != "postgres://env" {
		t.Errorf("database url = %q, want env value", cfg.Data.DatabaseURL)
	}
}

func TestLoadRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("data:\n  csv_path: a.csv\noutput_dir: out\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig() error = %v", err)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("output dir = %q, want out", cfg.OutputDir)
	}

	if _, err := LoadRunConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
