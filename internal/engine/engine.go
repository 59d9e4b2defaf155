package engine

import (
	"fmt"

	"quantcore/internal/market"
)

// Backtest generates signals for series and simulates them.
func Backtest(series market.Series, generator SignalGenerator, sim *Simulator) (*Result, error) {
	signals, err := generator.GenerateSignals(series.Close)
	if err != nil {
		return nil, fmt.Errorf("generate signals: %w", err)
	}
	return sim.Run(series, signals)
}
