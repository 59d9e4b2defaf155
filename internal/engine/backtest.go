package engine

import (
	"fmt"

	"quantcore/internal/indicator"
	"quantcore/internal/market"
	"quantcore/types"
)

// Result is the outcome of one simulation run.
type Result struct {
	EquityCurve []float64         `json:"equity_curve"`
	Trades      []types.Trade     `json:"trades"`
	ATR         []types.NullFloat `json:"atr"`
	Metrics
}

// Simulator runs the long/flat state machine over a price and signal series.
// It holds no state between runs and is safe for concurrent use.
type Simulator struct {
	cfg Config
}

func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{cfg: cfg}, nil
}

func (s *Simulator) Run(series market.Series, signals []types.Signal) (*Result, error) {
	if err := validateInputs(series, signals); err != nil {
		return nil, err
	}

	var atr []types.NullFloat
	if s.cfg.Sizing == SizingATR {
		tr, err := indicator.TrueRange(series.Close, series.High, series.Low)
		if err != nil {
			return nil, err
		}
		atr, err = indicator.ATR(tr, s.cfg.ATRPeriod, s.cfg.ATRMethod)
		if err != nil {
			return nil, err
		}
	}

	sizer := newPositionSizer(s.cfg, atr)
	p := newPortfolio(s.cfg, series.Len())
	for i, price := range series.Close {
		switch {
		case p.state == stateFlat && signals[i] == types.SignalLong:
			p.enter(i, price, sizer.units(i, price, p.equity))
		case p.state == stateLong && signals[i] == types.SignalFlat:
			p.exit(i, price)
		}
		p.mark()
	}
	p.forceClose(series.Close[series.Len()-1])

	return &Result{
		EquityCurve: p.equityCurve,
		Trades:      p.trades,
		ATR:         atr,
		Metrics:     CalcMetrics(p.equityCurve, p.drawdowns, p.trades, s.cfg.InitialCapital, s.cfg.Annualization),
	}, nil
}

func validateInputs(series market.Series, signals []types.Signal) error {
	if series.Len() == 0 || len(signals) == 0 {
		return fmt.Errorf("prices=%d signals=%d must be non-empty: %w", series.Len(), len(signals), types.ErrInvalidInput)
	}
	if series.Len() != len(signals) {
		return fmt.Errorf("prices=%d signals=%d must have the same length: %w", series.Len(), len(signals), types.ErrInvalidInput)
	}
	if err := series.Validate(); err != nil {
		return err
	}
	for i, sig := range signals {
		if !sig.Valid() {
			return fmt.Errorf("signal[%d]=%d: %w", i, sig, types.ErrInvalidInput)
		}
	}
	return nil
}
