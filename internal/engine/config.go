package engine

import (
	"fmt"
	"strings"

	"quantcore/internal/indicator"
	"quantcore/types"
)

type SizingMode string

const (
	SizingFixed SizingMode = "fixed"
	SizingATR   SizingMode = "atr"
)

var ErrUnknownSizingMode = fmt.Errorf("unknown sizing mode: %w", types.ErrConfiguration)

func ParseSizingMode(s string) (SizingMode, error) {
	switch m := SizingMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SizingFixed, SizingATR:
		return m, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownSizingMode)
	}
}

// Config holds everything a simulation needs besides its price and signal
// series. A Config is copied into each run and never mutated by it.
type Config struct {
	InitialCapital float64
	CommissionRate float64
	SlippageRate   float64
	RiskFraction   float64
	Leverage       float64
	Sizing         SizingMode
	ATRPeriod      int
	ATRMethod      indicator.ATRMethod
	// Bars per year, used to annualize Sharpe, Sortino, volatility and CAGR.
	Annualization float64
}

func DefaultConfig() Config {
	return Config{
		InitialCapital: 10000,
		CommissionRate: 0,
		SlippageRate:   0,
		RiskFraction:   0.01,
		Leverage:       1,
		Sizing:         SizingFixed,
		ATRPeriod:      14,
		ATRMethod:      indicator.ATRMethodSMA,
		Annualization:  252,
	}
}

// Validate reports configuration errors. ATR settings are only checked when
// they are used, which is in ATR sizing mode.
func (c Config) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital %v must be positive: %w", c.InitialCapital, types.ErrConfiguration)
	}
	switch c.Sizing {
	case SizingFixed:
	case SizingATR:
		if c.ATRPeriod <= 0 {
			return fmt.Errorf("atr period %d: %w", c.ATRPeriod, indicator.ErrInvalidPeriod)
		}
		if _, err := indicator.ParseATRMethod(string(c.ATRMethod)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%q: %w", c.Sizing, ErrUnknownSizingMode)
	}
	return nil
}
