package engine

import (
	"quantcore/types"
)

type positionSizer struct {
	mode         SizingMode
	riskFraction float64
	leverage     float64
	atr          []types.NullFloat
}

func newPositionSizer(cfg Config, atr []types.NullFloat) positionSizer {
	return positionSizer{
		mode:         cfg.Sizing,
		riskFraction: cfg.RiskFraction,
		leverage:     cfg.Leverage,
		atr:          atr,
	}
}

// units returns the order quantity for bar i. Degenerate prices or volatility
// size to zero instead of failing.
func (s positionSizer) units(i int, price, equity float64) float64 {
	if s.mode == SizingATR && i < len(s.atr) && s.atr[i].Valid {
		atr := s.atr[i].Float64
		if atr <= 0 || price <= 0 {
			return 0
		}
		return s.riskFraction * equity * s.leverage / (atr * price)
	}
	if price <= 0 {
		return 0
	}
	return equity * s.riskFraction * s.leverage / price
}
