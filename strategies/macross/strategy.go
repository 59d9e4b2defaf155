package macross

import (
	"fmt"

	"quantcore/internal/engine"
	"quantcore/internal/indicator"
	"quantcore/types"
)

var _ engine.SignalGenerator = (*Strategy)(nil)

// Strategy goes long when the short SMA crosses above the long SMA and flat
// when it crosses back below.
type Strategy struct {
	Short int
	Long  int
}

func New(short, long int) *Strategy {
	return &Strategy{Short: short, Long: long}
}

func (s *Strategy) String() string {
	return fmt.Sprintf("ma(%d,%d)", s.Short, s.Long)
}

// GenerateSignals returns one signal per price. The position is seeded at the
// first bar where both averages exist (long if short > long) and afterwards
// only changes on a cross.
func (s *Strategy) GenerateSignals(prices []float64) ([]types.Signal, error) {
	short, err := indicator.SMA(prices, s.Short)
	if err != nil {
		return nil, fmt.Errorf("short window: %w", err)
	}
	long, err := indicator.SMA(prices, s.Long)
	if err != nil {
		return nil, fmt.Errorf("long window: %w", err)
	}

	signals := make([]types.Signal, len(prices))
	position := types.SignalFlat
	seeded := false
	for i := range prices {
		if !short[i].Valid || !long[i].Valid {
			continue
		}
		cur, curLong := short[i].Float64, long[i].Float64
		if !seeded {
			seeded = true
			if cur > curLong {
				position = types.SignalLong
			}
			signals[i] = position
			continue
		}
		prev, prevLong := short[i-1].Float64, long[i-1].Float64
		switch {
		case prev <= prevLong && cur > curLong:
			position = types.SignalLong
		case prev >= prevLong && cur < curLong:
			position = types.SignalFlat
		}
		signals[i] = position
	}
	return signals, nil
}
