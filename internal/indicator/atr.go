package indicator

import (
	"fmt"
	"math"
	"strings"

	"quantcore/types"
)

type ATRMethod string

const (
	ATRMethodSMA    ATRMethod = "sma"
	ATRMethodWilder ATRMethod = "wilder"
)

func ParseATRMethod(s string) (ATRMethod, error) {
	switch m := ATRMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case ATRMethodSMA, ATRMethodWilder:
		return m, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownATRMethod)
	}
}

// TrueRange computes the per-bar true range. When high and low are nil the
// close stands in for both, which reduces the range to the close-to-close move.
// The first bar uses its own close as the previous close.
func TrueRange(closes, high, low []float64) ([]float64, error) {
	hasRange := high != nil || low != nil
	if hasRange && (len(high) != len(closes) || len(low) != len(closes)) {
		return nil, fmt.Errorf("close=%d high=%d low=%d: %w", len(closes), len(high), len(low), ErrRangeMismatch)
	}
	tr := make([]float64, len(closes))
	for i, c := range closes {
		h, l := c, c
		if hasRange {
			h, l = high[i], low[i]
		}
		prev := c
		if i > 0 {
			prev = closes[i-1]
		}
		tr[i] = math.Max(h-l, math.Max(math.Abs(h-prev), math.Abs(l-prev)))
	}
	return tr, nil
}

// ATR smooths a true range series over period bars. Entries before index
// period-1 are undefined.
func ATR(tr []float64, period int, method ATRMethod) ([]types.NullFloat, error) {
	if period <= 0 {
		return nil, fmt.Errorf("atr period %d: %w", period, ErrInvalidPeriod)
	}
	switch method {
	case ATRMethodSMA:
		return SMA(tr, period)
	case ATRMethodWilder:
		return wilder(tr, period), nil
	default:
		return nil, fmt.Errorf("%q: %w", method, ErrUnknownATRMethod)
	}
}

func wilder(tr []float64, period int) []types.NullFloat {
	out := make([]types.NullFloat, len(tr))
	if len(tr) < period {
		return out
	}
	var seed float64
	for _, v := range tr[:period] {
		seed += v
	}
	atr := seed / float64(period)
	out[period-1] = types.NullFloat{Float64: atr, Valid: true}
	for i := period; i < len(tr); i++ {
		atr = (atr*float64(period-1) + tr[i]) / float64(period)
		out[i] = types.NullFloat{Float64: atr, Valid: true}
	}
	return out
}
