package indicator

import (
	"fmt"

	"quantcore/types"
)

// SMA returns the trailing simple moving average of values over window bars.
// Entries before index window-1 are undefined.
func SMA(values []float64, window int) ([]types.NullFloat, error) {
	if window <= 0 {
		return nil, fmt.Errorf("sma window %d: %w", window, ErrInvalidPeriod)
	}
	out := make([]types.NullFloat, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = types.NullFloat{Float64: sum / float64(window), Valid: true}
		}
	}
	return out, nil
}
