package engine

import (
	"quantcore/types"
)

// SignalGenerator turns a close series into one position signal per bar.
type SignalGenerator interface {
	GenerateSignals(prices []float64) ([]types.Signal, error)
}
