package market

import (
	"fmt"
	"math"

	"quantcore/types"
)

// Series is the price input of a simulation: closes plus an optional high/low
// pair of the same length. A Series is read only once handed to the engine.
type Series struct {
	Close []float64
	High  []float64
	Low   []float64
}

func NewSeries(closes []float64) Series {
	return Series{Close: closes}
}

func (s Series) Len() int {
	return len(s.Close)
}

// HasRange reports whether high and low are both supplied.
func (s Series) HasRange() bool {
	return s.High != nil && s.Low != nil
}

// Validate checks that the series is non-empty, finite, and that any high/low
// pair lines up with the closes.
func (s Series) Validate() error {
	if len(s.Close) == 0 {
		return fmt.Errorf("empty price series: %w", types.ErrInvalidInput)
	}
	if (s.High == nil) != (s.Low == nil) {
		return fmt.Errorf("high and low must be supplied together: %w", types.ErrInvalidInput)
	}
	if s.HasRange() && (len(s.High) != len(s.Close) || len(s.Low) != len(s.Close)) {
		return fmt.Errorf("close=%d high=%d low=%d: %w", len(s.Close), len(s.High), len(s.Low), types.ErrInvalidInput)
	}
	for i, c := range s.Close {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("close[%d] is not finite: %w", i, types.ErrInvalidInput)
		}
	}
	return nil
}

// Slice returns the bars in [from, to). The returned series shares memory
// with s.
func (s Series) Slice(from, to int) Series {
	out := Series{Close: s.Close[from:to]}
	if s.HasRange() {
		out.High = s.High[from:to]
		out.Low = s.Low[from:to]
	}
	return out
}

// FromCandles converts stored candles to a float series. High and low are
// always carried over since every candle has them.
func FromCandles(candles []types.Candle) Series {
	s := Series{
		Close: make([]float64, len(candles)),
		High:  make([]float64, len(candles)),
		Low:   make([]float64, len(candles)),
	}
	for i, c := range candles {
		s.Close[i] = c.Close.InexactFloat64()
		s.High[i] = c.High.InexactFloat64()
		s.Low[i] = c.Low.InexactFloat64()
	}
	return s
}
