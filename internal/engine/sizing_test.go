package engine

import (
	"math"
	"testing"

	"quantcore/types"
)

func TestPositionSizer_Units(t *testing.T) {
	atr := []types.NullFloat{types.Undefined, types.NewNullFloat(2), types.NewNullFloat(0)}

	tests := []struct {
		name   string
		mode   SizingMode
		bar    int
		price  float64
		equity float64
		want   float64
	}{
		{"fixed", SizingFixed, 0, 100, 10000, 1},
		{"fixed non-positive price", SizingFixed, 0, 0, 10000, 0},
		{"atr undefined falls back to fixed", SizingATR, 0, 100, 10000, 1},
		{"atr defined", SizingATR, 1, 100, 10000, 0.5},
		{"atr zero", SizingATR, 2, 100, 10000, 0},
		{"atr bar past series falls back to fixed", SizingATR, 5, 50, 10000, 2},
		{"atr non-positive price", SizingATR, 1, -1, 10000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Sizing = tt.mode
			sizer := newPositionSizer(cfg, atr)
			if got := sizer.units(tt.bar, tt.price, tt.equity); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("units() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPositionSizer_Leverage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Leverage = 3
	sizer := newPositionSizer(cfg, nil)
	if got := sizer.units(0, 100, 10000); math.Abs(got-3) > 1e-12 {
		t.Errorf("units() = %v, want 3", got)
	}
}
