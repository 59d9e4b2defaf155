package engine

import (
	"testing"

	"quantcore/types"
)

func TestPortfolio_ForceClose(t *testing.T) {
	tests := []struct {
		name          string
		open          bool
		wantEquity    []float64
		wantDrawdowns []float64
		wantTrades    int
	}{
		{
			name:          "open position is closed on the last bar",
			open:          true,
			wantEquity:    []float64{1000, 1500},
			wantDrawdowns: []float64{0, 0, 0},
			wantTrades:    2,
		},
		{
			name:          "flat portfolio is untouched",
			open:          false,
			wantEquity:    []float64{1000, 1000},
			wantDrawdowns: []float64{0, 0},
			wantTrades:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPortfolio(testConfig(func(c *Config) { c.InitialCapital = 1000 }), 2)
			if tt.open {
				p.enter(0, 10, 100)
			}
			p.mark()
			p.mark()
			p.forceClose(15)

			if p.state != stateFlat {
				t.Errorf("forceClose() state = %v, want flat", p.state)
			}
			if len(p.equityCurve) != len(tt.wantEquity) {
				t.Fatalf("forceClose() equity = %v, want %v", p.equityCurve, tt.wantEquity)
			}
			for i := range tt.wantEquity {
				if !almostEqual(p.equityCurve[i], tt.wantEquity[i]) {
					t.Errorf("forceClose() equity[%d] = %v, want %v", i, p.equityCurve[i], tt.wantEquity[i])
				}
			}
			if len(p.drawdowns) != len(tt.wantDrawdowns) {
				t.Errorf("forceClose() drawdowns = %v, want %v", p.drawdowns, tt.wantDrawdowns)
			}
			if len(p.trades) != tt.wantTrades {
				t.Fatalf("forceClose() trades = %d, want %d", len(p.trades), tt.wantTrades)
			}
			if tt.open {
				exit := p.trades[1]
				if exit.Kind != types.TradeExit || exit.BarIndex != 1 || exit.PnL != types.NewNullFloat(500) {
					t.Errorf("forceClose() exit trade = %+v", exit)
				}
			}
		})
	}
}

func TestPortfolio_DrawdownUsesRunningPeak(t *testing.T) {
	p := newPortfolio(testConfig(func(c *Config) { c.InitialCapital = 100 }), 4)
	for _, equity := range []float64{100, 120, 90, 150} {
		p.equity = equity
		p.mark()
	}
	want := []float64{0, 0, 0.25, 0}
	for i := range want {
		if !almostEqual(p.drawdowns[i], want[i]) {
			t.Errorf("drawdowns[%d] = %v, want %v", i, p.drawdowns[i], want[i])
		}
	}
}
