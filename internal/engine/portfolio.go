package engine

import (
	"quantcore/types"
)

type positionState int

const (
	stateFlat positionState = iota
	stateLong
)

// portfolio is the private state of one simulation run.
type portfolio struct {
	equity   float64
	peak     float64
	leverage float64
	slippage float64
	fee      float64

	state      positionState
	entryPrice float64
	units      float64
	entryBar   int

	equityCurve []float64
	drawdowns   []float64
	trades      []types.Trade
}

func newPortfolio(cfg Config, bars int) *portfolio {
	return &portfolio{
		equity:      cfg.InitialCapital,
		peak:        cfg.InitialCapital,
		leverage:    cfg.Leverage,
		slippage:    cfg.SlippageRate,
		fee:         cfg.CommissionRate,
		state:       stateFlat,
		equityCurve: make([]float64, 0, bars),
		drawdowns:   make([]float64, 0, bars+1),
	}
}

func (p *portfolio) enter(bar int, price, units float64) {
	p.entryPrice = price * (1 + p.slippage)
	p.units = units
	p.entryBar = bar
	commission := units * p.entryPrice * p.fee
	p.equity -= commission
	p.state = stateLong
	p.trades = append(p.trades, types.Trade{
		Kind:       types.TradeEntry,
		BarIndex:   bar,
		Price:      p.entryPrice,
		Units:      units,
		Commission: commission,
	})
}

func (p *portfolio) exit(bar int, price float64) {
	exitPrice := price * (1 - p.slippage)
	pnl := (exitPrice - p.entryPrice) * p.units * p.leverage
	commission := p.units * exitPrice * p.fee
	p.equity += pnl - commission
	p.trades = append(p.trades, types.Trade{
		Kind:       types.TradeExit,
		BarIndex:   bar,
		Price:      exitPrice,
		Units:      p.units,
		Commission: commission,
		PnL:        types.NewNullFloat(pnl),
	})
	p.state = stateFlat
	p.entryPrice = 0
	p.units = 0
	p.entryBar = 0
}

func (p *portfolio) markDrawdown() {
	if p.equity > p.peak {
		p.peak = p.equity
	}
	dd := 0.0
	if p.peak > 0 {
		dd = (p.peak - p.equity) / p.peak
	}
	p.drawdowns = append(p.drawdowns, dd)
}

func (p *portfolio) mark() {
	p.equityCurve = append(p.equityCurve, p.equity)
	p.markDrawdown()
}

// forceClose exits an open position on the last bar and rewrites that bar's
// equity. The drawdown of the rewritten value is appended, so the pre-close
// drawdown of the last bar still counts towards the maximum.
func (p *portfolio) forceClose(lastPrice float64) {
	if p.state != stateLong || len(p.equityCurve) == 0 {
		return
	}
	last := len(p.equityCurve) - 1
	p.exit(last, lastPrice)
	p.equityCurve[last] = p.equity
	p.markDrawdown()
}
