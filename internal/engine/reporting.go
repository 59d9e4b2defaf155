package engine

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"quantcore/types"
)

// Metrics are the performance statistics derived from one run. Optional
// statistics are undefined rather than zero when they cannot be computed.
type Metrics struct {
	TotalReturn      float64         `json:"total_return"`
	MaxDrawdown      float64         `json:"max_drawdown"`
	Returns          []float64       `json:"returns"`
	Sharpe           types.NullFloat `json:"sharpe"`
	Sortino          types.NullFloat `json:"sortino"`
	CAGR             types.NullFloat `json:"cagr"`
	AnnualVolatility types.NullFloat `json:"annual_volatility"`
	WinRate          types.NullFloat `json:"win_rate"`
}

// MetricNames are the names Metric recognizes.
var MetricNames = []string{"total_return", "max_drawdown", "sharpe", "sortino", "cagr", "annual_volatility", "win_rate"}

// Metric looks a statistic up by its export name. Unknown names are undefined.
func (m Metrics) Metric(name string) types.NullFloat {
	switch name {
	case "total_return":
		return types.NewNullFloat(m.TotalReturn)
	case "max_drawdown":
		return types.NewNullFloat(m.MaxDrawdown)
	case "sharpe":
		return m.Sharpe
	case "sortino":
		return m.Sortino
	case "cagr":
		return m.CAGR
	case "annual_volatility":
		return m.AnnualVolatility
	case "win_rate":
		return m.WinRate
	default:
		return types.Undefined
	}
}

// CalcMetrics computes the statistics of an equity curve. drawdowns may hold
// one entry more than equity when the last bar was rewritten by a forced close.
func CalcMetrics(equity, drawdowns []float64, trades []types.Trade, initialCapital, annualization float64) Metrics {
	m := Metrics{
		Returns: calcReturns(equity),
	}

	var wg sync.WaitGroup
	wg.Add(6)
	go func() {
		defer wg.Done()
		m.TotalReturn = calcTotalReturn(equity, initialCapital)
	}()
	go func() {
		defer wg.Done()
		m.MaxDrawdown = calcMaxDrawdown(drawdowns)
	}()
	go func() {
		defer wg.Done()
		m.Sharpe, m.AnnualVolatility = calcSharpeRatio(m.Returns, annualization)
	}()
	go func() {
		defer wg.Done()
		m.Sortino = calcSortinoRatio(m.Returns, annualization)
	}()
	go func() {
		defer wg.Done()
		m.CAGR = calcCAGR(equity, initialCapital, annualization)
	}()
	go func() {
		defer wg.Done()
		m.WinRate = calcWinRate(trades)
	}()
	wg.Wait()

	return m
}

// calcReturns skips bars whose previous equity is zero.
func calcReturns(equity []float64) []float64 {
	if len(equity) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(equity)-1)
	for k := 1; k < len(equity); k++ {
		prev := equity[k-1]
		if prev == 0 {
			continue
		}
		returns = append(returns, (equity[k]-prev)/prev)
	}
	return returns
}

func calcTotalReturn(equity []float64, initialCapital float64) float64 {
	if len(equity) == 0 || initialCapital == 0 {
		return 0
	}
	return (equity[len(equity)-1] - initialCapital) / initialCapital
}

func calcMaxDrawdown(drawdowns []float64) float64 {
	maxDD := 0.0
	for i, dd := range drawdowns {
		if i == 0 || dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// calcSharpeRatio returns the annualized Sharpe ratio together with the
// annualized volatility, both built on the population standard deviation.
func calcSharpeRatio(returns []float64, annualization float64) (types.NullFloat, types.NullFloat) {
	if len(returns) == 0 {
		return types.Undefined, types.Undefined
	}
	mean, std := stat.PopMeanStdDev(returns, nil)
	scale := math.Sqrt(annualization)
	vol := types.NewNullFloat(std * scale)
	if std <= 0 {
		return types.Undefined, vol
	}
	return types.NewNullFloat(mean / std * scale), vol
}

func calcSortinoRatio(returns []float64, annualization float64) types.NullFloat {
	if len(returns) == 0 {
		return types.Undefined
	}
	downside := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		return types.Undefined
	}
	_, downsideStd := stat.PopMeanStdDev(downside, nil)
	if downsideStd <= 0 {
		return types.Undefined
	}
	return types.NewNullFloat(stat.Mean(returns, nil) / downsideStd * math.Sqrt(annualization))
}

func calcCAGR(equity []float64, initialCapital, annualization float64) types.NullFloat {
	if len(equity) == 0 || annualization <= 0 || initialCapital == 0 {
		return types.Undefined
	}
	years := float64(len(equity)) / annualization
	ratio := equity[len(equity)-1] / initialCapital
	return types.NewNullFloat(math.Pow(ratio, 1.0/years) - 1.0)
}

func calcWinRate(trades []types.Trade) types.NullFloat {
	exits, wins := 0, 0
	for _, t := range trades {
		if t.Kind != types.TradeExit || !t.PnL.Valid {
			continue
		}
		exits++
		if t.PnL.Float64 > 0 {
			wins++
		}
	}
	if exits == 0 {
		return types.Undefined
	}
	return types.NewNullFloat(float64(wins) / float64(exits))
}
