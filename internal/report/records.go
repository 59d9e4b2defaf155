package report

import (
	"quantcore/internal/optimizer"
	"quantcore/types"
)

// Export records. Column names are part of the file format and must not
// change.

type GridRecord struct {
	Short       int             `csv:"short" json:"short"`
	Long        int             `csv:"long" json:"long"`
	TotalReturn types.NullFloat `csv:"total_return" json:"total_return"`
	Sharpe      types.NullFloat `csv:"sharpe" json:"sharpe"`
	Sortino     types.NullFloat `csv:"sortino" json:"sortino"`
	CAGR        types.NullFloat `csv:"cagr" json:"cagr"`
	MaxDrawdown types.NullFloat `csv:"max_drawdown" json:"max_drawdown"`
}

type TopRecord struct {
	Rank        int             `csv:"rank" json:"rank"`
	Short       int             `csv:"short" json:"short"`
	Long        int             `csv:"long" json:"long"`
	Sharpe      types.NullFloat `csv:"sharpe" json:"sharpe"`
	CAGR        types.NullFloat `csv:"cagr" json:"cagr"`
	TotalReturn types.NullFloat `csv:"total_return" json:"total_return"`
	MaxDrawdown types.NullFloat `csv:"max_drawdown" json:"max_drawdown"`
}

type WalkForwardRecord struct {
	Short          int             `csv:"short" json:"short"`
	Long           int             `csv:"long" json:"long"`
	AvgSharpe      types.NullFloat `csv:"avg_sharpe" json:"avg_sharpe"`
	AvgCAGR        types.NullFloat `csv:"avg_cagr" json:"avg_cagr"`
	AvgTotalReturn types.NullFloat `csv:"avg_total_return" json:"avg_total_return"`
	AvgMaxDrawdown types.NullFloat `csv:"avg_max_drawdown" json:"avg_max_drawdown"`
}

// WalkForwardTopRecord's last column is named after the sort key, so its
// header is written separately.
type WalkForwardTopRecord struct {
	Rank  int
	Short int
	Long  int
	Score types.NullFloat
}

func GridRecords(results []optimizer.GridResult) []GridRecord {
	records := make([]GridRecord, len(results))
	for i, r := range results {
		records[i] = GridRecord{
			Short:       r.Short,
			Long:        r.Long,
			TotalReturn: r.Metric("total_return"),
			Sharpe:      r.Metric("sharpe"),
			Sortino:     r.Metric("sortino"),
			CAGR:        r.Metric("cagr"),
			MaxDrawdown: r.Metric("max_drawdown"),
		}
	}
	return records
}

func TopRecords(top []optimizer.GridResult) []TopRecord {
	records := make([]TopRecord, len(top))
	for i, r := range top {
		records[i] = TopRecord{
			Rank:        i + 1,
			Short:       r.Short,
			Long:        r.Long,
			Sharpe:      r.Metric("sharpe"),
			CAGR:        r.Metric("cagr"),
			TotalReturn: r.Metric("total_return"),
			MaxDrawdown: r.Metric("max_drawdown"),
		}
	}
	return records
}

func WalkForwardRecords(agg []optimizer.Aggregated) []WalkForwardRecord {
	records := make([]WalkForwardRecord, len(agg))
	for i, a := range agg {
		records[i] = WalkForwardRecord{
			Short:          a.Short,
			Long:           a.Long,
			AvgSharpe:      a.AvgSharpe,
			AvgCAGR:        a.AvgCAGR,
			AvgTotalReturn: a.AvgTotalReturn,
			AvgMaxDrawdown: a.AvgMaxDrawdown,
		}
	}
	return records
}

func WalkForwardTopRecords(top []optimizer.Aggregated, key string) []WalkForwardTopRecord {
	records := make([]WalkForwardTopRecord, len(top))
	for i, a := range top {
		records[i] = WalkForwardTopRecord{
			Rank:  i + 1,
			Short: a.Short,
			Long:  a.Long,
			Score: a.Score(key),
		}
	}
	return records
}
