package optimizer

import (
	"math"
	"sort"

	"quantcore/types"
)

// rankValue resolves the sort key of an entry: the chosen metric, then the
// fallback metric, then negative infinity.
func rankValue(metric, fallback types.NullFloat) float64 {
	for _, v := range []types.NullFloat{metric, fallback} {
		if v.Valid && !math.IsNaN(v.Float64) {
			return v.Float64
		}
	}
	return math.Inf(-1)
}

// topN stable sorts a copy of entries descending by score and keeps at most n.
func topN[T any](entries []T, n int, score func(T) float64) []T {
	if n <= 0 {
		return []T{}
	}
	type scored struct {
		entry T
		score float64
	}
	ranked := make([]scored, len(entries))
	for i, e := range entries {
		ranked[i] = scored{entry: e, score: score(e)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]T, n)
	for i := range out {
		out[i] = ranked[i].entry
	}
	return out
}

// TopResults returns the best n grid results by metric, falling back to
// total_return where the metric is undefined. Ties keep enumeration order.
func TopResults(results []GridResult, n int, metric string) []GridResult {
	return topN(results, n, func(r GridResult) float64 {
		return rankValue(r.Metric(metric), r.Metric("total_return"))
	})
}

// TopWalkForward ranks aggregated walk-forward results by key, falling back
// to avg_total_return.
func TopWalkForward(results []Aggregated, n int, key string) []Aggregated {
	return topN(results, n, func(a Aggregated) float64 {
		return rankValue(a.Metric(key), a.AvgTotalReturn)
	})
}
