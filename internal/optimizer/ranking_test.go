package optimizer

import (
	"testing"

	"quantcore/internal/engine"
	"quantcore/types"
)

func gridResult(short int, totalReturn float64, sharpe types.NullFloat) GridResult {
	return GridResult{
		Short:  short,
		Long:   100,
		Result: &engine.Result{Metrics: engine.Metrics{TotalReturn: totalReturn, Sharpe: sharpe}},
	}
}

func shortsOf(results []GridResult) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Short
	}
	return out
}

func TestTopResults(t *testing.T) {
	results := []GridResult{
		gridResult(1, 0.10, types.NewNullFloat(1.0)),
		gridResult(2, 0.50, types.Undefined),
		gridResult(3, 0.20, types.NewNullFloat(2.0)),
		gridResult(4, 0.30, types.NewNullFloat(1.0)),
		{Short: 5, Long: 100},
	}
	tests := []struct {
		name   string
		n      int
		metric string
		want   []int
	}{
		// sharpe keys: 1, 0.5 (fallback), 2, 1, -inf
		{"by sharpe with fallback and stable ties", 10, "sharpe", []int{3, 1, 4, 2, 5}},
		{"truncated", 2, "sharpe", []int{3, 1}},
		{"by total return", 3, "total_return", []int{2, 4, 3}},
		{"unknown metric falls back to total return", 5, "calmar", []int{2, 4, 3, 1, 5}},
		{"zero", 0, "sharpe", []int{}},
		{"negative", -1, "sharpe", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shortsOf(TopResults(results, tt.n, tt.metric))
			if len(got) != len(tt.want) {
				t.Fatalf("TopResults() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("TopResults() = %v, want %v", got, tt.want)
				}
			}
		})
	}
	if results[0].Short != 1 || results[4].Short != 5 {
		t.Errorf("TopResults() reordered its input")
	}
}

func TestTopWalkForward(t *testing.T) {
	agg := []Aggregated{
		{Short: 1, AvgSharpe: types.NewNullFloat(0.5), AvgTotalReturn: types.NewNullFloat(0.1)},
		{Short: 2, AvgTotalReturn: types.NewNullFloat(0.9)},
		{Short: 3, AvgSharpe: types.NewNullFloat(1.5), AvgTotalReturn: types.NewNullFloat(0.2)},
		{Short: 4},
		{Short: 5, AvgSharpe: types.NewNullFloat(0.5)},
	}
	got := TopWalkForward(agg, 10, "avg_sharpe")
	want := []int{3, 2, 1, 5, 4}
	for i := range want {
		if got[i].Short != want[i] {
			t.Fatalf("TopWalkForward()[%d] = %d, want %d", i, got[i].Short, want[i])
		}
	}
	if s := got[1].Score("avg_sharpe"); s != types.NewNullFloat(0.9) {
		t.Errorf("Score() = %v, want fallback 0.9", s)
	}
	if s := got[4].Score("avg_sharpe"); s.Valid {
		t.Errorf("Score() = %v, want undefined", s)
	}
}
