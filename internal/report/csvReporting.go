package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"quantcore/internal/optimizer"
	"quantcore/types"
)

// WriteFile creates path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// WriteGridCSV writes one row per grid combo, in enumeration order.
func WriteGridCSV(w io.Writer, results []optimizer.GridResult) error {
	records := GridRecords(results)
	return marshalCSV(w, &records, []string{"short", "long", "total_return", "sharpe", "sortino", "cagr", "max_drawdown"})
}

func WriteTopCSV(w io.Writer, top []optimizer.GridResult) error {
	records := TopRecords(top)
	return marshalCSV(w, &records, []string{"rank", "short", "long", "sharpe", "cagr", "total_return", "max_drawdown"})
}

func WriteWalkForwardCSV(w io.Writer, agg []optimizer.Aggregated) error {
	records := WalkForwardRecords(agg)
	return marshalCSV(w, &records, []string{"short", "long", "avg_sharpe", "avg_cagr", "avg_total_return", "avg_max_drawdown"})
}

// WriteWalkForwardTopCSV writes rank, short, long and the score under a
// column named after key.
func WriteWalkForwardTopCSV(w io.Writer, top []optimizer.Aggregated, key string) error {
	records := WalkForwardTopRecords(top, key)
	return marshalCSV(w, &records, []string{"rank", "short", "long", key})
}

func WriteTradesCSV(w io.Writer, trades []types.Trade) error {
	return marshalCSV(w, &trades, []string{"kind", "bar_index", "price", "units", "commission", "pnl"})
}

// WriteWalkForwardJSON writes the aggregated records as an indented JSON
// array. Undefined metrics are null.
func WriteWalkForwardJSON(w io.Writer, agg []optimizer.Aggregated) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(WalkForwardRecords(agg)); err != nil {
		return fmt.Errorf("encode walk-forward json: %w", err)
	}
	return nil
}

// marshalCSV writes header and then the records without gocsv's own header,
// so an empty record set still produces a header row.
func marshalCSV(w io.Writer, records interface{}, header []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := gocsv.MarshalCSVWithoutHeaders(records, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
