package repository

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"quantcore/internal/market"
	"quantcore/types"
)

var _ market.Store = (*Database)(nil)

var ErrColumnNotFound = fmt.Errorf("price column not found: %w", types.ErrInvalidInput)

var defaultCloseColumns = []string{"close", "close_price"}

// LoadCSV reads a price series from a CSV file.
func LoadCSV(path, closeColumn string) (market.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return market.Series{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, closeColumn)
}

// ReadCSV parses a CSV with a header row. Column names match case
// insensitively. The close column is closeColumn when given and present,
// otherwise close or close_price, otherwise the last numeric column. High and
// low are only loaded when both columns exist.
func ReadCSV(r io.Reader, closeColumn string) (market.Series, error) {
	rows, err := gocsv.LazyCSVReader(r).ReadAll()
	if err != nil {
		return market.Series{}, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return market.Series{}, ErrNoCandles
	}
	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	data := rows[1:]

	closeIdx, err := findCloseColumn(rows[0], header, data, closeColumn)
	if err != nil {
		return market.Series{}, err
	}
	var series market.Series
	if series.Close, err = parseColumn(data, closeIdx, rows[0][closeIdx]); err != nil {
		return market.Series{}, err
	}
	highIdx, hasHigh := header["high"]
	lowIdx, hasLow := header["low"]
	if hasHigh && hasLow {
		if series.High, err = parseColumn(data, highIdx, "high"); err != nil {
			return market.Series{}, err
		}
		if series.Low, err = parseColumn(data, lowIdx, "low"); err != nil {
			return market.Series{}, err
		}
	}
	return series, nil
}

func findCloseColumn(names []string, header map[string]int, data [][]string, closeColumn string) (int, error) {
	if closeColumn != "" {
		if i, ok := header[strings.ToLower(strings.TrimSpace(closeColumn))]; ok {
			return i, nil
		}
	}
	for _, name := range defaultCloseColumns {
		if i, ok := header[name]; ok {
			return i, nil
		}
	}
	for i := len(names) - 1; i >= 0; i-- {
		if isNumericColumn(data, i) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("columns %v: %w", names, ErrColumnNotFound)
}

func isNumericColumn(data [][]string, col int) bool {
	for _, row := range data {
		if col >= len(row) {
			return false
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64); err != nil {
			return false
		}
	}
	return true
}

func parseColumn(data [][]string, col int, name string) ([]float64, error) {
	out := make([]float64, len(data))
	for i, row := range data {
		if col >= len(row) {
			return nil, fmt.Errorf("row %d has no %s column: %w", i+2, name, types.ErrInvalidInput)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d column %s: %w: %w", i+2, name, types.ErrInvalidInput, err)
		}
		out[i] = v
	}
	return out, nil
}
