package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// NullFloat is a float64 that may be undefined. An undefined value is never
// reported as zero: JSON writes null and CSV writes an empty cell.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Undefined is the zero NullFloat.
var Undefined = NullFloat{}

// NewNullFloat returns a defined value unless v is NaN or infinite.
func NewNullFloat(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Float64: v, Valid: true}
}

func (n NullFloat) String() string {
	if !n.Valid {
		return "undefined"
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.Float64) || math.IsInf(n.Float64, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NewNullFloat(v)
	return nil
}

func (n NullFloat) MarshalCSV() (string, error) {
	if !n.Valid || math.IsNaN(n.Float64) || math.IsInf(n.Float64, 0) {
		return "", nil
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64), nil
}

func (n *NullFloat) UnmarshalCSV(s string) error {
	if s == "" {
		*n = NullFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = NewNullFloat(v)
	return nil
}

// Mean averages the defined values, in order. It is undefined when none of the
// values are defined.
func Mean(values []NullFloat) NullFloat {
	var sum float64
	count := 0
	for _, v := range values {
		if !v.Valid {
			continue
		}
		sum += v.Float64
		count++
	}
	if count == 0 {
		return NullFloat{}
	}
	return NewNullFloat(sum / float64(count))
}
