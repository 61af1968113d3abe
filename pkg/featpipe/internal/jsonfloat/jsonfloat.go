// Package jsonfloat encodes float slices as json.  NaN and infinite
// values, which encoding/json rejects, are written as the strings
// "NaN", "+Inf" and "-Inf".
package jsonfloat

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Slice is a []float64 that survives a json round trip even if it
// contains NaN or infinite values.
type Slice []float64

// MarshalJSON implements the json.Marshaler interface.
func (s Slice) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	buf := make([]byte, 0, 2+len(s)*8)
	buf = append(buf, '[')
	for i, x := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		switch {
		case math.IsNaN(x):
			buf = append(buf, `"NaN"`...)
		case math.IsInf(x, 1):
			buf = append(buf, `"+Inf"`...)
		case math.IsInf(x, -1):
			buf = append(buf, `"-Inf"`...)
		default:
			buf = strconv.AppendFloat(buf, x, 'g', -1, 64)
		}
	}
	return append(buf, ']'), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *Slice) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	ret := make(Slice, len(raw))
	for i, r := range raw {
		str := string(r)
		if len(r) > 0 && r[0] == '"' {
			if err := json.Unmarshal(r, &str); err != nil {
				return err
			}
		}
		x, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("bad float: %s", r)
		}
		ret[i] = x
	}
	*s = ret
	return nil
}

// Matrix converts rows of floats to json encodable rows.
func Matrix(rows [][]float64) []Slice {
	if rows == nil {
		return nil
	}
	ret := make([]Slice, len(rows))
	for i, row := range rows {
		ret[i] = row
	}
	return ret
}

// Rows converts json decoded rows back to rows of floats.
func Rows(m []Slice) [][]float64 {
	if m == nil {
		return nil
	}
	ret := make([][]float64, len(m))
	for i, row := range m {
		ret[i] = row
	}
	return ret
}
