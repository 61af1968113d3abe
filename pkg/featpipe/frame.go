package featpipe

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Frame is a table of float values with named columns.  Each row
// keeps the index it had in the table it was originally read from, so
// filtered frames can still be aligned with each other.  Missing values
// are represented as NaN.  Columns that were read but hold non numeric
// values are not part of Columns; they are only remembered by name so
// that selecting them reports a meaningful error.
type Frame struct {
	Columns []string
	Index   []int
	data    []float64         // row major, len(Index)*len(Columns)
	text    map[string]string // non numeric column -> reason
}

// NewFrame creates a new frame with the given columns and row major
// data.  If index is nil, the rows are indexed from 0 to n-1.
func NewFrame(columns []string, index []int, data []float64) (*Frame, error) {
	c := len(columns)
	if c == 0 && len(data) > 0 {
		return nil, fmt.Errorf("newFrame: data without columns")
	}
	if c > 0 && len(data)%c != 0 {
		return nil, fmt.Errorf("newFrame: %d values do not fit %d columns", len(data), c)
	}
	r := 0
	if c > 0 {
		r = len(data) / c
	}
	if index == nil {
		index = make([]int, r)
		for i := range index {
			index[i] = i
		}
	}
	if len(index) != r {
		return nil, fmt.Errorf("newFrame: index of length %d for %d rows", len(index), r)
	}
	seen := make(map[string]bool, c)
	for _, col := range columns {
		if seen[col] {
			return nil, fmt.Errorf("newFrame: duplicate column %q", col)
		}
		seen[col] = true
	}
	return &Frame{Columns: columns, Index: index, data: data}, nil
}

// MustFrame is like NewFrame but panics on errors.
func MustFrame(columns []string, index []int, data []float64) *Frame {
	f, err := NewFrame(columns, index, data)
	if err != nil {
		panic(err)
	}
	return f
}

// FrameFromColumns builds a frame from a map of column values.  The
// order of the columns is given by names.
func FrameFromColumns(names []string, cols map[string][]float64) (*Frame, error) {
	if len(names) == 0 {
		return NewFrame(nil, nil, nil)
	}
	r := len(cols[names[0]])
	data := make([]float64, r*len(names))
	for j, name := range names {
		col, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("frameFromColumns: missing column %q", name)
		}
		if len(col) != r {
			return nil, fmt.Errorf("frameFromColumns %s: bad length %d", name, len(col))
		}
		for i, val := range col {
			data[i*len(names)+j] = val
		}
	}
	return NewFrame(names, nil, data)
}

// Dims returns the number of rows and columns of the frame.
func (f *Frame) Dims() (int, int) {
	return len(f.Index), len(f.Columns)
}

// At returns the value at row i and column j.
func (f *Frame) At(i, j int) float64 {
	return f.data[i*len(f.Columns)+j]
}

// Row returns a view of the i-th row.
func (f *Frame) Row(i int) []float64 {
	c := len(f.Columns)
	return f.data[i*c : (i+1)*c : (i+1)*c]
}

// Col returns a copy of the j-th column.
func (f *Frame) Col(j int) []float64 {
	r, c := f.Dims()
	ret := make([]float64, r)
	for i := 0; i < r; i++ {
		ret[i] = f.data[i*c+j]
	}
	return ret
}

// ColIndex returns the position of the column with the given name.
func (f *Frame) ColIndex(name string) (int, bool) {
	for j, col := range f.Columns {
		if col == name {
			return j, true
		}
	}
	return -1, false
}

// Matrix returns the frame's values as a dense matrix that shares its
// storage with the frame.  It returns nil for frames without any rows
// or columns, since gonum does not allow empty matrices.
func (f *Frame) Matrix() *mat.Dense {
	r, c := f.Dims()
	if r == 0 || c == 0 {
		return nil
	}
	return mat.NewDense(r, c, f.data)
}

// NonNumeric returns the sorted names of the columns that were skipped
// because they contain non numeric values.
func (f *Frame) NonNumeric() []string {
	if len(f.text) == 0 {
		return nil
	}
	ret := make([]string, 0, len(f.text))
	for name := range f.text {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Select returns a new frame that contains only the given columns in
// the given order.  Selecting a non numeric column is an error.
func (f *Frame) Select(names ...string) (*Frame, error) {
	pos := make([]int, len(names))
	for k, name := range names {
		j, ok := f.ColIndex(name)
		if !ok {
			if reason, found := f.text[name]; found {
				return nil, fmt.Errorf("select: column %q is not numeric: %s", name, reason)
			}
			return nil, fmt.Errorf("select: no such column: %q", name)
		}
		pos[k] = j
	}
	return f.project(names, pos)
}

// Drop returns a new frame without the given columns.  Non numeric
// columns can be dropped as well.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	drop := make(map[int]bool, len(names))
	text := copyText(f.text)
	for _, name := range names {
		j, ok := f.ColIndex(name)
		if !ok {
			if _, found := text[name]; found {
				delete(text, name)
				continue
			}
			return nil, fmt.Errorf("drop: no such column: %q", name)
		}
		drop[j] = true
	}
	var cols []string
	var pos []int
	for j, col := range f.Columns {
		if !drop[j] {
			cols = append(cols, col)
			pos = append(pos, j)
		}
	}
	ret, err := f.project(cols, pos)
	if err != nil {
		return nil, err
	}
	if len(text) > 0 {
		ret.text = text
	}
	return ret, nil
}

func copyText(text map[string]string) map[string]string {
	if len(text) == 0 {
		return nil
	}
	ret := make(map[string]string, len(text))
	for name, reason := range text {
		ret[name] = reason
	}
	return ret
}

func (f *Frame) project(cols []string, pos []int) (*Frame, error) {
	r, _ := f.Dims()
	data := make([]float64, 0, r*len(pos))
	for i := 0; i < r; i++ {
		row := f.Row(i)
		for _, j := range pos {
			data = append(data, row[j])
		}
	}
	return NewFrame(append([]string(nil), cols...), append([]int(nil), f.Index...), data)
}

// DropNaN returns a new frame without any row that contains a NaN.
func (f *Frame) DropNaN() *Frame {
	r, c := f.Dims()
	ret := &Frame{
		Columns: append([]string(nil), f.Columns...),
		Index:   []int{},
		text:    copyText(f.text),
	}
	for i := 0; i < r; i++ {
		row := f.Row(i)
		if hasNaN(row) {
			continue
		}
		ret.Index = append(ret.Index, f.Index[i])
		ret.data = append(ret.data, row...)
	}
	if ret.data == nil {
		ret.data = make([]float64, 0, c)
	}
	return ret
}

func hasNaN(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}

// Head returns a frame with the first n rows.
func (f *Frame) Head(n int) *Frame {
	r, c := f.Dims()
	if n > r {
		n = r
	}
	return &Frame{
		Columns: f.Columns,
		Index:   f.Index[:n],
		data:    f.data[:n*c],
		text:    f.text,
	}
}

// Concat concatenates the columns of a and b.  Rows are aligned by
// their index: the result contains the rows of a in order followed by
// the rows that are only present in b.  Cells without a counterpart
// are set to NaN.
func Concat(a, b *Frame) (*Frame, error) {
	cols := append(append([]string(nil), a.Columns...), b.Columns...)
	_, ca := a.Dims()
	_, cb := b.Dims()
	rowsA := make(map[int]int, len(a.Index))
	for i, idx := range a.Index {
		if _, ok := rowsA[idx]; ok {
			return nil, fmt.Errorf("concat: duplicate index %d", idx)
		}
		rowsA[idx] = i
	}
	rowsB := make(map[int]int, len(b.Index))
	for i, idx := range b.Index {
		if _, ok := rowsB[idx]; ok {
			return nil, fmt.Errorf("concat: duplicate index %d", idx)
		}
		rowsB[idx] = i
	}
	index := append([]int(nil), a.Index...)
	for _, idx := range b.Index {
		if _, ok := rowsA[idx]; !ok {
			index = append(index, idx)
		}
	}
	data := make([]float64, 0, len(index)*(ca+cb))
	for _, idx := range index {
		if i, ok := rowsA[idx]; ok {
			data = append(data, a.Row(i)...)
		} else {
			data = appendNaN(data, ca)
		}
		if i, ok := rowsB[idx]; ok {
			data = append(data, b.Row(i)...)
		} else {
			data = appendNaN(data, cb)
		}
	}
	ret, err := NewFrame(cols, index, data)
	if err != nil {
		return nil, fmt.Errorf("concat: %v", err)
	}
	ret.text = copyText(a.text)
	for name, reason := range b.text {
		if ret.text == nil {
			ret.text = make(map[string]string)
		}
		ret.text[name] = reason
	}
	return ret, nil
}

func appendNaN(xs []float64, n int) []float64 {
	for i := 0; i < n; i++ {
		xs = append(xs, math.NaN())
	}
	return xs
}
