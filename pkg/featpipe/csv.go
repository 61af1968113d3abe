package featpipe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Cell values that are read as missing values.
var missing = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"n/a":  true,
	"null": true,
	"none": true,
}

func isMissing(cell string) bool {
	return missing[strings.ToLower(strings.TrimSpace(cell))]
}

// ReadCSV reads a frame from a csv file with a header line.  Empty
// header fields are named `Unnamed: <i>`.  Missing cells are stored as
// NaN.  Columns with any other cell that cannot be parsed as a float
// are kept out of the frame's columns; selecting them later is an
// error (see Frame.NonNumeric).
func ReadCSV(ctx context.Context, in io.Reader) (*Frame, error) {
	r := csv.NewReader(in)
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("readCSV: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("readCSV: %v", err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		columns[i] = name
	}
	var records [][]float64
	text := make(map[string]string)
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("readCSV: %v", err)
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("readCSV: %v", err)
		}
		vals := make([]float64, len(record))
		for i, cell := range record {
			if isMissing(cell) {
				vals[i] = math.NaN()
				continue
			}
			val, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				if _, ok := text[columns[i]]; !ok {
					text[columns[i]] = fmt.Sprintf("line %d: bad value %q", line, cell)
				}
				continue
			}
			vals[i] = val
		}
		records = append(records, vals)
	}
	var keep []int
	var names []string
	for i, name := range columns {
		if _, ok := text[name]; !ok {
			keep = append(keep, i)
			names = append(names, name)
		}
	}
	data := make([]float64, 0, len(records)*len(keep))
	for _, vals := range records {
		for _, i := range keep {
			data = append(data, vals[i])
		}
	}
	f, err := NewFrame(names, nil, data)
	if err != nil {
		return nil, fmt.Errorf("readCSV: %v", err)
	}
	if len(text) > 0 {
		f.text = text
	}
	return f, nil
}

// ReadCSVFile reads a frame from the csv file at the given path.
func ReadCSVFile(ctx context.Context, path string) (*Frame, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("readCSVFile %s: %v", path, err)
	}
	defer in.Close()
	f, err := ReadCSV(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("readCSVFile %s: %v", path, err)
	}
	return f, nil
}

// ReadLabels reads a list of class labels from a csv file with a
// header line and exactly one column.  Labels are returned as trimmed
// strings.
func ReadLabels(ctx context.Context, in io.Reader) ([]string, error) {
	r := csv.NewReader(in)
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("readLabels: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("readLabels: %v", err)
	}
	if len(header) != 1 {
		return nil, fmt.Errorf("readLabels: expected 1 column; got %d", len(header))
	}
	var labels []string
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("readLabels: %v", err)
		}
		record, err := r.Read()
		if err == io.EOF {
			return labels, nil
		}
		if err != nil {
			return nil, fmt.Errorf("readLabels: %v", err)
		}
		labels = append(labels, strings.TrimSpace(record[0]))
	}
}

// ReadLabelsFile reads the labels from the csv file at the given path.
func ReadLabelsFile(ctx context.Context, path string) ([]string, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("readLabelsFile %s: %v", path, err)
	}
	defer in.Close()
	labels, err := ReadLabels(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("readLabelsFile %s: %v", path, err)
	}
	return labels, nil
}
