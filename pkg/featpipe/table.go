package featpipe

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gonum.org/v1/gonum/mat"
)

func newTable() table.Writer {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	return w
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}

// FormatFrame renders the frame as a table with its row index in the
// first column.
func FormatFrame(f *Frame) string {
	w := newTable()
	header := table.Row{""}
	for _, col := range f.Columns {
		header = append(header, col)
	}
	w.AppendHeader(header)
	r, _ := f.Dims()
	for i := 0; i < r; i++ {
		row := table.Row{f.Index[i]}
		for _, x := range f.Row(i) {
			row = append(row, fmtFloat(x))
		}
		w.AppendRow(row)
	}
	return w.Render()
}

// FormatMatrix renders a square matrix whose rows and columns are
// labeled with the given classes.
func FormatMatrix(m mat.Matrix, classes []string) string {
	w := newTable()
	header := table.Row{"true\\pred"}
	for _, class := range classes {
		header = append(header, class)
	}
	w.AppendHeader(header)
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		row := table.Row{classes[i]}
		for j := 0; j < c; j++ {
			row = append(row, strconv.FormatFloat(m.At(i, j), 'f', 2, 64))
		}
		w.AppendRow(row)
	}
	configs := make([]table.ColumnConfig, 0, c)
	for j := 0; j < c; j++ {
		configs = append(configs, table.ColumnConfig{Number: j + 2, Align: text.AlignRight})
	}
	w.SetColumnConfigs(configs)
	return w.Render()
}

// FormatStats renders the fitted state of a scaling stage.
func FormatStats(columns []string, mean, std []float64) string {
	w := newTable()
	w.AppendHeader(table.Row{"column", "mean", "std"})
	for i, col := range columns {
		w.AppendRow(table.Row{col, fmtFloat(mean[i]), fmtFloat(std[i])})
	}
	return w.Render()
}
