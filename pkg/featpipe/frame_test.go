package featpipe

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var nan = math.NaN()

var frameOpts = []cmp.Option{
	cmp.AllowUnexported(Frame{}),
	cmpopts.EquateNaNs(),
	cmpopts.EquateEmpty(),
}

func TestNewFrame(t *testing.T) {
	for _, tc := range []struct {
		name    string
		columns []string
		index   []int
		data    []float64
		err     bool
	}{
		{"ok", []string{"a", "b"}, nil, []float64{1, 2, 3, 4}, false},
		{"index", []string{"a", "b"}, []int{3, 7}, []float64{1, 2, 3, 4}, false},
		{"empty", nil, nil, nil, false},
		{"no columns", nil, nil, []float64{1}, true},
		{"ragged", []string{"a", "b"}, nil, []float64{1, 2, 3}, true},
		{"bad index", []string{"a"}, []int{1}, []float64{1, 2}, true},
		{"duplicate", []string{"a", "a"}, nil, []float64{1, 2}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFrame(tc.columns, tc.index, tc.data)
			if got := err != nil; got != tc.err {
				t.Fatalf("expected error=%t; got %v", tc.err, err)
			}
		})
	}
}

func TestFrameAccess(t *testing.T) {
	f := MustFrame([]string{"a", "b"}, nil, []float64{1, 4, 2, 5, 3, 6})
	if r, c := f.Dims(); r != 3 || c != 2 {
		t.Fatalf("expected 3x2; got %dx%d", r, c)
	}
	if got := f.At(1, 1); got != 5 {
		t.Fatalf("expected 5; got %g", got)
	}
	if diff := cmp.Diff([]float64{1, 2, 3}, f.Col(0)); diff != "" {
		t.Fatalf("col mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{3, 6}, f.Row(2)); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, f.Index); diff != "" {
		t.Fatalf("index mismatch (-want +got):\n%s", diff)
	}
	if j, ok := f.ColIndex("b"); !ok || j != 1 {
		t.Fatalf("expected 1; got %d", j)
	}
	if _, ok := f.ColIndex("c"); ok {
		t.Fatalf("expected no column c")
	}
	m := f.Matrix()
	if got := m.At(2, 0); got != 3 {
		t.Fatalf("expected 3; got %g", got)
	}
	if got := MustFrame([]string{"a"}, nil, nil).Matrix(); got != nil {
		t.Fatalf("expected nil matrix; got %v", got)
	}
}

func TestFrameFromColumns(t *testing.T) {
	f, err := FrameFromColumns([]string{"a", "b"}, map[string][]float64{
		"a": {1, 2, nan},
		"b": {4, 5, 6},
	})
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	want := MustFrame([]string{"a", "b"}, nil, []float64{1, 4, 2, 5, nan, 6})
	if diff := cmp.Diff(want, f, frameOpts...); diff != "" {
		t.Fatalf("frame mismatch (-want +got):\n%s", diff)
	}
	if _, err := FrameFromColumns([]string{"a", "c"}, map[string][]float64{"a": {1}}); err == nil {
		t.Fatalf("expected an error")
	}
	if _, err := FrameFromColumns([]string{"a", "b"}, map[string][]float64{
		"a": {1},
		"b": {1, 2},
	}); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestFrameSelectDrop(t *testing.T) {
	f := MustFrame([]string{"a", "b", "c"}, []int{4, 5}, []float64{1, 2, 3, 4, 5, 6})
	got, err := f.Select("c", "a")
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	want := MustFrame([]string{"c", "a"}, []int{4, 5}, []float64{3, 1, 6, 4})
	if diff := cmp.Diff(want, got, frameOpts...); diff != "" {
		t.Fatalf("select mismatch (-want +got):\n%s", diff)
	}
	got, err = f.Drop("b")
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	want = MustFrame([]string{"a", "c"}, []int{4, 5}, []float64{1, 3, 4, 6})
	if diff := cmp.Diff(want, got, frameOpts...); diff != "" {
		t.Fatalf("drop mismatch (-want +got):\n%s", diff)
	}
	if _, err := f.Select("x"); err == nil {
		t.Fatalf("expected an error")
	}
	if _, err := f.Drop("x"); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestFrameDropNaN(t *testing.T) {
	for _, tc := range []struct {
		name      string
		data      []float64
		wantIndex []int
		wantData  []float64
	}{
		{"trailing", []float64{1, 4, 2, 5, nan, 6}, []int{0, 1}, []float64{1, 4, 2, 5}},
		{"none", []float64{1, 4, 2, 5}, []int{0, 1}, []float64{1, 4, 2, 5}},
		{"all", []float64{nan, 1, 2, nan}, nil, nil},
		{"middle", []float64{1, 2, nan, nan, 3, 4}, []int{0, 2}, []float64{1, 2, 3, 4}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := MustFrame([]string{"a", "b"}, nil, tc.data)
			got := f.DropNaN()
			want := MustFrame([]string{"a", "b"}, tc.wantIndex, tc.wantData)
			if tc.wantIndex == nil {
				want.Index = []int{}
			}
			if diff := cmp.Diff(want, got, frameOpts...); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFrameHead(t *testing.T) {
	f := MustFrame([]string{"a"}, nil, []float64{1, 2, 3})
	if r, _ := f.Head(2).Dims(); r != 2 {
		t.Fatalf("expected 2 rows; got %d", r)
	}
	if r, _ := f.Head(10).Dims(); r != 3 {
		t.Fatalf("expected 3 rows; got %d", r)
	}
}

func TestConcat(t *testing.T) {
	a := MustFrame([]string{"a"}, []int{0, 2}, []float64{1, 3})
	b := MustFrame([]string{"b"}, []int{2, 5}, []float64{30, 60})
	got, err := Concat(a, b)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	want := MustFrame([]string{"a", "b"}, []int{0, 2, 5}, []float64{
		1, nan,
		3, 30,
		nan, 60,
	})
	if diff := cmp.Diff(want, got, frameOpts...); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	dup := MustFrame([]string{"b"}, []int{1, 1}, []float64{1, 2})
	if _, err := Concat(a, dup); err == nil {
		t.Fatalf("expected an error")
	}
	if _, err := Concat(a, a); err == nil {
		t.Fatalf("expected an error for duplicate columns")
	}
}

func TestFrameNonNumericPropagation(t *testing.T) {
	a := withText(MustFrame([]string{"a"}, []int{0, 1}, []float64{1, nan}),
		map[string]string{"t": "bad"})
	b := withText(MustFrame([]string{"b"}, []int{0, 1}, []float64{2, 3}),
		map[string]string{"u": "bad"})
	for _, tc := range []struct {
		name string
		f    *Frame
		want []string
	}{
		{"dropNaN", a.DropNaN(), []string{"t"}},
		{"head", a.Head(1), []string{"t"}},
		{"concat", must(Concat(a, b)), []string{"t", "u"}},
		{"select", must(a.Select("a")), nil},
		{"drop", must(a.Drop("a")), []string{"t"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.f.NonNumeric(), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func must(f *Frame, err error) *Frame {
	if err != nil {
		panic(err)
	}
	return f
}
