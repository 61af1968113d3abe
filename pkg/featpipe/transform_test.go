package featpipe

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/stat"
)

func fourierFrame(t *testing.T) *Frame {
	t.Helper()
	cols := map[string][]float64{
		"Unnamed: 0": {0, 1, 2, 3, 4},
		"fx0d5_R":    {1, 2, 3, 4, 5},
		"fx1d5_R":    {2, 4, 6, 8, 10},
		"fx2d5_R":    {1, 1, 2, 2, 3},
		"fx3_R":      {0.5, nan, 0.7, 0.1, 0.9},
		"fx5_R":      {9, 8, 7, 6, 5},
		"fx7_R":      {1, 3, 5, 7, 9},
		"Freq_Gen":   {50, 50, 60, 60, 50},
		"CC_bus":     {1, 2, 1, 2, 1},
		"fx9_R":      {nan, nan, nan, nan, nan},
		"week":       {1, 1, 2, 2, 3},
	}
	names := []string{"Unnamed: 0", "week", "fx0d5_R", "fx1d5_R", "fx2d5_R",
		"fx3_R", "fx5_R", "fx7_R", "Freq_Gen", "CC_bus", "fx9_R"}
	f, err := FrameFromColumns(names, cols)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	return f
}

func TestDropNaN(t *testing.T) {
	f, _ := FrameFromColumns([]string{"a", "b"}, map[string][]float64{
		"a": {1, 2, nan},
		"b": {4, 5, 6},
	})
	got, err := FitTransform(DropNaN{}, f)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	want := MustFrame([]string{"a", "b"}, []int{0, 1}, []float64{1, 4, 2, 5})
	if diff := cmp.Diff(want, got, frameOpts...); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	// the input is left untouched
	if r, _ := f.Dims(); r != 3 {
		t.Fatalf("expected 3 rows; got %d", r)
	}
}

func TestDataCleaning(t *testing.T) {
	f := MustFrame([]string{"a"}, nil, []float64{nan, 1})
	got, err := FitTransform(DataCleaning{}, f)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	if diff := cmp.Diff([]int{1}, got.Index); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFeatureSelection(t *testing.T) {
	for _, fs := range FeatureSets {
		t.Run(fs, func(t *testing.T) {
			sel, err := NewFeatureSelection(fs)
			if err != nil {
				t.Fatalf("got error: %v", err)
			}
			want, _ := SelectedFeatures(fs)
			if diff := cmp.Diff(want, sel.Features); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
	sel, _ := NewFeatureSelection(Fourier)
	got, err := FitTransform(sel, fourierFrame(t))
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	if diff := cmp.Diff(sel.Features, got.Columns); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if r, _ := got.Dims(); r != 5 {
		t.Fatalf("expected 5 rows; got %d", r)
	}
	if _, err := sel.Transform(MustFrame([]string{"fx0d5_R"}, nil, nil)); err == nil {
		t.Fatalf("expected an error")
	}
	custom, _ := NewFeatureSelection(HOS, "a")
	if diff := cmp.Diff([]string{"a"}, custom.Features); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if _, err := NewFeatureSelection("WAVELET"); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestFeatureScaling(t *testing.T) {
	f := MustFrame([]string{"a", "b"}, nil, []float64{
		1, 10,
		2, 20,
		3, 60,
		6, 10,
	})
	s := NewFeatureScaling()
	got, err := FitTransform(s, f)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	for j := range got.Columns {
		mean, std := stat.PopMeanStdDev(got.Col(j), nil)
		if math.Abs(mean) > 1e-9 {
			t.Errorf("expected mean 0; got %g", mean)
		}
		if math.Abs(std-1) > 1e-9 {
			t.Errorf("expected std 1; got %g", std)
		}
	}
	cols, mean, std := s.Stats()
	if diff := cmp.Diff(f.Columns, cols); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if mean[0] != 3 {
		t.Fatalf("expected 3; got %g", mean[0])
	}
	if want := math.Sqrt(3.5); math.Abs(std[0]-want) > 1e-12 {
		t.Fatalf("expected %g; got %g", want, std[0])
	}
	// Transforming new data uses the fitted statistics.
	other, err := s.Transform(MustFrame([]string{"a", "b"}, nil, []float64{3, 25}))
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	if got := other.At(0, 0); got != 0 {
		t.Fatalf("expected 0; got %g", got)
	}
	if _, err := s.Transform(MustFrame([]string{"a"}, nil, []float64{1})); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestFeatureScalingZeroVariance(t *testing.T) {
	f := MustFrame([]string{"a"}, nil, []float64{2, 2})
	got, err := FitTransform(NewFeatureScaling(), f)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	if x := got.At(0, 0); !math.IsNaN(x) {
		t.Fatalf("expected NaN; got %g", x)
	}
}

func TestFeatureScalingErrors(t *testing.T) {
	s := NewFeatureScaling()
	if _, err := s.Transform(MustFrame([]string{"a"}, nil, []float64{1})); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("expected %v; got %v", ErrNotFitted, err)
	}
	if err := s.Fit(MustFrame([]string{"a"}, nil, nil)); err == nil {
		t.Fatalf("expected an error")
	}
	// Fitted on data, an empty frame transforms to an empty frame.
	if err := s.Fit(MustFrame([]string{"a"}, nil, []float64{1, 2})); err != nil {
		t.Fatalf("got error: %v", err)
	}
	got, err := s.Transform(MustFrame([]string{"a"}, nil, nil))
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	if r, _ := got.Dims(); r != 0 {
		t.Fatalf("expected 0 rows; got %d", r)
	}
}

func TestFeatureScalingUnsupportedType(t *testing.T) {
	f := MustFrame([]string{"a"}, nil, []float64{1, 2, 3})
	s := &FeatureScaling{Type: "minmax"}
	if err := s.Fit(f); err != nil {
		t.Fatalf("got error: %v", err)
	}
	got, err := s.Transform(f)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil; got %v", got)
	}
}

func TestFeatureScalingJSON(t *testing.T) {
	s := NewFeatureScaling()
	if err := s.Fit(MustFrame([]string{"a", "b"}, nil, []float64{1, 5, 3, 5})); err != nil {
		t.Fatalf("got error: %v", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	var got FeatureScaling
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("got error: %v", err)
	}
	in := MustFrame([]string{"a", "b"}, nil, []float64{2, 5})
	want, _ := s.Transform(in)
	out, err := got.Transform(in)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	// the zero variance column must survive as NaN
	if diff := cmp.Diff(want, out, frameOpts...); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := json.Unmarshal([]byte(`{"type":"std","columns":["a"],"mean":[1,2]}`), &got); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestGetLabels(t *testing.T) {
	f := MustFrame([]string{"a"}, nil, []float64{1})
	if err := (GetLabels{}).Fit(f); err != nil {
		t.Fatalf("got error: %v", err)
	}
	if _, err := (GetLabels{}).Transform(f); !errors.Is(err, ErrUnboundFeatures) {
		t.Fatalf("expected %v; got %v", ErrUnboundFeatures, err)
	}
}
