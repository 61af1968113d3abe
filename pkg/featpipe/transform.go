package featpipe

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sensora/featpipe/pkg/featpipe/internal/jsonfloat"
	"gonum.org/v1/gonum/stat"
)

// Transformer defines the fit/transform contract of pipeline stages.
// Fit learns the parameters of the stage (if any) from the given
// frame, Transform applies the stage to a frame.
type Transformer interface {
	Fit(*Frame) error
	Transform(*Frame) (*Frame, error)
}

// FitTransform fits the transformer on the given frame and returns
// the transformed frame.
func FitTransform(t Transformer, f *Frame) (*Frame, error) {
	if err := t.Fit(f); err != nil {
		return nil, err
	}
	return t.Transform(f)
}

var (
	// ErrNotFitted is returned if a stage is used before it was fitted.
	ErrNotFitted = errors.New("not fitted")
	// ErrUnboundFeatures is returned by GetLabels.
	ErrUnboundFeatures = errors.New("feature table is not bound")
)

// Stage kinds.
const (
	KindDropNaN          = "DropNaN"
	KindDataCleaning     = "DataCleaning"
	KindFeatureSelection = "FeatureSelection"
	KindFeatureScaling   = "FeatureScaling"
	KindGetLabels        = "GetLabels"
)

// DropNaN removes any row that contains a missing value.
type DropNaN struct{}

// Kind returns the stage kind.
func (DropNaN) Kind() string { return KindDropNaN }

// Fit does nothing.
func (DropNaN) Fit(*Frame) error { return nil }

// Transform returns a new frame without the rows that contain a NaN.
// The result may be empty.
func (DropNaN) Transform(f *Frame) (*Frame, error) {
	return f.DropNaN(), nil
}

// FeatureSelection keeps a fixed list of columns.
type FeatureSelection struct {
	Extractor string   `json:"extractor"`
	Features  []string `json:"features"`
}

// NewFeatureSelection creates a new feature selection stage for the
// given extractor.  If no features are given, the selected features of
// the extractor's feature set are used.
func NewFeatureSelection(extractor string, features ...string) (*FeatureSelection, error) {
	if len(features) == 0 {
		fs, err := SelectedFeatures(extractor)
		if err != nil {
			return nil, fmt.Errorf("newFeatureSelection: %v", err)
		}
		features = fs
	}
	return &FeatureSelection{Extractor: extractor, Features: features}, nil
}

// Kind returns the stage kind.
func (*FeatureSelection) Kind() string { return KindFeatureSelection }

// Fit does nothing.
func (*FeatureSelection) Fit(*Frame) error { return nil }

// Transform returns a frame with the configured columns in the
// configured order.
func (s *FeatureSelection) Transform(f *Frame) (*Frame, error) {
	ret, err := f.Select(s.Features...)
	if err != nil {
		return nil, fmt.Errorf("featureSelection %s: %v", s.Extractor, err)
	}
	return ret, nil
}

// Scaling types.
const (
	ScaleStd = "std" // z-score standardization
)

// FeatureScaling standardizes each column using the mean and the
// standard deviation learned by Fit.
type FeatureScaling struct {
	Type    string
	columns []string
	mean    []float64
	std     []float64
}

// NewFeatureScaling returns a new standard scaling stage.
func NewFeatureScaling() *FeatureScaling {
	return &FeatureScaling{Type: ScaleStd}
}

// Kind returns the stage kind.
func (*FeatureScaling) Kind() string { return KindFeatureScaling }

// Fit calculates the mean and the population standard deviation of
// each column.
func (s *FeatureScaling) Fit(f *Frame) error {
	r, c := f.Dims()
	if r == 0 {
		return fmt.Errorf("featureScaling: cannot fit 0 samples")
	}
	s.columns = append([]string(nil), f.Columns...)
	s.mean = make([]float64, c)
	s.std = make([]float64, c)
	for j := 0; j < c; j++ {
		s.mean[j], s.std[j] = stat.PopMeanStdDev(f.Col(j), nil)
	}
	return nil
}

// Transform applies (x-mean)/std to each value.  Columns with a
// standard deviation of 0 result in NaN or Inf values.  If Type is
// not a known scaling type, Transform returns neither a frame nor an
// error.
func (s *FeatureScaling) Transform(f *Frame) (*Frame, error) {
	if s.mean == nil {
		return nil, fmt.Errorf("featureScaling: %w", ErrNotFitted)
	}
	if s.Type != ScaleStd {
		return nil, nil
	}
	r, c := f.Dims()
	if c != len(s.mean) {
		return nil, fmt.Errorf("featureScaling: expected %d columns; got %d", len(s.mean), c)
	}
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j, x := range f.Row(i) {
			data = append(data, (x-s.mean[j])/s.std[j])
		}
	}
	ret, err := NewFrame(append([]string(nil), f.Columns...), append([]int(nil), f.Index...), data)
	if err != nil {
		return nil, fmt.Errorf("featureScaling: %v", err)
	}
	return ret, nil
}

// Stats returns the fitted column names, means and standard deviations.
func (s *FeatureScaling) Stats() (columns []string, mean, std []float64) {
	return s.columns, s.mean, s.std
}

type scalingData struct {
	Type    string          `json:"type"`
	Columns []string        `json:"columns,omitempty"`
	Mean    jsonfloat.Slice `json:"mean,omitempty"`
	Std     jsonfloat.Slice `json:"std,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (s *FeatureScaling) MarshalJSON() ([]byte, error) {
	return json.Marshal(scalingData{
		Type:    s.Type,
		Columns: s.columns,
		Mean:    s.mean,
		Std:     s.std,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *FeatureScaling) UnmarshalJSON(data []byte) error {
	var tmp scalingData
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if len(tmp.Mean) != len(tmp.Std) || len(tmp.Mean) != len(tmp.Columns) {
		return fmt.Errorf("featureScaling: inconsistent fitted state")
	}
	*s = FeatureScaling{
		Type:    tmp.Type,
		columns: tmp.Columns,
		mean:    tmp.Mean,
		std:     tmp.Std,
	}
	return nil
}

// DataCleaning removes any row that contains a missing value.  It is
// the cleaning step of the two-part (numerical/categorical) layout.
type DataCleaning struct{}

// Kind returns the stage kind.
func (DataCleaning) Kind() string { return KindDataCleaning }

// Fit does nothing.
func (DataCleaning) Fit(*Frame) error { return nil }

// Transform drops all rows with missing values.
func (DataCleaning) Transform(f *Frame) (*Frame, error) {
	return f.DropNaN(), nil
}

// GetLabels was meant to look up the labels for the rows of a feature
// table.  The feature table was never wired into the stage, so it
// fails whenever it is used.
type GetLabels struct{}

// Kind returns the stage kind.
func (GetLabels) Kind() string { return KindGetLabels }

// Fit does nothing.
func (GetLabels) Fit(*Frame) error { return nil }

// Transform always returns ErrUnboundFeatures.
func (GetLabels) Transform(*Frame) (*Frame, error) {
	return nil, fmt.Errorf("getLabels: %w", ErrUnboundFeatures)
}

var (
	_ Transformer = DropNaN{}
	_ Transformer = &FeatureSelection{}
	_ Transformer = &FeatureScaling{}
	_ Transformer = DataCleaning{}
	_ Transformer = GetLabels{}
)
