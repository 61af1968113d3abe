package featpipe

import "fmt"

// Parts holds a data set that is split into numerical and categorical
// features.  Both frames share the same row index.
type Parts struct {
	Numerical   *Frame
	Categorical *Frame
}

// RemoveFeatures removes unwanted columns from both parts.
type RemoveFeatures struct {
	Features []string
}

// NewRemoveFeatures creates a new RemoveFeatures stage.  If no features
// are given, the `week` column is removed.
func NewRemoveFeatures(features ...string) *RemoveFeatures {
	if len(features) == 0 {
		features = []string{"week"}
	}
	return &RemoveFeatures{Features: features}
}

// Fit does nothing.
func (*RemoveFeatures) Fit(Parts) error { return nil }

// Transform drops the configured columns from both parts.  Both parts
// must contain all of the columns.
func (r *RemoveFeatures) Transform(p Parts) (Parts, error) {
	num, err := p.Numerical.Drop(r.Features...)
	if err != nil {
		return Parts{}, fmt.Errorf("removeFeatures: numerical: %v", err)
	}
	cat, err := p.Categorical.Drop(r.Features...)
	if err != nil {
		return Parts{}, fmt.Errorf("removeFeatures: categorical: %v", err)
	}
	return Parts{Numerical: num, Categorical: cat}, nil
}

// MergeFeatures concatenates the numerical and the categorical part
// into one frame.
type MergeFeatures struct{}

// Fit does nothing.
func (MergeFeatures) Fit(Parts) error { return nil }

// Transform concatenates the columns of both parts; rows are aligned
// by their index.
func (MergeFeatures) Transform(p Parts) (*Frame, error) {
	f, err := Concat(p.Numerical, p.Categorical)
	if err != nil {
		return nil, fmt.Errorf("mergeFeatures: %v", err)
	}
	return f, nil
}
