package featpipe

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Names of the feature sets.
const (
	Fourier = "FOURIER" // Fourier coefficients
	HOS     = "HOS"     // higher order statistics
	SCM     = "SCM"     // signal co-occurrence matrix
)

// FeatureSets lists the names of all feature sets in processing
// order.
var FeatureSets = []string{Fourier, HOS, SCM}

// selected lists the columns that are kept for each feature set.
var selected = map[string][]string{
	Fourier: {"fx0d5_R", "fx1d5_R", "fx2d5_R", "fx3_R", "fx5_R", "fx7_R", "Freq_Gen", "CC_bus"},
	HOS:     {"Skewness_R", "Kurtosis_R", "Variance_R", "RMS_R", "Freq_Gen", "CC_bus"},
	SCM:     {"scm_COR_R", "scm_IDM_R", "scm_ENT_R", "scm_CSD_R", "scm_CSR_R", "Freq_Gen", "CC_bus"},
}

// SelectedFeatures returns a copy of the ordered list of columns that
// are kept for the given feature set.
func SelectedFeatures(fs string) ([]string, error) {
	cols, ok := selected[fs]
	if !ok {
		return nil, fmt.Errorf("selectedFeatures %s: no such feature set", fs)
	}
	return append([]string(nil), cols...), nil
}

// Set holds the raw features and the labels of one feature set.
type Set struct {
	Name     string
	Features *Frame
	Labels   []string
}

// LoadSet reads the feature csv and the label csv of a feature set.
// Both files are read concurrently.
func LoadSet(ctx context.Context, name, features, labels string) (*Set, error) {
	set := Set{Name: name}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := ReadCSVFile(gctx, features)
		if err != nil {
			return err
		}
		set.Features = f
		return nil
	})
	g.Go(func() error {
		ls, err := ReadLabelsFile(gctx, labels)
		if err != nil {
			return err
		}
		set.Labels = ls
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loadSet %s: %v", name, err)
	}
	Log("loaded %s: %d rows, %d columns, %d labels",
		name, len(set.Features.Index), len(set.Features.Columns), len(set.Labels))
	if text := set.Features.NonNumeric(); len(text) > 0 {
		Log("%s: skipped non numeric columns %s", name, strings.Join(text, ", "))
	}
	return &set, nil
}

// LabelsOf returns the labels of the rows of f.  The rows are matched
// by their original index, so f may be a filtered version of the set's
// features.
func (s *Set) LabelsOf(f *Frame) ([]string, error) {
	ret := make([]string, len(f.Index))
	for i, idx := range f.Index {
		if idx < 0 || idx >= len(s.Labels) {
			return nil, fmt.Errorf("labelsOf %s: no label for row %d", s.Name, idx)
		}
		ret[i] = s.Labels[idx]
	}
	return ret, nil
}
