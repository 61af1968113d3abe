package ml

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
)

// Model wraps a classifier together with the table that maps its class
// indices to class labels.
type Model struct {
	Kind       string
	Classes    []string
	Features   int
	Classifier Classifier
}

// Train fits a new classifier of the given kind.  The class table of
// the model is built from the labels in order of appearance.
func Train(kind string, p Params, x *mat.Dense, labels []string) (*Model, error) {
	clf, err := New(kind, p)
	if err != nil {
		return nil, fmt.Errorf("train: %v", err)
	}
	if x == nil {
		return nil, fmt.Errorf("train %s: no samples", kind)
	}
	m := &Model{Kind: kind, Classifier: clf}
	_, m.Features = x.Dims()
	pos := make(map[string]int)
	y := make([]int, len(labels))
	for i, label := range labels {
		k, ok := pos[label]
		if !ok {
			k = len(m.Classes)
			pos[label] = k
			m.Classes = append(m.Classes, label)
		}
		y[i] = k
	}
	if err := clf.Fit(x, y); err != nil {
		return nil, fmt.Errorf("train %s: %v", kind, err)
	}
	return m, nil
}

// Predict predicts the class labels for the rows of x.  A nil matrix
// (no samples) results in no predictions.
func (m *Model) Predict(x *mat.Dense) ([]string, error) {
	if x == nil {
		return nil, nil
	}
	if _, c := x.Dims(); c != m.Features {
		return nil, fmt.Errorf("predict %s: expected %d features; got %d", m.Kind, m.Features, c)
	}
	ys := m.Classifier.Predict(x)
	ret := make([]string, len(ys))
	for i, y := range ys {
		if y < 0 || y >= len(m.Classes) {
			return nil, fmt.Errorf("predict %s: bad class index %d", m.Kind, y)
		}
		ret[i] = m.Classes[y]
	}
	return ret, nil
}

type modelData struct {
	Kind     string          `json:"kind"`
	Classes  []string        `json:"classes"`
	Features int             `json:"features"`
	Params   json.RawMessage `json:"params"`
}

// MarshalJSON implements the json.Marshaler interface.
func (m *Model) MarshalJSON() ([]byte, error) {
	params, err := json.Marshal(m.Classifier)
	if err != nil {
		return nil, err
	}
	return json.Marshal(modelData{
		Kind:     m.Kind,
		Classes:  m.Classes,
		Features: m.Features,
		Params:   params,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *Model) UnmarshalJSON(data []byte) error {
	var tmp modelData
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	clf, err := New(tmp.Kind, Params{})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(tmp.Params, clf); err != nil {
		return fmt.Errorf("%s: %v", tmp.Kind, err)
	}
	*m = Model{
		Kind:       tmp.Kind,
		Classes:    tmp.Classes,
		Features:   tmp.Features,
		Classifier: clf,
	}
	return nil
}

// ModelPath returns the path of the classifier file for the given
// feature set and classifier kind.
func ModelPath(dir, base, fs, kind, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s%s", base, fs, kind, ext))
}

// ReadModel reads a model from a json encoded, gzipped file.
func ReadModel(path string) (*Model, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("readModel %s: %v", path, err)
	}
	defer in.Close()
	zip, err := gzip.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("readModel %s: %v", path, err)
	}
	defer zip.Close()
	var m Model
	if err := json.NewDecoder(zip).Decode(&m); err != nil {
		return nil, fmt.Errorf("readModel %s: %v", path, err)
	}
	return &m, nil
}

// Write writes the model as json encoded, gzipped file to the given
// path overwriting any previous existing models.  The model is encoded
// before the file is opened, so an encoding error leaves any previous
// file untouched.
func (m *Model) Write(path string) error {
	var buf bytes.Buffer
	zip := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zip).Encode(m); err != nil {
		return fmt.Errorf("write %s: %v", path, err)
	}
	if err := zip.Close(); err != nil {
		return fmt.Errorf("write %s: %v", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0666); err != nil {
		return fmt.Errorf("write %s: %v", path, err)
	}
	return nil
}
