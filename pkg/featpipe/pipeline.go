package featpipe

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// registered stage kinds
var stages = map[string]func() Transformer{
	KindDropNaN:          func() Transformer { return &DropNaN{} },
	KindDataCleaning:     func() Transformer { return &DataCleaning{} },
	KindFeatureSelection: func() Transformer { return &FeatureSelection{} },
	KindFeatureScaling:   func() Transformer { return &FeatureScaling{} },
	KindGetLabels:        func() Transformer { return &GetLabels{} },
}

type kinder interface {
	Kind() string
}

// Step is a named stage of a pipeline.
type Step struct {
	Name        string
	Transformer Transformer
}

// Pipeline applies its steps in order.
type Pipeline struct {
	Steps []Step
}

// NewPipeline creates a new pipeline from the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{Steps: steps}
}

// NewFeaturePipeline creates the standard pipeline for the given
// feature set: drop rows with missing values, select the feature set's
// columns and standardize them.  If features are given, they replace
// the feature set's selected columns.
func NewFeaturePipeline(fs string, features ...string) (*Pipeline, error) {
	sel, err := NewFeatureSelection(fs, features...)
	if err != nil {
		return nil, fmt.Errorf("newFeaturePipeline: %v", err)
	}
	return NewPipeline(
		Step{Name: "cleaner", Transformer: DropNaN{}},
		Step{Name: "selector", Transformer: sel},
		Step{Name: "scaler", Transformer: NewFeatureScaling()},
	), nil
}

// Fit fits each step on the output of the previous step.
func (p *Pipeline) Fit(f *Frame) error {
	_, err := p.fit(f, false)
	return err
}

// FitTransform fits the pipeline and returns the output of its last
// step.
func (p *Pipeline) FitTransform(f *Frame) (*Frame, error) {
	return p.fit(f, true)
}

func (p *Pipeline) fit(f *Frame, transformLast bool) (*Frame, error) {
	for i, step := range p.Steps {
		if err := step.Transformer.Fit(f); err != nil {
			return nil, fmt.Errorf("fit %s: %v", step.Name, err)
		}
		if i == len(p.Steps)-1 && !transformLast {
			return f, nil
		}
		out, err := step.Transformer.Transform(f)
		if err != nil {
			return nil, fmt.Errorf("fit %s: %v", step.Name, err)
		}
		if out == nil {
			return nil, fmt.Errorf("fit %s: stage returned no data", step.Name)
		}
		f = out
	}
	return f, nil
}

// Transform applies all steps to the given frame using the fitted
// parameters of the steps.
func (p *Pipeline) Transform(f *Frame) (*Frame, error) {
	for _, step := range p.Steps {
		out, err := step.Transformer.Transform(f)
		if err != nil {
			return nil, fmt.Errorf("transform %s: %v", step.Name, err)
		}
		if out == nil {
			return nil, fmt.Errorf("transform %s: stage returned no data", step.Name)
		}
		f = out
	}
	return f, nil
}

// Transformer interface for pipelines.
var _ Transformer = &Pipeline{}

type stepData struct {
	Name   string          `json:"name"`
	Kind   string          `json:"kind"`
	Params json.RawMessage `json:"params"`
}

// MarshalJSON implements the json.Marshaler interface.  Every step must
// be one of the registered stage kinds.
func (p *Pipeline) MarshalJSON() ([]byte, error) {
	steps := make([]stepData, len(p.Steps))
	for i, step := range p.Steps {
		k, ok := step.Transformer.(kinder)
		if !ok {
			return nil, fmt.Errorf("marshal %s: unknown stage %T", step.Name, step.Transformer)
		}
		params, err := json.Marshal(step.Transformer)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %v", step.Name, err)
		}
		steps[i] = stepData{Name: step.Name, Kind: k.Kind(), Params: params}
	}
	return json.Marshal(struct {
		Steps []stepData `json:"steps"`
	}{steps})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *Pipeline) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Steps []stepData `json:"steps"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	steps := make([]Step, len(tmp.Steps))
	for i, sd := range tmp.Steps {
		mk, ok := stages[sd.Kind]
		if !ok {
			return fmt.Errorf("unmarshal %s: no such stage kind: %s", sd.Name, sd.Kind)
		}
		t := mk()
		if len(sd.Params) > 0 {
			if err := json.Unmarshal(sd.Params, t); err != nil {
				return fmt.Errorf("unmarshal %s: %v", sd.Name, err)
			}
		}
		steps[i] = Step{Name: sd.Name, Transformer: t}
	}
	p.Steps = steps
	return nil
}

// PipelinePath returns the path of the pipeline file for the given
// feature set.
func PipelinePath(dir, base, fs, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", base, fs, ext))
}

// ReadPipeline reads a pipeline from a json encoded, gzipped file.
func ReadPipeline(path string) (*Pipeline, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("readPipeline %s: %v", path, err)
	}
	defer in.Close()
	zip, err := gzip.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("readPipeline %s: %v", path, err)
	}
	defer zip.Close()
	var p Pipeline
	if err := json.NewDecoder(zip).Decode(&p); err != nil {
		return nil, fmt.Errorf("readPipeline %s: %v", path, err)
	}
	return &p, nil
}

// Write writes the pipeline as json encoded, gzipped file to the given
// path overwriting any previous existing pipelines.  The pipeline is encoded
// before the file is opened, so an encoding error leaves any previous
// file untouched.
func (p *Pipeline) Write(path string) error {
	var buf bytes.Buffer
	zip := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zip).Encode(p); err != nil {
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
