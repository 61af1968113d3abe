package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sensora/featpipe/pkg/featpipe"
	"github.com/sensora/featpipe/pkg/featpipe/ml"
	"gopkg.in/yaml.v3"
)

// Config defines the command's configuration.
type Config struct {
	Data           string              `json:"data" toml:"data" yaml:"data"`
	Models         string              `json:"models" toml:"models" yaml:"models"`
	PipelineBase   string              `json:"pipelineBase" toml:"pipelineBase" yaml:"pipelineBase"`
	ClassifierBase string              `json:"classifierBase" toml:"classifierBase" yaml:"classifierBase"`
	Ext            string              `json:"ext" toml:"ext" yaml:"ext"`
	FeatureSets    []string            `json:"featureSets" toml:"featureSets" yaml:"featureSets"`
	Classifiers    []string            `json:"classifiers" toml:"classifiers" yaml:"classifiers"`
	Features       map[string][]string `json:"features" toml:"features" yaml:"features"`
	Build          ChunkConfig         `json:"build" toml:"build" yaml:"build"`
	Eval           ChunkConfig         `json:"eval" toml:"eval" yaml:"eval"`
	Training       TrainingConfig      `json:"training" toml:"training" yaml:"training"`
}

// ChunkConfig maps the feature sets to the names of their feature and
// label csv files (without the .csv extension).
type ChunkConfig struct {
	Data   map[string]string `json:"data" toml:"data" yaml:"data"`
	Labels map[string]string `json:"labels" toml:"labels" yaml:"labels"`
}

// TrainingConfig holds the hyper parameters of the classifiers.
type TrainingConfig struct {
	Hidden       int     `json:"hidden" toml:"hidden" yaml:"hidden"`
	Epochs       int     `json:"epochs" toml:"epochs" yaml:"epochs"`
	LearningRate float64 `json:"learningRate" toml:"learningRate" yaml:"learningRate"`
	Lambda       float64 `json:"lambda" toml:"lambda" yaml:"lambda"`
	K            int     `json:"k" toml:"k" yaml:"k"`
	Seed         uint64  `json:"seed" toml:"seed" yaml:"seed"`
}

// Params returns the classifier parameters of the training config.
func (c TrainingConfig) Params() ml.Params {
	return ml.Params{
		Hidden:       c.Hidden,
		Epochs:       c.Epochs,
		LearningRate: c.LearningRate,
		Lambda:       c.Lambda,
		K:            c.K,
		Seed:         c.Seed,
	}
}

func chunk(n int) ChunkConfig {
	ret := ChunkConfig{
		Data:   make(map[string]string),
		Labels: make(map[string]string),
	}
	for _, fs := range featpipe.FeatureSets {
		ret.Data[fs] = fmt.Sprintf("v000_SCIG_SC_SENSORA_%s_chunk_%d", fs, n)
		ret.Labels[fs] = fmt.Sprintf("v000_SCIG_SC_SENSORA_%s_labels_chunk_%d", fs, n)
	}
	return ret
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	p := ml.DefaultParams()
	return &Config{
		Data:           "../data/csv",
		Models:         "../models",
		PipelineBase:   "transformer_pipeline",
		ClassifierBase: "clf",
		Ext:            ".json.gz",
		FeatureSets:    append([]string(nil), featpipe.FeatureSets...),
		Classifiers:    append([]string(nil), ml.Kinds...),
		Build:          chunk(90),
		Eval:           chunk(10),
		Training: TrainingConfig{
			Hidden:       p.Hidden,
			Epochs:       p.Epochs,
			LearningRate: p.LearningRate,
			Lambda:       p.Lambda,
			K:            p.K,
			Seed:         p.Seed,
		},
	}
}

// DataPaths returns the paths to the feature and label csv files of
// the given feature set in the given chunk.
func (c *Config) DataPaths(chunk ChunkConfig, fs string) (string, string, error) {
	data, ok := chunk.Data[fs]
	if !ok {
		return "", "", fmt.Errorf("no data file for feature set %s", fs)
	}
	labels, ok := chunk.Labels[fs]
	if !ok {
		return "", "", fmt.Errorf("no label file for feature set %s", fs)
	}
	return filepath.Join(c.Data, data+".csv"), filepath.Join(c.Data, labels+".csv"), nil
}

// PipelinePath returns the path of the pipeline file of the given
// feature set.
func (c *Config) PipelinePath(fs string) string {
	return featpipe.PipelinePath(c.Models, c.PipelineBase, fs, c.Ext)
}

// ClassifierPath returns the path of the classifier file of the given
// feature set and classifier kind.
func (c *Config) ClassifierPath(fs, kind string) string {
	return ml.ModelPath(c.Models, c.ClassifierBase, fs, kind, c.Ext)
}

// NewPipeline creates the feature pipeline for the given feature set.
// The selected features can be overwritten in the configuration.
func (c *Config) NewPipeline(fs string) (*featpipe.Pipeline, error) {
	return featpipe.NewFeaturePipeline(fs, c.Features[fs]...)
}

// UpdateInConfig updates the value in dest with val if the according
// value is not the zero-type for the underlying type.  Dest must be a
// pointer type to either string, int, float64, bool or []string.
// Otherwise the function panics.
func UpdateInConfig(dest, val interface{}) {
	switch dest.(type) {
	case *string:
		v := val.(string)
		if v != "" {
			(*dest.(*string)) = v
		}
	case *int:
		v := val.(int)
		if v != 0 {
			(*dest.(*int)) = v
		}
	case *float64:
		v := val.(float64)
		if v != 0 {
			(*dest.(*float64)) = v
		}
	case *bool:
		v := val.(bool)
		if v {
			(*dest.(*bool)) = v
		}
	case *[]string:
		v := val.([]string)
		if len(v) > 0 {
			(*dest.(*[]string)) = v
		}
	default:
		panic("bad type")
	}
}

// ReadConfig reads the config from a json, toml or yaml file.  Values
// that are not set in the file keep their defaults.  If the name is
// empty, the default configuration is returned.  If name has the
// prefix '{' and the suffix '}' the name is interpreted as a json
// string and parsed accordingly.
func ReadConfig(name string) (*Config, error) {
	config := DefaultConfig()
	if name == "" {
		return config, nil
	}
	if strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}") {
		r := strings.NewReader(name)
		if err := json.NewDecoder(r).Decode(config); err != nil {
			return nil, fmt.Errorf("readConfig %s: %v", name, err)
		}
		return config, nil
	}
	is, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("readConfig %s: %v", name, err)
	}
	defer is.Close()
	switch filepath.Ext(name) {
	case ".toml":
		if _, err := toml.NewDecoder(is).Decode(config); err != nil {
			return nil, fmt.Errorf("readConfig %s: %v", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(is).Decode(config); err != nil {
			return nil, fmt.Errorf("readConfig %s: %v", name, err)
		}
	default:
		if err := json.NewDecoder(is).Decode(config); err != nil {
			return nil, fmt.Errorf("readConfig %s: %v", name, err)
		}
	}
	return config, nil
}
