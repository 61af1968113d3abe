package internal

import (
	"context"

	"github.com/sensora/featpipe/pkg/featpipe"
	"github.com/sensora/featpipe/pkg/featpipe/ml"
)

// ReadPipeline reads the fitted pipeline of the given feature set.
func (c *Config) ReadPipeline(fs string) (*featpipe.Pipeline, error) {
	path := c.PipelinePath(fs)
	featpipe.Log("loading pipeline: %s", path)
	return featpipe.ReadPipeline(path)
}

// ReadClassifier reads the classifier of the given feature set and
// kind.
func (c *Config) ReadClassifier(fs, kind string) (*ml.Model, error) {
	path := c.ClassifierPath(fs, kind)
	featpipe.Log("loading classifier: %s", path)
	return ml.ReadModel(path)
}

// LoadSet reads the features and labels of the given feature set.
func (c *Config) LoadSet(ctx context.Context, chunk ChunkConfig, fs string) (*featpipe.Set, error) {
	data, labels, err := c.DataPaths(chunk, fs)
	if err != nil {
		return nil, err
	}
	return featpipe.LoadSet(ctx, fs, data, labels)
}
