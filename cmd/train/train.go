package train

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sensora/featpipe/cmd/internal"
	"github.com/sensora/featpipe/pkg/featpipe"
	"github.com/sensora/featpipe/pkg/featpipe/ml"
	"github.com/spf13/cobra"
)

// CMD defines the featpipe train command.
var CMD = &cobra.Command{
	Use:   "train",
	Short: "Train the classifiers on the build chunk",
	Long: `Transform the build chunk of each feature set with its fitted
pipeline (see featpipe build) and train every configured classifier on
the transformed data.`,
	Run: run,
}

var flags internal.Flags

func init() {
	flags.Init(CMD)
}

func run(_ *cobra.Command, _ []string) {
	c, err := flags.Config()
	chk(err)
	chk(os.MkdirAll(c.Models, 0755))
	for _, fs := range c.FeatureSets {
		chk(train(context.Background(), c, fs))
	}
}

func train(ctx context.Context, c *internal.Config, fs string) error {
	featpipe.Log("feature set: %s", fs)
	set, err := c.LoadSet(ctx, c.Build, fs)
	if err != nil {
		return fmt.Errorf("train %s: %v", fs, err)
	}
	p, err := c.ReadPipeline(fs)
	if err != nil {
		return fmt.Errorf("train %s: %v", fs, err)
	}
	features, err := p.Transform(set.Features)
	if err != nil {
		return fmt.Errorf("train %s: %v", fs, err)
	}
	// Rows with missing values are gone.
	labels, err := set.LabelsOf(features)
	if err != nil {
		return fmt.Errorf("train %s: %v", fs, err)
	}
	x := features.Matrix()
	for _, kind := range c.Classifiers {
		featpipe.Log("training %s on %d samples", kind, len(labels))
		m, err := ml.Train(kind, c.Training.Params(), x, labels)
		if err != nil {
			return fmt.Errorf("train %s: %v", fs, err)
		}
		path := c.ClassifierPath(fs, kind)
		if err := m.Write(path); err != nil {
			return fmt.Errorf("train %s: %v", fs, err)
		}
		featpipe.Log("classifier saved: %s", filepath.Base(path))
	}
	return nil
}

func chk(err error) {
	if err != nil {
		log.Fatalf("error: %v", err)
	}
}
