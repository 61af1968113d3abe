package build

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sensora/featpipe/cmd/internal"
	"github.com/sensora/featpipe/pkg/featpipe"
	"github.com/spf13/cobra"
)

// CMD defines the featpipe build command.
var CMD = &cobra.Command{
	Use:   "build",
	Short: "Fit and save the feature pipelines",
	Long: `Fit one pipeline (drop missing values, select features,
standardize) for each feature set on the build chunk and write the
fitted pipelines to the model directory.`,
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
		chk(build(context.Background(), c, fs))
	}
}

func build(ctx context.Context, c *internal.Config, fs string) error {
	featpipe.Log("feature set: %s", fs)
	set, err := c.LoadSet(ctx, c.Build, fs)
	if err != nil {
		return fmt.Errorf("build %s: %v", fs, err)
	}
	p, err := c.NewPipeline(fs)
	if err != nil {
		return fmt.Errorf("build %s: %v", fs, err)
	}
	// Only the fitted pipeline is kept.
	if _, err := p.FitTransform(set.Features); err != nil {
		return fmt.Errorf("build %s: %v", fs, err)
	}
	path := c.PipelinePath(fs)
	if err := p.Write(path); err != nil {
		return fmt.Errorf("build %s: %v", fs, err)
	}
	featpipe.Log("pipeline saved: %s", filepath.Base(path))
	return nil
}

func chk(err error) {
	if err != nil {
		log.Fatalf("error: %v", err)
	}
}
