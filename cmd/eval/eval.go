package eval

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/sensora/featpipe/cmd/internal"
	"github.com/sensora/featpipe/pkg/featpipe"
	"github.com/spf13/cobra"
)

// CMD defines the featpipe eval command.
var CMD = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the classifiers on the evaluation chunk",
	Long: `Transform the evaluation chunk of each feature set with its
fitted pipeline and print the percentage confusion matrix and the
accuracy of every configured classifier.`,
	Run: run,
}

var flags internal.Flags

func init() {
	flags.Init(CMD)
}

func run(_ *cobra.Command, _ []string) {
	c, err := flags.Config()
	chk(err)
	for _, fs := range c.FeatureSets {
		chk(eval(context.Background(), os.Stdout, c, fs))
	}
}

func eval(ctx context.Context, out io.Writer, c *internal.Config, fs string) error {
	featpipe.Log("feature set: %s", fs)
	set, err := c.LoadSet(ctx, c.Eval, fs)
	if err != nil {
		return fmt.Errorf("eval %s: %v", fs, err)
	}
	p, err := c.ReadPipeline(fs)
	if err != nil {
		return fmt.Errorf("eval %s: %v", fs, err)
	}
	features, err := p.Transform(set.Features)
	if err != nil {
		return fmt.Errorf("eval %s: %v", fs, err)
	}
	featpipe.Log("transformed data:\n%s", featpipe.FormatFrame(features.Head(5)))
	if r, _ := features.Dims(); r != len(set.Labels) {
		return fmt.Errorf("eval %s: %d labels for %d samples", fs, len(set.Labels), r)
	}
	x := features.Matrix()
	for _, kind := range c.Classifiers {
		featpipe.Log("classifier: %s", kind)
		m, err := c.ReadClassifier(fs, kind)
		if err != nil {
			return fmt.Errorf("eval %s: %v", fs, err)
		}
		featpipe.Log("loaded classifier: %s", filepath.Base(c.ClassifierPath(fs, kind)))
		pred, err := m.Predict(x)
		if err != nil {
			return fmt.Errorf("eval %s: %v", fs, err)
		}
		if err := report(out, set.Labels, pred); err != nil {
			return fmt.Errorf("eval %s %s: %v", fs, kind, err)
		}
	}
	return nil
}

func report(out io.Writer, yTrue, yPred []string) error {
	cm, classes, err := featpipe.ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return err
	}
	acc, err := featpipe.Accuracy(yTrue, yPred)
	if err != nil {
		return err
	}
	f := formater{out: out}
	f.printf("Confusion Matrix:\n")
	f.printf("%s\n", featpipe.FormatMatrix(featpipe.PercentageConfusionMatrix(cm), classes))
	f.printf("Accuracy: %v\n", acc)
	return f.err
}

type formater struct {
	out io.Writer
	err error
}

func (f *formater) printf(format string, args ...interface{}) {
	if f.err != nil {
		return
	}
	_, f.err = fmt.Fprintf(f.out, format, args...)
}

func chk(err error) {
	if err != nil {
		log.Fatalf("error: %v", err)
	}
}
