package print

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sensora/featpipe/pkg/featpipe"
	"github.com/spf13/cobra"
)

// pipelineCMD runs the featpipe print pipeline command.
var pipelineCMD = &cobra.Command{
	Use:   "pipeline [PIPELINE...]",
	Short: "Print the fitted state of pipelines",
	Run:   runPipeline,
}

func runPipeline(_ *cobra.Command, args []string) {
	for _, name := range args {
		p, err := featpipe.ReadPipeline(name)
		chk(err)
		if flags.json {
			chk(json.NewEncoder(os.Stdout).Encode(p))
			continue
		}
		printPipeline(name, p)
	}
}

func printPipeline(name string, p *featpipe.Pipeline) {
	for i, step := range p.Steps {
		kind := fmt.Sprintf("%T", step.Transformer)
		if k, ok := step.Transformer.(interface{ Kind() string }); ok {
			kind = k.Kind()
		}
		_, err := fmt.Printf("%s %d %s %s\n", name, i+1, step.Name, kind)
		chk(err)
		switch t := step.Transformer.(type) {
		case *featpipe.FeatureSelection:
			_, err = fmt.Printf("%s %d %s [%s]\n", name, i+1, t.Extractor, strings.Join(t.Features, ","))
		case *featpipe.FeatureScaling:
			cols, mean, std := t.Stats()
			_, err = fmt.Printf("%s\n", featpipe.FormatStats(cols, mean, std))
		}
		chk(err)
	}
}
