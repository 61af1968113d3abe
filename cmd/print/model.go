package print

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sensora/featpipe/pkg/featpipe/ml"
	"github.com/spf13/cobra"
)

// modelCMD runs the featpipe print model command.
var modelCMD = &cobra.Command{
	Use:   "model [MODEL...]",
	Short: "Print information about classifiers",
	Run:   runModel,
}

func runModel(_ *cobra.Command, args []string) {
	for _, name := range args {
		m, err := ml.ReadModel(name)
		chk(err)
		if flags.json {
			chk(json.NewEncoder(os.Stdout).Encode(m))
			continue
		}
		_, err = fmt.Printf("%s %s features=%d classes=[%s]\n",
			name, m.Kind, m.Features, strings.Join(m.Classes, ","))
		chk(err)
	}
}
