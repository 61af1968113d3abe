package internal

import (
	"fmt"

	"github.com/sensora/featpipe/pkg/featpipe"
	"github.com/spf13/cobra"
)

// featpipe version
const Version = "v0.1.0"

// Flags is used to define the standard command-line parameters for
// featpipe sub commands.
type Flags struct {
	Params      string   // Path to the configuration file
	Data        string   // Directory of the csv files
	Models      string   // Directory of the pipeline and classifier files
	FeatureSets []string // Feature sets to process
	Log         bool     // Enable logging
}

// Init initializes the standard commandline arguments for the given
// subcommand.
func (flags *Flags) Init(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&flags.Params, "parameters", "P", "",
		"set path to configuration file (json, toml or yaml)")
	cmd.PersistentFlags().StringVarP(&flags.Data, "data", "d", "",
		"set the csv directory (overwrites the setting in the configuration file)")
	cmd.PersistentFlags().StringVarP(&flags.Models, "models", "M", "",
		"set the model directory (overwrites the setting in the configuration file)")
	cmd.PersistentFlags().StringSliceVarP(&flags.FeatureSets, "features", "f", nil,
		"set the feature sets to process (overwrites the setting in the configuration file)")
	cmd.PersistentFlags().BoolVarP(&flags.Log, "log", "l", true, "enable logging")
}

// Config reads the configuration file and applies the command line
// overrides.  It also enables or disables logging.
func (flags *Flags) Config() (*Config, error) {
	featpipe.SetLog(flags.Log)
	c, err := ReadConfig(flags.Params)
	if err != nil {
		return nil, err
	}
	UpdateInConfig(&c.Data, flags.Data)
	UpdateInConfig(&c.Models, flags.Models)
	UpdateInConfig(&c.FeatureSets, flags.FeatureSets)
	for _, fs := range c.FeatureSets {
		if _, err := featpipe.SelectedFeatures(fs); err != nil {
			if _, ok := c.Features[fs]; !ok {
				return nil, fmt.Errorf("config: %v", err)
			}
		}
	}
	return c, nil
}
