package main

import (
	"github.com/sensora/featpipe/cmd/build"
	"github.com/sensora/featpipe/cmd/eval"
	"github.com/sensora/featpipe/cmd/print"
	"github.com/sensora/featpipe/cmd/train"
	"github.com/sensora/featpipe/cmd/version"
	"github.com/spf13/cobra"
)

var root = &cobra.Command{
	Use:   "featpipe",
	Short: "Feature pipelines and classifier evaluation for sensor signals",
}

func init() {
	root.AddCommand(
		build.CMD,
		eval.CMD,
		print.CMD,
		train.CMD,
		version.CMD,
	)
}

func main() {
	root.Execute()
}
