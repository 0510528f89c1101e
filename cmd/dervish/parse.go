package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nihei9/dervish/config"
	"github.com/nihei9/dervish/tree"
)

var parseFlags = struct {
	format *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse [<source file path>]",
		Short:   "Parse a text stream",
		Example: `  cat src | dervish parse -g json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    recoverRun(runParse),
	}
	parseFlags.format = cmd.Flags().StringP("format", "f", "", "output format: tree or json (default tree)")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	format := cfg.Format
	if cmd.Flags().Changed("format") {
		format = *parseFlags.format
	}
	if format != config.FormatTree && format != config.FormatJSON {
		return fmt.Errorf("invalid format: %v", format)
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	}
	name, src, err := readSource(path)
	if err != nil {
		return err
	}
	g, err := newGrammar()
	if err != nil {
		return err
	}

	node, err := g.ParseNode(src)
	if err != nil {
		return nameSource(err, name)
	}

	switch format {
	case config.FormatJSON:
		b, err := json.MarshalIndent(node, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%v\n", string(b))
	default:
		tree.PrintNode(os.Stdout, node)
	}
	return nil
}
