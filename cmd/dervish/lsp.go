package main

import (
	"github.com/spf13/cobra"

	"github.com/nihei9/dervish/lsp"
)

func init() {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := newGrammar()
			if err != nil {
				return err
			}
			return lsp.NewServer(g, version).RunStdio()
		},
	}
	rootCmd.AddCommand(cmd)
}
