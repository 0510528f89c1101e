package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nihei9/dervish/crosslex"
)

// references lists the grammars that have a reference lexer.
var references = map[string]func() []crosslex.Entry{
	"json": crosslex.JSON,
}

func init() {
	cmd := &cobra.Command{
		Use:     "check <source file path>...",
		Short:   "Check the lexer grammar against a reference lexer",
		Example: `  dervish check -g json testdata/*.json`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    recoverRun(runCheck),
	}
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	entries, ok := references[cfg.Grammar]
	if !ok {
		return fmt.Errorf("the %v grammar has no reference lexer", cfg.Grammar)
	}
	g, err := newGrammar()
	if err != nil {
		return err
	}
	ref, err := crosslex.Compile(entries())
	if err != nil {
		return fmt.Errorf("Cannot compile the reference lexer: %w", err)
	}
	c := &crosslex.Checker{
		Grammar:   g.Lexer(),
		Names:     g.Symbols(),
		Reference: ref,
		Skip:      cfg.Skip,
	}

	failed := false
	for _, path := range args {
		name, src, err := readSource(path)
		if err != nil {
			return err
		}
		n, m, err := c.Check(src)
		if err != nil {
			return fmt.Errorf("%v: %w", name, err)
		}
		if m != nil {
			fmt.Fprintf(os.Stdout, "Mismatched %v: %v\n", name, m)
			failed = true
			continue
		}
		fmt.Fprintf(os.Stdout, "Matched %v: %v tokens\n", name, n)
	}
	if failed {
		return errors.New("Check failed")
	}
	return nil
}
