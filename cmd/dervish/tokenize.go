package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nihei9/dervish/driver/lexer"
	verr "github.com/nihei9/dervish/error"
)

var tokenizeFlags = struct {
	all *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "tokenize [<source file path>]",
		Short:   "Tokenize a text stream",
		Example: `  cat src | dervish tokenize -g json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    recoverRun(runTokenize),
	}
	tokenizeFlags.all = cmd.Flags().Bool("all", false, "print the skipped tokens too")
	rootCmd.AddCommand(cmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
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

	var opts []lexer.LexerOption
	if !*tokenizeFlags.all {
		opts = append(opts, lexer.Skip(cfg.Skip...))
	}
	lex, err := lexer.NewLexer(src, g.Lexer(), g.Symbols(), opts...)
	if err != nil {
		return err
	}
	for tok, err := range lex.All() {
		if err != nil {
			var noTok *lexer.NoTokenError
			if errors.As(err, &noTok) {
				return verr.NewSourceError(err, name, src, noTok.Start)
			}
			return err
		}
		fmt.Fprintf(os.Stdout, "%v:%v %v %q\n", tok.Row+1, tok.Col+1, tok.KindName, tok.Text())
	}
	return nil
}
