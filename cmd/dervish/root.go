package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/nihei9/dervish/config"
	verr "github.com/nihei9/dervish/error"
	"github.com/nihei9/dervish/grammars"
)

const version = "0.1.0"

var log = commonlog.GetLogger("dervish.cli")

var rootFlags = struct {
	config  *string
	grammar *string
	verbose *int
	log     *string
	noColor *bool
}{}

// cfg is the configuration in effect once the flags are parsed.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "dervish",
	Short: "Tokenize and parse text with derivative-based grammars",
	Long: `dervish provides the following features:
- Tokenizes and parses a text with a built-in grammar and prints the tree.
- Runs grammar test cases.
- Checks a lexer grammar against a reference lexer and reports grammar warnings.
- Serves syntax diagnostics over the Language Server Protocol.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	rootFlags.config = flags.StringP("config", "c", "", "config file path (.toml, .yaml, or .yml)")
	rootFlags.grammar = flags.StringP("grammar", "g", "", fmt.Sprintf("grammar name: %v (default json)", strings.Join(grammars.Names(), ", ")))
	rootFlags.verbose = flags.CountP("verbose", "v", "increase the log verbosity")
	rootFlags.log = flags.String("log", "", "log file path (default stderr)")
	rootFlags.noColor = flags.Bool("no-color", false, "disable colored diagnostics")
}

func setup(cmd *cobra.Command, args []string) error {
	if *rootFlags.config != "" {
		c, err := config.Load(*rootFlags.config)
		if err != nil {
			return fmt.Errorf("Cannot read a config file: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("grammar") {
		cfg.Grammar = *rootFlags.grammar
	}
	if flags.Changed("verbose") {
		cfg.Log.Verbosity = *rootFlags.verbose
	}
	if flags.Changed("log") {
		cfg.Log.File = *rootFlags.log
	}
	if *rootFlags.noColor {
		cfg.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var path *string
	if cfg.Log.File != "" {
		path = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, path)
	log.Debugf("grammar: %v, format: %v", cfg.Grammar, cfg.Format)

	return nil
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(os.Stderr, err)
		return err
	}
	return nil
}

func printError(w io.Writer, err error) {
	out := termenv.NewOutput(w)
	if !cfg.Color {
		out = termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	var srcErrs verr.SourceErrors
	if errors.As(err, &srcErrs) {
		for _, e := range srcErrs {
			printSourceError(out, e)
		}
		return
	}
	var srcErr *verr.SourceError
	if errors.As(err, &srcErr) {
		printSourceError(out, srcErr)
		return
	}
	fmt.Fprintf(out, "%v\n", out.String(err.Error()).Foreground(termenv.ANSIRed))
}

// printSourceError colors the first line of a source error, which holds the position and the cause.
func printSourceError(out *termenv.Output, e *verr.SourceError) {
	head, rest, _ := strings.Cut(e.Error(), "\n")
	fmt.Fprintf(out, "%v\n", out.String(head).Foreground(termenv.ANSIRed).Bold())
	if rest != "" {
		fmt.Fprintf(out, "%v\n", rest)
	}
}

// recoverRun turns a panic in run into an error and prints the stack.
func recoverRun(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (retErr error) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			err, ok := v.(error)
			if !ok {
				err = fmt.Errorf("an unexpected error occurred: %v", v)
			}
			fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
			retErr = err
		}()
		return run(cmd, args)
	}
}

func newGrammar() (grammars.Grammar, error) {
	return grammars.New(cfg.Grammar)
}

// readSource reads the file at path, or stdin when path is empty. It returns the name
// used in diagnostics.
func readSource(path string) (string, []byte, error) {
	if path == "" || path == "-" {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, err
		}
		return "stdin", src, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("Cannot open the source file %s: %w", path, err)
	}
	return path, src, nil
}

// nameSource sets the source name of a source error.
func nameSource(err error, name string) error {
	var srcErr *verr.SourceError
	if errors.As(err, &srcErr) {
		srcErr.SourceName = name
	}
	return err
}
