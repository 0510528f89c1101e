package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/nihei9/dervish/analysis"
	"github.com/nihei9/dervish/grammars"
	"github.com/nihei9/dervish/reader"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print the FIRST sets and the warnings of a grammar",
		Example: `  dervish describe -g json`,
		Args:    cobra.NoArgs,
		RunE:    recoverRun(runDescribe),
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	g, err := newGrammar()
	if err != nil {
		return err
	}
	return writeDescription(os.Stdout, g)
}

type description struct {
	Name   string
	Lexer  *section
	Parser *section
}

type section struct {
	Analysis *analysis.Analysis
	Warnings []*analysis.Warning
	// tokenName resolves the identities of the FIRST set.
	tokenName func(id reader.TokenID) string
}

func newSection(root reader.Node, tokenName func(id reader.TokenID) string) *section {
	a := analysis.Analyze(root)
	return &section{
		Analysis:  a,
		Warnings:  a.Lint(),
		tokenName: tokenName,
	}
}

const descTemplate = `# Grammar

{{ .Name }}

# Lexer

{{ printSection .Lexer }}
# Parser

{{ printSection .Parser }}`

func writeDescription(w io.Writer, g grammars.Grammar) error {
	kindNames := g.KindNames()
	desc := &description{
		Name: g.Name(),
		Lexer: newSection(g.Lexer(), func(id reader.TokenID) string {
			return strconv.QuoteRune(rune(id))
		}),
		Parser: newSection(g.Root(), func(id reader.TokenID) string {
			if int(id) < len(kindNames) {
				return kindNames[id]
			}
			return fmt.Sprintf("#%v", int(id))
		}),
	}
	names := g.Symbols()

	fns := template.FuncMap{
		"printSection": func(s *section) string {
			a := s.Analysis
			var b strings.Builder

			counts := a.Count()
			kinds := make([]reader.NodeKind, 0, len(counts))
			for k := range counts {
				kinds = append(kinds, k)
			}
			sort.Slice(kinds, func(i, j int) bool {
				return kinds[i] < kinds[j]
			})
			fmt.Fprintf(&b, "%v nodes:", len(a.Nodes()))
			for _, k := range kinds {
				fmt.Fprintf(&b, " %v %v", counts[k], k)
			}
			fmt.Fprintf(&b, "\n")

			fmt.Fprintf(&b, "nullable: %v\n", a.Nullable(a.Root()))
			first := a.First(a.Root())
			fs := make([]string, len(first))
			for i, id := range first {
				fs[i] = s.tokenName(id)
			}
			fmt.Fprintf(&b, "FIRST: %v\n", strings.Join(fs, " "))

			switch len(s.Warnings) {
			case 0:
				fmt.Fprintf(&b, "No warning was detected.\n")
			case 1:
				fmt.Fprintf(&b, "1 warning was detected.\n")
			default:
				fmt.Fprintf(&b, "%v warnings were detected.\n", len(s.Warnings))
			}
			for _, warn := range s.Warnings {
				if warn.Tag.IsNil() {
					fmt.Fprintf(&b, "- %v: %v\n", warn.Kind, warn.Message())
				} else {
					fmt.Fprintf(&b, "- %v: %v: %v\n", warn.Kind, names.Name(warn.Tag), warn.Message())
				}
			}
			return b.String()
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(descTemplate)
	if err != nil {
		return err
	}

	err = tmpl.Execute(w, desc)
	if err != nil {
		return err
	}

	return nil
}
