// Package grammars lists the grammars the command line tools work with.
package grammars

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/dervish/driver/lexer"
	"github.com/nihei9/dervish/grammars/json"
	"github.com/nihei9/dervish/grammars/sexp"
	"github.com/nihei9/dervish/reader"
	"github.com/nihei9/dervish/symbol"
	"github.com/nihei9/dervish/tree"
)

// Grammar is a lexer grammar over bytes paired with a parser grammar over its token kinds.
type Grammar interface {
	Name() string
	Symbols() *symbol.TableReader
	Lexer() reader.Node
	Root() reader.Node
	// KindNames returns the token kind names, indexed by kind.
	KindNames() []string
	Tokenize(src []byte) ([]*lexer.Token, error)
	ParseNode(src []byte) (*tree.Node, error)
}

var (
	_ Grammar = &json.Grammar{}
	_ Grammar = &sexp.Parser{}
)

var registry = map[string]func() Grammar{
	"json": func() Grammar {
		return json.New()
	},
	"sexp": func() Grammar {
		return sexp.NewParser()
	},
}

// New builds the grammar called name.
func New(name string) (Grammar, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown grammar: %v; available grammars: %v", name, strings.Join(Names(), ", "))
	}
	return f(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
