// Package json is a JSON grammar built on the reader package: a byte-level lexer
// grammar and a recursive value grammar over the token kinds.
package json

import (
	"errors"
	"fmt"

	"github.com/nihei9/dervish/driver/lexer"
	"github.com/nihei9/dervish/driver/parser"
	verr "github.com/nihei9/dervish/error"
	"github.com/nihei9/dervish/reader"
	"github.com/nihei9/dervish/symbol"
	"github.com/nihei9/dervish/tree"
)

// The token kinds, in the order of the cases of the lexer choice.
const (
	KindLBrace = lexer.KindID(iota)
	KindRBrace
	KindComma
	KindColon
	KindLBracket
	KindRBracket
	KindTrue
	KindFalse
	KindNull
	KindWS
	KindNumber
	KindString

	kindCount = int(KindString) + 1
)

var kindNames = [kindCount]string{
	KindLBrace:   "{",
	KindRBrace:   "}",
	KindComma:    ",",
	KindColon:    ":",
	KindLBracket: "[",
	KindRBracket: "]",
	KindTrue:     "true",
	KindFalse:    "false",
	KindNull:     "null",
	KindWS:       "WS",
	KindNumber:   "NUMBER",
	KindString:   "STRING",
}

// KindNames returns the names of the token kinds indexed by kind.
func KindNames() []string {
	return kindNames[:]
}

type Grammar struct {
	syms  *symbol.Table
	lexer reader.Node
	value reader.Node
}

// New builds the grammar. A grammar caches results while it matches, so it must not
// be used by more than one goroutine at a time.
func New() *Grammar {
	syms := symbol.NewTable()
	return &Grammar{
		syms:  syms,
		lexer: newLexer(syms.Writer()),
		value: newValue(syms.Writer()),
	}
}

func (g *Grammar) Name() string {
	return "json"
}

func (g *Grammar) Symbols() *symbol.TableReader {
	return g.syms.Reader()
}

// Lexer returns the lexer grammar over bytes.
func (g *Grammar) Lexer() reader.Node {
	return g.lexer
}

// Root returns the parser grammar over token kinds.
func (g *Grammar) Root() reader.Node {
	return g.value
}

func (g *Grammar) KindNames() []string {
	return KindNames()
}

func newLexer(w *symbol.TableWriter) reader.Node {
	digit := reader.IncludeBytes("0123456789")
	integer := reader.Seq(digit, reader.Loop(digit))
	exp := reader.Seq(
		reader.IncludeBytes("eE"),
		reader.Optional(reader.IncludeBytes("+-")),
		integer,
	)
	number := reader.Sequence([]reader.Node{
		reader.Optional(reader.Match('-')),
		integer,
		reader.Optional(reader.Seq(reader.Match('.'), integer)),
		reader.Optional(exp),
	}, reader.WithTag(w.MustIntern(kindNames[KindNumber])))

	hex := reader.IncludeBytes("0123456789abcdefABCDEF")
	unicode := reader.Seq(reader.Match('u'), hex, hex, hex, hex)
	esc := reader.Seq(
		reader.Match('\\'),
		reader.Or(reader.IncludeBytes(`"\/bfnrt`), unicode),
	)
	// An unescaped character is any code point but the control characters, '"', and '\'.
	unescaped := reader.Or(
		reader.CodePoints(0x0020, 0x0021),
		reader.CodePoints(0x0023, 0x005b),
		reader.CodePoints(0x005d, 0x10ffff),
	)
	str := reader.Sequence([]reader.Node{
		reader.Match('"'),
		reader.Loop(reader.Or(esc, unescaped)),
		reader.Match('"'),
	}, reader.WithTag(w.MustIntern(kindNames[KindString])))

	ws := reader.Repeat(reader.IncludeBytes(" \t\n\r"), 1, 0, reader.WithTag(w.MustIntern(kindNames[KindWS])))

	cases := make([]reader.Node, kindCount)
	for _, k := range []lexer.KindID{KindLBrace, KindRBrace, KindComma, KindColon, KindLBracket, KindRBracket} {
		cases[k] = reader.Match(reader.TokenID(kindNames[k][0]), reader.WithTag(w.MustIntern(kindNames[k])))
	}
	for _, k := range []lexer.KindID{KindTrue, KindFalse, KindNull} {
		cases[k] = reader.Literal(kindNames[k], reader.WithTag(w.MustIntern(kindNames[k])))
	}
	cases[KindWS] = ws
	cases[KindNumber] = number
	cases[KindString] = str

	return reader.Memoize(reader.Choice(cases, reader.WithMemo(reader.ByteAlphabet)), reader.ByteAlphabet)
}

func newValue(w *symbol.TableWriter) reader.Node {
	tok := func(k lexer.KindID) reader.Node {
		return reader.Match(reader.TokenID(k))
	}
	literal := func(k lexer.KindID) reader.Node {
		return reader.Match(reader.TokenID(k), reader.WithTag(w.MustIntern(kindNames[k])))
	}
	// list returns `open (elem (',' elem)*)? close`.
	list := func(opening, closing lexer.KindID, elem reader.Node, tag string) reader.Node {
		return reader.Sequence([]reader.Node{
			tok(opening),
			reader.Optional(reader.Seq(elem, reader.Loop(reader.Seq(tok(KindComma), elem)))),
			tok(closing),
		}, reader.WithTag(w.MustIntern(tag)))
	}

	value := reader.NewRef()
	str := literal(KindString)
	array := list(KindLBracket, KindRBracket, value, "array")
	pair := reader.Sequence([]reader.Node{
		str,
		tok(KindColon),
		value,
	}, reader.WithTag(w.MustIntern("pair")))
	object := list(KindLBrace, KindRBrace, pair, "object")
	value.Set(reader.Memoize(reader.Choice([]reader.Node{
		str,
		literal(KindNumber),
		object,
		array,
		literal(KindTrue),
		literal(KindFalse),
		literal(KindNull),
	}, reader.WithMemo(kindCount)), kindCount))
	return value
}

// Tokenize splits src into tokens, dropping whitespace.
func (g *Grammar) Tokenize(src []byte) ([]*lexer.Token, error) {
	toks, err := lexer.Tokenize(src, g.lexer, g.syms.Reader(), lexer.Skip(kindNames[KindWS]))
	if err != nil {
		var noTok *lexer.NoTokenError
		if errors.As(err, &noTok) {
			return nil, verr.NewSourceError(err, "", src, noTok.Start)
		}
		return nil, err
	}
	return toks, nil
}

// Parse tokenizes and parses src, and returns the tree of the value. Errors located
// in src are *error.SourceError.
func (g *Grammar) Parse(src []byte) (*tree.Tree[*lexer.Token], error) {
	toks, err := g.Tokenize(src)
	if err != nil {
		return nil, err
	}
	res := parser.Parse(toks, g.value, parser.ExpectedTokens(kindCount, kindName))
	if err := res.Err(); err != nil {
		var synErr *parser.SyntaxError
		if errors.As(err, &synErr) {
			offset := len(src)
			if synErr.Index < len(toks) {
				offset = toks[synErr.Index].Start
			}
			return nil, verr.NewSourceError(err, "", src, offset)
		}
		return nil, err
	}
	return tree.FromTrace(g.value, res.Success, toks), nil
}

// ParseNode is like Parse but resolves the tree into a named node.
func (g *Grammar) ParseNode(src []byte) (*tree.Node, error) {
	t, err := g.Parse(src)
	if err != nil {
		return nil, err
	}
	return tree.Encode(t, g.syms.Reader()), nil
}

func kindName(id reader.TokenID) string {
	if id < 0 || int(id) >= kindCount {
		return fmt.Sprintf("#%v", int(id))
	}
	return kindNames[id]
}

// Parse parses src with a new grammar and returns the tree with the symbol table
// resolving its tags.
func Parse(src []byte) (*tree.Tree[*lexer.Token], *symbol.Table, error) {
	g := New()
	t, err := g.Parse(src)
	return t, g.syms, err
}
