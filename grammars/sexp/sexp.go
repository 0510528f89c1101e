// Package sexp parses trees written as S-expressions:
//
//	()                  an empty tree
//	(kind "text")       a leaf; 'text' is a raw string
//	(kind child...)     an interior node
//
// The kind `<anonymous>` stands for an untagged tree and `_` matches any kind when
// trees are compared.
package sexp

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nihei9/dervish/driver/lexer"
	"github.com/nihei9/dervish/driver/parser"
	verr "github.com/nihei9/dervish/error"
	"github.com/nihei9/dervish/reader"
	"github.com/nihei9/dervish/symbol"
	"github.com/nihei9/dervish/tree"
)

const (
	kindLParen = lexer.KindID(iota)
	kindRParen
	kindWS
	kindString
	kindRawString
	kindName

	kindCount = int(kindName) + 1
)

var kindNames = [kindCount]string{
	kindLParen:    "(",
	kindRParen:    ")",
	kindWS:        "WS",
	kindString:    "STRING",
	kindRawString: "RAW_STRING",
	kindName:      "NAME",
}

const anonymous = "<anonymous>"

type Parser struct {
	syms  *symbol.Table
	lexer reader.Node
	tree  reader.Node
}

func NewParser() *Parser {
	syms := symbol.NewTable()
	w := syms.Writer()
	tag := func(k lexer.KindID) reader.Option {
		return reader.WithTag(w.MustIntern(kindNames[k]))
	}

	lex := reader.Choice([]reader.Node{
		kindLParen: reader.Match('(', tag(kindLParen)),
		kindRParen: reader.Match(')', tag(kindRParen)),
		kindWS:     reader.Repeat(reader.IncludeBytes(" \t\r\n"), 1, 0, tag(kindWS)),
		kindString: reader.Sequence([]reader.Node{
			reader.Match('"'),
			reader.Loop(reader.Or(
				reader.Seq(reader.Match('\\'), reader.ExcludeBytes("\n")),
				reader.ExcludeBytes("\"\\\n"),
			)),
			reader.Match('"'),
		}, tag(kindString)),
		kindRawString: reader.Sequence([]reader.Node{
			reader.Match('\''),
			reader.Loop(reader.ExcludeBytes("'")),
			reader.Match('\''),
		}, tag(kindRawString)),
		kindName: reader.Repeat(reader.ExcludeBytes(" \t\r\n()\"'"), 1, 0, tag(kindName)),
	}, reader.WithMemo(reader.ByteAlphabet))

	tok := func(k lexer.KindID) reader.Node {
		return reader.Match(reader.TokenID(k), tag(k))
	}
	t := reader.NewRef()
	t.Set(reader.Memoize(reader.Seq(
		tok(kindLParen),
		reader.Optional(reader.Seq(
			tok(kindName),
			reader.Or(tok(kindString), tok(kindRawString), reader.Loop(t)),
		)),
		tok(kindRParen),
	), kindCount))

	return &Parser{
		syms:  syms,
		lexer: reader.Memoize(lex, reader.ByteAlphabet),
		tree:  t,
	}
}

func (p *Parser) Name() string {
	return "sexp"
}

func (p *Parser) Symbols() *symbol.TableReader {
	return p.syms.Reader()
}

func (p *Parser) Lexer() reader.Node {
	return p.lexer
}

func (p *Parser) Root() reader.Node {
	return p.tree
}

func (p *Parser) KindNames() []string {
	return kindNames[:]
}

// Tokenize splits src into tokens, dropping whitespace.
func (p *Parser) Tokenize(src []byte) ([]*lexer.Token, error) {
	toks, err := lexer.Tokenize(src, p.lexer, p.syms.Reader(), lexer.Skip(kindNames[kindWS]))
	if err != nil {
		var noTok *lexer.NoTokenError
		if errors.As(err, &noTok) {
			return nil, verr.NewSourceError(err, "", src, noTok.Start)
		}
		return nil, err
	}
	return toks, nil
}

// ParseNode is an alias of Parse.
func (p *Parser) ParseNode(src []byte) (*tree.Node, error) {
	return p.Parse(src)
}

// Parse parses one tree. Errors located in src are *error.SourceError.
func (p *Parser) Parse(src []byte) (*tree.Node, error) {
	toks, err := p.Tokenize(src)
	if err != nil {
		return nil, err
	}
	res := parser.Parse(toks, p.tree, parser.ExpectedTokens(kindCount, func(id reader.TokenID) string {
		return kindNames[id]
	}))
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

	n, err := p.convert(tree.FromTrace(p.tree, res.Success, toks))
	if err != nil {
		var tokErr *tokenError
		if errors.As(err, &tokErr) {
			return nil, verr.NewSourceError(tokErr.cause, "", src, tokErr.tok.Start)
		}
		return nil, err
	}
	return n.Fill(), nil
}

// Parse parses one tree with a new parser.
func Parse(src []byte) (*tree.Node, error) {
	return NewParser().Parse(src)
}

type tokenError struct {
	tok   *lexer.Token
	cause error
}

func (e *tokenError) Error() string {
	return e.cause.Error()
}

// convert turns the parse tree of `'(' (NAME (STRING | RAW_STRING | tree*))? ')'` into a node.
func (p *Parser) convert(t *tree.Tree[*lexer.Token]) (*tree.Node, error) {
	if t.Kind != tree.KindNode || len(t.Children) != 3 {
		return nil, fmt.Errorf("unexpected tree shape: %v", t.Kind)
	}
	body := t.Children[1]
	if body.Kind == tree.KindEmpty {
		return tree.NewEmptyNode(), nil
	}

	name := body.Children[0].Elem.Text()
	if name == anonymous {
		name = ""
	}
	rest := body.Children[1]
	if rest.Kind == tree.KindLeaf {
		tok := rest.Elem
		switch tok.KindID {
		case kindString:
			text, err := strconv.Unquote(tok.Text())
			if err != nil {
				return nil, &tokenError{
					tok:   tok,
					cause: fmt.Errorf("invalid string %v: %w", tok.Text(), err),
				}
			}
			return tree.NewLeafNode(name, text), nil
		case kindRawString:
			text := tok.Text()
			return tree.NewLeafNode(name, text[1:len(text)-1]), nil
		}
		return nil, fmt.Errorf("unexpected token: %v", tok.Desc())
	}

	children := make([]*tree.Node, len(rest.Children))
	for i, c := range rest.Children {
		n, err := p.convert(c)
		if err != nil {
			return nil, err
		}
		children[i] = n
	}
	return tree.NewInteriorNode(name, children...), nil
}
