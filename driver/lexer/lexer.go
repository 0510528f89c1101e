// Package lexer splits a byte source into tokens with a lexer grammar. A lexer
// grammar is a choice whose cases are the token kinds; each token is the longest
// match starting where the previous one ended.
package lexer

import (
	"fmt"
	"iter"

	"github.com/tliron/commonlog"

	"github.com/nihei9/dervish/driver/parser"
	"github.com/nihei9/dervish/reader"
	"github.com/nihei9/dervish/symbol"
	"github.com/nihei9/dervish/trace"
	"github.com/nihei9/dervish/tree"
)

var log = commonlog.GetLogger("dervish.lexer")

// KindID is the index of a case of the lexer choice.
type KindID int

func (id KindID) Int() int {
	return int(id)
}

// Token representes a token.
type Token struct {
	// KindID is the index of the case of the lexer choice that matched.
	KindID KindID

	// KindName is the tag of the case that matched.
	KindName string

	// Trace is the trace of the match. Replaying it against the lexer grammar gives the
	// structure of the lexeme.
	Trace *trace.Trace

	// Start and Stop are the byte offsets of the lexeme, Stop exclusive.
	Start int
	Stop  int

	// Row is a row number where a lexeme appears.
	Row int

	// Col is a column number where a lexeme appears.
	// Note that Col is counted in code points, not bytes.
	Col int

	// Lexeme is a byte sequence matched by the lexer grammar.
	Lexeme []byte

	// When this field is true, it means the token is the EOF token.
	EOF bool
}

// ID makes tokens usable as the input of a parser grammar over token kinds.
func (t *Token) ID() reader.TokenID {
	return reader.TokenID(t.KindID)
}

func (t *Token) Desc() string {
	if t.EOF {
		return "<eof>"
	}
	return fmt.Sprintf("%v %q", t.KindName, t.Lexeme)
}

func (t *Token) Text() string {
	return string(t.Lexeme)
}

// NoTokenError reports a remainder no token kind matches. Stop is Start plus the
// number of bytes examined before the lexer grammar gave up.
type NoTokenError struct {
	Start int
	Stop  int
	Row   int
	Col   int
}

func (e *NoTokenError) Error() string {
	return fmt.Sprintf("no token matches the input at [%v, %v)", e.Start, e.Stop)
}

type LexerOption func(l *Lexer) error

// Skip drops the tokens of the named kinds.
func Skip(names ...string) LexerOption {
	return func(l *Lexer) error {
		for _, name := range names {
			if name == "" {
				return fmt.Errorf("a kind name to skip must not be empty")
			}
			l.skip[name] = struct{}{}
		}
		return nil
	}
}

type lexerState struct {
	srcPtr int
	row    int
	col    int
}

type Lexer struct {
	lexer reader.Node
	names tree.Namer
	src   []byte
	toks  []reader.Byte
	state lexerState
	skip  map[string]struct{}
	err   error
}

// NewLexer returns a new lexer. names resolves the tags of the cases of the lexer choice.
func NewLexer(src []byte, lexer reader.Node, names tree.Namer, opts ...LexerOption) (*Lexer, error) {
	l := &Lexer{
		lexer: lexer,
		names: names,
		src:   src,
		toks:  reader.Bytes(src),
		skip:  map[string]struct{}{},
	}
	for _, opt := range opts {
		err := opt(l)
		if err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Next returns a next token. Once it fails, it keeps returning the same error.
func (l *Lexer) Next() (*Token, error) {
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return tok, nil
		}
		if _, ok := l.skip[tok.KindName]; !ok {
			return tok, nil
		}
	}
}

func (l *Lexer) next() (*Token, error) {
	if l.err != nil {
		return nil, l.err
	}
	start := l.state
	if start.srcPtr >= len(l.src) {
		return &Token{
			Start: start.srcPtr,
			Stop:  start.srcPtr,
			Row:   start.row,
			Col:   start.col,
			EOF:   true,
		}, nil
	}

	res := parser.Parse(l.toks[start.srcPtr:], l.lexer)
	if res.Success == nil || res.SuccessLen == 0 {
		l.err = &NoTokenError{
			Start: start.srcPtr,
			Stop:  start.srcPtr + res.TokensRead,
			Row:   start.row,
			Col:   start.col,
		}
		return nil, l.err
	}
	m := res.Success.Peek()
	if m.Kind != trace.KindSwitch {
		l.err = fmt.Errorf("a lexer grammar must be a choice of token kinds; got a trace beginning with %v", m.Kind)
		return nil, l.err
	}

	stop := start.srcPtr + res.SuccessLen
	for l.state.srcPtr < stop {
		l.read()
	}
	return &Token{
		KindID:   KindID(m.Case),
		KindName: l.kindName(m.Case),
		Trace:    res.Success,
		Start:    start.srcPtr,
		Stop:     stop,
		Row:      start.row,
		Col:      start.col,
		Lexeme:   l.src[start.srcPtr:stop],
	}, nil
}

func (l *Lexer) kindName(c int) string {
	b := tree.Builder(l.lexer)
	for {
		next, _, ok := b.Delegate()
		if !ok {
			break
		}
		b = next
	}
	cb, _ := b.Case(c)
	if tag := TagOf(cb); !tag.IsNil() {
		return l.names.Name(tag)
	}
	return fmt.Sprintf("#%v", c)
}

// TagOf returns the tag of b, looking through untagged transparent nodes.
func TagOf(b tree.Builder) symbol.Symbol {
	for {
		if tag := b.Tag(); !tag.IsNil() {
			return tag
		}
		next, tag, ok := b.Delegate()
		if !ok {
			return symbol.Nil
		}
		if !tag.IsNil() {
			return tag
		}
		b = next
	}
}

func (l *Lexer) read() {
	b := l.src[l.state.srcPtr]
	l.state.srcPtr++

	// Count the token positions.
	// The driver treats LF as the end of lines and counts columns in code points, not bytes.
	// To count in code points, we refer to the First Byte column in the Table 3-6.
	//
	// Reference:
	// - [Table 3-6] https://www.unicode.org/versions/Unicode13.0.0/ch03.pdf > Table 3-6.  UTF-8 Bit Distribution
	if b < 128 {
		// 0x0A is LF.
		if b == 0x0A {
			l.state.row++
			l.state.col = 0
		} else {
			l.state.col++
		}
	} else if b>>5 == 6 || b>>4 == 14 || b>>3 == 30 {
		l.state.col++
	}
}

// All yields the tokens up to the end of the source, excluding the EOF token. A
// failure is yielded once as the last element.
func (l *Lexer) All() iter.Seq2[*Token, error] {
	return func(yield func(*Token, error) bool) {
		for {
			tok, err := l.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if tok.EOF {
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// Tokenize collects every token of src, excluding the EOF token.
func Tokenize(src []byte, lexer reader.Node, names tree.Namer, opts ...LexerOption) ([]*Token, error) {
	l, err := NewLexer(src, lexer, names, opts...)
	if err != nil {
		return nil, err
	}
	var toks []*Token
	for tok, err := range l.All() {
		if err != nil {
			log.Debugf("tokenization failed after %v tokens: %v", len(toks), err)
			return toks, err
		}
		toks = append(toks, tok)
	}
	log.Debugf("tokenized %v bytes into %v tokens", len(src), len(toks))
	return toks, nil
}
