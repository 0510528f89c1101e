// Package crosslex checks a lexer grammar against a reference lexer compiled by
// maleeni from regular expressions describing the same token kinds.
package crosslex

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/tliron/commonlog"

	"github.com/nihei9/dervish/driver/lexer"
	"github.com/nihei9/dervish/reader"
	"github.com/nihei9/dervish/tree"
)

var log = commonlog.GetLogger("dervish.crosslex")

// Entry pairs a token kind with a maleeni pattern.
type Entry struct {
	Kind    string
	Pattern string
}

// Literal returns an entry matching s verbatim.
func Literal(kind, s string) Entry {
	return Entry{
		Kind:    kind,
		Pattern: mlspec.EscapePattern(s),
	}
}

// Reference is a compiled reference lexer.
type Reference struct {
	spec  *mlspec.CompiledLexSpec
	kinds map[string]string
}

// kindName returns a maleeni kind name for the i-th entry. maleeni accepts only
// identifiers as kind names, so the names of the entries are mapped back after lexing.
func kindName(i int) string {
	var b strings.Builder
	b.WriteString("k")
	for _, d := range fmt.Sprint(i) {
		b.WriteRune('a' + d - '0')
	}
	return b.String()
}

// Compile compiles entries in order. As in the lexer grammar, an earlier entry wins
// when two entries match lexemes of the same length.
func Compile(entries []Entry) (*Reference, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("a reference lexer needs at least one entry")
	}
	es := make([]*mlspec.LexEntry, len(entries))
	kinds := map[string]string{}
	for i, e := range entries {
		name := kindName(i)
		kinds[name] = e.Kind
		es[i] = &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(name),
			Pattern: mlspec.LexPattern(e.Pattern),
		}
	}
	clspec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Entries: es,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, errors.New(b.String())
		}
		return nil, err
	}
	log.Debugf("compiled a reference lexer with %v kinds", len(entries))
	return &Reference{
		spec:  clspec,
		kinds: kinds,
	}, nil
}

func writeCompileError(w *strings.Builder, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

// Token is a lexer-independent view of a token.
type Token struct {
	Kind    string
	Text    string
	Row     int
	Col     int
	Invalid bool
}

func (t *Token) String() string {
	if t.Invalid {
		return fmt.Sprintf("<invalid> %v:%v", t.Row+1, t.Col+1)
	}
	return fmt.Sprintf("%v %q %v:%v", t.Kind, t.Text, t.Row+1, t.Col+1)
}

func (t *Token) equal(o *Token) bool {
	if t.Invalid || o.Invalid {
		return t.Invalid == o.Invalid && t.Row == o.Row && t.Col == o.Col
	}
	return *t == *o
}

// Tokenize splits src until the end or the first invalid token, which ends the result.
func (r *Reference) Tokenize(src []byte, skip ...string) ([]*Token, error) {
	lex, err := mldriver.NewLexer(r.spec, bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	skipped := map[string]struct{}{}
	for _, k := range skip {
		skipped[k] = struct{}{}
	}
	var toks []*Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return toks, nil
		}
		if tok.Invalid {
			return append(toks, &Token{
				Row:     tok.Row,
				Col:     tok.Col,
				Invalid: true,
			}), nil
		}
		kind := r.kinds[string(tok.KindName)]
		if _, ok := skipped[kind]; ok {
			continue
		}
		toks = append(toks, &Token{
			Kind: kind,
			Text: tok.Text(),
			Row:  tok.Row,
			Col:  tok.Col,
		})
	}
}

// Derive tokenizes src with a lexer grammar. A failure becomes a trailing invalid token.
func Derive(src []byte, g reader.Node, names tree.Namer, skip ...string) ([]*Token, error) {
	ltoks, err := lexer.Tokenize(src, g, names, lexer.Skip(skip...))
	toks := make([]*Token, 0, len(ltoks)+1)
	for _, t := range ltoks {
		toks = append(toks, &Token{
			Kind: t.KindName,
			Text: t.Text(),
			Row:  t.Row,
			Col:  t.Col,
		})
	}
	if err != nil {
		var noTok *lexer.NoTokenError
		if !errors.As(err, &noTok) {
			return nil, err
		}
		toks = append(toks, &Token{
			Row:     noTok.Row,
			Col:     noTok.Col,
			Invalid: true,
		})
	}
	return toks, nil
}

// Mismatch is the first position where the two lexers disagree. Either side is nil
// when that lexer produced fewer tokens.
type Mismatch struct {
	Index      int
	Derivative *Token
	Reference  *Token
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("token #%v differs; lexer grammar: %v, reference: %v", m.Index, describe(m.Derivative), describe(m.Reference))
}

func describe(t *Token) string {
	if t == nil {
		return "<none>"
	}
	return t.String()
}

// Compare returns the first mismatch of the two token sequences, or nil when they agree.
func Compare(derivative, reference []*Token) *Mismatch {
	n := len(derivative)
	if len(reference) > n {
		n = len(reference)
	}
	for i := 0; i < n; i++ {
		var d, r *Token
		if i < len(derivative) {
			d = derivative[i]
		}
		if i < len(reference) {
			r = reference[i]
		}
		if d != nil && r != nil && d.equal(r) {
			continue
		}
		return &Mismatch{
			Index:      i,
			Derivative: d,
			Reference:  r,
		}
	}
	return nil
}

// Checker runs both lexers over sources.
type Checker struct {
	Grammar   reader.Node
	Names     tree.Namer
	Reference *Reference
	Skip      []string
}

// Check tokenizes src with both lexers. It returns the number of agreed tokens and the
// mismatch, if any.
func (c *Checker) Check(src []byte) (int, *Mismatch, error) {
	dtoks, err := Derive(src, c.Grammar, c.Names, c.Skip...)
	if err != nil {
		return 0, nil, err
	}
	rtoks, err := c.Reference.Tokenize(src, c.Skip...)
	if err != nil {
		return 0, nil, err
	}
	if m := Compare(dtoks, rtoks); m != nil {
		log.Debugf("the lexers disagree: %v", m)
		return m.Index, m, nil
	}
	return len(dtoks), nil, nil
}
