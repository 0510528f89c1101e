// Package symbol interns the names used to tag grammar nodes.
package symbol

import (
	"fmt"
	"sort"
)

// Symbol is a small tag attached to a grammar node. The zero value, Nil, means
// the node is untagged.
type Symbol uint16

const (
	Nil = Symbol(0)

	symbolMax = Symbol(0xffff)
)

func (s Symbol) IsNil() bool {
	return s == Nil
}

func (s Symbol) Int() int {
	return int(s)
}

func (s Symbol) String() string {
	if s.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("#%v", uint16(s))
}

// Table is a bidirectional mapping between names and symbols.
type Table struct {
	text2Sym map[string]Symbol
	texts    []string
}

type TableWriter struct {
	*Table
}

type TableReader struct {
	*Table
}

func NewTable() *Table {
	return &Table{
		text2Sym: map[string]Symbol{},
		texts: []string{
			"", // Nil
		},
	}
}

func (t *Table) Writer() *TableWriter {
	return &TableWriter{
		Table: t,
	}
}

func (t *Table) Reader() *TableReader {
	return &TableReader{
		Table: t,
	}
}

// Intern returns the symbol of text, registering it when text is new.
func (w *TableWriter) Intern(text string) (Symbol, error) {
	if text == "" {
		return Nil, fmt.Errorf("a symbol name must not be empty")
	}
	if sym, ok := w.text2Sym[text]; ok {
		return sym, nil
	}
	if len(w.texts) > symbolMax.Int() {
		return Nil, fmt.Errorf("the number of symbols exceeds the limit; limit: %v", symbolMax.Int())
	}
	sym := Symbol(len(w.texts))
	w.text2Sym[text] = sym
	w.texts = append(w.texts, text)
	return sym, nil
}

// MustIntern is like Intern but panics when text cannot be interned. It is meant for
// grammar construction, where an error is a bug in the grammar definition.
func (w *TableWriter) MustIntern(text string) Symbol {
	sym, err := w.Intern(text)
	if err != nil {
		panic(err)
	}
	return sym
}

func (r *TableReader) ToSymbol(text string) (Symbol, bool) {
	if sym, ok := r.text2Sym[text]; ok {
		return sym, true
	}
	return Nil, false
}

func (r *TableReader) ToText(sym Symbol) (string, bool) {
	if sym.IsNil() || sym.Int() >= len(r.texts) {
		return "", false
	}
	return r.texts[sym.Int()], true
}

// Name returns the text of sym, or a placeholder when sym is unknown. It is used
// in diagnostics and tree printing.
func (r *TableReader) Name(sym Symbol) string {
	if text, ok := r.ToText(sym); ok {
		return text
	}
	return sym.String()
}

func (r *TableReader) Symbols() []Symbol {
	syms := make([]Symbol, 0, len(r.text2Sym))
	for _, sym := range r.text2Sym {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (r *TableReader) Len() int {
	return len(r.texts) - 1
}
