// Package reader implements a derivative-style recognizer. A grammar is a graph of
// Nodes; matching feeds token identities one at a time and every step returns the
// acceptance of the input seen so far together with the continuation that reads the
// next token. Continuations are immutable, so one state can be shared by many paths.
package reader

import (
	"fmt"
	"strconv"

	"github.com/nihei9/dervish/symbol"
	"github.com/nihei9/dervish/trace"
	"github.com/nihei9/dervish/tree"
)

// TokenID is the identity of an input element. Alphabets are bounded and identities
// index fixed-size tables, so an identity must be in [0, alphabet size).
type TokenID int

// Token is an input element of a driver.
type Token interface {
	ID() TokenID
	Desc() string
}

// ByteAlphabet is the alphabet size of byte input.
const ByteAlphabet = 256

// Byte adapts a byte to Token. Its identity is the byte value.
type Byte byte

func (b Byte) ID() TokenID {
	return TokenID(b)
}

func (b Byte) Desc() string {
	return strconv.QuoteRune(rune(b))
}

func (b Byte) Text() string {
	return string([]byte{byte(b)})
}

// Bytes converts src into byte tokens.
func Bytes(src []byte) []Byte {
	toks := make([]Byte, len(src))
	for i, c := range src {
		toks[i] = Byte(c)
	}
	return toks
}

// Result is the outcome of one step. Success is the trace of an acceptance of the
// input seen so far, and Ongoing is the continuation reading the next token. Both
// nil means the reader is dead.
type Result struct {
	Success *trace.Trace
	Ongoing Reader
}

func (r Result) Dead() bool {
	return r.Success == nil && r.Ongoing == nil
}

type Reader interface {
	// Empty matches the empty input. Only grammar nodes are asked for it; a reader
	// returned as a continuation is primed and only receives Consume.
	Empty() Result

	// Consume reads one more token.
	Consume(id TokenID) Result

	String() string
}

// Node is a grammar node: a reader that also knows the shape of the trees it builds.
type Node interface {
	Reader
	tree.Builder
}

type nodeConfig struct {
	tag    symbol.Symbol
	policy trace.Policy
	memo   int
	dir    int
}

func newNodeConfig(opts []Option) *nodeConfig {
	c := &nodeConfig{
		policy: trace.Longest,
		dir:    1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(c *nodeConfig)

// WithTag labels the trees the node builds.
func WithTag(tag symbol.Symbol) Option {
	return func(c *nodeConfig) {
		c.tag = tag
	}
}

// WithPolicy sets the tie-break policy of a sequence, loop, or choice. The default
// is trace.Longest.
func WithPolicy(p trace.Policy) Option {
	return func(c *nodeConfig) {
		c.policy = p
	}
}

// WithMemo makes a choice memoize its continuations over an alphabet of size n.
func WithMemo(n int) Option {
	return func(c *nodeConfig) {
		c.memo = n
	}
}

// Decreasing makes a loop record its iteration counts negated.
func Decreasing() Option {
	return func(c *nodeConfig) {
		c.dir = -1
	}
}

// builder supplies the tree.Builder methods of nodes that produce no switch and no
// deferred trace.
type builder struct {
	tag symbol.Symbol
}

func (b *builder) Tag() symbol.Symbol {
	return b.tag
}

func (b *builder) Delegate() (tree.Builder, symbol.Symbol, bool) {
	return nil, symbol.Nil, false
}

func (b *builder) Case(i int) (tree.Builder, bool) {
	panic(fmt.Errorf("reader: the node has no case %v", i))
}

func (b *builder) Elements() []tree.Builder {
	panic(fmt.Errorf("reader: the node has no elements"))
}

func (b *builder) describe(name string) string {
	if b.tag.IsNil() {
		return name
	}
	return fmt.Sprintf("%v%v", name, b.tag)
}

func primedOnly(r Reader) Result {
	panic(fmt.Errorf("reader: %v is a continuation and cannot match the empty input", r))
}
