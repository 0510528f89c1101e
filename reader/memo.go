package reader

import (
	"fmt"

	"github.com/nihei9/dervish/symbol"
	"github.com/nihei9/dervish/tree"
)

// memo caches the results of a reader: one slot for the empty input and one slot per
// token identity. The first result stored in a slot is kept.
type memo struct {
	inner Reader
	size  int
	empty *Result
	table []*Result
}

func newMemo(inner Reader, n int) *memo {
	if n <= 0 {
		panic(fmt.Errorf("reader: a memo table needs a positive alphabet size; got: %v", n))
	}
	return &memo{
		inner: inner,
		size:  n,
	}
}

// Memoize caches the results of n over an alphabet of size size. It matches exactly
// what n matches.
func Memoize(n Node, size int) Node {
	return newMemo(n, size)
}

func (m *memo) Empty() Result {
	if m.empty == nil {
		res := m.rewrite(m.inner.Empty())
		m.empty = &res
	}
	return *m.empty
}

func (m *memo) Consume(id TokenID) Result {
	if id < 0 || int(id) >= m.size {
		panic(fmt.Errorf("reader: token %v is out of the alphabet of size %v", id, m.size))
	}
	if m.table == nil {
		m.table = make([]*Result, m.size)
	}
	if res := m.table[id]; res != nil {
		return *res
	}
	res := m.rewrite(m.inner.Consume(id))
	m.table[id] = &res
	return res
}

// rewrite points a continuation that is the wrapped reader itself back at the memo so
// that the next step is cached too.
func (m *memo) rewrite(res Result) Result {
	if res.Ongoing != nil && res.Ongoing == m.inner {
		res.Ongoing = m
	}
	return res
}

func (m *memo) node() tree.Builder {
	b, ok := m.inner.(tree.Builder)
	if !ok {
		panic(fmt.Errorf("reader: %v is not a grammar node", m.inner))
	}
	return b
}

func (m *memo) Tag() symbol.Symbol {
	return symbol.Nil
}

func (m *memo) Delegate() (tree.Builder, symbol.Symbol, bool) {
	return m.node(), symbol.Nil, true
}

func (m *memo) Case(i int) (tree.Builder, bool) {
	return m.node().Case(i)
}

func (m *memo) Elements() []tree.Builder {
	return m.node().Elements()
}

func (m *memo) String() string {
	return fmt.Sprintf("memo(%v)", m.inner)
}
