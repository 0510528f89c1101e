package tree

import (
	"fmt"

	"github.com/nihei9/dervish/symbol"
	"github.com/nihei9/dervish/trace"
)

// Builder is the tree-shape contract of a grammar node. Only the methods matching the
// markers a node can produce are called; the others may panic.
type Builder interface {
	// Tag returns the label of the trees the node builds.
	Tag() symbol.Symbol

	// Delegate reports whether the node is transparent. A transparent node consumes no
	// trace and lets next build the tree, labeling it with tag.
	Delegate() (next Builder, tag symbol.Symbol, ok bool)

	// Case returns the builder of case i of a choice. When loop is true the node is a
	// loop and next builds every iteration.
	Case(i int) (next Builder, loop bool)

	// Elements returns the ordered builders of the elements of a sequence.
	Elements() []Builder
}

// FromTrace replays tr against the grammar node b and the matched input, and returns
// the tree. Input elements left over after the match are ignored. tr must have been
// produced by b (or by continuations derived from b); a mismatch panics.
func FromTrace[T any](b Builder, tr *trace.Trace, input []T) *Tree[T] {
	t, _ := Build(b, tr, input)
	return t
}

// Build is like FromTrace but also returns the input elements the match did not consume.
func Build[T any](b Builder, tr *trace.Trace, input []T) (*Tree[T], []T) {
	r := &replayer[T]{
		input: input,
	}
	t := r.build(b, tr)
	return t, r.input
}

type replayer[T any] struct {
	input []T
}

func (r *replayer[T]) build(b Builder, tr *trace.Trace) *Tree[T] {
	if next, tag, ok := b.Delegate(); ok {
		return label(r.build(next, tr), tag)
	}
	if tr.IsEmpty() {
		panic(fmt.Errorf("tree: the trace ended before %v was built", b))
	}

	m := tr.Peek()
	switch m.Kind {
	case trace.KindToken:
		if len(r.input) == 0 {
			panic(fmt.Errorf("tree: the input ended before %v was built", b))
		}
		elem := r.input[0]
		r.input = r.input[1:]
		return NewLeaf(elem, b.Tag())
	case trace.KindEmpty:
		return NewEmpty[T]()
	case trace.KindSwitch:
		next, loop := b.Case(m.Case)
		if loop {
			return r.buildLoop(b, next, tr)
		}
		return label(r.build(next, tr.Tail()), b.Tag())
	case trace.KindDefer:
		elems := b.Elements()
		subs := m.Stack.Reversed()
		if len(elems) != len(subs) {
			panic(fmt.Errorf("tree: %v has %v elements but the trace has %v", b, len(elems), len(subs)))
		}
		children := make([]*Tree[T], len(elems))
		for i, elem := range elems {
			children[i] = r.build(elem, subs[i])
		}
		return NewNode(b.Tag(), children...)
	}
	panic(fmt.Errorf("tree: unexpected %v marker while building %v", m.Kind, b))
}

// buildLoop gathers the iteration traces of a loop. The chain is newest first and ends
// with the marker of zero iterations.
func (r *replayer[T]) buildLoop(b Builder, body Builder, tr *trace.Trace) *Tree[T] {
	var subs []*trace.Trace
	for e := tr; ; e = e.Tail() {
		if e.IsEmpty() || e.Peek().Kind != trace.KindSwitch {
			panic(fmt.Errorf("tree: a loop iteration of %v lacks its marker", b))
		}
		e = e.Tail()
		if e.IsEmpty() {
			panic(fmt.Errorf("tree: the trace of %v ended inside a loop", b))
		}
		m := e.Peek()
		if m.Kind == trace.KindEmpty {
			break
		}
		if m.Kind != trace.KindRec {
			panic(fmt.Errorf("tree: unexpected %v marker inside the loop %v", m.Kind, b))
		}
		subs = append(subs, m.Sub)
	}

	children := make([]*Tree[T], len(subs))
	for i := range subs {
		children[i] = r.build(body, subs[len(subs)-1-i])
	}
	return NewNode(b.Tag(), children...)
}
