// Package tree rebuilds parse trees from traces. Matching only leaves a trace
// behind; FromTrace replays it against the original grammar graph and the
// matched input to allocate the tree in a second pass.
package tree

import (
	"fmt"
	"iter"

	"github.com/nihei9/dervish/symbol"
)

type Kind int

const (
	KindEmpty = Kind(iota)
	KindLeaf
	KindNode
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindLeaf:
		return "leaf"
	case KindNode:
		return "node"
	}
	return fmt.Sprintf("<invalid kind: %d>", int(k))
}

// Tree is a reconstructed parse tree. An empty tree matched nothing, a leaf holds
// one input element, and a node holds its children in input order.
type Tree[T any] struct {
	Kind     Kind
	Tag      symbol.Symbol
	Elem     T
	Children []*Tree[T]
}

func NewEmpty[T any]() *Tree[T] {
	return &Tree[T]{
		Kind: KindEmpty,
	}
}

func NewLeaf[T any](elem T, tag symbol.Symbol) *Tree[T] {
	return &Tree[T]{
		Kind: KindLeaf,
		Tag:  tag,
		Elem: elem,
	}
}

func NewNode[T any](tag symbol.Symbol, children ...*Tree[T]) *Tree[T] {
	return &Tree[T]{
		Kind:     KindNode,
		Tag:      tag,
		Children: children,
	}
}

// label attaches tag to t. An untagged leaf or node takes the tag itself; a tagged or
// empty tree is wrapped in a one-child node so that no label is lost.
func label[T any](t *Tree[T], tag symbol.Symbol) *Tree[T] {
	if tag.IsNil() {
		return t
	}
	if t.Kind != KindEmpty && t.Tag.IsNil() {
		t.Tag = tag
		return t
	}
	return NewNode(tag, t)
}

func (t *Tree[T]) children() iter.Seq[*Tree[T]] {
	return func(yield func(*Tree[T]) bool) {
		if t.Kind != KindNode {
			return
		}
		for _, c := range t.Children {
			if !yield(c) {
				return
			}
		}
	}
}

// Leaves yields the leaves below t from left to right.
func (t *Tree[T]) Leaves() iter.Seq[*Tree[T]] {
	return func(yield func(*Tree[T]) bool) {
		t.walk(func(c *Tree[T]) (bool, bool) {
			switch c.Kind {
			case KindLeaf:
				return true, false
			case KindNode:
				return false, true
			}
			return false, false
		}, yield)
	}
}

// Tagged yields the outermost tagged trees below t, skipping through untagged nodes.
func (t *Tree[T]) Tagged() iter.Seq[*Tree[T]] {
	return func(yield func(*Tree[T]) bool) {
		t.walk(func(c *Tree[T]) (bool, bool) {
			if !c.Tag.IsNil() {
				return true, false
			}
			return false, c.Kind == KindNode
		}, yield)
	}
}

// TaggedAndLeaves yields the outermost tagged nodes and the untagged leaves below t.
func (t *Tree[T]) TaggedAndLeaves() iter.Seq[*Tree[T]] {
	return func(yield func(*Tree[T]) bool) {
		t.walk(func(c *Tree[T]) (bool, bool) {
			switch c.Kind {
			case KindLeaf:
				return true, false
			case KindNode:
				if !c.Tag.IsNil() {
					return true, false
				}
				return false, true
			}
			return false, false
		}, yield)
	}
}

// walk visits the descendants of t in order. visit reports whether a tree is yielded
// and whether the walk descends into it.
func (t *Tree[T]) walk(visit func(*Tree[T]) (bool, bool), yield func(*Tree[T]) bool) bool {
	for c := range t.children() {
		emit, descend := visit(c)
		if emit && !yield(c) {
			return false
		}
		if descend && !c.walk(visit, yield) {
			return false
		}
	}
	return true
}

// Collect gathers the trees yielded by seq.
func Collect[T any](seq iter.Seq[*Tree[T]]) []*Tree[T] {
	var ts []*Tree[T]
	for t := range seq {
		ts = append(ts, t)
	}
	return ts
}
