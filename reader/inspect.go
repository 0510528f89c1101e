package reader

import (
	"fmt"

	"github.com/nihei9/dervish/symbol"
	"github.com/nihei9/dervish/trace"
)

type NodeKind int

const (
	KindEpsilon = NodeKind(iota)
	KindMatch
	KindClass
	KindOptional
	KindRef
	KindTagged
	KindSequence
	KindLoop
	KindChoice
	KindMemo
)

func (k NodeKind) String() string {
	switch k {
	case KindEpsilon:
		return "epsilon"
	case KindMatch:
		return "match"
	case KindClass:
		return "class"
	case KindOptional:
		return "optional"
	case KindRef:
		return "ref"
	case KindTagged:
		return "tagged"
	case KindSequence:
		return "sequence"
	case KindLoop:
		return "loop"
	case KindChoice:
		return "choice"
	case KindMemo:
		return "memo"
	}
	return fmt.Sprintf("<invalid node kind: %d>", int(k))
}

// Shape describes one grammar node for static analyses.
type Shape struct {
	Kind NodeKind
	Tag  symbol.Symbol

	// Children holds the direct sub-nodes in order. The child of an unset ref is missing.
	Children []Node

	// Tokens holds the identities a match or class node accepts.
	Tokens []TokenID

	// Min and Max are the repetition bounds of a loop. Max 0 means unbounded.
	Min int
	Max int

	Policy trace.Policy

	// Unset is true for a ref whose target is not installed yet.
	Unset bool
}

// Inspect returns the shape of n. It panics when n was not built by this package.
func Inspect(n Node) Shape {
	switch n := n.(type) {
	case *epsilon:
		return Shape{
			Kind: KindEpsilon,
			Tag:  n.tag,
		}
	case *match:
		return Shape{
			Kind:   KindMatch,
			Tag:    n.tag,
			Tokens: []TokenID{n.id},
		}
	case *class:
		var ids []TokenID
		for id, ok := range n.accepts {
			if ok {
				ids = append(ids, TokenID(id))
			}
		}
		return Shape{
			Kind:   KindClass,
			Tag:    n.tag,
			Tokens: ids,
		}
	case *optional:
		return Shape{
			Kind:     KindOptional,
			Tag:      n.tag,
			Children: []Node{n.inner},
		}
	case *Ref:
		if n.target == nil {
			return Shape{
				Kind:  KindRef,
				Unset: true,
			}
		}
		return Shape{
			Kind:     KindRef,
			Children: []Node{n.target},
		}
	case *tagged:
		return Shape{
			Kind:     KindTagged,
			Tag:      n.tag,
			Children: []Node{n.inner},
		}
	case *sequence:
		return Shape{
			Kind:     KindSequence,
			Tag:      n.tag,
			Children: n.elems,
			Policy:   n.policy,
		}
	case *loop:
		return Shape{
			Kind:     KindLoop,
			Tag:      n.tag,
			Children: []Node{n.body},
			Min:      n.min,
			Max:      n.max,
			Policy:   n.policy,
		}
	case *choice:
		return Shape{
			Kind:     KindChoice,
			Tag:      n.tag,
			Children: n.cases,
			Policy:   n.policy,
		}
	case *memo:
		inner, ok := n.inner.(Node)
		if !ok {
			panic(fmt.Errorf("reader: %v is not a grammar node", n.inner))
		}
		return Shape{
			Kind:     KindMemo,
			Children: []Node{inner},
		}
	}
	panic(fmt.Errorf("reader: unknown node %v", n))
}
