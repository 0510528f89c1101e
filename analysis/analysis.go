package analysis

import (
	"fmt"
	"sort"

	"github.com/nihei9/dervish/reader"
	"github.com/nihei9/dervish/symbol"
)

type firstEntry struct {
	tokens map[reader.TokenID]struct{}
	empty  bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		tokens: map[reader.TokenID]struct{}{},
		empty:  false,
	}
}

func (e *firstEntry) add(id reader.TokenID) bool {
	if _, ok := e.tokens[id]; ok {
		return false
	}
	e.tokens[id] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for id := range target.tokens {
		added := e.add(id)
		if added {
			changed = true
		}
	}
	return changed
}

// Analysis holds the nullable and FIRST sets of every node reachable from a root.
type Analysis struct {
	root   reader.Node
	nodes  []reader.Node
	shapes map[reader.Node]reader.Shape
	first  map[reader.Node]*firstEntry
}

// Analyze walks the graph under root and computes the sets by iterating to a fixed point.
func Analyze(root reader.Node) *Analysis {
	a := &Analysis{
		root:   root,
		shapes: map[reader.Node]reader.Shape{},
		first:  map[reader.Node]*firstEntry{},
	}
	a.collect(root)
	for {
		more := false
		for _, n := range a.nodes {
			if a.genFirstEntry(n) {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return a
}

func (a *Analysis) collect(n reader.Node) {
	if _, ok := a.shapes[n]; ok {
		return
	}
	s := reader.Inspect(n)
	a.shapes[n] = s
	a.first[n] = newFirstEntry()
	a.nodes = append(a.nodes, n)
	for _, c := range s.Children {
		a.collect(c)
	}
}

func (a *Analysis) genFirstEntry(n reader.Node) bool {
	acc := a.first[n]
	s := a.shapes[n]
	switch s.Kind {
	case reader.KindEpsilon:
		return acc.addEmpty()
	case reader.KindMatch, reader.KindClass:
		changed := false
		for _, id := range s.Tokens {
			if acc.add(id) {
				changed = true
			}
		}
		return changed
	case reader.KindOptional:
		changed := acc.mergeExceptEmpty(a.first[s.Children[0]])
		if acc.addEmpty() {
			changed = true
		}
		return changed
	case reader.KindRef, reader.KindTagged, reader.KindMemo:
		if len(s.Children) == 0 {
			return false
		}
		return a.inherit(acc, s.Children[0])
	case reader.KindLoop:
		changed := a.inherit(acc, s.Children[0])
		if s.Min == 0 && acc.addEmpty() {
			changed = true
		}
		return changed
	case reader.KindChoice:
		changed := false
		for _, c := range s.Children {
			if a.inherit(acc, c) {
				changed = true
			}
		}
		return changed
	case reader.KindSequence:
		changed := false
		for _, c := range s.Children {
			e := a.first[c]
			if acc.mergeExceptEmpty(e) {
				changed = true
			}
			if !e.empty {
				return changed
			}
		}
		if acc.addEmpty() {
			changed = true
		}
		return changed
	}
	return false
}

func (a *Analysis) inherit(acc *firstEntry, child reader.Node) bool {
	e := a.first[child]
	changed := acc.mergeExceptEmpty(e)
	if e.empty && acc.addEmpty() {
		changed = true
	}
	return changed
}

// Root returns the node the analysis started from.
func (a *Analysis) Root() reader.Node {
	return a.root
}

// Nodes returns every reachable node in depth-first pre-order.
func (a *Analysis) Nodes() []reader.Node {
	return a.nodes
}

// Shape returns the shape of a reachable node.
func (a *Analysis) Shape(n reader.Node) (reader.Shape, bool) {
	s, ok := a.shapes[n]
	return s, ok
}

// Nullable reports whether n accepts the empty input. Unreachable nodes are never nullable.
func (a *Analysis) Nullable(n reader.Node) bool {
	e, ok := a.first[n]
	if !ok {
		return false
	}
	return e.empty
}

// First returns the identities n can start with, in ascending order.
func (a *Analysis) First(n reader.Node) []reader.TokenID {
	e, ok := a.first[n]
	if !ok {
		return nil
	}
	ids := make([]reader.TokenID, 0, len(e.tokens))
	for id := range e.tokens {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}

// Count returns the number of reachable nodes per kind.
func (a *Analysis) Count() map[reader.NodeKind]int {
	c := map[reader.NodeKind]int{}
	for _, n := range a.nodes {
		c[a.shapes[n].Kind]++
	}
	return c
}

type WarningKind string

const (
	WarningNullableLoop  = WarningKind("nullable-loop")
	WarningUnsetRef      = WarningKind("unset-ref")
	WarningLeftRecursion = WarningKind("left-recursion")
)

type Warning struct {
	Kind WarningKind
	Node reader.Node
	Tag  symbol.Symbol
}

func (w *Warning) Message() string {
	switch w.Kind {
	case WarningNullableLoop:
		return "the loop body accepts the empty input; empty iterations are never counted"
	case WarningUnsetRef:
		return "the reference has no target"
	case WarningLeftRecursion:
		return "the reference can reach itself without consuming a token"
	}
	return string(w.Kind)
}

func (w *Warning) String() string {
	if w.Tag.IsNil() {
		return fmt.Sprintf("%v: %v", w.Kind, w.Message())
	}
	return fmt.Sprintf("%v: tag %v: %v", w.Kind, w.Tag, w.Message())
}

// Lint reports loops with nullable bodies, unset references, and left-recursive references.
func (a *Analysis) Lint() []*Warning {
	var ws []*Warning
	for _, n := range a.nodes {
		s := a.shapes[n]
		switch s.Kind {
		case reader.KindLoop:
			if a.Nullable(s.Children[0]) {
				ws = append(ws, &Warning{
					Kind: WarningNullableLoop,
					Node: n,
					Tag:  a.tagOf(n),
				})
			}
		case reader.KindRef:
			if s.Unset {
				ws = append(ws, &Warning{
					Kind: WarningUnsetRef,
					Node: n,
				})
				continue
			}
			if a.leftReachable(s.Children[0], n) {
				ws = append(ws, &Warning{
					Kind: WarningLeftRecursion,
					Node: n,
					Tag:  a.tagOf(s.Children[0]),
				})
			}
		}
	}
	return ws
}

// tagOf looks through refs, memos, and tagged wrappers for the first tag.
func (a *Analysis) tagOf(n reader.Node) symbol.Symbol {
	for {
		s := a.shapes[n]
		if !s.Tag.IsNil() {
			return s.Tag
		}
		switch s.Kind {
		case reader.KindRef, reader.KindMemo:
			if len(s.Children) == 0 {
				return symbol.Nil
			}
			n = s.Children[0]
		default:
			return symbol.Nil
		}
	}
}

// leftReachable reports whether target is reachable from n before any token is consumed.
func (a *Analysis) leftReachable(n, target reader.Node) bool {
	visited := map[reader.Node]struct{}{}
	stack := []reader.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == target {
			return true
		}
		if _, ok := visited[cur]; ok {
			continue
		}
		visited[cur] = struct{}{}
		stack = append(stack, a.leftChildren(cur)...)
	}
	return false
}

func (a *Analysis) leftChildren(n reader.Node) []reader.Node {
	s := a.shapes[n]
	if s.Kind != reader.KindSequence {
		return s.Children
	}
	for i, c := range s.Children {
		if !a.Nullable(c) {
			return s.Children[:i+1]
		}
	}
	return s.Children
}

// Lint analyzes root and returns its warnings.
func Lint(root reader.Node) []*Warning {
	return Analyze(root).Lint()
}
