// Package trace defines the replay log a successful match leaves behind. A trace
// records which decisions were taken while matching, not the matched values; the
// tree package replays it against the grammar to build a tree.
package trace

import (
	"fmt"
	"strings"

	"github.com/nihei9/dervish/list"
)

// Policy is a tie-break rule applied when two live continuations accept at the same position.
type Policy int

const (
	Longest  = Policy(0)
	Shortest = Policy(1)
)

func (p Policy) String() string {
	switch p {
	case Longest:
		return "longest"
	case Shortest:
		return "shortest"
	}
	return fmt.Sprintf("<invalid policy: %d>", int(p))
}

type MarkerKind int

const (
	// KindSwitch records a labeled choice. Loops use it to record an iteration count.
	KindSwitch = MarkerKind(iota)
	// KindDefer closes a sequence. The per-element traces are in the stacked record.
	KindDefer
	// KindRec carries the trace of one completed loop iteration.
	KindRec
	// KindToken ends a trace that consumed one input element.
	KindToken
	// KindEmpty ends a trace that consumed nothing.
	KindEmpty
)

func (k MarkerKind) String() string {
	switch k {
	case KindSwitch:
		return "switch"
	case KindDefer:
		return "defer"
	case KindRec:
		return "rec"
	case KindToken:
		return "token"
	case KindEmpty:
		return "empty"
	}
	return fmt.Sprintf("<invalid marker kind: %d>", int(k))
}

type Marker struct {
	Kind MarkerKind

	// Case and Policy are set when Kind is KindSwitch.
	Case   int
	Policy Policy

	// Stack is set when Kind is KindDefer.
	Stack *Stack

	// Sub is set when Kind is KindRec.
	Sub *Trace
}

// Trace is a list of markers, the outermost decision first. A nil *Trace is used
// by readers to mean "no acceptance"; every accepted trace holds at least an ending marker.
type Trace = list.List[Marker]

// Stack is the stacked continuation record of a sequence: the traces of its completed
// elements, the most recent first.
type Stack = list.List[*Trace]

var (
	tokenTrace = list.Of(Marker{Kind: KindToken})
	emptyTrace = list.Of(Marker{Kind: KindEmpty})
)

// TokenTrace returns the shared trace of a single consumed token.
func TokenTrace() *Trace {
	return tokenTrace
}

// EmptyTrace returns the shared trace of an empty match.
func EmptyTrace() *Trace {
	return emptyTrace
}

func PushSwitch(tr *Trace, c int, p Policy) *Trace {
	return tr.Push(Marker{
		Kind:   KindSwitch,
		Case:   c,
		Policy: p,
	})
}

func PushRec(tr *Trace, sub *Trace) *Trace {
	return tr.Push(Marker{
		Kind: KindRec,
		Sub:  sub,
	})
}

// Deferred returns the closing trace of a sequence whose element traces are in s.
func Deferred(s *Stack) *Trace {
	return list.Of(Marker{
		Kind:  KindDefer,
		Stack: s,
	})
}

// Equal reports whether a and b have the same shape. Shared and copied sub-traces compare equal.
func Equal(a, b *Trace) bool {
	if a == b {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	for ; a != nil; a, b = a.Tail(), b.Tail() {
		if !equalMarker(a.Peek(), b.Peek()) {
			return false
		}
	}
	return true
}

func equalMarker(a, b Marker) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindSwitch:
		return a.Case == b.Case && a.Policy == b.Policy
	case KindDefer:
		if a.Stack.Len() != b.Stack.Len() {
			return false
		}
		for sa, sb := a.Stack, b.Stack; sa != nil; sa, sb = sa.Tail(), sb.Tail() {
			if !Equal(sa.Peek(), sb.Peek()) {
				return false
			}
		}
		return true
	case KindRec:
		return Equal(a.Sub, b.Sub)
	}
	return true
}

// Format returns a compact rendering of tr such as `sw1(longest) defer{[tok] [empty]}`.
func Format(tr *Trace) string {
	var b strings.Builder
	writeTrace(&b, tr)
	return b.String()
}

func writeTrace(b *strings.Builder, tr *Trace) {
	b.WriteString("[")
	for e := tr; e != nil; e = e.Tail() {
		m := e.Peek()
		switch m.Kind {
		case KindSwitch:
			fmt.Fprintf(b, "sw%v(%v)", m.Case, m.Policy)
		case KindDefer:
			b.WriteString("defer{")
			for i, sub := range m.Stack.Reversed() {
				if i > 0 {
					b.WriteString(" ")
				}
				writeTrace(b, sub)
			}
			b.WriteString("}")
		case KindRec:
			b.WriteString("rec")
			writeTrace(b, m.Sub)
		case KindToken:
			b.WriteString("tok")
		case KindEmpty:
			b.WriteString("empty")
		}
		if e.Tail() != nil {
			b.WriteString(" ")
		}
	}
	b.WriteString("]")
}
