package reader

import (
	"fmt"

	"github.com/nihei9/dervish/trace"
	"github.com/nihei9/dervish/tree"
)

type sequence struct {
	builder
	elems  []Node
	policy trace.Policy
}

// Sequence matches elems in order. When an element can both stop and go on, the
// two paths race and the policy settles acceptances at the same position: Longest
// keeps the longer earlier element and Shortest the shorter one.
func Sequence(elems []Node, opts ...Option) Node {
	if len(elems) == 0 {
		panic(fmt.Errorf("reader: a sequence needs at least one element"))
	}
	c := newNodeConfig(opts)
	return &sequence{
		builder: builder{tag: c.tag},
		elems:   elems,
		policy:  c.policy,
	}
}

// Seq is a shorthand of Sequence without options.
func Seq(elems ...Node) Node {
	return Sequence(elems)
}

func (s *sequence) Empty() Result {
	return s.enter(0, nil)
}

func (s *sequence) Consume(id TokenID) Result {
	panic(fmt.Errorf("reader: %v cannot consume %v before it is primed", s, id))
}

func (s *sequence) Elements() []tree.Builder {
	bs := make([]tree.Builder, len(s.elems))
	for i, e := range s.elems {
		bs[i] = e
	}
	return bs
}

func (s *sequence) String() string {
	return s.describe(fmt.Sprintf("seq(%v)", len(s.elems)))
}

// enter primes the element at cursor. The element may accept the empty input, in
// which case the following elements are entered right away.
func (s *sequence) enter(cursor int, stack *trace.Stack) Result {
	return s.advance(cursor, stack, s.elems[cursor].Empty())
}

// advance folds the result of the element at cursor into the sequence.
func (s *sequence) advance(cursor int, stack *trace.Stack, res Result) Result {
	var still Reader
	if res.Ongoing != nil {
		still = &sequenceState{
			seq:     s,
			cursor:  cursor,
			current: res.Ongoing,
			stack:   stack,
		}
	}
	if res.Success == nil {
		return Result{
			Ongoing: still,
		}
	}

	pushed := stack.Push(res.Success)
	if cursor == len(s.elems)-1 {
		return Result{
			Success: trace.Deferred(pushed),
			Ongoing: still,
		}
	}
	next := s.enter(cursor+1, pushed)
	return Result{
		Success: next.Success,
		Ongoing: race(listRace, s.policy, next.Ongoing, still),
	}
}

type sequenceState struct {
	seq     *sequence
	cursor  int
	current Reader
	stack   *trace.Stack
}

func (st *sequenceState) Empty() Result {
	return primedOnly(st)
}

func (st *sequenceState) Consume(id TokenID) Result {
	return st.seq.advance(st.cursor, st.stack, st.current.Consume(id))
}

func (st *sequenceState) String() string {
	return fmt.Sprintf("%v@%v", st.seq, st.cursor)
}
