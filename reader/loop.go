package reader

import (
	"fmt"

	"github.com/nihei9/dervish/trace"
	"github.com/nihei9/dervish/tree"
)

type loop struct {
	builder
	body   Node
	min    int
	max    int
	dir    int
	policy trace.Policy
}

// Loop matches body zero or more times.
func Loop(body Node, opts ...Option) Node {
	return Repeat(body, 0, 0, opts...)
}

// Repeat matches body at least min times and, unless max is 0, at most max times.
// When both a new iteration and the current one can go on, Longest settles
// acceptances at the same position with more iterations and Shortest with fewer.
func Repeat(body Node, min, max int, opts ...Option) Node {
	if min < 0 || max < 0 || (max > 0 && min > max) {
		panic(fmt.Errorf("reader: invalid repetition bounds; min: %v, max: %v", min, max))
	}
	c := newNodeConfig(opts)
	return &loop{
		builder: builder{tag: c.tag},
		body:    body,
		min:     min,
		max:     max,
		dir:     c.dir,
		policy:  c.policy,
	}
}

// The trace of k iterations is [Switch(k*dir), Rec(t_k)] followed by the trace of k-1
// iterations; zero iterations is [Switch(0), Empty].
func (l *loop) Empty() Result {
	zero := trace.PushSwitch(trace.EmptyTrace(), 0, l.policy)
	return Result{
		Success: l.complete(0, zero),
		Ongoing: l.arm(0, zero),
	}
}

func (l *loop) Consume(id TokenID) Result {
	panic(fmt.Errorf("reader: %v cannot consume %v before it is primed", l, id))
}

// complete returns the trace of count completed iterations followed by the empty
// iterations still required by min, or nil when the body cannot accept the empty
// input.
func (l *loop) complete(count int, acc *trace.Trace) *trace.Trace {
	if count >= l.min {
		return acc
	}
	empty := l.body.Empty().Success
	if empty == nil {
		return nil
	}
	for count < l.min {
		count++
		acc = trace.PushSwitch(trace.PushRec(acc, empty), count*l.dir, l.policy)
	}
	return acc
}

// arm starts the iteration following count completed ones. An acceptance of the
// empty input by the body never opens an iteration here; complete adds the empty
// iterations min asks for.
func (l *loop) arm(count int, acc *trace.Trace) Reader {
	if l.max > 0 && count >= l.max {
		return nil
	}
	res := l.body.Empty()
	if res.Ongoing == nil {
		return nil
	}
	return &loopState{
		loop:    l,
		count:   count,
		acc:     acc,
		current: res.Ongoing,
	}
}

func (l *loop) Case(i int) (tree.Builder, bool) {
	return l.body, true
}

func (l *loop) String() string {
	upper := "*"
	if l.max > 0 {
		upper = fmt.Sprint(l.max)
	}
	return l.describe(fmt.Sprintf("loop(%v..%v)", l.min, upper))
}

type loopState struct {
	loop    *loop
	count   int
	acc     *trace.Trace
	current Reader
}

func (st *loopState) Empty() Result {
	return primedOnly(st)
}

func (st *loopState) Consume(id TokenID) Result {
	l := st.loop
	res := st.current.Consume(id)
	var still Reader
	if res.Ongoing != nil {
		still = &loopState{
			loop:    l,
			count:   st.count,
			acc:     st.acc,
			current: res.Ongoing,
		}
	}
	if res.Success == nil {
		return Result{
			Ongoing: still,
		}
	}

	count := st.count + 1
	acc := trace.PushSwitch(trace.PushRec(st.acc, res.Success), count*l.dir, l.policy)
	return Result{
		Success: l.complete(count, acc),
		Ongoing: race(loopRace, l.policy, l.arm(count, acc), still),
	}
}

func (st *loopState) String() string {
	return fmt.Sprintf("%v@%v", st.loop, st.count)
}
