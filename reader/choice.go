package reader

import (
	"fmt"

	"github.com/nihei9/dervish/trace"
	"github.com/nihei9/dervish/tree"
)

type choice struct {
	builder
	cases  []Node
	policy trace.Policy
	memo   int
}

// Choice matches any of cases. Every case that can go on stays alive, and the
// acceptance of the lowest-index accepting case is recorded as Switch(i) carrying the
// policy. The policy never prunes cases; sequences and loops settle ambiguity.
func Choice(cases []Node, opts ...Option) Node {
	if len(cases) == 0 {
		panic(fmt.Errorf("reader: a choice needs at least one case"))
	}
	c := newNodeConfig(opts)
	return &choice{
		builder: builder{tag: c.tag},
		cases:   cases,
		policy:  c.policy,
		memo:    c.memo,
	}
}

// Or is a shorthand of Choice without options.
func Or(cases ...Node) Node {
	return Choice(cases)
}

func (ch *choice) Empty() Result {
	var succ *trace.Trace
	var live []liveCase
	for i, c := range ch.cases {
		res := c.Empty()
		succ, live = ch.collect(succ, live, i, res)
	}
	return ch.result(succ, live)
}

func (ch *choice) Consume(id TokenID) Result {
	panic(fmt.Errorf("reader: %v cannot consume %v before it is primed", ch, id))
}

func (ch *choice) collect(succ *trace.Trace, live []liveCase, i int, res Result) (*trace.Trace, []liveCase) {
	if succ == nil && res.Success != nil {
		succ = trace.PushSwitch(res.Success, i, ch.policy)
	}
	if res.Ongoing != nil {
		live = append(live, liveCase{
			index:   i,
			current: res.Ongoing,
		})
	}
	return succ, live
}

func (ch *choice) result(succ *trace.Trace, live []liveCase) Result {
	if len(live) == 0 {
		return Result{
			Success: succ,
		}
	}
	var ongoing Reader = &choiceState{
		choice: ch,
		live:   live,
	}
	if ch.memo > 0 {
		ongoing = newMemo(ongoing, ch.memo)
	}
	return Result{
		Success: succ,
		Ongoing: ongoing,
	}
}

func (ch *choice) Case(i int) (tree.Builder, bool) {
	if i < 0 || i >= len(ch.cases) {
		panic(fmt.Errorf("reader: %v has no case %v", ch, i))
	}
	return ch.cases[i], false
}

func (ch *choice) String() string {
	return ch.describe(fmt.Sprintf("choice(%v)", len(ch.cases)))
}

type liveCase struct {
	index   int
	current Reader
}

// choiceState holds the cases still alive, in their original order.
type choiceState struct {
	choice *choice
	live   []liveCase
}

func (st *choiceState) Empty() Result {
	return primedOnly(st)
}

func (st *choiceState) Consume(id TokenID) Result {
	var succ *trace.Trace
	var live []liveCase
	for _, c := range st.live {
		succ, live = st.choice.collect(succ, live, c.index, c.current.Consume(id))
	}
	return st.choice.result(succ, live)
}

func (st *choiceState) String() string {
	return fmt.Sprintf("%v[%v live]", st.choice, len(st.live))
}
