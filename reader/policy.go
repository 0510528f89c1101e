package reader

import (
	"fmt"

	"github.com/nihei9/dervish/trace"
)

type raceKind int

const (
	// listRace is the race of a sequence: the next element started after an earlier
	// element accepted, against that earlier element going on.
	listRace = raceKind(iota)
	// loopRace is the race of a loop: a new iteration started after the body accepted,
	// against the body going on in the current iteration.
	loopRace
)

func (k raceKind) String() string {
	switch k {
	case listRace:
		return "list"
	case loopRace:
		return "loop"
	}
	return fmt.Sprintf("<invalid race kind: %d>", int(k))
}

// policyRace runs two continuations in lockstep. succeeded descends from an acceptance
// and stillOngoing from the path that has not accepted yet.
type policyRace struct {
	kind         raceKind
	policy       trace.Policy
	succeeded    Reader
	stillOngoing Reader
}

// race merges two continuations. When only one is alive the merge collapses to it.
func race(k raceKind, p trace.Policy, succeeded, stillOngoing Reader) Reader {
	if succeeded == nil {
		return stillOngoing
	}
	if stillOngoing == nil {
		return succeeded
	}
	return &policyRace{
		kind:         k,
		policy:       p,
		succeeded:    succeeded,
		stillOngoing: stillOngoing,
	}
}

func (r *policyRace) Empty() Result {
	return primedOnly(r)
}

func (r *policyRace) Consume(id TokenID) Result {
	a := r.succeeded.Consume(id)
	b := r.stillOngoing.Consume(id)
	return Result{
		Success: r.pick(a.Success, b.Success),
		Ongoing: race(r.kind, r.policy, a.Ongoing, b.Ongoing),
	}
}

// pick settles two acceptances at the same position. In a sequence Longest favors the
// longer earlier element; in a loop Longest favors more iterations.
func (r *policyRace) pick(succeeded, stillOngoing *trace.Trace) *trace.Trace {
	if succeeded == nil {
		return stillOngoing
	}
	if stillOngoing == nil {
		return succeeded
	}
	keepSucceeded := r.policy == trace.Shortest
	if r.kind == loopRace {
		keepSucceeded = !keepSucceeded
	}
	if keepSucceeded {
		return succeeded
	}
	return stillOngoing
}

func (r *policyRace) String() string {
	return fmt.Sprintf("race-%v(%v)[%v | %v]", r.kind, r.policy, r.succeeded, r.stillOngoing)
}
