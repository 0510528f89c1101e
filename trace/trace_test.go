package trace

import (
	"testing"

	"github.com/nihei9/dervish/list"
)

func TestSentinels(t *testing.T) {
	if TokenTrace() != TokenTrace() || EmptyTrace() != EmptyTrace() {
		t.Fatalf("sentinel traces must be shared")
	}
	if TokenTrace().Peek().Kind != KindToken || TokenTrace().Len() != 1 {
		t.Fatalf("unexpected token trace: %v", Format(TokenTrace()))
	}
	if EmptyTrace().Peek().Kind != KindEmpty || EmptyTrace().Len() != 1 {
		t.Fatalf("unexpected empty trace: %v", Format(EmptyTrace()))
	}
}

func TestFormat(t *testing.T) {
	var s *Stack
	s = s.Push(TokenTrace())
	s = s.Push(PushSwitch(EmptyTrace(), 0, Longest))
	tr := PushSwitch(Deferred(s), 2, Shortest)
	tr = PushRec(tr, TokenTrace())

	want := "[rec[tok] sw2(shortest) defer{[tok] [sw0(longest) empty]}]"
	if got := Format(tr); got != want {
		t.Fatalf("unexpected format:\nwant: %v\ngot:  %v", want, got)
	}
}

func TestEqual(t *testing.T) {
	stackOf := func(trs ...*Trace) *Stack {
		return list.Of(trs...)
	}
	tests := []struct {
		caption string
		a       *Trace
		b       *Trace
		equal   bool
	}{
		{
			caption: "nil traces are equal",
			equal:   true,
		},
		{
			caption: "a copied sentinel equals the sentinel",
			a:       TokenTrace(),
			b:       list.Of(Marker{Kind: KindToken}),
			equal:   true,
		},
		{
			caption: "different endings",
			a:       TokenTrace(),
			b:       EmptyTrace(),
		},
		{
			caption: "different cases",
			a:       PushSwitch(TokenTrace(), 0, Longest),
			b:       PushSwitch(TokenTrace(), 1, Longest),
		},
		{
			caption: "different policies",
			a:       PushSwitch(TokenTrace(), 0, Longest),
			b:       PushSwitch(TokenTrace(), 0, Shortest),
		},
		{
			caption: "different lengths",
			a:       PushSwitch(TokenTrace(), 0, Longest),
			b:       TokenTrace(),
		},
		{
			caption: "stacked records are compared element by element",
			a:       Deferred(stackOf(TokenTrace(), EmptyTrace())),
			b:       Deferred(stackOf(list.Of(Marker{Kind: KindToken}), list.Of(Marker{Kind: KindEmpty}))),
			equal:   true,
		},
		{
			caption: "stacked records of different lengths",
			a:       Deferred(stackOf(TokenTrace(), EmptyTrace())),
			b:       Deferred(stackOf(TokenTrace())),
		},
		{
			caption: "loop iterations are compared",
			a:       PushRec(EmptyTrace(), TokenTrace()),
			b:       PushRec(EmptyTrace(), EmptyTrace()),
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.equal {
				t.Fatalf("want: %v, got: %v; a: %v, b: %v", tt.equal, got, Format(tt.a), Format(tt.b))
			}
		})
	}
}
