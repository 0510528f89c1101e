package reader

import (
	"fmt"
	"strings"

	"github.com/nihei9/dervish/symbol"
	"github.com/nihei9/dervish/trace"
	"github.com/nihei9/dervish/tree"
)

type epsilon struct {
	builder
}

// Epsilon matches the empty input only.
func Epsilon(opts ...Option) Node {
	c := newNodeConfig(opts)
	return &epsilon{
		builder: builder{tag: c.tag},
	}
}

func (e *epsilon) Empty() Result {
	return Result{
		Success: trace.EmptyTrace(),
	}
}

func (e *epsilon) Consume(id TokenID) Result {
	panic(fmt.Errorf("reader: %v has no continuation and cannot consume %v", e, id))
}

func (e *epsilon) String() string {
	return e.describe("epsilon")
}

type match struct {
	builder
	id TokenID
}

// Match matches the single token id.
func Match(id TokenID, opts ...Option) Node {
	c := newNodeConfig(opts)
	return &match{
		builder: builder{tag: c.tag},
		id:      id,
	}
}

func (m *match) Empty() Result {
	return Result{
		Ongoing: m,
	}
}

func (m *match) Consume(id TokenID) Result {
	if id != m.id {
		return Result{}
	}
	return Result{
		Success: trace.TokenTrace(),
	}
}

func (m *match) String() string {
	return m.describe(fmt.Sprintf("match(%v)", m.id))
}

type class struct {
	builder
	accepts []bool
	desc    string
}

// Include matches one token whose identity is in ids. n is the alphabet size.
func Include(ids []TokenID, n int, opts ...Option) Node {
	return newClass(ids, n, false, opts)
}

// Exclude matches one token whose identity is not in ids. n is the alphabet size.
func Exclude(ids []TokenID, n int, opts ...Option) Node {
	return newClass(ids, n, true, opts)
}

// IncludeBytes matches one byte contained in chars.
func IncludeBytes(chars string, opts ...Option) Node {
	return Include(byteIDs(chars), ByteAlphabet, opts...)
}

// ExcludeBytes matches one byte not contained in chars.
func ExcludeBytes(chars string, opts ...Option) Node {
	return Exclude(byteIDs(chars), ByteAlphabet, opts...)
}

// Range returns the identities from..to inclusive.
func Range(from, to TokenID) []TokenID {
	var ids []TokenID
	for id := from; id <= to; id++ {
		ids = append(ids, id)
	}
	return ids
}

func byteIDs(chars string) []TokenID {
	ids := make([]TokenID, len(chars))
	for i := 0; i < len(chars); i++ {
		ids[i] = TokenID(chars[i])
	}
	return ids
}

func newClass(ids []TokenID, n int, exclude bool, opts []Option) Node {
	c := newNodeConfig(opts)
	accepts := make([]bool, n)
	if exclude {
		for i := range accepts {
			accepts[i] = true
		}
	}
	var b strings.Builder
	if exclude {
		b.WriteString("^")
	}
	for i, id := range ids {
		if id < 0 || int(id) >= n {
			panic(fmt.Errorf("reader: token %v is out of the alphabet of size %v", id, n))
		}
		accepts[id] = !exclude
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%v", id)
	}
	return &class{
		builder: builder{tag: c.tag},
		accepts: accepts,
		desc:    b.String(),
	}
}

func (c *class) Empty() Result {
	return Result{
		Ongoing: c,
	}
}

func (c *class) Consume(id TokenID) Result {
	if id < 0 || int(id) >= len(c.accepts) {
		panic(fmt.Errorf("reader: token %v is out of the alphabet of size %v", id, len(c.accepts)))
	}
	if !c.accepts[id] {
		return Result{}
	}
	return Result{
		Success: trace.TokenTrace(),
	}
}

func (c *class) String() string {
	return c.describe(fmt.Sprintf("class[%v]", c.desc))
}

// Literal matches the bytes of s in order.
func Literal(s string, opts ...Option) Node {
	if s == "" {
		return Epsilon(opts...)
	}
	elems := make([]Node, len(s))
	for i := 0; i < len(s); i++ {
		elems[i] = Match(TokenID(s[i]))
	}
	return Sequence(elems, opts...)
}

type optional struct {
	builder
	inner Node
	skip  Node
}

// Optional matches inner or nothing. The trace of a skip is [Switch(0), Empty]; a match
// prefixes the trace of inner with Switch(1).
func Optional(inner Node, opts ...Option) Node {
	c := newNodeConfig(opts)
	return &optional{
		builder: builder{tag: c.tag},
		inner:   inner,
		skip:    Epsilon(),
	}
}

func (o *optional) Empty() Result {
	res := o.inner.Empty()
	return Result{
		Success: trace.PushSwitch(trace.EmptyTrace(), 0, trace.Longest),
		Ongoing: newSwitched(res.Ongoing, 1, trace.Longest),
	}
}

func (o *optional) Consume(id TokenID) Result {
	panic(fmt.Errorf("reader: %v cannot consume %v before it is primed", o, id))
}

func (o *optional) Case(i int) (tree.Builder, bool) {
	switch i {
	case 0:
		return o.skip, false
	case 1:
		return o.inner, false
	}
	panic(fmt.Errorf("reader: %v has no case %v", o, i))
}

func (o *optional) String() string {
	return o.describe("optional")
}

// switched prefixes every acceptance of its continuation with a switch marker.
type switched struct {
	inner  Reader
	c      int
	policy trace.Policy
}

func newSwitched(inner Reader, c int, p trace.Policy) Reader {
	if inner == nil {
		return nil
	}
	return &switched{
		inner:  inner,
		c:      c,
		policy: p,
	}
}

func (s *switched) Empty() Result {
	return primedOnly(s)
}

func (s *switched) Consume(id TokenID) Result {
	res := s.inner.Consume(id)
	var succ *trace.Trace
	if res.Success != nil {
		succ = trace.PushSwitch(res.Success, s.c, s.policy)
	}
	return Result{
		Success: succ,
		Ongoing: newSwitched(res.Ongoing, s.c, s.policy),
	}
}

func (s *switched) String() string {
	return fmt.Sprintf("switch%v(%v)", s.c, s.inner)
}

// Ref is a self-reference cell. It is created empty and set once the node it refers
// to exists, which makes recursive grammars possible.
type Ref struct {
	target Node
}

func NewRef() *Ref {
	return &Ref{}
}

// Set installs the target of the cell. A cell can be set only once.
func (r *Ref) Set(target Node) {
	if target == nil {
		panic(fmt.Errorf("reader: a ref cannot refer to nil"))
	}
	if r.target != nil {
		panic(fmt.Errorf("reader: a ref is set twice"))
	}
	r.target = target
}

// IsSet reports whether the target is installed.
func (r *Ref) IsSet() bool {
	return r.target != nil
}

func (r *Ref) get() Node {
	if r.target == nil {
		panic(fmt.Errorf("reader: a ref is used before it is set"))
	}
	return r.target
}

func (r *Ref) Empty() Result {
	return r.get().Empty()
}

func (r *Ref) Consume(id TokenID) Result {
	panic(fmt.Errorf("reader: a ref cannot consume %v; only its target's continuations do", id))
}

func (r *Ref) Tag() symbol.Symbol {
	return symbol.Nil
}

func (r *Ref) Delegate() (tree.Builder, symbol.Symbol, bool) {
	return r.get(), symbol.Nil, true
}

func (r *Ref) Case(i int) (tree.Builder, bool) {
	panic(fmt.Errorf("reader: a ref has no case %v", i))
}

func (r *Ref) Elements() []tree.Builder {
	panic(fmt.Errorf("reader: a ref has no elements"))
}

func (r *Ref) String() string {
	if r.target == nil {
		return "ref(unset)"
	}
	return "ref"
}

type tagged struct {
	inner Node
	tag   symbol.Symbol
}

// Tagged labels the trees of inner with tag. It does not change what inner matches.
func Tagged(inner Node, tag symbol.Symbol) Node {
	return &tagged{
		inner: inner,
		tag:   tag,
	}
}

func (t *tagged) Empty() Result {
	return t.inner.Empty()
}

func (t *tagged) Consume(id TokenID) Result {
	panic(fmt.Errorf("reader: %v cannot consume %v; only its child's continuations do", t, id))
}

func (t *tagged) Tag() symbol.Symbol {
	return t.tag
}

func (t *tagged) Delegate() (tree.Builder, symbol.Symbol, bool) {
	return t.inner, t.tag, true
}

func (t *tagged) Case(i int) (tree.Builder, bool) {
	panic(fmt.Errorf("reader: %v has no case %v", t, i))
}

func (t *tagged) Elements() []tree.Builder {
	panic(fmt.Errorf("reader: %v has no elements", t))
}

func (t *tagged) String() string {
	return fmt.Sprintf("tagged%v(%v)", t.tag, t.inner)
}
