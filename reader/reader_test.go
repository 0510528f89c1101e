package reader_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nihei9/dervish/reader"
	"github.com/nihei9/dervish/symbol"
	"github.com/nihei9/dervish/trace"
	"github.com/nihei9/dervish/tree"
)

type outcome struct {
	success    *trace.Trace
	successLen int
	read       int
}

// feed drives r over input the same way the parser driver does.
func feed(r reader.Reader, input string) outcome {
	res := r.Empty()
	o := outcome{
		success: res.Success,
	}
	cur := res.Ongoing
	for i := 0; i < len(input); i++ {
		if cur == nil {
			break
		}
		o.read++
		res = cur.Consume(reader.TokenID(input[i]))
		if res.Success != nil {
			o.success = res.Success
			o.successLen = i + 1
		}
		cur = res.Ongoing
	}
	return o
}

func build(t *testing.T, n reader.Node, input string, names tree.Namer) *tree.Node {
	t.Helper()
	o := feed(n, input)
	if o.success == nil {
		t.Fatalf("%v did not accept %q", n, input)
	}
	return tree.Encode(tree.FromTrace(n, o.success, reader.Bytes([]byte(input))), names)
}

func checkTree(t *testing.T, expected, actual *tree.Node) {
	t.Helper()
	diffs := tree.DiffNode(expected.Fill(), actual)
	for _, d := range diffs {
		t.Error(d)
	}
	if len(diffs) > 0 {
		t.Logf("actual:\n%v", actual.Format())
	}
}

var (
	nd  = tree.NewInteriorNode
	lf  = tree.NewLeafNode
	emp = tree.NewEmptyNode
)

func digit(opts ...reader.Option) reader.Node {
	return reader.IncludeBytes("0123456789", opts...)
}

func TestPrimitives(t *testing.T) {
	tests := []struct {
		caption    string
		node       reader.Node
		input      string
		successLen int
		read       int
		accepted   bool
	}{
		{
			caption: "epsilon accepts the empty input",
			node:    reader.Epsilon(),
			input:   "",

			accepted: true,
		},
		{
			caption: "epsilon reads nothing",
			node:    reader.Epsilon(),
			input:   "a",

			accepted: true,
		},
		{
			caption:    "a matcher accepts its token",
			node:       reader.Match('a'),
			input:      "a",
			successLen: 1,
			read:       1,
			accepted:   true,
		},
		{
			caption: "a matcher rejects other tokens",
			node:    reader.Match('a'),
			input:   "b",
			read:    1,
		},
		{
			caption:    "a class accepts its members",
			node:       digit(),
			input:      "7",
			successLen: 1,
			read:       1,
			accepted:   true,
		},
		{
			caption: "a class rejects non-members",
			node:    digit(),
			input:   "x",
			read:    1,
		},
		{
			caption:    "an excluding class accepts non-members",
			node:       reader.ExcludeBytes(`"\`),
			input:      "x",
			successLen: 1,
			read:       1,
			accepted:   true,
		},
		{
			caption: "an excluding class rejects members",
			node:    reader.ExcludeBytes(`"\`),
			input:   `"`,
			read:    1,
		},
		{
			caption:    "a class over an explicit alphabet",
			node:       reader.Include(reader.Range(3, 5), 8),
			input:      "\x04",
			successLen: 1,
			read:       1,
			accepted:   true,
		},
		{
			caption:    "a literal accepts its bytes",
			node:       reader.Literal("null"),
			input:      "null",
			successLen: 4,
			read:       4,
			accepted:   true,
		},
		{
			caption: "a literal rejects a prefix",
			node:    reader.Literal("null"),
			input:   "nul",
			read:    3,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			o := feed(tt.node, tt.input)
			if tt.accepted != (o.success != nil) {
				t.Fatalf("unexpected acceptance; want: %v, got: %v", tt.accepted, o.success != nil)
			}
			if o.successLen != tt.successLen {
				t.Errorf("unexpected success length; want: %v, got: %v", tt.successLen, o.successLen)
			}
			if o.read != tt.read {
				t.Errorf("unexpected read count; want: %v, got: %v", tt.read, o.read)
			}
		})
	}
}

func TestSequence_RoundTrip(t *testing.T) {
	names := symbol.NewTable()
	g := reader.Seq(reader.Match('('), reader.Match(')'))

	o := feed(g, "()")
	if o.success == nil || o.successLen != 2 {
		t.Fatalf("unexpected outcome; success: %v, length: %v", trace.Format(o.success), o.successLen)
	}
	tr := tree.FromTrace(g, o.success, reader.Bytes([]byte("()")))
	if tr.Kind != tree.KindNode || len(tr.Children) != 2 {
		t.Fatalf("unexpected tree: %+v", tr)
	}
	for _, c := range tr.Children {
		if c.Kind != tree.KindLeaf {
			t.Fatalf("a child is not a leaf: %+v", c)
		}
	}
	checkTree(t, nd("", lf("", "("), lf("", ")")), tree.Encode(tr, names.Reader()))
}

func TestChoice_TrueFalse(t *testing.T) {
	g := reader.Or(reader.Literal("true"), reader.Literal("false"))

	o := feed(g, "true")
	if o.success == nil || o.successLen != 4 {
		t.Fatalf("unexpected outcome; success: %v, length: %v", trace.Format(o.success), o.successLen)
	}
	m := o.success.Peek()
	if m.Kind != trace.KindSwitch || m.Case != 0 {
		t.Fatalf("unexpected top marker: %v", trace.Format(o.success))
	}

	o = feed(g, "false")
	if o.success == nil || o.success.Peek().Case != 1 || o.successLen != 5 {
		t.Fatalf("unexpected outcome: %v", trace.Format(o.success))
	}

	o = feed(g, "tru")
	if o.success != nil {
		t.Fatalf("a prefix was accepted: %v", trace.Format(o.success))
	}
}

func TestChoice_Policy(t *testing.T) {
	cases := func() []reader.Node {
		return []reader.Node{
			reader.Literal("a"),
			reader.Literal("ab"),
		}
	}

	tests := []struct {
		caption    string
		g          reader.Node
		input      string
		successLen int
		read       int
		policy     trace.Policy
		topCase    int
		checkTop   bool
	}{
		{
			caption:    "a longest choice reaches the longer case",
			g:          reader.Choice(cases(), reader.WithPolicy(trace.Longest)),
			input:      "ab",
			successLen: 2,
			read:       2,
			policy:     trace.Longest,
			topCase:    1,
			checkTop:   true,
		},
		{
			caption:    "a shortest choice keeps the cases that can go on",
			g:          reader.Choice(cases(), reader.WithPolicy(trace.Shortest)),
			input:      "ab",
			successLen: 2,
			read:       2,
			policy:     trace.Shortest,
			topCase:    1,
			checkTop:   true,
		},
		{
			caption:    "a shortest choice accepts the shorter case",
			g:          reader.Choice(cases(), reader.WithPolicy(trace.Shortest)),
			input:      "a",
			successLen: 1,
			read:       1,
			policy:     trace.Shortest,
			topCase:    0,
			checkTop:   true,
		},
		{
			caption:    "a shortest choice followed by an element accepts the longer case",
			g:          reader.Seq(reader.Choice(cases(), reader.WithPolicy(trace.Shortest)), reader.Match('c')),
			input:      "abc",
			successLen: 3,
			read:       3,
		},
		{
			caption:    "a shortest choice followed by an element accepts the shorter case",
			g:          reader.Seq(reader.Choice(cases(), reader.WithPolicy(trace.Shortest)), reader.Match('c')),
			input:      "ac",
			successLen: 2,
			read:       2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			o := feed(tt.g, tt.input)
			if o.success == nil {
				t.Fatalf("%q was not accepted", tt.input)
			}
			if o.successLen != tt.successLen || o.read != tt.read {
				t.Fatalf("unexpected lengths; want: %v/%v, got: %v/%v", tt.successLen, tt.read, o.successLen, o.read)
			}
			if !tt.checkTop {
				return
			}
			m := o.success.Peek()
			if m.Kind != trace.KindSwitch || m.Case != tt.topCase || m.Policy != tt.policy {
				t.Fatalf("unexpected top marker: %v", trace.Format(o.success))
			}
		})
	}
}

func TestOptional(t *testing.T) {
	names := symbol.NewTable()
	g := reader.Seq(reader.Optional(reader.Match('-')), digit())

	tests := []struct {
		input    string
		sw       int
		expected *tree.Node
	}{
		{
			input:    "-5",
			sw:       1,
			expected: nd("", lf("", "-"), lf("", "5")),
		},
		{
			input:    "5",
			sw:       0,
			expected: nd("", emp(), lf("", "5")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			o := feed(g, tt.input)
			if o.success == nil || o.successLen != len(tt.input) {
				t.Fatalf("unexpected outcome: %v", trace.Format(o.success))
			}
			elems := o.success.Peek().Stack.Reversed()
			if m := elems[0].Peek(); m.Kind != trace.KindSwitch || m.Case != tt.sw {
				t.Fatalf("unexpected optional marker: %v", trace.Format(elems[0]))
			}
			checkTree(t, tt.expected, build(t, g, tt.input, names.Reader()))
		})
	}
}

func TestSequence_ConsecutiveOptionals(t *testing.T) {
	names := symbol.NewTable()
	opts := func(p trace.Policy) reader.Node {
		return reader.Sequence([]reader.Node{
			reader.Optional(reader.Match('a')),
			reader.Optional(reader.Match('a')),
		}, reader.WithPolicy(p))
	}

	tests := []struct {
		policy   trace.Policy
		input    string
		expected *tree.Node
	}{
		{
			policy:   trace.Longest,
			input:    "",
			expected: nd("", emp(), emp()),
		},
		{
			policy:   trace.Longest,
			input:    "a",
			expected: nd("", lf("", "a"), emp()),
		},
		{
			policy:   trace.Shortest,
			input:    "a",
			expected: nd("", emp(), lf("", "a")),
		},
		{
			policy:   trace.Longest,
			input:    "aa",
			expected: nd("", lf("", "a"), lf("", "a")),
		},
		{
			policy:   trace.Shortest,
			input:    "aa",
			expected: nd("", lf("", "a"), lf("", "a")),
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			g := opts(tt.policy)
			o := feed(g, tt.input)
			if o.success == nil || o.successLen != len(tt.input) {
				t.Fatalf("unexpected outcome: %v", trace.Format(o.success))
			}
			checkTree(t, tt.expected, build(t, g, tt.input, names.Reader()))
		})
	}
}

func TestSequence_Policy(t *testing.T) {
	names := symbol.NewTable()
	g := func(p trace.Policy) reader.Node {
		return reader.Sequence([]reader.Node{
			reader.Or(reader.Literal("a"), reader.Literal("aa")),
			reader.Loop(reader.Match('a')),
		}, reader.WithPolicy(p))
	}

	// Longest gives the first element the longer match.
	checkTree(t, nd("",
		nd("", lf("", "a"), lf("", "a")),
		nd(""),
	), build(t, g(trace.Longest), "aa", names.Reader()))

	checkTree(t, nd("",
		nd("", lf("", "a")),
		nd("", lf("", "a")),
	), build(t, g(trace.Shortest), "aa", names.Reader()))
}

func TestLoop_Policy(t *testing.T) {
	body := func() reader.Node {
		return reader.Or(reader.Literal("a"), reader.Literal("aa"))
	}

	tests := []struct {
		policy     trace.Policy
		input      string
		iterations int
	}{
		{
			policy:     trace.Longest,
			input:      "aa",
			iterations: 2,
		},
		{
			policy:     trace.Shortest,
			input:      "aa",
			iterations: 1,
		},
		{
			policy:     trace.Longest,
			input:      "aaaa",
			iterations: 4,
		},
		{
			policy:     trace.Shortest,
			input:      "aaaa",
			iterations: 2,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v %v", i, tt.policy, tt.input), func(t *testing.T) {
			g := reader.Loop(body(), reader.WithPolicy(tt.policy))
			o := feed(g, tt.input)
			if o.success == nil || o.successLen != len(tt.input) {
				t.Fatalf("unexpected outcome: %v", trace.Format(o.success))
			}
			if m := o.success.Peek(); m.Kind != trace.KindSwitch || m.Case != tt.iterations {
				t.Fatalf("unexpected iteration marker: %v", trace.Format(o.success))
			}
			tr := tree.FromTrace(g, o.success, reader.Bytes([]byte(tt.input)))
			if len(tr.Children) != tt.iterations {
				t.Fatalf("unexpected iteration count; want: %v, got: %v", tt.iterations, len(tr.Children))
			}
			var b strings.Builder
			for leaf := range tr.Leaves() {
				b.WriteString(leaf.Elem.Text())
			}
			if b.String() != tt.input {
				t.Fatalf("the leaves do not spell the input: %v", b.String())
			}
		})
	}
}

func TestRepeat_Bounds(t *testing.T) {
	g := reader.Repeat(digit(), 2, 3)

	tests := []struct {
		input      string
		accepted   bool
		successLen int
	}{
		{input: ""},
		{input: "1"},
		{input: "12", accepted: true, successLen: 2},
		{input: "123", accepted: true, successLen: 3},
		{input: "1234", accepted: true, successLen: 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			o := feed(g, tt.input)
			if tt.accepted != (o.success != nil) {
				t.Fatalf("unexpected acceptance; want: %v, got: %v", tt.accepted, trace.Format(o.success))
			}
			if o.successLen != tt.successLen {
				t.Fatalf("unexpected success length; want: %v, got: %v", tt.successLen, o.successLen)
			}
		})
	}
}

func TestRepeat_NullableBodyBounds(t *testing.T) {
	a := func() reader.Node {
		return reader.Optional(reader.Match('a'))
	}

	tests := []struct {
		caption    string
		g          reader.Node
		input      string
		successLen int
		iterations int
	}{
		{
			caption:    "empty iterations reach the minimum on the empty input",
			g:          reader.Repeat(a(), 2, 0),
			input:      "",
			successLen: 0,
			iterations: 2,
		},
		{
			caption:    "an empty iteration completes one real iteration",
			g:          reader.Repeat(a(), 2, 0),
			input:      "a",
			successLen: 1,
			iterations: 2,
		},
		{
			caption:    "real iterations reach the minimum",
			g:          reader.Repeat(a(), 2, 0),
			input:      "aa",
			successLen: 2,
			iterations: 2,
		},
		{
			caption:    "real iterations go beyond the minimum",
			g:          reader.Repeat(a(), 2, 0),
			input:      "aaa",
			successLen: 3,
			iterations: 3,
		},
		{
			caption:    "a single required iteration is empty",
			g:          reader.Repeat(a(), 1, 0),
			input:      "",
			successLen: 0,
			iterations: 1,
		},
		{
			caption:    "the maximum still bounds real iterations",
			g:          reader.Repeat(a(), 2, 3),
			input:      "aaaa",
			successLen: 3,
			iterations: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			o := feed(tt.g, tt.input)
			if o.success == nil {
				t.Fatalf("%q was not accepted", tt.input)
			}
			if o.successLen != tt.successLen {
				t.Fatalf("unexpected success length; want: %v, got: %v", tt.successLen, o.successLen)
			}
			tr := tree.FromTrace(tt.g, o.success, reader.Bytes([]byte(tt.input[:o.successLen])))
			if len(tr.Children) != tt.iterations {
				t.Fatalf("unexpected iterations; want: %v, got: %v", tt.iterations, len(tr.Children))
			}
			for i, c := range tr.Children {
				if i < o.successLen {
					if c.Kind != tree.KindLeaf || c.Elem != 'a' {
						t.Fatalf("iteration #%v is not a match: %+v", i, c)
					}
					continue
				}
				if c.Kind != tree.KindEmpty {
					t.Fatalf("iteration #%v is not empty: %+v", i, c)
				}
			}
		})
	}
}

func TestLoop_Decreasing(t *testing.T) {
	g := reader.Loop(digit(), reader.Decreasing())
	o := feed(g, "12")
	if m := o.success.Peek(); m.Kind != trace.KindSwitch || m.Case != -2 {
		t.Fatalf("unexpected iteration marker: %v", trace.Format(o.success))
	}
	tr := tree.FromTrace(g, o.success, reader.Bytes([]byte("12")))
	if len(tr.Children) != 2 || tr.Children[0].Elem != '1' || tr.Children[1].Elem != '2' {
		t.Fatalf("unexpected tree: %+v", tr)
	}
}

func TestLoop_NullableBody(t *testing.T) {
	g := reader.Loop(reader.Optional(reader.Match('a')))
	o := feed(g, "aa")
	if o.success == nil || o.successLen != 2 {
		t.Fatalf("unexpected outcome: %v", trace.Format(o.success))
	}
	o = feed(g, "")
	if o.success == nil || o.success.Peek().Case != 0 {
		t.Fatalf("unexpected outcome: %v", trace.Format(o.success))
	}
}

// newArrayGrammar returns value := array | NUMBER; array := '[' (value (',' value)*)? ']'.
func newArrayGrammar(w *symbol.TableWriter, memo bool) reader.Node {
	value := reader.NewRef()
	elems := reader.Seq(value, reader.Loop(reader.Seq(reader.Match(','), value)))
	array := reader.Sequence([]reader.Node{
		reader.Match('['),
		reader.Optional(elems),
		reader.Match(']'),
	}, reader.WithTag(w.MustIntern("array")))
	number := reader.Repeat(digit(), 1, 0, reader.WithTag(w.MustIntern("NUMBER")))
	var opts []reader.Option
	if memo {
		opts = append(opts, reader.WithMemo(reader.ByteAlphabet))
	}
	var v reader.Node = reader.Choice([]reader.Node{array, number}, opts...)
	if memo {
		v = reader.Memoize(v, reader.ByteAlphabet)
	}
	value.Set(v)
	return value
}

func TestRef_RecursiveArray(t *testing.T) {
	syms := symbol.NewTable()
	g := newArrayGrammar(syms.Writer(), false)

	o := feed(g, "[1,2]")
	if o.success == nil || o.successLen != 5 {
		t.Fatalf("unexpected outcome: %v", trace.Format(o.success))
	}
	tr := tree.FromTrace(g, o.success, reader.Bytes([]byte("[1,2]")))
	array, _ := syms.Reader().ToSymbol("array")
	number, _ := syms.Reader().ToSymbol("NUMBER")
	if tr.Tag != array {
		t.Fatalf("unexpected root tag: %v", tr.Tag)
	}
	tagged := tree.Collect(tr.Tagged())
	if len(tagged) != 2 {
		t.Fatalf("unexpected tagged children: %v", len(tagged))
	}
	for _, c := range tagged {
		if c.Tag != number {
			t.Fatalf("unexpected child tag: %v", c.Tag)
		}
	}

	checkTree(t, nd("array",
		lf("", "["),
		nd("",
			nd("NUMBER", lf("", "1")),
			nd("",
				nd("", lf("", ","), nd("NUMBER", lf("", "2"))),
			),
		),
		lf("", "]"),
	), tree.Encode(tr, syms.Reader()))

	o = feed(g, "[[],[3]]")
	if o.success == nil || o.successLen != 8 {
		t.Fatalf("unexpected outcome: %v", trace.Format(o.success))
	}
	o = feed(g, "[1,]")
	if o.success != nil {
		t.Fatalf("an invalid array was accepted: %v", trace.Format(o.success))
	}
}

func TestMemoize_SameResults(t *testing.T) {
	inputs := []string{
		"",
		"1",
		"123",
		"[",
		"[]",
		"[1,2]",
		"[[1],[2,[3]],45]",
		"[1,,2]",
		"[1]]",
		"12a",
	}
	plain := newArrayGrammar(symbol.NewTable().Writer(), false)
	memoized := newArrayGrammar(symbol.NewTable().Writer(), true)
	for _, input := range inputs {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			// Run twice so that the second pass hits the caches.
			for i := 0; i < 2; i++ {
				p := feed(plain, input)
				m := feed(memoized, input)
				if p.successLen != m.successLen || p.read != m.read {
					t.Fatalf("different outcomes; plain: %v/%v, memoized: %v/%v", p.successLen, p.read, m.successLen, m.read)
				}
				if !trace.Equal(p.success, m.success) {
					t.Fatalf("different traces;\nplain:    %v\nmemoized: %v", trace.Format(p.success), trace.Format(m.success))
				}
			}
		})
	}
}

func TestPrefixConsistency(t *testing.T) {
	grammars := []struct {
		caption string
		node    reader.Node
		inputs  []string
	}{
		{
			caption: "array",
			node:    newArrayGrammar(symbol.NewTable().Writer(), true),
			inputs:  []string{"[1,2]x", "[1,2]]", "12]"},
		},
		{
			caption: "digits",
			node:    reader.Loop(digit()),
			inputs:  []string{"123a", "9", "x"},
		},
		{
			caption: "optional sign",
			node:    reader.Seq(reader.Optional(reader.Match('-')), reader.Repeat(digit(), 1, 0)),
			inputs:  []string{"-12-", "5x"},
		},
	}
	for _, g := range grammars {
		for _, input := range g.inputs {
			t.Run(fmt.Sprintf("%v %q", g.caption, input), func(t *testing.T) {
				o := feed(g.node, input)
				if o.success == nil {
					t.Fatalf("no prefix was accepted")
				}
				p := feed(g.node, input[:o.successLen])
				if p.success == nil || p.successLen != o.successLen {
					t.Fatalf("the prefix was not accepted: %v", p.successLen)
				}
				if !trace.Equal(o.success, p.success) {
					t.Fatalf("different traces;\nwhole:  %v\nprefix: %v", trace.Format(o.success), trace.Format(p.success))
				}
			})
		}
	}
}

func TestFromTrace_Deterministic(t *testing.T) {
	syms := symbol.NewTable()
	g := newArrayGrammar(syms.Writer(), true)
	input := "[1,[2,3]]"
	o := feed(g, input)
	a := tree.Encode(tree.FromTrace(g, o.success, reader.Bytes([]byte(input))), syms.Reader())
	b := tree.Encode(tree.FromTrace(g, o.success, reader.Bytes([]byte(input))), syms.Reader())
	if a.Format() != b.Format() {
		t.Fatalf("different trees;\n%v\n%v", a.Format(), b.Format())
	}
	checkTree(t, a, b)
}

func TestMisuse(t *testing.T) {
	tests := []struct {
		caption string
		f       func()
	}{
		{
			caption: "a ref used before it is set",
			f: func() {
				reader.NewRef().Empty()
			},
		},
		{
			caption: "a ref set twice",
			f: func() {
				r := reader.NewRef()
				r.Set(reader.Epsilon())
				r.Set(reader.Epsilon())
			},
		},
		{
			caption: "consume on epsilon",
			f: func() {
				reader.Epsilon().Consume(0)
			},
		},
		{
			caption: "consume on a ref",
			f: func() {
				r := reader.NewRef()
				r.Set(reader.Match('a'))
				r.Consume('a')
			},
		},
		{
			caption: "consume on a tag wrapper",
			f: func() {
				reader.Tagged(reader.Match('a'), symbol.Symbol(1)).Consume('a')
			},
		},
		{
			caption: "consume on an unprimed sequence",
			f: func() {
				reader.Seq(reader.Match('a')).Consume('a')
			},
		},
		{
			caption: "a token out of the alphabet of a class",
			f: func() {
				reader.Include(reader.Range(0, 1), 2).Consume(2)
			},
		},
		{
			caption: "a class member out of the alphabet",
			f: func() {
				reader.Include([]reader.TokenID{5}, 2)
			},
		},
		{
			caption: "a token out of the alphabet of a memo",
			f: func() {
				m := reader.Memoize(reader.Match(0), 2)
				m.Empty().Ongoing.Consume(3)
			},
		},
		{
			caption: "an empty sequence",
			f: func() {
				reader.Sequence(nil)
			},
		},
		{
			caption: "invalid repetition bounds",
			f: func() {
				reader.Repeat(digit(), 3, 2)
			},
		},
		{
			caption: "a malformed trace",
			f: func() {
				tree.FromTrace[reader.Byte](reader.Match('a'), trace.Deferred(nil), nil)
			},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected a panic")
				}
			}()
			tt.f()
		})
	}
}

func TestCodePoints(t *testing.T) {
	tests := []struct {
		caption    string
		node       reader.Node
		input      string
		successLen int
	}{
		{
			caption:    "a two-byte code point",
			node:       reader.CodePoints(0x00a0, 0x07ff),
			input:      "é",
			successLen: 2,
		},
		{
			caption:    "one code point of several",
			node:       reader.CodePoints(0x0041, 0x3093),
			input:      "あい",
			successLen: 3,
		},
		{
			caption: "a code point below the range",
			node:    reader.CodePoints(0x00a0, 0x07ff),
			input:   "A",
		},
		{
			caption: "the second byte is outside the block",
			node:    reader.CodePoints(0x00e0, 0x00ff),
			input:   "\xc2\xa0",
		},
		{
			caption: "an encoded surrogate code point",
			node:    reader.CodePoints(0x0800, 0xffff),
			input:   "\xed\xa0\x80",
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			o := feed(tt.node, tt.input)
			if tt.successLen == 0 {
				if o.success != nil {
					t.Fatalf("%q must not be accepted", tt.input)
				}
				return
			}
			if o.success == nil || o.successLen != tt.successLen {
				t.Fatalf("unexpected success length; want: %v, got: %v", tt.successLen, o.successLen)
			}
		})
	}
}
