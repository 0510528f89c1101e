package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nihei9/dervish/reader"
	"github.com/nihei9/dervish/tree"
)

func digits() reader.Node {
	return reader.Repeat(reader.IncludeBytes("0123456789"), 1, 0)
}

func TestParse(t *testing.T) {
	tests := []struct {
		caption    string
		node       reader.Node
		src        string
		complete   bool
		successLen int
		tokensRead int
		synErr     *SyntaxError
	}{
		{
			caption:    "a whole match",
			node:       reader.Seq(reader.Match('('), reader.Match(')')),
			src:        "()",
			complete:   true,
			successLen: 2,
			tokensRead: 2,
		},
		{
			caption:    "a partial match stops at the dead element",
			node:       digits(),
			src:        "123a",
			successLen: 3,
			tokensRead: 4,
			synErr: &SyntaxError{
				Index:   3,
				Message: "unexpected token",
				Token:   "'a'",
			},
		},
		{
			caption:    "a match followed by extra input",
			node:       reader.Literal("ab"),
			src:        "abc",
			successLen: 2,
			tokensRead: 2,
			synErr: &SyntaxError{
				Index:   2,
				Message: "unexpected token",
				Token:   "'c'",
			},
		},
		{
			caption:    "the input ends too early",
			node:       reader.Literal("abc"),
			src:        "ab",
			tokensRead: 2,
			synErr: &SyntaxError{
				Index:   2,
				EOF:     true,
				Message: "unexpected end of input",
			},
		},
		{
			caption:    "the first element is rejected",
			node:       reader.Literal("abc"),
			src:        "x",
			tokensRead: 1,
			synErr: &SyntaxError{
				Index:   0,
				Message: "unexpected token",
				Token:   "'x'",
			},
		},
		{
			caption:  "a nullable grammar accepts the empty input",
			node:     reader.Loop(reader.Match('a')),
			src:      "",
			complete: true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			res := Parse(reader.Bytes([]byte(tt.src)), tt.node)
			if res.Complete() != tt.complete {
				t.Fatalf("unexpected completeness; want: %v, got: %v", tt.complete, res.Complete())
			}
			if res.SuccessLen != tt.successLen {
				t.Errorf("unexpected success length; want: %v, got: %v", tt.successLen, res.SuccessLen)
			}
			if res.TokensRead != tt.tokensRead {
				t.Errorf("unexpected read count; want: %v, got: %v", tt.tokensRead, res.TokensRead)
			}
			err := res.Err()
			if tt.synErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("unexpected error: %v", err)
			}
			if synErr.Index != tt.synErr.Index || synErr.EOF != tt.synErr.EOF || synErr.Message != tt.synErr.Message || synErr.Token != tt.synErr.Token {
				t.Fatalf("unexpected syntax error; want: %+v, got: %+v", tt.synErr, synErr)
			}
		})
	}
}

func TestParse_ExpectedTokens(t *testing.T) {
	g := reader.Seq(reader.Match('['), reader.Or(reader.Match('1'), reader.Match(']')))
	name := func(id reader.TokenID) string {
		return fmt.Sprintf("%q", rune(id))
	}
	res := Parse(reader.Bytes([]byte("[x")), g, ExpectedTokens(reader.ByteAlphabet, name))
	var synErr *SyntaxError
	if !errors.As(res.Err(), &synErr) {
		t.Fatalf("unexpected error: %v", res.Err())
	}
	if got := strings.Join(synErr.ExpectedTokens, " "); got != `'1' ']'` {
		t.Fatalf("unexpected expected tokens: %v", got)
	}
	if !strings.Contains(synErr.Error(), "expected: '1', ']'") {
		t.Fatalf("unexpected message: %v", synErr.Error())
	}
}

func TestParseIDs(t *testing.T) {
	g := reader.Seq(reader.Match(2), reader.Loop(reader.Match(0)), reader.Match(1))
	ids := []reader.TokenID{2, 0, 0, 1}
	res := ParseIDs(ids, g)
	if !res.Complete() {
		t.Fatalf("the input was not accepted: %v", res.Err())
	}
	tr := tree.FromTrace(g, res.Success, ids)
	if len(tr.Children) != 3 || len(tr.Children[1].Children) != 2 {
		t.Fatalf("unexpected tree: %+v", tr)
	}

	res = ParseIDs([]reader.TokenID{2, 3}, g)
	var synErr *SyntaxError
	if !errors.As(res.Err(), &synErr) || synErr.Token != "#3" {
		t.Fatalf("unexpected error: %v", res.Err())
	}
}
