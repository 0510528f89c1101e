// Package parser drives a reader over a finite input.
package parser

import (
	"fmt"
	"strings"

	"github.com/nihei9/dervish/reader"
	"github.com/nihei9/dervish/trace"
)

type SyntaxError struct {
	// Index is the position of the offending element. It equals the input length when
	// the input ended too early.
	Index   int
	EOF     bool
	Message string
	// Token describes the offending element. It is empty when EOF is true.
	Token          string
	ExpectedTokens []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	if e.EOF {
		fmt.Fprintf(&b, "%v: %v", e.Index, e.Message)
	} else {
		fmt.Fprintf(&b, "%v: %v: %v", e.Index, e.Message, e.Token)
	}
	if len(e.ExpectedTokens) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(e.ExpectedTokens, ", "))
	}
	return b.String()
}

type Result struct {
	// Success is the trace of the longest accepted prefix, or nil.
	Success *trace.Trace
	// SuccessLen is the number of elements the accepted prefix spans.
	SuccessLen int
	// TokensRead is the number of elements consumed before the reader died or the
	// input ended. SuccessLen < TokensRead signals a partial match.
	TokensRead int

	inputLen int
	synErr   *SyntaxError
}

// Complete reports whether the whole input was accepted.
func (r *Result) Complete() bool {
	return r.Success != nil && r.SuccessLen == r.TokensRead && r.TokensRead == r.inputLen
}

// Err returns a *SyntaxError when the input was not accepted as a whole.
func (r *Result) Err() error {
	if r.Complete() {
		return nil
	}
	return r.synErr
}

type config struct {
	alphabet int
	name     func(reader.TokenID) string
}

type ParserOption func(c *config)

// ExpectedTokens makes a failed parse list the tokens the reader could have consumed
// at the offending position. alphabet is the number of token identities, and name
// renders one of them.
func ExpectedTokens(alphabet int, name func(id reader.TokenID) string) ParserOption {
	return func(c *config) {
		c.alphabet = alphabet
		c.name = name
	}
}

// Parse feeds input to r from left to right and records the longest acceptance.
// It stops as soon as r has no continuation.
func Parse[T reader.Token](input []T, r reader.Reader, opts ...ParserOption) *Result {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}

	res := r.Empty()
	result := &Result{
		Success:  res.Success,
		inputLen: len(input),
	}
	cur := res.Ongoing
	// last is the continuation before the element that killed the reader.
	var last reader.Reader
	for _, tok := range input {
		if cur == nil {
			break
		}
		last = cur
		result.TokensRead++
		res = cur.Consume(tok.ID())
		if res.Success != nil {
			result.Success = res.Success
			result.SuccessLen = result.TokensRead
		}
		cur = res.Ongoing
	}

	if result.Complete() {
		return result
	}

	synErr := &SyntaxError{}
	switch {
	case cur != nil:
		// The input ended while the reader still expected more.
		synErr.Index = len(input)
		synErr.EOF = true
		synErr.Message = "unexpected end of input"
		synErr.ExpectedTokens = c.expected(cur)
	case result.TokensRead > 0 && !(result.Success != nil && result.SuccessLen == result.TokensRead):
		// The last element read killed the reader.
		synErr.Index = result.TokensRead - 1
		synErr.Message = "unexpected token"
		synErr.Token = input[synErr.Index].Desc()
		synErr.ExpectedTokens = c.expected(last)
	default:
		// The reader accepted and then had nothing more to read.
		synErr.Index = result.TokensRead
		synErr.Message = "unexpected token"
		if synErr.Index < len(input) {
			synErr.Token = input[synErr.Index].Desc()
		} else {
			synErr.EOF = true
			synErr.Message = "unexpected end of input"
		}
	}
	result.synErr = synErr
	return result
}

func (c *config) expected(cur reader.Reader) []string {
	if cur == nil || c.name == nil {
		return nil
	}
	var names []string
	for id := 0; id < c.alphabet; id++ {
		if cur.Consume(reader.TokenID(id)).Dead() {
			continue
		}
		names = append(names, c.name(reader.TokenID(id)))
	}
	return names
}

type idToken reader.TokenID

func (t idToken) ID() reader.TokenID {
	return reader.TokenID(t)
}

func (t idToken) Desc() string {
	return fmt.Sprintf("#%v", int(t))
}

// ParseIDs is Parse over bare token identities.
func ParseIDs(ids []reader.TokenID, r reader.Reader, opts ...ParserOption) *Result {
	toks := make([]idToken, len(ids))
	for i, id := range ids {
		toks[i] = idToken(id)
	}
	return Parse(toks, r, opts...)
}
