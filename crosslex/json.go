package crosslex

import (
	"github.com/nihei9/dervish/grammars/json"
)

// JSON returns the reference entries of the JSON token kinds, in the order of the
// cases of the JSON lexer grammar.
func JSON() []Entry {
	names := json.KindNames()
	return []Entry{
		Literal(names[json.KindLBrace], "{"),
		Literal(names[json.KindRBrace], "}"),
		Literal(names[json.KindComma], ","),
		Literal(names[json.KindColon], ":"),
		Literal(names[json.KindLBracket], "["),
		Literal(names[json.KindRBracket], "]"),
		Literal(names[json.KindTrue], "true"),
		Literal(names[json.KindFalse], "false"),
		Literal(names[json.KindNull], "null"),
		{
			Kind:    names[json.KindWS],
			Pattern: `[\u{0009}\u{000A}\u{000D}\u{0020}]+`,
		},
		{
			Kind:    names[json.KindNumber],
			Pattern: `-?[0-9]+(\.[0-9]+)?([eE][+\-]?[0-9]+)?`,
		},
		{
			Kind:    names[json.KindString],
			Pattern: `"([\u{0020}-\u{0021}\u{0023}-\u{005B}\u{005D}-\u{10FFFF}]|\\["\\/bfnrt]|\\u[0-9A-Fa-f][0-9A-Fa-f][0-9A-Fa-f][0-9A-Fa-f])*"`,
		},
	}
}
