package error

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// SourceError is an error located in a source text. Row and Col are 1-based; Col is
// counted in code points.
type SourceError struct {
	Cause      error
	SourceName string
	Source     []byte
	Row        int
	Col        int
}

// NewSourceError locates cause at the byte offset of src.
func NewSourceError(cause error, sourceName string, src []byte, offset int) *SourceError {
	row, col := Position(src, offset)
	return &SourceError{
		Cause:      cause,
		SourceName: sourceName,
		Source:     src,
		Row:        row,
		Col:        col,
	}
}

func (e *SourceError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row != 0 {
		fmt.Fprintf(&b, "%v:%v: ", e.Row, e.Col)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)

	line := readLine(e.Source, e.Row)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
		if e.Col > 0 {
			fmt.Fprintf(&b, "\n    %v^", caretIndent(line, e.Col))
		}
	}

	return b.String()
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

type SourceErrors []*SourceError

func (e SourceErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v", e[0])
	for _, err := range e[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}

	return b.String()
}

// Position returns the 1-based row and column of the byte offset in src. LF ends a
// line, and columns are counted in code points.
func Position(src []byte, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}
	row := 1
	col := 1
	for _, c := range src[:offset] {
		switch {
		case c == '\n':
			row++
			col = 1
		case c < 0x80 || c>>6 != 2:
			// Continuation bytes (10xxxxxx) do not start a code point.
			col++
		}
	}
	return row, col
}

func readLine(src []byte, row int) string {
	if len(src) == 0 || row <= 0 {
		return ""
	}

	i := 1
	s := bufio.NewScanner(bytes.NewReader(src))
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}

// caretIndent returns the prefix of line before the column col, with every code
// point other than a tab replaced with a space.
func caretIndent(line string, col int) string {
	var b strings.Builder
	n := 1
	for _, r := range line {
		if n >= col {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
		n++
	}
	return b.String()
}
