package tester

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"

	verr "github.com/nihei9/dervish/error"
	"github.com/nihei9/dervish/grammars/sexp"
	"github.com/nihei9/dervish/tree"
)

// TestCase is a source text with the tree a grammar must build from it. A test case
// file consists of three parts separated by lines of dashes: a description, the
// source, and the expected tree as an S-expression.
type TestCase struct {
	Description string
	Source      []byte
	Output      *tree.Node

	file             []byte
	sourceLineOffset int
}

func ParseTestCase(r io.Reader) (*TestCase, error) {
	file, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	parts, err := splitIntoParts(bytes.NewReader(file))
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just tree parts: %v parts found", len(parts))
	}

	lineOffset := parts[0].lineCount + parts[1].lineCount + 2
	output, err := sexp.Parse(parts[2].buf)
	if err != nil {
		return nil, rebase(err, file, lineOffset)
	}

	return &TestCase{
		Description:      string(parts[0].buf),
		Source:           parts[1].buf,
		Output:           output,
		file:             file,
		sourceLineOffset: parts[0].lineCount + 1,
	}, nil
}

// rebase moves an error located in a part of a test case file to the whole file.
func rebase(err error, file []byte, lineOffset int) error {
	var srcErr *verr.SourceError
	if !errors.As(err, &srcErr) || srcErr.Row == 0 {
		return err
	}
	return &verr.SourceError{
		Cause:      srcErr.Cause,
		SourceName: srcErr.SourceName,
		Source:     file,
		Row:        srcErr.Row + lineOffset,
		Col:        srcErr.Col,
	}
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// Return an empty slice because (*bytes.Buffer).Bytes() returns nil if we have never written data.
		return []byte{}, 0, nil
	}
	_, err := buf.Write(line)
	if err != nil {
		return nil, 0, err
	}
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		_, err := buf.Write([]byte("\n"))
		if err != nil {
			return nil, 0, err
		}
		_, err = buf.Write(line)
		if err != nil {
			return nil, 0, err
		}
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}
