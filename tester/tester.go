package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/nihei9/dervish/tree"
)

var log = commonlog.GetLogger("dervish.tester")

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*tree.Diff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.Message)
			diffLines = append(diffLines, fmt.Sprintf("%vexpected path: %v", indent1, diff.ExpectedPath))
			diffLines = append(diffLines, fmt.Sprintf("%vactual path:   %v", indent1, diff.ActualPath))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCase(f)
}

// Grammar builds named trees from source texts.
type Grammar interface {
	ParseNode(src []byte) (*tree.Node, error)
}

type Tester struct {
	Grammar Grammar
	Cases   []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		r := runTest(t.Grammar, c)
		if r.Error != nil {
			log.Debugf("%v failed: %v", c.FilePath, r.Error)
		}
		rs = append(rs, r)
	}
	return rs
}

func runTest(g Grammar, c *TestCaseWithMetadata) (result *TestResult) {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}

	defer func() {
		if v := recover(); v != nil {
			// A panic while matching is a bug of the grammar or the engine. We include a stack
			// trace in the error message to be sure.
			result = &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("a panic occurred while parsing: %v\n%v", v, string(debug.Stack())),
			}
		}
	}()

	actual, err := g.ParseNode(c.TestCase.Source)
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        rebase(err, c.TestCase.file, c.TestCase.sourceLineOffset),
		}
	}

	diffs := tree.DiffNode(c.TestCase.Output, actual.Fill())
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}
