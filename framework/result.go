package framework

import (
	"fmt"
	"io"
	"strings"
	"time"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID      TestID
	Errors      []error
	Skipped     bool
	SkipReason  string
	Attempts    int
	Duration    time.Duration
	Attachments []Attachment
}

// Attachment is a named diagnostic value recorded by a test.
type Attachment struct {
	Name  string
	Value string
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Counts returns the number of tests that passed, failed, and were skipped.
func (r Results) Counts() (passed, failed, skipped int) {
	for _, t := range r.Tests {
		switch {
		case t.Skipped:
			skipped++
		case len(t.Errors) > 0:
			failed++
		default:
			passed++
		}
	}
	return
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// Plus returns a new TestID for a child of this one. It never shares storage with the receiver.
func (t TestID) Plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

// Root returns the first element of the path, which is the name of the top-level group.
func (t TestID) Root() string {
	if len(t.Path) == 0 {
		return ""
	}
	return t.Path[0]
}

// PrintResults writes a summary of the run, listing every failed test.
func PrintResults(out io.Writer, results Results) {
	passed, failed, skipped := results.Counts()
	if results.OK() {
		fmt.Fprintf(out, "All tests passed (%d passed, %d skipped)\n", passed, skipped)
		return
	}
	fmt.Fprintf(out, "FAILED TESTS (%d passed, %d failed, %d skipped):\n", passed, failed, skipped)
	for _, f := range results.Failures {
		fmt.Fprintf(out, "* %s\n", f.TestID)
	}
}
