package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/blogapp/blog-e2e-harness/framework"
)

var (
	failColor = color.New(color.FgRed, color.Bold)
	skipColor = color.New(color.FgYellow)
	passColor = color.New(color.FgGreen)
)

// consoleTestLogger prints test progress. Suites run in parallel, so each event is written in
// one piece while holding the lock.
type consoleTestLogger struct {
	out                  io.Writer
	debugOutputOnFailure bool
	debugOutputOnSuccess bool
	lock                 sync.Mutex
}

func newConsoleTestLogger(out io.Writer, debugOnFailure, debugOnSuccess bool) *consoleTestLogger {
	return &consoleTestLogger{
		out:                  out,
		debugOutputOnFailure: debugOnFailure,
		debugOutputOnSuccess: debugOnSuccess,
	}
}

func (c *consoleTestLogger) TestStarted(id framework.TestID) {
	c.lock.Lock()
	defer c.lock.Unlock()
	fmt.Fprintf(c.out, "[%s]\n", id)
}

func (c *consoleTestLogger) TestError(id framework.TestID, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	fmt.Fprintf(c.out, "  [%s]\n", id)
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.out, "    %s\n", line)
	}
}

func (c *consoleTestLogger) TestRetrying(id framework.TestID, attempt, maxAttempts int) {
	c.lock.Lock()
	defer c.lock.Unlock()
	skipColor.Fprintf(c.out, "  RETRYING (%d/%d): %s\n", attempt, maxAttempts, id)
}

func (c *consoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if failed {
		failColor.Fprintf(c.out, "  FAILED: %s\n", id)
	} else {
		passColor.Fprintf(c.out, "  PASSED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.debugOutputOnFailure) || (!failed && c.debugOutputOnSuccess)) {
		debugOutput.Dump(c.out, "    DEBUG ")
	}
}

func (c *consoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if reason == "" {
		skipColor.Fprintf(c.out, "  SKIPPED: %s\n", id)
	} else {
		skipColor.Fprintf(c.out, "  SKIPPED: %s (%s)\n", id, reason)
	}
}
