package framework

import (
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunOptions controls a test run.
type RunOptions struct {
	// Filter decides whether an individual test is run.
	Filter Filter

	// GroupFilter decides whether a group is entered at all. Groups that are not excluded by it are
	// always entered, so that Filter can be applied to the tests inside them.
	GroupFilter Filter

	TestLogger TestLogger

	// Retries is the number of extra attempts made for a failed test. Tests inside a serial group
	// are never retried.
	Retries int

	// DebugSink, if set, receives a copy of every debug message logged by any test.
	DebugSink Logger
}

// Group is a top-level group of tests that RunGroups can schedule on a worker.
type Group struct {
	Name   string
	Serial bool
	Action func(*Context)
}

type environment struct {
	lock        sync.Mutex
	results     Results
	testLogger  TestLogger
	filter      Filter
	groupFilter Filter
	retries     int
	debugSink   Logger
}

// Context is the low-level equivalent of Go's *testing.T for tests that run outside of the Go
// test runner. A Context is either a group, which only contains other tests and groups, or a
// test, which is a unit that passes or fails.
type Context struct {
	env          *environment
	id           TestID
	isGroup      bool
	serialGroup  *Context
	serialFailed bool
	debugLogger  CapturingLogger
	logger       Logger
	failed       bool
	skipped      bool
	skipReason   string
	errors       []error
	steps        []string
	attachments  []Attachment
	deferred     []func()
	started      time.Time
}

func newEnvironment(opts RunOptions) *environment {
	testLogger := opts.TestLogger
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	return &environment{
		filter:      opts.Filter,
		groupFilter: opts.GroupFilter,
		testLogger:  testLogger,
		retries:     opts.Retries,
		debugSink:   opts.DebugSink,
	}
}

// Run executes the action as the root group of a test run and returns the results of every test
// that it started.
func Run(opts RunOptions, action func(*Context)) Results {
	env := newEnvironment(opts)
	c := newContext(env, TestID{}, true)
	c.run(action)
	if c.failed {
		env.record(c.result(1))
	}
	return env.snapshot()
}

// RunGroups runs each group on a pool of at most workers goroutines. Tests within a group always
// run sequentially. A workers value of zero or less means no limit.
func RunGroups(opts RunOptions, workers int, groups []Group) Results {
	env := newEnvironment(opts)
	root := newContext(env, TestID{}, true)

	var eg errgroup.Group
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for _, g := range groups {
		g := g
		eg.Go(func() error {
			root.group(g.Name, g.Serial, g.Action)
			return nil
		})
	}
	_ = eg.Wait()

	order := make(map[string]int, len(groups))
	for i, g := range groups {
		order[g.Name] = i
	}
	results := env.snapshot()
	sortByGroup := func(rs []TestResult) {
		sort.SliceStable(rs, func(i, j int) bool {
			return order[rs[i].TestID.Root()] < order[rs[j].TestID.Root()]
		})
	}
	sortByGroup(results.Tests)
	sortByGroup(results.Failures)
	return results
}

func newContext(env *environment, id TestID, isGroup bool) *Context {
	c := &Context{env: env, id: id, isGroup: isGroup, started: time.Now()}
	c.logger = &c.debugLogger
	if env.debugSink != nil {
		c.logger = TeeLogger(&c.debugLogger, LoggerWithPrefix(env.debugSink, "["+id.String()+"] "))
	}
	return c
}

func (e *environment) record(result TestResult) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.results.Tests = append(e.results.Tests, result)
	if len(result.Errors) > 0 && !result.Skipped {
		e.results.Failures = append(e.results.Failures, result)
	}
}

func (e *environment) snapshot() Results {
	e.lock.Lock()
	defer e.lock.Unlock()
	return Results{
		Tests:    append([]TestResult(nil), e.results.Tests...),
		Failures: append([]TestResult(nil), e.results.Failures...),
	}
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				c.runDeferred()
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		c.runDeferred()
	}()

	action(c)
}

func (c *Context) runDeferred() {
	for i := len(c.deferred) - 1; i >= 0; i-- {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Printf("panic in deferred cleanup: %+v", r)
				}
			}()
			c.deferred[i]()
		}()
	}
	c.deferred = nil
}

func (c *Context) result(attempts int) TestResult {
	return TestResult{
		TestID:      c.id,
		Errors:      c.errors,
		Skipped:     c.skipped,
		SkipReason:  c.skipReason,
		Attempts:    attempts,
		Duration:    time.Since(c.started),
		Attachments: c.attachments,
	}
}

// ID returns the full identifier of this test or group.
func (c *Context) ID() TestID {
	return c.id
}

// IsGroup returns true if this Context was created by Group or SerialGroup rather than Run.
func (c *Context) IsGroup() bool {
	return c.isGroup
}

// Run runs a test. The action receives a new Context for the test.
//
// If the test fails, and it is not inside a serial group, it is retried with a fresh Context up
// to the configured number of times; only the last attempt counts.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)
	if c.env.filter != nil && !c.env.filter(id) {
		return
	}

	c.env.testLogger.TestStarted(id)

	if sg := c.serialGroup; sg != nil && sg.serialFailed {
		reason := fmt.Sprintf("skipped because an earlier test in serial group %q failed", sg.id)
		c.env.record(TestResult{TestID: id, Skipped: true, SkipReason: reason})
		c.env.testLogger.TestSkipped(id, reason)
		return
	}

	maxAttempts := 1
	if c.serialGroup == nil {
		maxAttempts += c.env.retries
	}

	var c1 *Context
	attempt := 1
	for ; ; attempt++ {
		c1 = newContext(c.env, id, false)
		c1.serialGroup = c.serialGroup
		c1.run(action)
		if !c1.failed || c1.skipped || attempt >= maxAttempts {
			break
		}
		c.env.testLogger.TestRetrying(id, attempt+1, maxAttempts)
	}

	c.env.record(c1.result(attempt))
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
		return
	}
	if c1.failed && c.serialGroup != nil {
		c.serialGroup.serialFailed = true
	}
	c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
}

// Group runs a group of tests. Group-level code runs exactly once, and its failures are reported
// against the group's own ID.
func (c *Context) Group(name string, action func(*Context)) {
	c.group(name, false, action)
}

// SerialGroup is like Group, except that once any test inside it fails, the remaining tests in the
// group are skipped.
func (c *Context) SerialGroup(name string, action func(*Context)) {
	c.group(name, true, action)
}

func (c *Context) group(name string, serial bool, action func(*Context)) {
	id := c.id.Plus(name)
	if c.env.groupFilter != nil && !c.env.groupFilter(id) {
		return
	}
	g := newContext(c.env, id, true)
	g.serialGroup = c.serialGroup
	if serial {
		g.serialGroup = g
	}
	g.run(action)
	if g.skipped {
		c.env.testLogger.TestSkipped(id, g.skipReason)
		return
	}
	if g.failed {
		c.env.record(g.result(1))
		c.env.testLogger.TestFinished(id, true, g.debugLogger.Output())
		if c.serialGroup != nil {
			c.serialGroup.serialFailed = true
		}
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit. If
// the test is inside one or more steps, the message is prefixed with the step trail.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	if len(c.steps) > 0 {
		err = fmt.Errorf("[step: %s] %w", strings.Join(c.steps, " > "), err)
	}
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

// FailNow causes the test to exit immediately. The methods in the require package call this.
func (c *Context) FailNow() {
	panic(c)
}

// Failed returns true if the test has failed so far.
func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Step runs part of a test under a name, so that any failure inside it says where it happened.
// Steps can be nested.
func (c *Context) Step(name string, action func()) {
	c.steps = append(c.steps, name)
	defer func() {
		c.steps = c.steps[:len(c.steps)-1]
	}()
	c.logger.Printf("step: %s", strings.Join(c.steps, " > "))
	action()
}

// Attach records a named diagnostic value for the test, such as a measured response time. It is
// logged as debug output and included in the results report.
func (c *Context) Attach(name string, value interface{}) {
	a := Attachment{Name: name, Value: fmt.Sprint(value)}
	c.attachments = append(c.attachments, a)
	c.logger.Printf("attachment %s: %s", a.Name, a.Value)
}

// Defer schedules a function to be called when the test or group ends, whether or not it passed.
// Deferred functions are called in reverse order.
func (c *Context) Defer(fn func()) {
	c.deferred = append(c.deferred, fn)
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.logger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return c.logger
}

var testifyLabel = regexp.MustCompile(`^\t?[A-Z][A-Za-z ]*:\s`)

// reformatError strips the stack trace that testify puts in assertion messages, since it only
// ever points into this package, and removes blank lines.
func reformatError(err error) error {
	var lines []string
	inTrace := false
	for _, line := range strings.Split(err.Error(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if testifyLabel.MatchString(line) {
			inTrace = strings.HasPrefix(strings.TrimSpace(line), "Error Trace:")
		}
		if inTrace {
			continue
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	if len(lines) == 0 {
		return err
	}
	return errors.New(strings.Join(lines, "\n"))
}
