package blogtests

import (
	"fmt"

	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/config"
	"github.com/blogapp/blog-e2e-harness/framework"
)

// T represents a test, or a group of tests, in the blog test suites.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is outside
// of the Go test runner, and with some extra features such as steps, hooks, and debug logging.
// Those features are provided by our lower-level framework package.
//
// A T that represents a test also holds the test's fixtures: the API helper, the browser session,
// and the page objects. Each of these is created the first time the test asks for it, and they
// all go away when the test ends.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if it
// were a *testing.T, or use Expect for assertions about the page.
type T struct {
	context  *framework.Context
	env      *Environment
	hooks    *hookGroup
	fixtures *fixtures
}

type hookState int

const (
	hooksNotRun hookState = iota
	hooksPassed
	hooksFailed
)

// hookGroup holds the hooks declared in one group. Tests in a group run one at a time, so it
// needs no locking.
type hookGroup struct {
	parent     *hookGroup
	name       string
	beforeAll  []func(*T)
	beforeEach []func(*T)
	state      hookState
}

func newGroupScope(context *framework.Context, env *Environment, parent *hookGroup) *T {
	return &T{
		context: context,
		env:     env,
		hooks:   &hookGroup{parent: parent, name: context.ID().String()},
	}
}

func newTestScope(context *framework.Context, env *Environment, hooks *hookGroup) *T {
	t := &T{
		context: context,
		env:     env,
		hooks:   hooks,
	}
	t.fixtures = newFixtures()
	context.Defer(t.closeFixtures)
	return t
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a test. The specified function receives a new T instance, with its own fixtures.
//
// Before the function is called, the BeforeAll and BeforeEach hooks of every enclosing group
// are run with the new T.
func (t *T) Run(name string, action func(*T)) {
	hooks := t.hooks
	t.context.Run(name, func(c *framework.Context) {
		t1 := newTestScope(c, t.env, hooks)
		t1.runHooks()
		action(t1)
	})
}

// Describe declares a group of tests.
func (t *T) Describe(name string, action func(*T)) {
	t.context.Group(name, func(c *framework.Context) {
		action(newGroupScope(c, t.env, t.hooks))
	})
}

// DescribeSerial declares a group of tests that must run in order and that may depend on state
// left by earlier tests in the group. Once one of them fails, the rest are skipped, and none of
// them are retried.
func (t *T) DescribeSerial(name string, action func(*T)) {
	t.context.SerialGroup(name, func(c *framework.Context) {
		action(newGroupScope(c, t.env, t.hooks))
	})
}

// BeforeAll registers a hook that runs once, before the first test in this group that actually
// runs, using that test's T. If it fails, every later test in the group fails too. Hooks must be
// registered before the tests they apply to.
func (t *T) BeforeAll(hook func(*T)) {
	t.requireGroup("BeforeAll")
	t.hooks.beforeAll = append(t.hooks.beforeAll, hook)
}

// BeforeEach registers a hook that runs before every test in this group and in its subgroups.
func (t *T) BeforeEach(hook func(*T)) {
	t.requireGroup("BeforeEach")
	t.hooks.beforeEach = append(t.hooks.beforeEach, hook)
}

func (t *T) requireGroup(what string) {
	if t.fixtures != nil {
		require.Fail(t, what+" can only be called on a group, not inside a test")
	}
}

func (t *T) runHooks() {
	var chain []*hookGroup
	for g := t.hooks; g != nil; g = g.parent {
		chain = append([]*hookGroup{g}, chain...)
	}
	for _, g := range chain {
		g.runBeforeAll(t)
	}
	for _, g := range chain {
		for _, hook := range g.beforeEach {
			hook := hook
			t.Step("beforeEach", func() { hook(t) })
		}
	}
}

func (g *hookGroup) runBeforeAll(t *T) {
	switch g.state {
	case hooksPassed:
		return
	case hooksFailed:
		require.Fail(t, fmt.Sprintf("beforeAll hook in %q failed in an earlier test", g.name))
	}
	if len(g.beforeAll) == 0 {
		g.state = hooksPassed
		return
	}
	g.state = hooksFailed // stays this way if a hook exits the test
	t.Step("beforeAll", func() {
		for _, hook := range g.beforeAll {
			hook(t)
		}
	})
	if !t.context.Failed() {
		g.state = hooksPassed
	}
}

// Step runs part of a test under a name. A failure inside it is reported with the names of all
// the steps it is in.
func (t *T) Step(name string, action func()) {
	t.context.Step(name, action)
}

// Attach records a diagnostic value, such as a measured response time, in the debug output and
// the results report.
func (t *T) Attach(name string, value interface{}) {
	t.context.Attach(name, value)
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Defer schedules a cleanup function to run when the test ends. Cleanups run in reverse order.
func (t *T) Defer(fn func()) {
	t.context.Defer(fn)
}

// Skip stops the test and reports it as skipped.
func (t *T) Skip(reason string) {
	t.context.SkipWithReason(reason)
}

// Name returns the last part of the test's ID.
func (t *T) Name() string {
	path := t.context.ID().Path
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}

func (t *T) ID() framework.TestID {
	return t.context.ID()
}

func (t *T) Config() config.Config {
	return t.env.Config
}

func (t *T) TestData() TestData {
	return t.env.Data
}
