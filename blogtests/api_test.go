package blogtests

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/config"
	"github.com/blogapp/blog-e2e-harness/framework"
	"github.com/blogapp/blog-e2e-harness/pages"
)

// fakeSessions hands out sessions with no page behind them. They are good enough for building
// page objects, but not for driving them.
type fakeSessions struct {
	opened   []string
	failNext bool
}

func (f *fakeSessions) OpenSession(storageStatePath string) (*pages.Session, error) {
	if f.failNext {
		f.failNext = false
		return nil, errors.New("sorry")
	}
	f.opened = append(f.opened, storageStatePath)
	return pages.NewSession(nil, nil, "http://ui", 0, true), nil
}

func runWithEnv(env *Environment, action func(*T)) framework.Results {
	return framework.Run(framework.RunOptions{}, func(c *framework.Context) {
		action(newGroupScope(c, env, nil))
	})
}

func resultFor(t *testing.T, results framework.Results, id string) framework.TestResult {
	for _, r := range results.Tests {
		if r.TestID.String() == id {
			return r
		}
	}
	require.Fail(t, "test result not found", id)
	return framework.TestResult{}
}

func TestBeforeAllRunsOnceBeforeFirstTest(t *testing.T) {
	var calls []string
	results := runWithEnv(&Environment{}, func(t *T) {
		t.Describe("suite", func(t *T) {
			t.BeforeAll(func(t *T) { calls = append(calls, "beforeAll:"+t.Name()) })
			t.BeforeEach(func(t *T) { calls = append(calls, "beforeEach:"+t.Name()) })
			t.Run("a", func(t *T) { calls = append(calls, "a") })
			t.Run("b", func(t *T) { calls = append(calls, "b") })
		})
	})

	assert.True(t, results.OK())
	assert.Equal(t, []string{"beforeAll:a", "beforeEach:a", "a", "beforeEach:b", "b"}, calls)
}

func TestOuterHooksRunBeforeInnerHooks(t *testing.T) {
	var calls []string
	runWithEnv(&Environment{}, func(t *T) {
		t.BeforeEach(func(*T) { calls = append(calls, "outer each") })
		t.Describe("inner", func(t *T) {
			t.BeforeAll(func(*T) { calls = append(calls, "inner all") })
			t.BeforeEach(func(*T) { calls = append(calls, "inner each") })
			t.Run("test", func(*T) { calls = append(calls, "test") })
		})
	})

	assert.Equal(t, []string{"inner all", "outer each", "inner each", "test"}, calls)
}

func TestFailedBeforeAllFailsLaterTests(t *testing.T) {
	beforeAllCalls := 0
	ran := false
	results := runWithEnv(&Environment{}, func(t *T) {
		t.Describe("suite", func(t *T) {
			t.BeforeAll(func(t *T) {
				beforeAllCalls++
				require.Fail(t, "setup is broken")
			})
			t.Run("first", func(*T) { ran = true })
			t.Run("second", func(*T) { ran = true })
		})
	})

	assert.False(t, ran)
	assert.Equal(t, 1, beforeAllCalls)
	require.Len(t, results.Failures, 2)
	assert.Contains(t, resultFor(t, results, "suite/first").Errors[0].Error(), "setup is broken")
	assert.Contains(t, resultFor(t, results, "suite/second").Errors[0].Error(), "failed in an earlier test")
}

func TestHooksCannotBeAddedInsideTest(t *testing.T) {
	results := runWithEnv(&Environment{}, func(t *T) {
		t.Run("test", func(t *T) {
			t.BeforeEach(func(*T) {})
		})
	})
	require.Len(t, results.Failures, 1)
}

func TestFixturesAreCreatedOnceAndShareTheSession(t *testing.T) {
	sessions := &fakeSessions{}
	env := &Environment{Config: config.Default(), Sessions: sessions}

	results := runWithEnv(env, func(t *T) {
		t.Run("test", func(t *T) {
			assert.Same(t, t.Session(), t.Session())
			assert.Same(t, t.HomePage(), t.HomePage())
			assert.Same(t, t.APIActions(), t.APIActions())

			home, login := t.HomePage(), t.LoginPage()
			assert.Same(t, home.Session(), login.Session())
			assert.Same(t, t.Session(), t.AdminPage().Session())
			assert.Same(t, t.Session(), t.CreateBlogPage().Session())
			assert.Same(t, t.Session(), t.PublishedBlogPage().Session())
			assert.Equal(t, pages.Unbound, home.State())

			other := t.OpenSessionFromStorage("state.json")
			assert.NotSame(t, t.Session(), other)
		})
		t.Run("another test", func(t *T) {
			t.Session()
		})
	})

	assert.True(t, results.OK(), "%+v", results.Failures)
	assert.Equal(t, []string{"", "state.json", ""}, sessions.opened)
}

func TestFixturesAreNotAvailableInGroups(t *testing.T) {
	results := runWithEnv(&Environment{}, func(t *T) {
		t.APIActions()
	})
	require.Len(t, results.Failures, 1)
}

func TestSessionSkipsTestWithoutBrowser(t *testing.T) {
	results := runWithEnv(&Environment{}, func(t *T) {
		t.Run("ui test", func(t *T) {
			t.HomePage()
			t.Errorf("should not get here")
		})
	})

	r := resultFor(t, results, "ui test")
	assert.True(t, r.Skipped)
	assert.Equal(t, errNoBrowser.Error(), r.SkipReason)
	assert.True(t, results.OK())
}

func TestSessionOpenFailureFailsTest(t *testing.T) {
	env := &Environment{Sessions: &fakeSessions{failNext: true}}
	results := runWithEnv(env, func(t *T) {
		t.Run("ui test", func(t *T) {
			t.Session()
		})
	})
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "could not open a browser session")
}

func TestNameAndID(t *testing.T) {
	var name, id string
	runWithEnv(&Environment{}, func(t *T) {
		t.Describe("group", func(t *T) {
			t.Run("test", func(t *T) {
				name, id = t.Name(), t.ID().String()
			})
		})
	})
	assert.Equal(t, "test", name)
	assert.Equal(t, "group/test", id)
}
