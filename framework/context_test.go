package framework

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordingTestLogger struct {
	lock     sync.Mutex
	started  []string
	skipped  map[string]string
	retries  []int
	finished map[string]bool
}

func newRecordingTestLogger() *recordingTestLogger {
	return &recordingTestLogger{skipped: map[string]string{}, finished: map[string]bool{}}
}

func (r *recordingTestLogger) TestStarted(id TestID) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.started = append(r.started, id.String())
}

func (r *recordingTestLogger) TestError(TestID, error) {}

func (r *recordingTestLogger) TestRetrying(_ TestID, attempt, _ int) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.retries = append(r.retries, attempt)
}

func (r *recordingTestLogger) TestFinished(id TestID, failed bool, _ CapturedOutput) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.finished[id.String()] = failed
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.skipped[id.String()] = reason
}

func findResult(t *testing.T, results Results, id string) TestResult {
	for _, r := range results.Tests {
		if r.TestID.String() == id {
			return r
		}
	}
	require.Fail(t, "test result not found", id)
	return TestResult{}
}

func TestPassingAndFailingTests(t *testing.T) {
	results := Run(RunOptions{}, func(c *Context) {
		c.Group("group", func(c *Context) {
			c.Run("passes", func(c *Context) {
				assert.True(c, true)
			})
			c.Run("fails", func(c *Context) {
				require.Equal(c, 1, 2)
				c.Errorf("should not get here")
			})
		})
	})

	assert.False(t, results.OK())
	require.Len(t, results.Tests, 2)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "group/fails", results.Failures[0].TestID.String())
	assert.Len(t, results.Failures[0].Errors, 1)
}

func TestUnexpectedPanicIsReportedAsFailure(t *testing.T) {
	results := Run(RunOptions{}, func(c *Context) {
		c.Run("panics", func(c *Context) {
			panic("boom")
		})
	})

	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic in test: boom")
}

func TestSkippedTestIsNotAFailure(t *testing.T) {
	logger := newRecordingTestLogger()
	results := Run(RunOptions{TestLogger: logger}, func(c *Context) {
		c.Run("skipper", func(c *Context) {
			c.SkipWithReason("not today")
		})
	})

	assert.True(t, results.OK())
	r := findResult(t, results, "skipper")
	assert.True(t, r.Skipped)
	assert.Equal(t, "not today", logger.skipped["skipper"])
}

func TestFilterExcludesTestsButNotGroups(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("second$"))
	require.NoError(t, filters.MustNotMatch.Set("^excluded"))

	var ran []string
	results := Run(RunOptions{Filter: filters.AsFilter, GroupFilter: filters.AsGroupFilter}, func(c *Context) {
		c.Group("included", func(c *Context) {
			c.Run("first", func(c *Context) { ran = append(ran, "first") })
			c.Run("second", func(c *Context) { ran = append(ran, "second") })
		})
		c.Group("excluded", func(c *Context) {
			ran = append(ran, "excluded group body")
		})
	})

	assert.Equal(t, []string{"second"}, ran)
	assert.Len(t, results.Tests, 1)
}

func TestSerialGroupSkipsRemainingTestsAfterFailure(t *testing.T) {
	logger := newRecordingTestLogger()
	var ran []string
	results := Run(RunOptions{TestLogger: logger, Retries: 2}, func(c *Context) {
		c.SerialGroup("serial", func(c *Context) {
			c.Run("one", func(c *Context) { ran = append(ran, "one") })
			c.Run("two", func(c *Context) {
				ran = append(ran, "two")
				c.Errorf("failed")
			})
			c.Run("three", func(c *Context) { ran = append(ran, "three") })
		})
	})

	assert.Equal(t, []string{"one", "two"}, ran, "tests in a serial group are not retried")
	assert.Len(t, results.Failures, 1)
	three := findResult(t, results, "serial/three")
	assert.True(t, three.Skipped)
	assert.Contains(t, logger.skipped["serial/three"], "earlier test in serial group")
}

func TestFailedTestIsRetried(t *testing.T) {
	logger := newRecordingTestLogger()
	attempts := 0
	results := Run(RunOptions{TestLogger: logger, Retries: 2}, func(c *Context) {
		c.Run("flaky", func(c *Context) {
			attempts++
			if attempts < 2 {
				c.Errorf("not yet")
			}
		})
	})

	assert.True(t, results.OK())
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 2, findResult(t, results, "flaky").Attempts)
	assert.Equal(t, []int{2}, logger.retries)
}

func TestRetriesAreBounded(t *testing.T) {
	attempts := 0
	results := Run(RunOptions{Retries: 1}, func(c *Context) {
		c.Run("broken", func(c *Context) {
			attempts++
			c.FailNow()
		})
	})

	assert.Equal(t, 2, attempts)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, 2, results.Failures[0].Attempts)
}

func TestStepTrailIsAddedToFailureMessage(t *testing.T) {
	results := Run(RunOptions{}, func(c *Context) {
		c.Run("stepped", func(c *Context) {
			c.Step("log in", func() {
				c.Step("submit form", func() {
					c.Errorf("button was disabled")
				})
			})
			c.Errorf("outside")
		})
	})

	require.Len(t, results.Failures, 1)
	errs := results.Failures[0].Errors
	require.Len(t, errs, 2)
	assert.Equal(t, "[step: log in > submit form] button was disabled", errs[0].Error())
	assert.Equal(t, "outside", errs[1].Error())
}

func TestDeferredFunctionsRunInReverseOrderEvenOnFailure(t *testing.T) {
	var calls []string
	Run(RunOptions{}, func(c *Context) {
		c.Run("test", func(c *Context) {
			c.Defer(func() { calls = append(calls, "first") })
			c.Defer(func() { calls = append(calls, "second") })
			c.FailNow()
		})
	})

	assert.Equal(t, []string{"second", "first"}, calls)
}

func TestAttachmentsAreRecorded(t *testing.T) {
	results := Run(RunOptions{}, func(c *Context) {
		c.Run("timed", func(c *Context) {
			c.Attach("Response Time", "12ms")
		})
	})

	assert.Equal(t, []Attachment{{Name: "Response Time", Value: "12ms"}}, findResult(t, results, "timed").Attachments)
}

func TestDebugSinkReceivesPrefixedMessages(t *testing.T) {
	var sink CapturingLogger
	Run(RunOptions{DebugSink: &sink}, func(c *Context) {
		c.Run("noisy", func(c *Context) {
			c.Debug("hello %s", "world")
		})
	})

	out := sink.Output()
	require.Len(t, out, 1)
	assert.Equal(t, "[noisy] hello world", out[0].Message)
}

func TestRunGroupsRunsEveryGroupAndKeepsDeclarationOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	var running, maxRunning int32
	var lock sync.Mutex
	gate := make(chan struct{})
	var groups []Group
	for _, name := range []string{"a", "b", "c", "d"} {
		groups = append(groups, Group{Name: name, Action: func(c *Context) {
			c.Run("test", func(c *Context) {
				n := atomic.AddInt32(&running, 1)
				lock.Lock()
				if n > maxRunning {
					maxRunning = n
				}
				lock.Unlock()
				<-gate
				atomic.AddInt32(&running, -1)
			})
		}})
	}
	go func() {
		for range groups {
			gate <- struct{}{}
		}
	}()

	results := RunGroups(RunOptions{}, 2, groups)

	require.Len(t, results.Tests, 4)
	for i, name := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, name+"/test", results.Tests[i].TestID.String())
	}
	assert.LessOrEqual(t, maxRunning, int32(2))
}

func TestGroupLevelFailureIsRecordedAgainstGroup(t *testing.T) {
	results := RunGroups(RunOptions{}, 1, []Group{{Name: "broken", Action: func(c *Context) {
		c.Errorf("setup failed")
		c.FailNow()
	}}})

	require.Len(t, results.Failures, 1)
	assert.Equal(t, "broken", results.Failures[0].TestID.String())
}

func TestReformatErrorRemovesTestifyTrace(t *testing.T) {
	err := errors.New("\n\tError Trace:\tcontext.go:10\n\t            \tother.go:20\n\tError:      \tNot equal: \n\t            \texpected: 1\n\tMessages:   \twrong")
	assert.Equal(t, "Error:      \tNot equal:\nexpected: 1\nMessages:   \twrong", reformatError(err).Error())
}
