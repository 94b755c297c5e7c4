package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/config"
	"github.com/blogapp/blog-e2e-harness/framework"
)

func readParams(t *testing.T, args ...string) commandParams {
	var p commandParams
	require.True(t, p.Read(append([]string{"blog-e2e"}, args...)))
	return p
}

func TestFlagsOverrideOnlyWhenGiven(t *testing.T) {
	p := readParams(t, "-api-url", "http://api", "-workers", "3", "-headless=false")

	cfg, err := p.Apply(config.Default())
	require.NoError(t, err)

	assert.Equal(t, "http://api", cfg.APIBaseURL)
	assert.Equal(t, 3, cfg.Workers)
	assert.False(t, cfg.Headless)
	assert.Equal(t, config.Default().UIBaseURL, cfg.UIBaseURL)
	assert.Equal(t, config.Default().Retries, cfg.Retries)
}

func TestInvalidFlagValueFailsValidation(t *testing.T) {
	p := readParams(t, "-env", "qa")
	_, err := p.Apply(config.Default())
	assert.Error(t, err)
}

func TestRerunCommandReplacesRunFilter(t *testing.T) {
	args := []string{"blog-e2e", "-run", "old", "-suites", "api", "-run=older"}
	p := readParams(t, args[1:]...)
	results := framework.Results{
		Failures: []framework.TestResult{
			{TestID: framework.TestID{Path: []string{"Blog API Tests", "GET /api/blogs"}}},
			{TestID: framework.TestID{Path: []string{"Health Check API Tests", "x (y)"}}},
		},
	}

	cmd := p.rerunCommand(args, results)

	assert.Equal(t,
		`blog-e2e -suites api -run '^(Blog API Tests/GET /api/blogs|Health Check API Tests/x \(y\))$'`,
		cmd)
}

func TestConsoleTestLoggerDebugOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := newConsoleTestLogger(&buf, true, false)
	id := framework.TestID{Path: []string{"suite", "test"}}
	debug := framework.CapturedOutput{{Message: "request sent"}}

	logger.TestStarted(id)
	logger.TestFinished(id, false, debug)
	assert.NotContains(t, buf.String(), "request sent")

	logger.TestError(id, errors.New("first line\nsecond line"))
	logger.TestFinished(id, true, debug)
	assert.Contains(t, buf.String(), "[suite/test]")
	assert.Contains(t, buf.String(), "    second line")
	assert.Contains(t, buf.String(), "FAILED: suite/test")
	assert.Contains(t, buf.String(), "request sent")

	logger.TestSkipped(id, "no browser")
	assert.Contains(t, buf.String(), "SKIPPED: suite/test (no browser)")
}
