package framework

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteReport(t *testing.T) {
	results := Results{
		Tests: []TestResult{
			{TestID: TestID{Path: []string{"Health", "ok"}}, Attempts: 1, Duration: time.Millisecond * 5,
				Attachments: []Attachment{{Name: "Response Time", Value: "5ms"}}},
			{TestID: TestID{Path: []string{"Health", "bad"}}, Attempts: 3, Errors: []error{errors.New("boom")}},
			{TestID: TestID{Path: []string{"Health", "later"}}, Skipped: true, SkipReason: "not now"},
		},
	}
	results.Failures = results.Tests[1:2]

	path := filepath.Join(t.TempDir(), "staging", "results.yaml")
	require.NoError(t, WriteReport(path, ReportInfo{Title: "run", Environment: "staging", StartedAt: time.Now()}, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var r report
	require.NoError(t, yaml.Unmarshal(data, &r))

	assert.Equal(t, "staging", r.Environment)
	assert.Equal(t, 1, r.Passed)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 1, r.Skipped)
	require.Len(t, r.Tests, 3)
	assert.Equal(t, "passed", r.Tests[0].Status)
	assert.Equal(t, "5ms", r.Tests[0].Attachments["Response Time"])
	assert.Equal(t, "failed", r.Tests[1].Status)
	assert.Equal(t, []string{"boom"}, r.Tests[1].Errors)
	assert.Equal(t, "skipped", r.Tests[2].Status)
	assert.Equal(t, "not now", r.Tests[2].SkipReason)
}
