package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexFilters(t *testing.T) {
	id := TestID{Path: []string{"Blog API", "GET /api/blogs/public", "should get all published blogs"}}

	var none RegexFilters
	assert.True(t, none.AsFilter(id))

	var run RegexFilters
	require.NoError(t, run.MustMatch.Set("published blogs$"))
	assert.True(t, run.AsFilter(id))
	assert.False(t, run.AsFilter(TestID{Path: []string{"Blog API", "other"}}))

	var skip RegexFilters
	require.NoError(t, skip.MustNotMatch.Set("^Blog API"))
	assert.False(t, skip.AsFilter(id))
	assert.False(t, skip.AsGroupFilter(TestID{Path: []string{"Blog API"}}))
	assert.True(t, run.AsGroupFilter(TestID{Path: []string{"Blog API"}}))
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var r RegexList
	assert.Error(t, r.Set("("))
	assert.False(t, r.IsDefined())
}

func TestPrintFilterDescription(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("a"))
	require.NoError(t, filters.MustMatch.Set("b"))

	var buf bytes.Buffer
	PrintFilterDescription(&buf, filters, []string{"UI suites need a browser"})
	assert.Contains(t, buf.String(), `skip any not matching "a" or "b"`)
	assert.Contains(t, buf.String(), "UI suites need a browser")
}
