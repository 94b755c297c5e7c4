package blogtests

import (
	"net/http/httptest"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/blogstub"
	"github.com/blogapp/blog-e2e-harness/config"
	"github.com/blogapp/blog-e2e-harness/framework"
)

const testDataDir = "../testdata"

func testConfig(apiURL string) config.Config {
	cfg := config.Default()
	cfg.APIBaseURL = apiURL
	cfg.DataDir = testDataDir
	return cfg
}

func testEnvironment(t *testing.T, server *httptest.Server) *Environment {
	cfg := testConfig(server.URL)
	data, err := LoadTestData(cfg)
	require.NoError(t, err)
	return &Environment{Config: cfg, Data: data, HTTPClient: server.Client()}
}

func suitesOfKind(t *testing.T, kind SuiteKind) []Suite {
	suites, err := SelectSuites(string(kind))
	require.NoError(t, err)
	return suites
}

func TestAPISuitesPassAgainstStub(t *testing.T) {
	httphelpers.WithServer(blogstub.New("admin", "admin123"), func(server *httptest.Server) {
		env := testEnvironment(t, server)

		results := RunTestSuite(env, suitesOfKind(t, APISuite), framework.RunOptions{}, 1)

		for _, f := range results.Failures {
			t.Errorf("%s: %v", f.TestID, f.Errors)
		}
		passed, failed, skipped := results.Counts()
		assert.Zero(t, failed)
		assert.Zero(t, skipped)
		assert.Greater(t, passed, 50)
	})
}

func TestAPISuitesReportFailuresFromBrokenServer(t *testing.T) {
	handler := httphelpers.HandlerWithStatus(500)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		env := testEnvironment(t, server)
		suites := []Suite{{Name: "Health Check API Tests", Kind: APISuite, Run: DoHealthAPITests}}

		results := RunTestSuite(env, suites, framework.RunOptions{}, 1)

		_, failed, _ := results.Counts()
		assert.Equal(t, 3, failed)
		assert.Contains(t, results.Failures[0].Errors[0].Error(), "500")
	})
}

func TestSerialSuiteSkipsRestAfterFailure(t *testing.T) {
	// Logging in fails, so the shared beforeAll fails the first test and the rest are skipped.
	httphelpers.WithServer(blogstub.New("someone-else", "password"), func(server *httptest.Server) {
		env := testEnvironment(t, server)
		suites := []Suite{{Name: "Comment API Tests", Kind: APISuite, Serial: true, Run: DoCommentAPITests}}

		results := RunTestSuite(env, suites, framework.RunOptions{}, 1)

		_, failed, skipped := results.Counts()
		assert.Equal(t, 1, failed)
		assert.Greater(t, skipped, 0)
	})
}

func TestUISuitesSkipWithoutBrowser(t *testing.T) {
	env := &Environment{Config: testConfig("http://localhost")}

	results := RunTestSuite(env, suitesOfKind(t, UISuite), framework.RunOptions{}, 2)

	assert.True(t, results.OK())
	passed, failed, skipped := results.Counts()
	assert.Zero(t, passed)
	assert.Zero(t, failed)
	assert.Greater(t, skipped, 0)
	for _, r := range results.Tests {
		assert.Equal(t, errNoBrowser.Error(), r.SkipReason, r.TestID.String())
	}
}

func TestResultsAreInSuiteOrder(t *testing.T) {
	env := &Environment{Config: testConfig("http://localhost")}
	suites := suitesOfKind(t, UISuite)

	results := RunTestSuite(env, suites, framework.RunOptions{}, 4)

	var roots []string
	for _, r := range results.Tests {
		if len(roots) == 0 || roots[len(roots)-1] != r.TestID.Root() {
			roots = append(roots, r.TestID.Root())
		}
	}
	var expected []string
	for _, s := range suites {
		expected = append(expected, s.Name)
	}
	assert.Equal(t, expected, roots)
}

func TestSelectSuites(t *testing.T) {
	all, err := SelectSuites("")
	require.NoError(t, err)
	assert.Equal(t, AllSuites, all)

	all, err = SelectSuites("ALL")
	require.NoError(t, err)
	assert.Len(t, all, len(AllSuites))

	api := suitesOfKind(t, APISuite)
	ui := suitesOfKind(t, UISuite)
	assert.Len(t, api, 5)
	assert.Len(t, ui, 5)
	assert.False(t, NeedsBrowser(api))
	assert.True(t, NeedsBrowser(ui))
	assert.True(t, NeedsBrowser(all))

	_, err = SelectSuites("mobile")
	assert.Error(t, err)
}

func TestLoadTestData(t *testing.T) {
	data, err := LoadTestData(testConfig(""))
	require.NoError(t, err)

	assert.Equal(t, "admin", data.Login.LoginValid.Username)
	assert.Equal(t, "wrongpassword", data.Login.LoginInvalid.Password)
	assert.Equal(t, "123", data.Login.RegisterInvalid.Password)
	require.NotEmpty(t, data.BlogPosts)
	assert.NotEmpty(t, data.BlogPosts[0].Title)
	assert.NotEmpty(t, data.ImagePath)
}

func TestLoadTestDataFailsForMissingDirectory(t *testing.T) {
	cfg := testConfig("")
	cfg.DataDir = t.TempDir()
	_, err := LoadTestData(cfg)
	assert.Error(t, err)
}
