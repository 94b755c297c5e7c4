package blogtests

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/blogapp/blog-e2e-harness/apiactions"
	"github.com/blogapp/blog-e2e-harness/servicedef"
)

const nonexistentID = 999999

// loginAsAdmin logs in with the valid credentials from the test data and returns the token.
func loginAsAdmin(t *T) string {
	a := t.APIActions()
	resp, err := a.Post("/api/auth/login", t.TestData().Login.LoginValid)
	require.NoError(t, err)
	a.VerifyStatusCode(t, resp, 200)
	token := apiactions.RequireResponseJSON[servicedef.AuthResponse](t, resp).Token
	require.NotEmpty(t, token, "login did not return a token")
	return token
}

// firstPublishedBlogID returns the ID of the first blog in the public list, or false if there
// are no published blogs.
func firstPublishedBlogID(t *T) (int, bool) {
	a := t.APIActions()
	resp, err := a.Get("/api/blogs/public?limit=1")
	require.NoError(t, err)
	a.VerifyStatusCode(t, resp, 200)
	list := apiactions.RequireResponseJSON[servicedef.BlogList](t, resp)
	if len(list.Data) == 0 {
		return 0, false
	}
	return list.Data[0].ID, true
}

// requireJSON returns the parsed response body, stopping the test if it is not valid JSON.
func requireJSON(t *T, resp *apiactions.Response) ldvalue.Value {
	value, err := resp.JSON()
	require.NoError(t, err)
	return value
}

func requireArray(t *T, value ldvalue.Value, what string) {
	require.Equal(t, ldvalue.ArrayType, value.Type(), "%s should be an array, was: %s", what, value.JSONString())
}

func requireErrorMessage(t *T, resp *apiactions.Response, expected string) {
	require.Equal(t, expected, requireJSON(t, resp).GetByKey("error").StringValue())
}

// uniqueSuffix is short enough for usernames and titles, and different on every call.
func uniqueSuffix() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
