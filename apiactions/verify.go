package apiactions

import (
	"fmt"
	"strings"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type tHelper interface {
	Helper()
}

// HeaderNames is a list of headers that must be present, regardless of their values.
type HeaderNames []string

// VerifyStatusCode asserts that the response has the expected status. With no expected status,
// any 2xx status passes. The test stops on failure.
func (a *APIActions) VerifyStatusCode(t require.TestingT, resp *Response, expected ...int) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if len(expected) == 0 {
		if !resp.OK() {
			require.Fail(t, fmt.Sprintf("Expected a successful status but got %d for %s %s", resp.status, resp.method, resp.url),
				"body: %s", truncate(resp.Text()))
		}
		return
	}
	if resp.status != expected[0] {
		require.Fail(t, fmt.Sprintf("Expected status %d but got %d for %s %s", expected[0], resp.status, resp.method, resp.url),
			"body: %s", truncate(resp.Text()))
	}
}

// VerifyResponseHeaders asserts that each named header is present. Header names are not case
// sensitive.
func (a *APIActions) VerifyResponseHeaders(t require.TestingT, resp *Response, names HeaderNames) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	for _, name := range names {
		if len(resp.header.Values(name)) == 0 {
			require.Fail(t, fmt.Sprintf("Response is missing header: %s", name))
			return
		}
	}
}

// VerifyResponseHeaderValues asserts that each named header has exactly the given value.
func (a *APIActions) VerifyResponseHeaderValues(t require.TestingT, resp *Response, expected map[string]string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	for name, value := range expected {
		if actual := resp.header.Get(name); actual != value {
			require.Fail(t, fmt.Sprintf("Expected header %s to be %q but got %q", name, value, actual))
			return
		}
	}
}

// VerifyResponseBodyFields asserts that each dotted path, such as "user.id", exists in the JSON
// body. Array elements can be addressed by index, as in "data.0.title". It stops at the first
// missing field.
func (a *APIActions) VerifyResponseBodyFields(t require.TestingT, resp *Response, paths ...string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if _, err := resp.JSON(); err != nil {
		require.NoError(t, err)
		return
	}
	root := gjson.ParseBytes(resp.body)
	for _, path := range paths {
		if !hasPath(root, path) {
			require.Fail(t, fmt.Sprintf("Response body missing field: %s", path))
			return
		}
	}
}

func hasPath(root gjson.Result, path string) bool {
	current := root
	for _, segment := range strings.Split(path, ".") {
		if !current.IsObject() && !current.IsArray() {
			return false
		}
		current = current.Get(gjson.Escape(segment))
		if !current.Exists() {
			return false
		}
	}
	return true
}

// RequireResponseJSON is like GetResponseJSON, but stops the test if the body can't be decoded.
func RequireResponseJSON[T any](t require.TestingT, resp *Response) T {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	ret, err := GetResponseJSON[T](resp)
	require.NoError(t, err)
	return ret
}

func truncate(s string) string {
	const max = 500
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
