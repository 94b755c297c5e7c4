package apiactions

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockT records failures instead of stopping, like a *testing.T whose FailNow does nothing.
type mockT struct {
	errors    []string
	failedNow bool
}

func (m *mockT) Errorf(format string, args ...interface{}) {
	m.errors = append(m.errors, fmt.Sprintf(format, args...))
}

func (m *mockT) FailNow() {
	m.failedNow = true
}

func (m *mockT) failed() bool {
	return len(m.errors) > 0
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

func makeResponse(status int, header http.Header, body string) *Response {
	if header == nil {
		header = make(http.Header)
	}
	return &Response{method: "GET", url: "http://api/test", status: status, header: header, body: []byte(body)}
}

func TestVerifyStatusCode(t *testing.T) {
	a := New("", nil, nil)

	m := &mockT{}
	a.VerifyStatusCode(m, makeResponse(201, nil, ""), 201)
	assert.False(t, m.failed())

	m = &mockT{}
	a.VerifyStatusCode(m, makeResponse(200, nil, ""), 201)
	assert.True(t, m.failed())
	assert.True(t, m.failedNow)
	assert.Contains(t, m.errors[0], "Expected status 201 but got 200 for GET http://api/test")

	m = &mockT{}
	a.VerifyStatusCode(m, makeResponse(204, nil, ""))
	assert.False(t, m.failed())

	m = &mockT{}
	a.VerifyStatusCode(m, makeResponse(302, nil, ""))
	assert.True(t, m.failed())
}

func TestVerifyResponseHeaders(t *testing.T) {
	a := New("", nil, nil)
	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	m := &mockT{}
	a.VerifyResponseHeaders(m, makeResponse(200, header, ""), HeaderNames{"content-type"})
	assert.False(t, m.failed())

	m = &mockT{}
	a.VerifyResponseHeaders(m, makeResponse(200, header, ""), HeaderNames{"content-type", "x-missing"})
	assert.True(t, m.failed())
	assert.Contains(t, m.errors[0], "Response is missing header: x-missing")

	m = &mockT{}
	a.VerifyResponseHeaderValues(m, makeResponse(200, header, ""), map[string]string{"CONTENT-TYPE": "application/json"})
	assert.False(t, m.failed())

	m = &mockT{}
	a.VerifyResponseHeaderValues(m, makeResponse(200, header, ""), map[string]string{"Content-Type": "text/html"})
	assert.True(t, m.failed())
}

func TestVerifyResponseBodyFields(t *testing.T) {
	a := New("", nil, nil)
	resp := makeResponse(200, nil, `{"user":{"id":1,"createdAt":null},"data":[{"title":"x"}],"a.b":{"c":true}}`)

	m := &mockT{}
	a.VerifyResponseBodyFields(m, resp, "user", "user.id", "user.createdAt", "data.0.title")
	assert.False(t, m.failed())

	m = &mockT{}
	a.VerifyResponseBodyFields(m, resp, "user.id", "user.name", "other")
	assert.Len(t, m.errors, 1, "stops at the first missing field")
	assert.Contains(t, m.errors[0], "Response body missing field: user.name")

	m = &mockT{}
	a.VerifyResponseBodyFields(m, resp, "user.id.value")
	assert.True(t, m.failed(), "cannot descend into a number")
}

func TestVerifyResponseBodyFieldsOnMalformedJSON(t *testing.T) {
	m := &mockT{}
	New("", nil, nil).VerifyResponseBodyFields(m, makeResponse(200, nil, "not json"), "user")
	assert.True(t, m.failed())
	assert.Contains(t, m.errors[0], "malformed JSON in response from GET http://api/test")
}
