package apiactions

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type user struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

func TestGetResolvesPathsAgainstBaseURL(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(204))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		a := New(server.URL+"/", nil, nil)
		resp, err := a.Get("/api/health")
		require.NoError(t, err)
		assert.Equal(t, 204, resp.Status())

		r := <-requestsCh
		assert.Equal(t, "GET", r.Request.Method)
		assert.Equal(t, "/api/health", r.Request.URL.Path)
	})
}

func TestPostSendsJSONAndHeaders(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(
		httphelpers.HandlerWithJSONResponse(map[string]interface{}{"token": "abc"}, nil))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		a := New(server.URL, nil, nil)
		resp, err := a.Post(server.URL+"/api/auth/login", map[string]string{"username": "admin"},
			WithBearer("t0k3n"), RequestOptions{Headers: map[string]string{"X-Trace": "1"}})
		require.NoError(t, err)

		r := <-requestsCh
		assert.Equal(t, "POST", r.Request.Method)
		assert.Equal(t, "application/json", r.Request.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer t0k3n", r.Request.Header.Get("Authorization"))
		assert.Equal(t, "1", r.Request.Header.Get("X-Trace"))
		assert.JSONEq(t, `{"username":"admin"}`, string(r.Body))

		body, err := resp.JSON()
		require.NoError(t, err)
		assert.Equal(t, "abc", body.GetByKey("token").StringValue())
	})
}

func TestPutPatchDeleteUseTheirMethods(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		a := New(server.URL, nil, nil)
		_, err := a.Put("/x", map[string]int{"a": 1})
		require.NoError(t, err)
		_, err = a.Patch("/x", `{"b":2}`)
		require.NoError(t, err)
		_, err = a.Delete("/x")
		require.NoError(t, err)

		assert.Equal(t, "PUT", (<-requestsCh).Request.Method)
		patch := <-requestsCh
		assert.Equal(t, "PATCH", patch.Request.Method)
		assert.Equal(t, `{"b":2}`, string(patch.Body))
		del := <-requestsCh
		assert.Equal(t, "DELETE", del.Request.Method)
		assert.Empty(t, del.Body)
	})
}

func TestPostMultipart(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		a := New(server.URL, nil, nil)
		_, err := a.PostMultipart("/api/upload", []FilePart{
			{FieldName: "image", FileName: "test-image.png", MimeType: "image/png", Content: []byte("png-bytes")},
		})
		require.NoError(t, err)

		r := <-requestsCh
		mediaType, params, err := mime.ParseMediaType(r.Request.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/form-data", mediaType)

		reader := multipart.NewReader(bytesReader(r.Body), params["boundary"])
		part, err := reader.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "image", part.FormName())
		assert.Equal(t, "test-image.png", part.FileName())
		assert.Equal(t, "image/png", part.Header.Get("Content-Type"))
		content, err := io.ReadAll(part)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(content))
	})
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
		w.WriteHeader(200)
	})
	httphelpers.WithServer(slow, func(server *httptest.Server) {
		a := New(server.URL, nil, nil)
		_, err := a.Get("/slow", RequestOptions{Timeout: 50 * time.Millisecond})
		require.Error(t, err)
		assert.True(t, IsTimeout(err))
		assert.Contains(t, err.Error(), "timed out after 50ms")
	})
}

func TestClientTimeoutIsTheDefaultAndCanBeExtended(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(150 * time.Millisecond):
		case <-r.Context().Done():
		}
		w.WriteHeader(200)
	})
	httphelpers.WithServer(slow, func(server *httptest.Server) {
		client := &http.Client{Timeout: 50 * time.Millisecond}
		a := New(server.URL, client, nil)

		_, err := a.Get("/slow")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out after 50ms")

		resp, err := a.Get("/slow", RequestOptions{Timeout: time.Second})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Status())
		assert.Equal(t, 50*time.Millisecond, client.Timeout)
	})
}

func TestRetriesOnlyTransportErrors(t *testing.T) {
	var calls int32
	flaky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			time.Sleep(200 * time.Millisecond)
		}
		w.WriteHeader(500)
	})
	httphelpers.WithServer(flaky, func(server *httptest.Server) {
		a := New(server.URL, nil, nil)
		resp, err := a.Get("/", RequestOptions{Timeout: 100 * time.Millisecond, Retries: ldvalue.NewOptionalInt(2)})
		require.NoError(t, err)
		assert.Equal(t, 500, resp.Status())
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "a 500 status must not be retried")
	})
}

func TestNoRetriesByDefault(t *testing.T) {
	a := New("http://127.0.0.1:1", nil, nil)
	_, err := a.Get("/")
	require.Error(t, err)
	assert.False(t, IsTimeout(err))
	assert.Contains(t, err.Error(), "GET http://127.0.0.1:1/ failed")
}

func TestNegativeRetriesStillSendsOneRequest(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		resp, err := New(server.URL, nil, nil).Get("/", RequestOptions{Retries: ldvalue.NewOptionalInt(-1)})
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, 200, resp.Status())
		assert.Len(t, requestsCh, 1)
	})
}

func TestGetResponseJSON(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithJSONResponse(user{ID: 1, Username: "admin"}, nil), func(server *httptest.Server) {
		resp, err := New(server.URL, nil, nil).Get("/")
		require.NoError(t, err)

		u, err := GetResponseJSON[user](resp)
		require.NoError(t, err)
		assert.Equal(t, user{ID: 1, Username: "admin"}, u)
		assert.Equal(t, u, RequireResponseJSON[user](t, resp))
	})
}

func TestMalformedJSONNamesTheResponse(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, nil, []byte("<html>"))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		resp, err := New(server.URL, nil, nil).Get("/page")
		require.NoError(t, err)

		_, err = resp.JSON()
		assert.ErrorContains(t, err, "malformed JSON in response from GET "+server.URL+"/page")
		_, err = GetResponseJSON[user](resp)
		assert.ErrorContains(t, err, "malformed JSON")
	})
}

func TestDecodeErrorIsNotReportedAsMalformedJSON(t *testing.T) {
	type stamped struct {
		CreatedAt time.Time `json:"createdAt"`
	}
	handler := httphelpers.HandlerWithResponse(200, nil, []byte(`{"createdAt":"2025-11-24 10:00:00"}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		resp, err := New(server.URL, nil, nil).Get("/blog")
		require.NoError(t, err)

		_, err = GetResponseJSON[stamped](resp)
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "malformed JSON")
		assert.Contains(t, err.Error(), "could not decode response from GET "+server.URL+"/blog as apiactions.stamped")

		_, err = resp.JSON()
		assert.NoError(t, err)
	})
}
