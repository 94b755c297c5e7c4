package framework

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
)

func TestWaitForTargetSucceedsOn200(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(200), func(server *httptest.Server) {
		assert.NoError(t, WaitForTarget("blog API", server.URL, time.Second, io.Discard))
	})
}

func TestWaitForTargetFailsOnOtherStatus(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(503), func(server *httptest.Server) {
		err := WaitForTarget("blog API", server.URL, time.Second, io.Discard)
		assert.EqualError(t, err, "blog API returned status code 503")
	})
}

func TestWaitForTargetTimesOut(t *testing.T) {
	err := WaitForTarget("blog UI", "http://127.0.0.1:1", time.Millisecond*200, io.Discard)
	assert.ErrorContains(t, err, "timed out waiting for blog UI")
}
