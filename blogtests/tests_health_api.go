package blogtests

import (
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/apiactions"
	"github.com/blogapp/blog-e2e-harness/servicedef"
)

const maxHealthResponseTime = time.Second

func DoHealthAPITests(t *T) {
	t.Describe("GET /api/health - Health Check", func(t *T) {
		t.Run("should return healthy status", func(t *T) {
			a := t.APIActions()
			resp, err := a.Get("/api/health")
			require.NoError(t, err)

			a.VerifyStatusCode(t, resp, 200)
			a.VerifyResponseBodyFields(t, resp, "status", "timestamp")

			body := apiactions.RequireResponseJSON[servicedef.HealthResponse](t, resp)
			assert.Equal(t, "ok", body.Status)
			require.NotEmpty(t, body.Timestamp)
			_, err = time.Parse(time.RFC3339, body.Timestamp)
			assert.NoError(t, err, "timestamp is not a valid ISO 8601 time")
		})

		t.Run("should have correct response time", func(t *T) {
			a := t.APIActions()
			resp, err := a.Get("/api/health")
			require.NoError(t, err)

			a.VerifyStatusCode(t, resp, 200)
			t.Attach("Response Time", resp.Elapsed().String())
			assert.Less(t, resp.Elapsed(), maxHealthResponseTime)
		})

		t.Run("should return correct content-type header", func(t *T) {
			a := t.APIActions()
			resp, err := a.Get("/api/health")
			require.NoError(t, err)

			a.VerifyStatusCode(t, resp, 200)
			a.VerifyResponseHeaders(t, resp, apiactions.HeaderNames{"content-type"})
			assert.Contains(t, resp.Header().Get("Content-Type"), "application/json")
		})
	})
}
