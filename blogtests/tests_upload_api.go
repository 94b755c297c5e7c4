package blogtests

import (
	"os"
	"regexp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/apiactions"
	"github.com/blogapp/blog-e2e-harness/servicedef"
)

var (
	imageURLPattern         = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|webp)$`)
	imageContentTypePattern = regexp.MustCompile(`image/(png|jpeg|jpg|gif|webp)`)
)

func DoUploadAPITests(t *T) {
	var authToken string
	t.BeforeAll(func(t *T) {
		authToken = loginAsAdmin(t)
	})

	t.Describe("POST /api/upload - Upload Image", func(t *T) {
		t.Run("should successfully upload an image", func(t *T) {
			a := t.APIActions()
			resp, err := a.PostMultipart("/api/upload", testImageParts(t, "test-image.png"), apiactions.WithBearer(authToken))
			require.NoError(t, err)

			a.VerifyStatusCode(t, resp, 200)
			a.VerifyResponseBodyFields(t, resp, "url")
			url := apiactions.RequireResponseJSON[servicedef.UploadResponse](t, resp).URL
			assert.Contains(t, url, "/uploads/")
			assert.Regexp(t, imageURLPattern, url)
		})

		t.Run("should fail to upload without authentication", func(t *T) {
			a := t.APIActions()
			resp, err := a.PostMultipart("/api/upload", testImageParts(t, "test-image.png"))
			require.NoError(t, err)
			a.VerifyStatusCode(t, resp, 401)
		})

		t.Run("should fail to upload without image file", func(t *T) {
			a := t.APIActions()
			resp, err := a.PostMultipart("/api/upload", nil, apiactions.WithBearer(authToken))
			require.NoError(t, err)
			a.VerifyStatusCode(t, resp, 400)
		})
	})

	t.Describe("GET /uploads/:filename - Access Uploaded File", func(t *T) {
		t.Run("should access uploaded file via URL", func(t *T) {
			a := t.APIActions()
			var imageURL string
			t.Step("upload an image", func() {
				resp, err := a.PostMultipart("/api/upload", testImageParts(t, "test-access.png"), apiactions.WithBearer(authToken))
				require.NoError(t, err)
				a.VerifyStatusCode(t, resp, 200)
				imageURL = apiactions.RequireResponseJSON[servicedef.UploadResponse](t, resp).URL
			})

			resp, err := a.Get(imageURL)
			require.NoError(t, err)
			a.VerifyStatusCode(t, resp, 200)
			assert.Regexp(t, imageContentTypePattern, resp.Header().Get("Content-Type"))
		})

		t.Run("should return 404 for non-existent file", func(t *T) {
			a := t.APIActions()
			resp, err := a.Get("/uploads/non-existent-file-12345.png")
			require.NoError(t, err)
			a.VerifyStatusCode(t, resp, 404)
		})
	})
}

// testImageParts returns the multipart body for uploading the test image, skipping the test if
// the data directory has none.
func testImageParts(t *T, fileName string) []apiactions.FilePart {
	path := t.TestData().ImagePath
	if path == "" {
		t.Skip("test image not found")
	}
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return []apiactions.FilePart{{FieldName: "image", FileName: fileName, MimeType: "image/png", Content: content}}
}
