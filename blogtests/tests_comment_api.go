package blogtests

import (
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/apiactions"
	"github.com/blogapp/blog-e2e-harness/servicedef"
)

type commentAPIState struct {
	authToken        string
	testBlogID       int
	createdCommentID int
}

func (s *commentAPIState) auth() apiactions.RequestOptions {
	return apiactions.WithBearer(s.authToken)
}

// requireBlog skips the test if the setup found no published blog to comment on.
func (s *commentAPIState) requireBlog(t *T) int {
	if s.testBlogID == 0 {
		t.Skip("there are no published blogs to comment on")
	}
	return s.testBlogID
}

// commentBody builds a request body. Empty strings are sent as-is; use nil to leave a field out.
func commentBody(blogID int, content, authorName *string) servicedef.CommentInput {
	return servicedef.CommentInput{BlogID: &blogID, Content: content, AuthorName: authorName}
}

func strPtr(s string) *string { return &s }

func DoCommentAPITests(t *T) {
	state := &commentAPIState{}
	t.BeforeAll(func(t *T) {
		state.authToken = loginAsAdmin(t)
		if id, ok := firstPublishedBlogID(t); ok {
			state.testBlogID = id
		}
	})

	t.Describe("GET /api/comments/blog/:blogId - Get Comments", func(t *T) { doGetCommentsTests(t, state) })
	t.Describe("POST /api/comments - Create Comment", func(t *T) { doCreateCommentTests(t, state) })
	t.Describe("POST /api/comments/author - Create Comment as Author", func(t *T) { doAuthorCommentTests(t, state) })
	t.Describe("DELETE /api/comments/:id - Delete Comment", func(t *T) { doDeleteCommentTests(t, state) })
}

func doGetCommentsTests(t *T, state *commentAPIState) {
	t.Run("should get all comments for a blog", func(t *T) {
		blogID := state.requireBlog(t)
		a := t.APIActions()
		resp, err := a.Get("/api/comments/blog/" + itoa(blogID))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		body := requireJSON(t, resp)
		requireArray(t, body, "comments")
		for i := 0; i < body.Count(); i++ {
			for _, field := range []string{"id", "blogId", "content", "authorName", "isAuthor", "createdAt"} {
				_, ok := body.GetByIndex(i).TryGetByKey(field)
				assert.True(t, ok, "comment %d has no %q field", i, field)
			}
		}
		for _, c := range apiactions.RequireResponseJSON[[]servicedef.Comment](t, resp) {
			assert.Equal(t, blogID, c.BlogID)
		}
	})

	t.Run("should return 404 for comments on non-existent blog", func(t *T) {
		a := t.APIActions()
		resp, err := a.Get("/api/comments/blog/" + itoa(nonexistentID))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 404)
		requireErrorMessage(t, resp, "Blog not found")
	})

	t.Run("should return empty array for blog with no comments", func(t *T) {
		blogID := state.requireBlog(t)
		a := t.APIActions()
		resp, err := a.Get("/api/comments/blog/" + itoa(blogID))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		requireArray(t, requireJSON(t, resp), "comments")
	})
}

func doCreateCommentTests(t *T, state *commentAPIState) {
	t.Run("should create a new comment as public user", func(t *T) {
		blogID := state.requireBlog(t)
		suffix := uniqueSuffix()
		content := "This is a test comment created at " + suffix
		author := "Test User " + suffix

		a := t.APIActions()
		resp, err := a.Post("/api/comments", commentBody(blogID, &content, &author))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 201)
		a.VerifyResponseBodyFields(t, resp, "id", "createdAt")
		c := apiactions.RequireResponseJSON[servicedef.Comment](t, resp)
		assert.Equal(t, blogID, c.BlogID)
		assert.Equal(t, content, c.Content)
		assert.Equal(t, author, c.AuthorName)
		assert.False(t, c.IsAuthor)

		state.createdCommentID = c.ID
	})

	// The validation cases do not need an existing blog, since validation comes first.
	t.Run("should fail to create comment with missing required fields", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/comments", commentBody(state.testBlogID, nil, nil))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 400)
		requireErrorMessage(t, resp, "Missing required fields")
	})

	t.Run("should fail to create comment with empty content", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/comments", commentBody(state.testBlogID, strPtr("   "), strPtr("Test User")))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 400)
		requireErrorMessage(t, resp, "Comment cannot be empty")
	})

	t.Run("should fail to create comment with content exceeding max length", func(t *T) {
		a := t.APIActions()
		longContent := strings.Repeat("a", 2001)
		resp, err := a.Post("/api/comments", commentBody(state.testBlogID, &longContent, strPtr("Test User")))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 400)
		assert.Contains(t, requireJSON(t, resp).GetByKey("error").StringValue(), "cannot exceed")
	})

	t.Run("should fail to create comment with empty author name", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/comments", commentBody(state.testBlogID, strPtr("Valid content"), strPtr("   ")))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 400)
		assert.Contains(t, requireJSON(t, resp).GetByKey("error").StringValue(), "Author name")
	})

	t.Run("should fail to create comment with author name exceeding max length", func(t *T) {
		a := t.APIActions()
		longName := strings.Repeat("a", 101)
		resp, err := a.Post("/api/comments", commentBody(state.testBlogID, strPtr("Valid content"), &longName))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 400)
		assert.Contains(t, requireJSON(t, resp).GetByKey("error").StringValue(), "Author name")
	})

	t.Run("should sanitize HTML in comment content", func(t *T) {
		blogID := state.requireBlog(t)
		a := t.APIActions()
		content := `<script>alert("XSS")</script>This is a test comment with HTML tags <b>bold</b>`
		resp, err := a.Post("/api/comments", commentBody(blogID, &content, strPtr("Security Tester")))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 201)
		c := apiactions.RequireResponseJSON[servicedef.Comment](t, resp)
		assert.NotContains(t, c.Content, "<script>")
		assert.NotContains(t, c.Content, "<b>")
	})

	t.Run("should fail to create comment on non-existent blog", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/comments",
			commentBody(nonexistentID, strPtr("Comment on non-existent blog"), strPtr("Test User")))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 404)
		requireErrorMessage(t, resp, "Blog not found")
	})
}

func doAuthorCommentTests(t *T, state *commentAPIState) {
	t.Run("should create a comment as blog author", func(t *T) {
		blogID := state.requireBlog(t)
		a := t.APIActions()
		content := "This is an author comment"
		resp, err := a.Post("/api/comments/author", commentBody(blogID, &content, strPtr("Blog Author")), state.auth())
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 201)
		a.VerifyResponseBodyFields(t, resp, "id")
		c := apiactions.RequireResponseJSON[servicedef.Comment](t, resp)
		assert.True(t, c.IsAuthor)
		assert.Equal(t, content, c.Content)
	})

	t.Run("should fail to create author comment without authentication", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/comments/author",
			commentBody(state.testBlogID, strPtr("Unauthorized author comment"), strPtr("Fake Author")))
		require.NoError(t, err)
		a.VerifyStatusCode(t, resp, 401)
	})

	t.Run("should fail to create author comment with missing content", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/comments/author", commentBody(state.testBlogID, nil, strPtr("Author")), state.auth())
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 400)
		requireErrorMessage(t, resp, "Missing required fields")
	})
}

func doDeleteCommentTests(t *T, state *commentAPIState) {
	t.Run("should delete a comment as blog author", func(t *T) {
		if state.createdCommentID == 0 {
			t.Skip("no comment was created by an earlier test")
		}
		a := t.APIActions()
		resp, err := a.Delete("/api/comments/"+itoa(state.createdCommentID), state.auth())
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		assert.Equal(t, "Comment deleted successfully",
			apiactions.RequireResponseJSON[servicedef.MessageResponse](t, resp).Message)
	})

	t.Run("should fail to delete comment without authentication", func(t *T) {
		a := t.APIActions()
		resp, err := a.Delete("/api/comments/1")
		require.NoError(t, err)
		a.VerifyStatusCode(t, resp, 401)
	})

	t.Run("should return 404 when deleting non-existent comment", func(t *T) {
		a := t.APIActions()
		resp, err := a.Delete("/api/comments/"+itoa(nonexistentID), state.auth())
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 404)
		requireErrorMessage(t, resp, "Comment not found")
	})
}
