package blogtests

import (
	"net/url"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/apiactions"
	"github.com/blogapp/blog-e2e-harness/servicedef"
)

// blogAPIState is shared by the tests of the serial blog suite, in declaration order.
type blogAPIState struct {
	authToken     string
	createdBlogID int
}

func (s *blogAPIState) auth() apiactions.RequestOptions {
	return apiactions.WithBearer(s.authToken)
}

func DoBlogAPITests(t *T) {
	state := &blogAPIState{}
	t.BeforeAll(func(t *T) {
		state.authToken = loginAsAdmin(t)
	})

	t.Describe("GET /api/blogs/public - Get All Published Blogs", doPublicBlogListTests)
	t.Describe("GET /api/blogs/public/:id - Get Blog by ID", doPublicBlogByIDTests)
	t.Describe("GET /api/blogs/search - Search Blogs", doBlogSearchTests)
	t.Describe("GET /api/blogs/categories - Get Categories", func(t *T) {
		t.Run("should return list of categories", func(t *T) {
			a := t.APIActions()
			resp, err := a.Get("/api/blogs/categories")
			require.NoError(t, err)
			a.VerifyStatusCode(t, resp, 200)
			requireArray(t, requireJSON(t, resp), "categories")
		})
	})
	t.Describe("POST /api/blogs/:id/like - Like a Blog", doBlogLikeTests)
	t.Describe("GET /api/blogs/admin - Admin Get All Blogs", func(t *T) { doAdminBlogListTests(t, state) })
	t.Describe("POST /api/blogs - Create Blog", func(t *T) { doCreateBlogAPITests(t, state) })
	t.Describe("PUT /api/blogs/:id - Update Blog", func(t *T) { doUpdateBlogAPITests(t, state) })
	t.Describe("DELETE /api/blogs/:id - Delete Blog", func(t *T) { doDeleteBlogAPITests(t, state) })
}

func doPublicBlogListTests(t *T) {
	t.Run("should return all published blogs", func(t *T) {
		a := t.APIActions()
		resp, err := a.Get("/api/blogs/public")
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		a.VerifyResponseHeaders(t, resp, apiactions.HeaderNames{"content-type"})
		a.VerifyResponseBodyFields(t, resp, "data", "pagination",
			"pagination.page", "pagination.limit", "pagination.total", "pagination.totalPages")

		body := requireJSON(t, resp)
		requireArray(t, body.GetByKey("data"), "data")
		list := apiactions.RequireResponseJSON[servicedef.BlogList](t, resp)
		for _, blog := range list.Data {
			assert.NotZero(t, blog.ID)
			assert.NotEmpty(t, blog.Title)
			assert.Equal(t, servicedef.StatusPublished, blog.Status, "blog %d", blog.ID)
		}
		for i := 0; i < body.GetByKey("data").Count(); i++ {
			for _, field := range []string{"id", "title", "excerpt", "category", "tags", "status"} {
				_, ok := body.GetByKey("data").GetByIndex(i).TryGetByKey(field)
				assert.True(t, ok, "blog %d has no %q field", i, field)
			}
		}
	})

	t.Run("should support pagination", func(t *T) {
		a := t.APIActions()
		resp, err := a.Get("/api/blogs/public?page=1&limit=5")
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		list := apiactions.RequireResponseJSON[servicedef.BlogList](t, resp)
		assert.Equal(t, 1, list.Pagination.Page)
		assert.Equal(t, 5, list.Pagination.Limit)
		assert.LessOrEqual(t, len(list.Data), 5)
	})
}

func doPublicBlogByIDTests(t *T) {
	t.Run("should return a published blog by ID", func(t *T) {
		blogID, ok := firstPublishedBlogID(t)
		if !ok {
			t.Skip("there are no published blogs")
		}

		a := t.APIActions()
		resp, err := a.Get("/api/blogs/public/" + itoa(blogID))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		a.VerifyResponseBodyFields(t, resp, "id", "title", "content", "excerpt", "category", "tags",
			"status", "views", "likes")
		blog := apiactions.RequireResponseJSON[servicedef.Blog](t, resp)
		assert.Equal(t, blogID, blog.ID)
		assert.Equal(t, servicedef.StatusPublished, blog.Status)
	})

	t.Run("should return 404 for non-existent blog", func(t *T) {
		a := t.APIActions()
		resp, err := a.Get("/api/blogs/public/" + itoa(nonexistentID))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 404)
		requireErrorMessage(t, resp, "Blog not found")
	})

	t.Run("should increment view count when blog is viewed", func(t *T) {
		blogID, ok := firstPublishedBlogID(t)
		if !ok {
			t.Skip("there are no published blogs")
		}

		a := t.APIActions()
		var views [2]int
		for i := range views {
			resp, err := a.Get("/api/blogs/public/" + itoa(blogID))
			require.NoError(t, err)
			a.VerifyStatusCode(t, resp, 200)
			views[i] = apiactions.RequireResponseJSON[servicedef.Blog](t, resp).Views
		}
		assert.Equal(t, views[0]+1, views[1])
	})
}

func doBlogSearchTests(t *T) {
	t.Run("should search blogs by query", func(t *T) {
		a := t.APIActions()
		resp, err := a.Get("/api/blogs/search?query=test")
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		a.VerifyResponseBodyFields(t, resp, "data", "pagination")
		requireArray(t, requireJSON(t, resp).GetByKey("data"), "data")
	})

	t.Run("should filter blogs by category", func(t *T) {
		a := t.APIActions()
		catResp, err := a.Get("/api/blogs/categories")
		require.NoError(t, err)
		categories := apiactions.RequireResponseJSON[[]string](t, catResp)
		if len(categories) == 0 {
			t.Skip("there are no categories")
		}
		category := categories[0]

		resp, err := a.Get("/api/blogs/search?category=" + url.QueryEscape(category))
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		for _, blog := range apiactions.RequireResponseJSON[servicedef.BlogList](t, resp).Data {
			assert.Equal(t, category, blog.Category, "blog %d", blog.ID)
		}
	})

	t.Run("should filter blogs by tags", func(t *T) {
		a := t.APIActions()
		resp, err := a.Get("/api/blogs/search?tags=React,JavaScript")
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		a.VerifyResponseBodyFields(t, resp, "data")
		requireArray(t, requireJSON(t, resp).GetByKey("data"), "data")
	})
}

func doBlogLikeTests(t *T) {
	t.Run("should successfully like a blog", func(t *T) {
		blogID, ok := firstPublishedBlogID(t)
		if !ok {
			t.Skip("there are no published blogs")
		}

		a := t.APIActions()
		resp, err := a.Post("/api/blogs/"+itoa(blogID)+"/like", map[string]interface{}{})
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		likes := requireJSON(t, resp).GetByKey("likes")
		require.True(t, likes.IsNumber(), "likes should be a number, was: %s", likes.JSONString())
		assert.Greater(t, likes.IntValue(), 0)
	})

	t.Run("should return 404 when liking non-existent blog", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/blogs/"+itoa(nonexistentID)+"/like", map[string]interface{}{})
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 404)
		requireErrorMessage(t, resp, "Blog not found")
	})
}

func doAdminBlogListTests(t *T, state *blogAPIState) {
	t.Run("should return all blogs including drafts for authenticated admin", func(t *T) {
		a := t.APIActions()
		resp, err := a.Get("/api/blogs/admin", state.auth())
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		a.VerifyResponseBodyFields(t, resp, "data", "pagination")
		requireArray(t, requireJSON(t, resp).GetByKey("data"), "data")
	})

	t.Run("should return 401 without authentication token", func(t *T) {
		a := t.APIActions()
		resp, err := a.Get("/api/blogs/admin")
		require.NoError(t, err)
		a.VerifyStatusCode(t, resp, 401)
	})
}

func doCreateBlogAPITests(t *T, state *blogAPIState) {
	t.Run("should create a new blog post as draft", func(t *T) {
		a := t.APIActions()
		newBlog := servicedef.BlogInput{
			Title:    "API Test Blog " + uniqueSuffix(),
			Excerpt:  "This is a test blog created via API",
			Content:  "<p>This is the content of the test blog post.</p>",
			Category: "Technology",
			Tags:     []string{"React"},
			Status:   servicedef.StatusDraft,
		}
		resp, err := a.Post("/api/blogs", newBlog, state.auth())
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 201)
		created := apiactions.RequireResponseJSON[servicedef.Blog](t, resp)
		require.NotZero(t, created.ID)
		assert.Equal(t, newBlog.Title, created.Title)
		assert.Equal(t, newBlog.Excerpt, created.Excerpt)
		assert.Equal(t, newBlog.Content, created.Content)
		assert.Equal(t, newBlog.Category, created.Category)
		assert.Equal(t, newBlog.Tags, created.Tags)
		assert.Equal(t, servicedef.StatusDraft, created.Status)

		state.createdBlogID = created.ID

		t.Step("fetch the created blog", func() {
			resp, err := a.Get("/api/blogs/admin/"+itoa(created.ID), state.auth())
			require.NoError(t, err)
			a.VerifyStatusCode(t, resp, 200)
			fetched := apiactions.RequireResponseJSON[servicedef.Blog](t, resp)
			assert.Equal(t, created.Title, fetched.Title)
			assert.Equal(t, created.Content, fetched.Content)
			assert.Equal(t, created.Tags, fetched.Tags)
			assert.Zero(t, fetched.Views)
			assert.Zero(t, fetched.Likes)
		})
	})

	t.Run("should create a new blog post as published", func(t *T) {
		a := t.APIActions()
		newBlog := servicedef.BlogInput{
			Title:    "Published API Test Blog " + uniqueSuffix(),
			Excerpt:  "This is a published test blog",
			Content:  "<p>Published content</p>",
			Category: "Design",
			Tags:     []string{"News"},
			Status:   servicedef.StatusPublished,
		}
		resp, err := a.Post("/api/blogs", newBlog, state.auth())
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 201)
		assert.Equal(t, servicedef.StatusPublished, apiactions.RequireResponseJSON[servicedef.Blog](t, resp).Status)
	})

	t.Run("should fail to create blog without authentication", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/blogs", servicedef.BlogInput{
			Title:    "Unauthorized Blog",
			Excerpt:  "This should fail",
			Content:  "<p>Content</p>",
			Category: "Other",
			Tags:     []string{"Python"},
			Status:   servicedef.StatusDraft,
		})
		require.NoError(t, err)
		a.VerifyStatusCode(t, resp, 401)
	})

	t.Run("should fail to create blog with missing required fields", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/blogs", servicedef.BlogInput{Title: "Incomplete Blog"}, state.auth())
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 400)
		requireErrorMessage(t, resp, "Missing required fields")
	})
}

func doUpdateBlogAPITests(t *T, state *blogAPIState) {
	t.Run("should update an existing blog", func(t *T) {
		if state.createdBlogID == 0 {
			t.Skip("no blog was created by an earlier test")
		}
		a := t.APIActions()
		update := servicedef.BlogInput{
			Title:   "Updated API Test Blog",
			Excerpt: "Updated excerpt",
			Status:  servicedef.StatusPublished,
		}
		resp, err := a.Put("/api/blogs/"+itoa(state.createdBlogID), update, state.auth())
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		updated := apiactions.RequireResponseJSON[servicedef.Blog](t, resp)
		assert.Equal(t, update.Title, updated.Title)
		assert.Equal(t, update.Excerpt, updated.Excerpt)
		assert.Equal(t, servicedef.StatusPublished, updated.Status)
	})

	t.Run("should fail to update blog without authentication", func(t *T) {
		if state.createdBlogID == 0 {
			t.Skip("no blog was created by an earlier test")
		}
		a := t.APIActions()
		resp, err := a.Put("/api/blogs/"+itoa(state.createdBlogID), servicedef.BlogInput{Title: "Hacked"})
		require.NoError(t, err)
		a.VerifyStatusCode(t, resp, 401)
	})

	t.Run("should return 404 when updating non-existent blog", func(t *T) {
		a := t.APIActions()
		resp, err := a.Put("/api/blogs/"+itoa(nonexistentID), servicedef.BlogInput{Title: "Does not exist"}, state.auth())
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 404)
		requireErrorMessage(t, resp, "Blog not found")
	})
}

func doDeleteBlogAPITests(t *T, state *blogAPIState) {
	t.Run("should delete an existing blog", func(t *T) {
		if state.createdBlogID == 0 {
			t.Skip("no blog was created by an earlier test")
		}
		a := t.APIActions()
		resp, err := a.Delete("/api/blogs/"+itoa(state.createdBlogID), state.auth())
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		assert.Equal(t, "Blog deleted successfully",
			apiactions.RequireResponseJSON[servicedef.MessageResponse](t, resp).Message)

		t.Step("verify the blog is gone", func() {
			resp, err := a.Get("/api/blogs/admin/"+itoa(state.createdBlogID), state.auth())
			require.NoError(t, err)
			a.VerifyStatusCode(t, resp, 404)
		})
	})

	t.Run("should fail to delete blog without authentication", func(t *T) {
		a := t.APIActions()
		resp, err := a.Delete("/api/blogs/1")
		require.NoError(t, err)
		a.VerifyStatusCode(t, resp, 401)
	})

	t.Run("should return 404 when deleting non-existent blog", func(t *T) {
		a := t.APIActions()
		resp, err := a.Delete("/api/blogs/"+itoa(nonexistentID), state.auth())
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 404)
		requireErrorMessage(t, resp, "Blog not found")
	})
}
