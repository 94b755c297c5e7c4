package blogtests

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/pages"
)

const (
	adminPostsPerPage  = 10
	adminMaxLoadTime   = 3 * time.Second
	editedParagraph    = "This paragraph was written by the admin page tests while editing the post. "
	editedParagraphRep = 10
)

var (
	blogURLPattern     = regexp.MustCompile(`.*blog/.*`)
	editURLPattern     = regexp.MustCompile(`/admin/blog/(\d+)/edit`)
	newBlogURLPattern  = regexp.MustCompile(`.*new`)
	countCellPattern   = regexp.MustCompile(`^\d+$`)
	createdDatePattern = regexp.MustCompile(`^[A-Za-z]{3}\s\d{1,2},\s\d{4}$`)
)

func DoAdminPageTests(t *T) {
	t.BeforeEach(func(t *T) {
		login := t.LoginPage()
		valid := t.TestData().Login.LoginValid
		require.NoError(t, login.Goto())
		require.NoError(t, login.Login(valid.Username, valid.Password))
		require.NoError(t, t.AdminPage().WaitForPageLoad())
	})

	t.Describe("Page Display Testing", doAdminPageDisplayTests)
	t.Describe("Blog Post Data Verification", doAdminDataTests)
	t.Describe("Action Buttons Testing", doAdminActionButtonTests)
	t.Describe("Blog Post Interaction Testing", doAdminInteractionTests)
	t.Describe("Pagination Testing", doAdminPaginationTests)
	t.Describe("Table Data Validation", doAdminTableDataTests)
	t.Describe("Responsive Design Testing", doAdminResponsiveTests)
	t.Describe("Performance Testing", func(t *T) {
		t.Run("should load blog posts within acceptable time", func(t *T) {
			start := time.Now()
			require.NoError(t, t.AdminPage().WaitForPageLoad())
			loadTime := time.Since(start)
			t.Attach("Load Time", loadTime.String())
			assert.Less(t, loadTime, adminMaxLoadTime)
		})
	})
}

// blogPostRecord returns the i'th record in the blog post test data. The records are expected to
// describe posts that exist in the environment.
func blogPostRecord(t *T, i int) BlogPostRecord {
	posts := t.TestData().BlogPosts
	if i >= len(posts) {
		t.Skip("blogPosts.json does not have enough records for this test")
	}
	return posts[i]
}

func blogPostFixture(t *T, i int) string {
	return blogPostRecord(t, i).Title
}

func requirePostCount(t *T) int {
	n, err := t.AdminPage().BlogPostCount()
	require.NoError(t, err)
	return n
}

func requireCount(t *T, l pages.Locator) int {
	n, err := t.Session().Resolve(l).Count()
	require.NoError(t, err)
	return n
}

func requireTexts(t *T, query func() ([]string, error)) []string {
	texts, err := query()
	require.NoError(t, err)
	return texts
}

// requireCurrentPage waits for the highlighted pagination button to show page, then checks it
// through the page object.
func requireCurrentPage(t *T, admin *pages.AdminPage, page string) {
	t.Expect(admin.CurrentPageButton).ToContainText(page)
	current, err := admin.CurrentPage()
	require.NoError(t, err)
	assert.Equal(t, page, current)
}

func requireFirstText(t *T, l pages.Locator) string {
	text, err := t.Session().Resolve(l.First()).TextContent()
	require.NoError(t, err)
	return strings.TrimSpace(text)
}

func doAdminPageDisplayTests(t *T) {
	t.Run("should display admin page with correct heading", func(t *T) {
		admin := t.AdminPage()
		t.Expect(admin.AdminHeading).ToBeVisible()
		t.Expect(admin.AdminHeading).ToHaveText("Blog Management")
	})

	t.Run("should display new blog post button", func(t *T) {
		admin := t.AdminPage()
		t.Expect(admin.NewBlogPostButton).ToBeVisible()
		t.Expect(admin.NewBlogPostButton).ToContainText("New Blog Post")
	})

	t.Run("should display all table headers", func(t *T) {
		admin := t.AdminPage()
		for _, header := range []pages.Locator{
			admin.TitleHeader, admin.CategoryHeader, admin.StatusHeader, admin.ViewsHeader,
			admin.LikesHeader, admin.CommentsHeader, admin.CreatedHeader, admin.ActionsHeader,
		} {
			t.Expect(header).ToBeVisible()
		}
	})

	t.Run("should display blog posts in table", func(t *T) {
		t.Expect(t.AdminPage().TableRows.First()).ToBeVisible()
		assert.Greater(t, requirePostCount(t), 0)
	})

	t.Run("should display pagination controls", func(t *T) {
		admin := t.AdminPage()
		t.Expect(admin.PreviousPageButton).ToBeVisible()
		t.Expect(admin.NextPageButton).ToBeVisible()
		t.Expect(admin.FirstPageButton).ToBeVisible()
		t.Expect(admin.CurrentPageButton).ToBeVisible()
	})
}

func doAdminDataTests(t *T) {
	t.Run("should display correct blog post titles", func(t *T) {
		titles := requireTexts(t, t.AdminPage().PostTitles)
		require.NotEmpty(t, titles)
		assert.NotEmpty(t, titles[0])
	})

	t.Run("should display category chips for all posts", func(t *T) {
		postCount := requirePostCount(t)
		assert.Len(t, requireTexts(t, t.AdminPage().Categories), postCount)
	})

	t.Run("should display published status for posts", func(t *T) {
		postCount := requirePostCount(t)
		statuses := requireTexts(t, t.AdminPage().Statuses)
		require.Len(t, statuses, postCount)
		assert.Equal(t, "published", statuses[0])
	})

	t.Run("should display numerical metrics for posts", func(t *T) {
		admin := t.AdminPage()
		assert.Regexp(t, countCellPattern, requireFirstText(t, admin.ViewsCells))
		assert.Regexp(t, countCellPattern, requireFirstText(t, admin.LikesCells))
		assert.Regexp(t, countCellPattern, requireFirstText(t, admin.CommentsCells))
	})

	t.Run("should display created dates in correct format", func(t *T) {
		assert.Regexp(t, createdDatePattern, requireFirstText(t, t.AdminPage().CreatedCells))
	})
}

func doAdminActionButtonTests(t *T) {
	t.Run("should display all action buttons for each post", func(t *T) {
		admin := t.AdminPage()
		postCount := requirePostCount(t)
		assert.Equal(t, postCount, requireCount(t, admin.ViewButtons))
		assert.Equal(t, postCount, requireCount(t, admin.EditButtons))
		assert.Equal(t, postCount, requireCount(t, admin.DeleteButtons))
	})

	t.Run("should verify action buttons have correct titles", func(t *T) {
		admin := t.AdminPage()
		t.Expect(admin.ViewButtons.First()).ToHaveAttribute("title", "View")
		t.Expect(admin.EditButtons.First()).ToHaveAttribute("title", "Edit")
		t.Expect(admin.DeleteButtons.First()).ToHaveAttribute("title", "Delete")
	})

	t.Run("should display action buttons for specific blog post", func(t *T) {
		admin := t.AdminPage()
		title := blogPostFixture(t, 0)
		t.Expect(admin.TableRows.First()).ToBeVisible()
		t.Expect(admin.RowByTitle(title)).ToBeVisible()

		t.Expect(admin.ViewButtonForPost(title)).ToBeVisible()
		t.Expect(admin.EditButtonForPost(title)).ToBeVisible()
		t.Expect(admin.DeleteButtonForPost(title)).ToBeVisible()
	})
}

func doAdminInteractionTests(t *T) {
	t.Run("should click view button for a specific post", func(t *T) {
		admin := t.AdminPage()
		title := blogPostFixture(t, 0)
		t.Expect(admin.TableRows.First()).ToBeVisible()

		t.Step("verify blog post exists", func() {
			t.Expect(admin.RowByTitle(title)).ToBeVisible()
		})

		t.Step("click view button", func() {
			require.NoError(t, admin.ViewBlogPost(title))
			t.ExpectPage().ToHaveURL(blogURLPattern)
			published := t.PublishedBlogPage()
			require.NoError(t, published.WaitForPageLoad())
			t.Expect(published.BlogTitle).ToBeVisible()
			t.Expect(published.BlogTitle).ToHaveText(title)
		})
	})

	t.Run("should click edit button for a specific post", func(t *T) {
		admin := t.AdminPage()
		title := blogPostFixture(t, 1)
		t.Expect(admin.TableRows.First()).ToBeVisible()

		t.Step("verify blog post exists", func() {
			t.Expect(admin.RowByTitle(title)).ToBeVisible()
		})

		var blogID int
		form := t.CreateBlogPage()

		t.Step("click edit button", func() {
			require.NoError(t, admin.EditBlogPost(title))
			t.ExpectPage().ToHaveURL(blogURLPattern)

			match := editURLPattern.FindStringSubmatch(t.Session().URL())
			require.NotNil(t, match, "edit form URL did not contain a blog id: %s", t.Session().URL())
			var err error
			blogID, err = strconv.Atoi(match[1])
			require.NoError(t, err)

			t.Expect(form.EditHeading).ToBeVisible()
			t.Expect(form.EditHeading).ToHaveText("Edit Blog Post")
			t.Expect(form.TitleInput).ToBeVisible()
			t.Expect(form.TitleInput).ToHaveValue(title)
			t.Expect(form.ExcerptInput).ToBeVisible()
			excerpt, err := form.ExcerptValue()
			require.NoError(t, err)
			assert.NotEmpty(t, excerpt)

			t.Expect(form.EditorContent).ToBeVisible()
			require.NoError(t, form.FillContent(strings.Repeat(editedParagraph, editedParagraphRep)))
			t.Expect(form.StatusGroup).ToBeVisible()
			t.Expect(form.SaveButton).ToBeVisible()
			t.Expect(form.SaveButton).ToHaveText("Save")
			require.NoError(t, form.ClickSave())
			t.ExpectPage().ToHaveURL(adminPathPattern)
		})

		t.Step("reopen the edit form and verify the saved content", func() {
			require.NoError(t, form.GotoEdit(blogID))
			t.Expect(form.TitleInput).ToHaveValue(title)
			content, err := form.ContentValue()
			require.NoError(t, err)
			assert.Contains(t, content, strings.TrimSpace(editedParagraph))
		})
	})

	t.Run("should click delete button for a specific post", func(t *T) {
		admin := t.AdminPage()
		title := blogPostFixture(t, 2)
		t.Expect(admin.TableRows.First()).ToBeVisible()

		t.Step("verify blog post exists", func() {
			t.Expect(admin.RowByTitle(title)).ToBeVisible()
		})

		t.Step("click delete button", func() {
			require.NoError(t, admin.DeleteBlogPost(title))
			hidden, err := admin.VerifyDeleteModalHiddenAfterConfirm()
			require.NoError(t, err)
			assert.True(t, hidden)
			t.Expect(admin.RowByTitle(title)).ToBeHidden()
		})
	})

	t.Run("should click new blog post button", func(t *T) {
		require.NoError(t, t.AdminPage().ClickNewBlogPost())
		t.ExpectPage().ToHaveURL(newBlogURLPattern)
	})
}

func doAdminPaginationTests(t *T) {
	t.Run("should have previous button disabled on first page", func(t *T) {
		t.Expect(t.AdminPage().PreviousPageButton).ToBeDisabled()
	})

	t.Run("should have page 1 selected by default", func(t *T) {
		admin := t.AdminPage()
		t.Expect(admin.CurrentPageButton).ToHaveAttribute("aria-current", "true")
		requireCurrentPage(t, admin, "1")
	})

	t.Run("should navigate to next page", func(t *T) {
		admin := t.AdminPage()
		t.Step("verify next button is enabled", func() {
			t.Expect(admin.NextPageButton).ToBeEnabled()
		})
		t.Step("click next page button", func() {
			require.NoError(t, admin.GoToNextPage())
		})
		t.Step("verify page 2 is selected", func() {
			requireCurrentPage(t, admin, "2")
		})
		t.Step("verify previous button is now enabled", func() {
			t.Expect(admin.PreviousPageButton).ToBeEnabled()
		})
	})

	t.Run("should navigate to specific page", func(t *T) {
		admin := t.AdminPage()
		t.Step("navigate to page 2", func() {
			require.NoError(t, admin.GoToPage(2))
		})
		t.Step("verify page 2 is selected", func() {
			requireCurrentPage(t, admin, "2")
			t.Expect(admin.CurrentPageButton).ToHaveAttribute("aria-current", "true")
		})
	})

	t.Run("should navigate back to previous page", func(t *T) {
		admin := t.AdminPage()
		t.Step("navigate to page 2", func() {
			require.NoError(t, admin.GoToPage(2))
			requireCurrentPage(t, admin, "2")
		})
		t.Step("navigate to previous page", func() {
			require.NoError(t, admin.GoToPreviousPage())
		})
		t.Step("verify page 1 is selected", func() {
			requireCurrentPage(t, admin, "1")
		})
	})
}

func doAdminTableDataTests(t *T) {
	t.Run("should verify specific blog post data", func(t *T) {
		admin := t.AdminPage()
		post := blogPostRecord(t, 0)
		t.Expect(admin.RowByTitle(post.Title)).ToBeVisible()

		if post.Category != "" {
			category, err := admin.CategoryOf(post.Title)
			require.NoError(t, err)
			assert.Equal(t, post.Category, strings.TrimSpace(category))
		}
		if post.Status != "" {
			status, err := admin.StatusOf(post.Title)
			require.NoError(t, err)
			assert.Equal(t, post.Status, strings.TrimSpace(status))
		}
	})

	t.Run("should display correct number of posts per page", func(t *T) {
		t.Expect(t.AdminPage().TableRows.First()).ToBeVisible()
		n := requirePostCount(t)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, adminPostsPerPage)
	})
}

func doAdminResponsiveTests(t *T) {
	t.Run("should display correctly on mobile viewport", func(t *T) {
		admin := t.AdminPage()
		require.NoError(t, t.Session().SetViewport(375, 667))
		t.Expect(admin.AdminHeading).ToBeVisible()
		t.Expect(admin.NewBlogPostButton).ToBeVisible()
	})

	t.Run("should display correctly on tablet viewport", func(t *T) {
		admin := t.AdminPage()
		require.NoError(t, t.Session().SetViewport(768, 1024))
		t.Expect(admin.AdminHeading).ToBeVisible()
		t.Expect(admin.TableRows.First()).ToBeVisible()
	})

	t.Run("should display correctly on desktop viewport", func(t *T) {
		admin := t.AdminPage()
		require.NoError(t, t.Session().SetViewport(1920, 1080))
		t.Expect(admin.AdminHeading).ToBeVisible()
		t.Expect(admin.TableRows.First()).ToBeVisible()
	})
}
