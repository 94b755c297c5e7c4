package pages

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests drive page objects against static HTML. They need a Playwright driver and Chromium,
// and are skipped when those are not installed.

var (
	testBrowser    playwright.Browser
	testBrowserErr error
)

func TestMain(m *testing.M) {
	pw, err := playwright.Run()
	if err == nil {
		testBrowser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(true)})
	}
	testBrowserErr = err

	code := m.Run()

	if testBrowser != nil {
		_ = testBrowser.Close()
	}
	if pw != nil {
		_ = pw.Stop()
	}
	os.Exit(code)
}

func withSession(t *testing.T, html string, action func(*Session)) {
	if testBrowser == nil {
		t.Skipf("no browser available: %s", testBrowserErr)
	}
	ctx, err := testBrowser.NewContext()
	require.NoError(t, err)
	ctx.SetDefaultTimeout(2000)
	page, err := ctx.NewPage()
	require.NoError(t, err)

	s := NewSession(page, ctx, "http://localhost", 500*time.Millisecond, true)
	defer func() { assert.NoError(t, s.Close()) }()
	require.NoError(t, page.SetContent(html))
	action(s)
}

func adminTableHTML(dialog string) string {
	row := func(title, category, status string) string {
		return fmt.Sprintf(`<tr><td>%s</td><td><span class="MuiChip-label">%s</span></td>`+
			`<td><span class="MuiChip-label">%s</span></td><td>1</td><td>2</td><td>3</td><td>Jan 2, 2026</td>`+
			`<td><button title="View"></button><button title="Edit"></button><button title="Delete"></button></td></tr>`,
			title, category, status)
	}
	return `<h1>Blog Management</h1><table><tbody class="MuiTableBody-root">` +
		row("Getting Started with TypeScript", "Programming", "published") +
		row("Draft Ideas", "Technology", "draft") +
		`</tbody></table>` +
		`<button aria-label="page 1">1</button><button aria-label="Go to page 2" aria-current="true"> 2 </button>` +
		dialog
}

func TestAdminPageQueries(t *testing.T) {
	withSession(t, adminTableHTML(""), func(s *Session) {
		admin := NewAdminPage(s)

		titles, err := admin.PostTitles()
		require.NoError(t, err)
		assert.Equal(t, []string{"Getting Started with TypeScript", "Draft Ideas"}, titles)

		statuses, err := admin.Statuses()
		require.NoError(t, err)
		assert.Equal(t, []string{"published", "draft"}, statuses)

		categories, err := admin.Categories()
		require.NoError(t, err)
		assert.Equal(t, []string{"Programming", "Technology"}, categories)

		status, err := admin.StatusOf("Draft Ideas")
		require.NoError(t, err)
		assert.Equal(t, "draft", status)

		category, err := admin.CategoryOf("Getting Started with TypeScript")
		require.NoError(t, err)
		assert.Equal(t, "Programming", category)

		current, err := admin.CurrentPage()
		require.NoError(t, err)
		assert.Equal(t, "2", current)

		count, err := admin.BlogPostCount()
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, Ready, admin.State())
	})
}

func TestDeleteModalClosesAfterConfirm(t *testing.T) {
	dialog := `<div role="dialog" id="d"><button data-testid="confirm-delete-button"
		onclick="document.getElementById('d').remove()">Delete</button></div>`
	withSession(t, adminTableHTML(dialog), func(s *Session) {
		hidden, err := NewAdminPage(s).VerifyDeleteModalHiddenAfterConfirm()
		require.NoError(t, err)
		assert.True(t, hidden)
	})
}

func TestDeleteModalThatStaysOpenGivesTheAssertionError(t *testing.T) {
	dialog := `<div role="dialog"><button data-testid="confirm-delete-button">Delete</button></div>`
	withSession(t, adminTableHTML(dialog), func(s *Session) {
		hidden, err := NewAdminPage(s).VerifyDeleteModalHiddenAfterConfirm()
		assert.False(t, hidden)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "delete dialog was still open after confirming: ")
		assert.Greater(t, len(err.Error()), len("delete dialog was still open after confirming: "))
	})
}

func TestStatusButtonsAreScopedToTheStatusGroup(t *testing.T) {
	html := `<button value="draft" onclick="document.title='filter'">Draft</button>
		<div role="group" aria-label="blog status">
			<button value="draft" onclick="document.title='status draft'">Draft</button>
			<button value="published" onclick="document.title='status published'">Published</button>
		</div>`
	withSession(t, html, func(s *Session) {
		form := NewCreateBlogPage(s)

		require.NoError(t, form.SelectDraftStatus())
		title, err := s.Page.Title()
		require.NoError(t, err)
		assert.Equal(t, "status draft", title)

		require.NoError(t, form.SelectPublishedStatus())
		title, err = s.Page.Title()
		require.NoError(t, err)
		assert.Equal(t, "status published", title)
	})
}

func TestDarkModeButtonTitle(t *testing.T) {
	html := `<button title="Switch to dark mode" onclick="this.title='Switch to light mode'"></button>`
	withSession(t, html, func(s *Session) {
		home := NewHomePage(s)
		title, err := home.DarkModeButtonTitle()
		require.NoError(t, err)
		assert.Equal(t, "Switch to dark mode", title)

		require.NoError(t, home.ToggleDarkMode())
		title, err = home.DarkModeButtonTitle()
		require.NoError(t, err)
		assert.Equal(t, "Switch to light mode", title)
	})
}

const blogFormHTML = `<script>window.steps = [];
	document.addEventListener("keydown", e => { if (e.key === "Escape") window.steps.push("escape") });</script>
	<label for="title">Title</label><input id="title">
	<label for="excerpt">Excerpt</label><input id="excerpt">
	<div class="ql-editor" contenteditable="true"></div>
	<label>Category</label><div><div onclick="window.steps.push('category dropdown')">Select</div></div>
	<label>Tags</label><div><div onclick="window.steps.push('tags dropdown')">Select</div></div>
	<ul>
		<li role="option" onclick="window.steps.push('category Programming')">Programming</li>
		<li role="option" onclick="window.steps.push('tag TypeScript')">TypeScript</li>
	</ul>`

func formSteps(t *testing.T, s *Session) []interface{} {
	steps, err := s.Page.Evaluate("() => window.steps")
	require.NoError(t, err)
	return steps.([]interface{})
}

func TestFillBasicBlogDetailsClosesTagsDropdownWithEscape(t *testing.T) {
	withSession(t, blogFormHTML, func(s *Session) {
		form := NewCreateBlogPage(s)
		require.NoError(t, form.FillBasicBlogDetails(BlogDetails{
			Title:    "A title",
			Excerpt:  "An excerpt",
			Content:  "Some content",
			Category: "Programming",
			Tags:     []string{"TypeScript"},
		}))

		assert.Equal(t, []interface{}{"category dropdown", "category Programming", "tags dropdown", "tag TypeScript", "escape"},
			formSteps(t, s))
		title, err := form.TitleValue()
		require.NoError(t, err)
		assert.Equal(t, "A title", title)
		content, err := form.ContentValue()
		require.NoError(t, err)
		assert.Equal(t, "Some content", content)
	})
}

func TestFillBasicBlogDetailsWithoutTagsDoesNotPressEscape(t *testing.T) {
	withSession(t, blogFormHTML, func(s *Session) {
		require.NoError(t, NewCreateBlogPage(s).FillBasicBlogDetails(BlogDetails{
			Title:    "A title",
			Excerpt:  "An excerpt",
			Content:  "Some content",
			Category: "Programming",
		}))

		assert.Equal(t, []interface{}{"category dropdown", "category Programming"}, formSteps(t, s))
	})
}
