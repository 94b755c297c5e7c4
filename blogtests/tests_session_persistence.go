package blogtests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/pages"
)

const (
	toDarkTitle  = "Switch to dark mode"
	toLightTitle = "Switch to light mode"
	blogsToRead  = 3
)

func DoSessionPersistenceTests(t *T) {
	t.Describe("Theme Persistence Across Sessions", doThemePersistenceTests)
	t.Describe("Read Blogs Visual Marking Persistence", doReadBlogsPersistenceTests)
}

func requireThemeMode(t *T, home *pages.HomePage, expected string) {
	mode, err := home.ThemeMode()
	require.NoError(t, err)
	assert.Equal(t, expected, mode)
}

// requireDarkMode checks whether the stored theme is dark. A missing value counts as light.
func requireDarkMode(t *T, home *pages.HomePage, dark bool) {
	mode, err := home.ThemeMode()
	require.NoError(t, err)
	assert.Equal(t, dark, mode == "dark", "stored theme mode was %q", mode)
}

// reopenHome opens a new browsing context from the test session's saved storage and loads the
// homepage in it.
func reopenHome(t *T) *pages.HomePage {
	s := t.OpenSessionFromStorage(t.SaveStorageState())
	home := pages.NewHomePage(s)
	require.NoError(t, home.Goto())
	return home
}

func doThemePersistenceTests(t *T) {
	t.Run("should persist dark mode preference across browser sessions", func(t *T) {
		home := t.HomePage()
		t.Step("navigate to homepage and verify light mode", func() {
			require.NoError(t, home.Goto())
			t.Expect(home.DarkModeButton).ToHaveAttribute("title", toDarkTitle)
			requireDarkMode(t, home, false)
		})

		t.Step("switch to dark mode", func() {
			require.NoError(t, home.ToggleDarkMode())
			t.Expect(home.DarkModeButton).ToHaveAttribute("title", toLightTitle)
			requireDarkMode(t, home, true)
		})

		t.Step("close and reopen browser with stored context", func() {
			other := reopenHome(t)
			requireDarkMode(t, other, true)
			t.ExpectIn(other.Session(), other.DarkModeButton).ToHaveAttribute("title", toLightTitle)
		})
	})

	t.Run("should persist light mode preference across browser sessions", func(t *T) {
		home := t.HomePage()
		t.Step("navigate to homepage", func() {
			require.NoError(t, home.Goto())
		})

		t.Step("switch to dark mode first", func() {
			require.NoError(t, home.ToggleDarkMode())
			t.Expect(home.DarkModeButton).ToHaveAttribute("title", toLightTitle)
			requireDarkMode(t, home, true)
		})

		t.Step("switch back to light mode", func() {
			require.NoError(t, home.ToggleDarkMode())
			t.Expect(home.DarkModeButton).ToHaveAttribute("title", toDarkTitle)
			requireDarkMode(t, home, false)
		})

		t.Step("verify light mode persists in new session", func() {
			other := reopenHome(t)
			requireDarkMode(t, other, false)
			t.ExpectIn(other.Session(), other.DarkModeButton).ToHaveAttribute("title", toDarkTitle)
		})
	})

	t.Run("should sync theme across multiple tabs in same session", func(t *T) {
		home := t.HomePage()
		t.Step("open first tab and set dark mode", func() {
			require.NoError(t, home.Goto())
			require.NoError(t, home.ToggleDarkMode())
			t.Expect(home.DarkModeButton).ToHaveAttribute("title", toLightTitle)
			requireThemeMode(t, home, "dark")
		})

		t.Step("open second tab and verify theme is synced", func() {
			tab := pages.NewHomePage(t.NewTab())
			require.NoError(t, tab.Goto())
			requireDarkMode(t, tab, true)
			t.ExpectIn(tab.Session(), tab.DarkModeButton).ToHaveAttribute("title", toLightTitle)
		})
	})
}

// readBlog opens the i'th card on the homepage, waits for the post to load, and waits until the
// app has recorded at least wantRead posts as read. It returns the card's title.
func readBlog(t *T, i, wantRead int) string {
	home := t.HomePage()
	require.NoError(t, home.Goto())
	require.NoError(t, home.WaitForBlogCardsToLoad())

	title, err := t.Session().Resolve(home.BlogCardTitle(i)).TextContent()
	require.NoError(t, err)
	require.NotEmpty(t, title)

	require.NoError(t, home.ClickReadMore(i))
	require.NoError(t, t.PublishedBlogPage().WaitForPageLoad())
	require.NoError(t, home.WaitForReadBlogCount(wantRead))
	return title
}

func loadHomeWithCards(t *T, home *pages.HomePage) {
	require.NoError(t, home.Goto())
	require.NoError(t, home.WaitForBlogCardsToLoad())
}

func doReadBlogsPersistenceTests(t *T) {
	t.Run("should mark blog as read and persist across sessions", func(t *T) {
		home := t.HomePage()
		var blogURL string

		t.Step("navigate to homepage and select a blog", func() {
			loadHomeWithCards(t, home)
			t.Expect(home.ReadBadgeOnCard(0)).ToBeHidden()
			readBlog(t, 0, 1)
			blogURL = t.Session().URL()
		})

		t.Step("verify blog is displayed and read", func() {
			require.NoError(t, t.Session().Goto(blogURL))
			t.Expect(t.PublishedBlogPage().BlogTitle).ToBeVisible()
		})

		t.Step("go back to homepage and verify read badge", func() {
			loadHomeWithCards(t, home)
			t.Expect(home.ReadBadgeOnCard(0)).ToBeVisible()
			assert.NotEmpty(t, home.ReadBlogsFromStorage())
		})

		t.Step("open new browser session and verify read status persists", func() {
			other := reopenHome(t)
			require.NoError(t, other.WaitForBlogCardsToLoad())
			t.ExpectIn(other.Session(), other.ReadBadgeOnCard(0)).ToBeVisible()
			assert.NotEmpty(t, other.ReadBlogsFromStorage())
		})
	})

	t.Run("should track multiple read blogs across sessions", func(t *T) {
		home := t.HomePage()
		var titles []string

		t.Step("read multiple blogs", func() {
			for i := 0; i < blogsToRead; i++ {
				titles = append(titles, readBlog(t, i, i+1))
			}
			assert.Len(t, titles, blogsToRead)
		})

		t.Step("verify all blogs are marked as read", func() {
			loadHomeWithCards(t, home)
			assert.Len(t, home.ReadBlogsFromStorage(), blogsToRead)
			for i := 0; i < blogsToRead; i++ {
				t.Expect(home.ReadBadgeOnCard(i)).ToBeVisible()
			}
		})

		t.Step("verify all read blogs persist in new session", func() {
			other := reopenHome(t)
			require.NoError(t, other.WaitForBlogCardsToLoad())
			assert.Len(t, other.ReadBlogsFromStorage(), blogsToRead)
			for i := 0; i < blogsToRead; i++ {
				t.ExpectIn(other.Session(), other.ReadBadgeOnCard(i)).ToBeVisible()
			}
		})
	})

	t.Run("should clear read status when localStorage is cleared", func(t *T) {
		home := t.HomePage()
		t.Step("read a blog and mark it as read", func() {
			readBlog(t, 0, 1)
		})

		t.Step("verify blog is marked as read", func() {
			loadHomeWithCards(t, home)
			t.Expect(home.ReadBadgeOnCard(0)).ToBeVisible()
		})

		t.Step("clear localStorage and verify read status is reset", func() {
			require.NoError(t, t.Session().ClearLocalStorage())
			loadHomeWithCards(t, home)
			assert.Empty(t, home.ReadBlogsFromStorage())
			t.Expect(home.ReadBadgeOnCard(0)).ToBeHidden()
		})
	})
}
