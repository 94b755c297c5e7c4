package blogtests

import (
	"os"
	"path/filepath"

	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/apiactions"
	"github.com/blogapp/blog-e2e-harness/pages"
)

// fixtures is the per-test bundle of collaborators. Every field is created on first use.
type fixtures struct {
	apiActions        *apiactions.APIActions
	session           *pages.Session
	extraSessions     []*pages.Session
	homePage          *pages.HomePage
	loginPage         *pages.LoginPage
	adminPage         *pages.AdminPage
	createBlogPage    *pages.CreateBlogPage
	publishedBlogPage *pages.PublishedBlogPage
}

func newFixtures() *fixtures {
	return &fixtures{}
}

func (t *T) requireFixtures() *fixtures {
	if t.fixtures == nil {
		require.Fail(t, "fixtures are only available inside a test, not in a group")
	}
	return t.fixtures
}

// closeFixtures runs when the test ends. Sessions opened later are closed first.
func (t *T) closeFixtures() {
	f := t.fixtures
	for i := len(f.extraSessions) - 1; i >= 0; i-- {
		if err := f.extraSessions[i].Close(); err != nil {
			t.Debug("error closing extra browser session: %s", err)
		}
	}
	if f.session != nil {
		if err := f.session.Close(); err != nil {
			t.Debug("error closing browser session: %s", err)
		}
	}
	*f = fixtures{}
}

// APIActions returns the test's HTTP helper, bound to the API base URL. Requests and responses
// are written to the test's debug output.
func (t *T) APIActions() *apiactions.APIActions {
	f := t.requireFixtures()
	if f.apiActions == nil {
		f.apiActions = apiactions.New(t.env.Config.APIBaseURL, t.env.HTTPClient, t.context.DebugLogger())
	}
	return f.apiActions
}

// Session returns the test's browser session, opening a new browsing context the first time. If
// the run has no browser, the test is skipped.
func (t *T) Session() *pages.Session {
	f := t.requireFixtures()
	if f.session == nil {
		f.session = t.openSession("")
	}
	return f.session
}

func (t *T) openSession(storageStatePath string) *pages.Session {
	if t.env.Sessions == nil {
		t.Skip(errNoBrowser.Error())
	}
	s, err := t.env.Sessions.OpenSession(storageStatePath)
	require.NoError(t, err, "could not open a browser session")
	return s
}

// OpenSessionFromStorage opens a second, independent browsing context that starts with the
// cookies and localStorage saved by SaveStorageState. It is closed when the test ends.
func (t *T) OpenSessionFromStorage(storageStatePath string) *pages.Session {
	f := t.requireFixtures()
	s := t.openSession(storageStatePath)
	f.extraSessions = append(f.extraSessions, s)
	return s
}

// NewTab opens another page in the test's browsing context, so it shares the session's storage.
// It is closed when the test ends.
func (t *T) NewTab() *pages.Session {
	f := t.requireFixtures()
	s, err := t.Session().NewTab()
	require.NoError(t, err, "could not open a new tab")
	f.extraSessions = append(f.extraSessions, s)
	return s
}

// SaveStorageState saves the session's cookies and localStorage to a temporary file that is
// removed when the test ends, and returns the file's path.
func (t *T) SaveStorageState() string {
	dir, err := os.MkdirTemp("", "blog-e2e-state-")
	require.NoError(t, err)
	t.Defer(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "storage-state.json")
	require.NoError(t, t.Session().SaveStorageState(path), "could not save storage state")
	return path
}

func (t *T) HomePage() *pages.HomePage {
	f := t.requireFixtures()
	if f.homePage == nil {
		f.homePage = pages.NewHomePage(t.Session())
	}
	return f.homePage
}

func (t *T) LoginPage() *pages.LoginPage {
	f := t.requireFixtures()
	if f.loginPage == nil {
		f.loginPage = pages.NewLoginPage(t.Session())
	}
	return f.loginPage
}

func (t *T) AdminPage() *pages.AdminPage {
	f := t.requireFixtures()
	if f.adminPage == nil {
		f.adminPage = pages.NewAdminPage(t.Session())
	}
	return f.adminPage
}

func (t *T) CreateBlogPage() *pages.CreateBlogPage {
	f := t.requireFixtures()
	if f.createBlogPage == nil {
		f.createBlogPage = pages.NewCreateBlogPage(t.Session())
	}
	return f.createBlogPage
}

func (t *T) PublishedBlogPage() *pages.PublishedBlogPage {
	f := t.requireFixtures()
	if f.publishedBlogPage == nil {
		f.publishedBlogPage = pages.NewPublishedBlogPage(t.Session())
	}
	return f.publishedBlogPage
}
