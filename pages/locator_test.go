package pages

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocatorDescriptions(t *testing.T) {
	assert.Equal(t, `css=h1`, CSS("h1").String())
	assert.Equal(t, `xpath=//th[text()="Title"]`, XPath(`//th[text()="Title"]`).String())
	assert.Equal(t, `role=button[name="Login"s]`, Role("button", "Login").Exact().String())
	assert.Equal(t, `role=alert`, Role("alert", "").String())
	assert.Equal(t, `role=button[name=/(?i)switch to/]`, RoleMatching("button", regexp.MustCompile(`(?i)switch to`)).String())
	assert.Equal(t, `role=heading[name="Content"][level=6]`, Heading("Content", 6).String())
	assert.Equal(t, `label="Username"`, Label("Username").String())
	assert.Equal(t, `label=/(?i)^title/`, LabelMatching(regexp.MustCompile(`(?i)^title`)).String())
	assert.Equal(t, `placeholder="Search blogs..."`, Placeholder("Search blogs...").String())
	assert.Equal(t, `testid="confirm-delete-button"`, TestID("confirm-delete-button").String())
}

func TestLocatorBuildersDoNotModifyTheReceiver(t *testing.T) {
	base := CSS(".MuiCard-root")
	first := base.First()
	withText := base.WithText("Live")
	child := base.Locator("h2")

	assert.Equal(t, `css=.MuiCard-root`, base.String())
	assert.Equal(t, `css=.MuiCard-root >> nth=0`, first.String())
	assert.Equal(t, `css=.MuiCard-root >> has-text="Live"`, withText.String())
	assert.Equal(t, `css=.MuiCard-root >> css=h2`, child.String())
}

func TestWithinRerootsNestedChild(t *testing.T) {
	inner := CSS("td").Within(Text("Hello").Exact())
	scoped := CSS("tr").Within(inner)
	assert.Equal(t, `css=td >> text="Hello"s`, inner.String())
	assert.Equal(t, `css=tr >> css=td >> text="Hello"s`, scoped.String())
}

func TestParameterizedLocatorsAreIndependentButEquivalent(t *testing.T) {
	admin := NewAdminPage(nil)

	a := admin.RowByTitle("Getting Started with TypeScript")
	b := admin.RowByTitle("Getting Started with TypeScript")
	assert.Equal(t, a, b)
	assert.Equal(t, a.String(), b.String())
	assert.NotSame(t, a.has, b.has)

	other := admin.RowByTitle("Modern React Patterns in 2024")
	assert.NotEqual(t, a.String(), other.String())

	assert.Equal(t,
		`xpath=//tbody[contains(@class,"MuiTableBody-root")]//tr >> has=(css=td >> text="Getting Started with TypeScript"s) >> css=button[title="Edit"]`,
		admin.EditButtonForPost("Getting Started with TypeScript").String())
}

func TestPageObjectsStartUnbound(t *testing.T) {
	s := &Session{}
	assert.Equal(t, Unbound, NewLoginPage(s).State())
	assert.Equal(t, "unbound", NewHomePage(s).State().String())
	assert.Same(t, s, NewCreateBlogPage(s).Session())
	assert.Same(t, s, NewPublishedBlogPage(s).Session())
}

func TestRoutes(t *testing.T) {
	s := NewSession(nil, nil, "http://localhost:5173/", 0, false)
	assert.Equal(t, "http://localhost:5173/admin/blog/new", s.URLFor(CreateBlogPath))
	assert.Equal(t, "http://localhost:5173/admin/blog/7/edit", s.URLFor(EditBlogPath(7)))
	assert.Equal(t, "http://localhost:5173/blog/3", s.URLFor(BlogPath(3)))
	assert.Equal(t, "http://localhost:5173/login", s.URLFor("login"))
	assert.Equal(t, "https://elsewhere/x", s.URLFor("https://elsewhere/x"))
}

func TestAdminColumnHeaders(t *testing.T) {
	admin := NewAdminPage(nil)
	headers := []Locator{admin.TitleHeader, admin.CategoryHeader, admin.StatusHeader, admin.ViewsHeader,
		admin.LikesHeader, admin.CommentsHeader, admin.CreatedHeader, admin.ActionsHeader}
	for i, name := range AdminColumns {
		assert.Equal(t, `xpath=//th[text()="`+name+`"]`, headers[i].String())
	}
	assert.Equal(t, `xpath=//button[@aria-label="Go to page 3"]`, admin.PageButton(3).String())
}
