package blogtests

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/pages"
)

// LocatorExpectation makes assertions about the elements matched by a locator. Each assertion
// retries until it passes or the session's expect timeout runs out, and then stops the test if
// it failed.
type LocatorExpectation struct {
	t          *T
	desc       string
	negated    bool
	assertions playwright.LocatorAssertions
}

// Expect starts an assertion about a locator in the test's own session.
func (t *T) Expect(l pages.Locator) *LocatorExpectation {
	return t.ExpectIn(t.Session(), l)
}

// ExpectIn starts an assertion about a locator in some other session, such as one returned by
// NewTab.
func (t *T) ExpectIn(s *pages.Session, l pages.Locator) *LocatorExpectation {
	return &LocatorExpectation{
		t:          t,
		desc:       l.String(),
		assertions: s.Expect().Locator(s.Resolve(l)),
	}
}

// Not negates the assertion that follows.
func (e *LocatorExpectation) Not() *LocatorExpectation {
	return &LocatorExpectation{t: e.t, desc: e.desc, negated: !e.negated, assertions: e.assertions.Not()}
}

func (e *LocatorExpectation) check(err error, format string, args ...interface{}) {
	verb := "to"
	if e.negated {
		verb = "not to"
	}
	require.NoError(e.t, err, "expected %s %s %s", e.desc, verb, fmt.Sprintf(format, args...))
}

func (e *LocatorExpectation) ToBeVisible() {
	e.check(e.assertions.ToBeVisible(), "be visible")
}

func (e *LocatorExpectation) ToBeHidden() {
	e.check(e.assertions.ToBeHidden(), "be hidden")
}

func (e *LocatorExpectation) ToBeEnabled() {
	e.check(e.assertions.ToBeEnabled(), "be enabled")
}

func (e *LocatorExpectation) ToBeDisabled() {
	e.check(e.assertions.ToBeDisabled(), "be disabled")
}

// ToHaveText takes a string, a *regexp.Regexp, or a slice of either for a locator that matches
// several elements.
func (e *LocatorExpectation) ToHaveText(expected interface{}) {
	e.check(e.assertions.ToHaveText(expected), "have text %v", expected)
}

func (e *LocatorExpectation) ToContainText(expected interface{}) {
	e.check(e.assertions.ToContainText(expected), "contain text %v", expected)
}

func (e *LocatorExpectation) ToHaveValue(expected interface{}) {
	e.check(e.assertions.ToHaveValue(expected), "have value %v", expected)
}

func (e *LocatorExpectation) ToHaveAttribute(name string, value interface{}) {
	e.check(e.assertions.ToHaveAttribute(name, value), "have attribute %s=%v", name, value)
}

// ToHaveClass matches the whole class attribute; use a *regexp.Regexp to check for one class.
func (e *LocatorExpectation) ToHaveClass(expected interface{}) {
	e.check(e.assertions.ToHaveClass(expected), "have class %v", expected)
}

func (e *LocatorExpectation) ToHaveCount(n int) {
	e.check(e.assertions.ToHaveCount(n), "have count %d", n)
}

// PageExpectation makes assertions about the page as a whole.
type PageExpectation struct {
	t          *T
	assertions playwright.PageAssertions
}

func (t *T) ExpectPage() *PageExpectation {
	return t.ExpectPageIn(t.Session())
}

func (t *T) ExpectPageIn(s *pages.Session) *PageExpectation {
	return &PageExpectation{t: t, assertions: s.Expect().Page(s.Page)}
}

func (e *PageExpectation) Not() *PageExpectation {
	return &PageExpectation{t: e.t, assertions: e.assertions.Not()}
}

// ToHaveURL takes a full URL, or a *regexp.Regexp.
func (e *PageExpectation) ToHaveURL(expected interface{}) {
	require.NoError(e.t, e.assertions.ToHaveURL(expected), "expected page URL to match %v", expected)
}

func (e *PageExpectation) ToHaveTitle(expected interface{}) {
	require.NoError(e.t, e.assertions.ToHaveTitle(expected), "expected page title to match %v", expected)
}
