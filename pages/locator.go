package pages

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"
)

type strategy int

const (
	bySelector strategy = iota
	byRole
	byLabel
	byText
	byPlaceholder
	byTestID
)

// Locator describes how to find zero or more elements on a page. It is an immutable value: the
// builder methods return modified copies, and nothing touches a page until Resolve is called.
type Locator struct {
	strategy strategy
	query    string
	pattern  *regexp.Regexp
	name     string
	exact    bool
	level    int
	parent   *Locator
	hasText  string
	has      *Locator
	nth      *int
}

// CSS finds elements by a CSS selector, or by any other selector syntax that the browser library
// understands.
func CSS(selector string) Locator {
	return Locator{strategy: bySelector, query: selector}
}

// XPath finds elements by an XPath expression.
func XPath(expr string) Locator {
	return Locator{strategy: bySelector, query: "xpath=" + expr}
}

// Role finds elements by ARIA role and accessible name. An empty name matches any name.
func Role(role, name string) Locator {
	return Locator{strategy: byRole, query: role, name: name}
}

// RoleMatching finds elements by ARIA role and an accessible name matching a pattern.
func RoleMatching(role string, name *regexp.Regexp) Locator {
	return Locator{strategy: byRole, query: role, pattern: name}
}

// Heading finds a heading of the given level (1-6) by name.
func Heading(name string, level int) Locator {
	return Locator{strategy: byRole, query: "heading", name: name, level: level}
}

func Label(text string) Locator {
	return Locator{strategy: byLabel, query: text}
}

func LabelMatching(pattern *regexp.Regexp) Locator {
	return Locator{strategy: byLabel, pattern: pattern}
}

func Text(text string) Locator {
	return Locator{strategy: byText, query: text}
}

func Placeholder(text string) Locator {
	return Locator{strategy: byPlaceholder, query: text}
}

func TestID(id string) Locator {
	return Locator{strategy: byTestID, query: id}
}

// Exact makes name, label, text or placeholder matching exact and case-sensitive.
func (l Locator) Exact() Locator {
	l.exact = true
	return l
}

// Locator returns a locator for elements matching selector inside the elements of l.
func (l Locator) Locator(selector string) Locator {
	return l.Within(CSS(selector))
}

// Within returns child scoped to the elements of l.
func (l Locator) Within(child Locator) Locator {
	parent := l
	if child.parent != nil {
		parent = child.parent.withRoot(l)
	}
	child.parent = &parent
	return child
}

func (l Locator) withRoot(root Locator) Locator {
	if l.parent == nil {
		p := root
		l.parent = &p
		return l
	}
	p := l.parent.withRoot(root)
	l.parent = &p
	return l
}

// WithText keeps only elements containing the given text somewhere inside them.
func (l Locator) WithText(text string) Locator {
	l.hasText = text
	return l
}

// Having keeps only elements that contain an element matching inner.
func (l Locator) Having(inner Locator) Locator {
	l.has = &inner
	return l
}

// Nth selects one element by zero-based index.
func (l Locator) Nth(i int) Locator {
	l.nth = &i
	return l
}

func (l Locator) First() Locator {
	return l.Nth(0)
}

// String describes the locator. Locators that resolve the same way have the same description.
func (l Locator) String() string {
	var b strings.Builder
	if l.parent != nil {
		b.WriteString(l.parent.String())
		b.WriteString(" >> ")
	}
	b.WriteString(l.describeSelf())
	if l.hasText != "" {
		fmt.Fprintf(&b, " >> has-text=%q", l.hasText)
	}
	if l.has != nil {
		fmt.Fprintf(&b, " >> has=(%s)", l.has.String())
	}
	if l.nth != nil {
		fmt.Fprintf(&b, " >> nth=%d", *l.nth)
	}
	return b.String()
}

func (l Locator) describeSelf() string {
	text := fmt.Sprintf("%q", l.query)
	if l.pattern != nil {
		text = "/" + l.pattern.String() + "/"
	}
	suffix := ""
	if l.exact {
		suffix = "s"
	}
	switch l.strategy {
	case byRole:
		s := "role=" + l.query
		switch {
		case l.pattern != nil:
			s += "[name=/" + l.pattern.String() + "/]"
		case l.name != "":
			s += fmt.Sprintf("[name=%q%s]", l.name, suffix)
		}
		if l.level > 0 {
			s += fmt.Sprintf("[level=%d]", l.level)
		}
		return s
	case byLabel:
		return "label=" + text + suffix
	case byText:
		return "text=" + text + suffix
	case byPlaceholder:
		return "placeholder=" + text + suffix
	case byTestID:
		return "testid=" + text
	default:
		if strings.HasPrefix(l.query, "xpath=") {
			return l.query
		}
		return "css=" + l.query
	}
}

func (l Locator) textArg() interface{} {
	if l.pattern != nil {
		return l.pattern
	}
	return l.query
}

func (l Locator) exactArg() *bool {
	if l.exact {
		return playwright.Bool(true)
	}
	return nil
}

// Resolve turns the description into a live locator for page.
func (l Locator) Resolve(page playwright.Page) playwright.Locator {
	var loc playwright.Locator
	if l.parent != nil {
		loc = l.resolveWithin(l.parent.Resolve(page))
	} else {
		loc = l.resolveOnPage(page)
	}
	if l.hasText != "" || l.has != nil {
		filter := playwright.LocatorFilterOptions{}
		if l.hasText != "" {
			filter.HasText = l.hasText
		}
		if l.has != nil {
			filter.Has = l.has.Resolve(page)
		}
		loc = loc.Filter(filter)
	}
	if l.nth != nil {
		loc = loc.Nth(*l.nth)
	}
	return loc
}

func (l Locator) resolveOnPage(page playwright.Page) playwright.Locator {
	switch l.strategy {
	case byRole:
		opts := playwright.PageGetByRoleOptions{Exact: l.exactArg()}
		if l.pattern != nil {
			opts.Name = l.pattern
		} else if l.name != "" {
			opts.Name = l.name
		}
		if l.level > 0 {
			opts.Level = playwright.Int(l.level)
		}
		return page.GetByRole(playwright.AriaRole(l.query), opts)
	case byLabel:
		return page.GetByLabel(l.textArg(), playwright.PageGetByLabelOptions{Exact: l.exactArg()})
	case byText:
		return page.GetByText(l.textArg(), playwright.PageGetByTextOptions{Exact: l.exactArg()})
	case byPlaceholder:
		return page.GetByPlaceholder(l.textArg(), playwright.PageGetByPlaceholderOptions{Exact: l.exactArg()})
	case byTestID:
		return page.GetByTestId(l.query)
	default:
		return page.Locator(l.query)
	}
}

func (l Locator) resolveWithin(parent playwright.Locator) playwright.Locator {
	switch l.strategy {
	case byRole:
		opts := playwright.LocatorGetByRoleOptions{Exact: l.exactArg()}
		if l.pattern != nil {
			opts.Name = l.pattern
		} else if l.name != "" {
			opts.Name = l.name
		}
		if l.level > 0 {
			opts.Level = playwright.Int(l.level)
		}
		return parent.GetByRole(playwright.AriaRole(l.query), opts)
	case byLabel:
		return parent.GetByLabel(l.textArg(), playwright.LocatorGetByLabelOptions{Exact: l.exactArg()})
	case byText:
		return parent.GetByText(l.textArg(), playwright.LocatorGetByTextOptions{Exact: l.exactArg()})
	case byPlaceholder:
		return parent.GetByPlaceholder(l.textArg(), playwright.LocatorGetByPlaceholderOptions{Exact: l.exactArg()})
	case byTestID:
		return parent.GetByTestId(l.query)
	default:
		return parent.Locator(l.query)
	}
}
