package pages

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session is one browser page and the browsing context it belongs to. Every page object used in
// a test shares the test's Session, so navigation done through one of them is seen by the others.
type Session struct {
	Page    playwright.Page
	Context playwright.BrowserContext
	BaseURL string

	// ExpectTimeout bounds how long assertions made with Expect wait.
	ExpectTimeout time.Duration

	ownsContext bool
	assertions  playwright.PlaywrightAssertions
}

// NewSession wraps a page. If ownsContext is true, Close also closes the browsing context.
func NewSession(page playwright.Page, context playwright.BrowserContext, baseURL string, expectTimeout time.Duration, ownsContext bool) *Session {
	return &Session{
		Page:          page,
		Context:       context,
		BaseURL:       strings.TrimSuffix(baseURL, "/"),
		ExpectTimeout: expectTimeout,
		ownsContext:   ownsContext,
	}
}

// URLFor returns the absolute URL of an application route.
func (s *Session) URLFor(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.BaseURL + path
}

func (s *Session) Goto(path string) error {
	url := s.URLFor(path)
	if _, err := s.Page.Goto(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (s *Session) Resolve(l Locator) playwright.Locator {
	return l.Resolve(s.Page)
}

// Expect returns the library's assertions, using the session's expect timeout.
func (s *Session) Expect() playwright.PlaywrightAssertions {
	if s.assertions == nil {
		s.assertions = playwright.NewPlaywrightAssertions(float64(s.ExpectTimeout.Milliseconds()))
	}
	return s.assertions
}

func (s *Session) WaitForLoadState() error {
	return s.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: playwright.LoadStateLoad})
}

// WaitForURL waits until the page URL matches a glob pattern such as "**/admin", or a
// *regexp.Regexp.
func (s *Session) WaitForURL(pattern interface{}) error {
	return s.Page.WaitForURL(pattern)
}

func (s *Session) URL() string {
	return s.Page.URL()
}

func (s *Session) PressKey(key string) error {
	return s.Page.Keyboard().Press(key)
}

func (s *Session) TypeText(text string) error {
	return s.Page.Keyboard().Type(text)
}

func (s *Session) SetViewport(width, height int) error {
	return s.Page.SetViewportSize(width, height)
}

// WaitForVisible waits for the first element matching l to become visible.
func (s *Session) WaitForVisible(l Locator, timeout time.Duration) error {
	return s.Resolve(l).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

// LocalStorageItem returns a localStorage value, and false if there is no such key.
func (s *Session) LocalStorageItem(key string) (string, bool, error) {
	result, err := s.Page.Evaluate(`key => localStorage.getItem(key)`, key)
	if err != nil {
		return "", false, err
	}
	if result == nil {
		return "", false, nil
	}
	value, ok := result.(string)
	if !ok {
		return "", false, fmt.Errorf("unexpected localStorage value type %T for %q", result, key)
	}
	return value, true, nil
}

// LocalStorageJSON decodes a localStorage value that holds JSON.
func (s *Session) LocalStorageJSON(key string, target interface{}) error {
	value, ok, err := s.LocalStorageItem(key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("localStorage has no %q item", key)
	}
	return json.Unmarshal([]byte(value), target)
}

func (s *Session) ClearLocalStorage() error {
	_, err := s.Page.Evaluate(`() => localStorage.clear()`)
	return err
}

// SaveStorageState writes cookies and localStorage to a file, which can be used to start another
// browsing context in the same state.
func (s *Session) SaveStorageState(path string) error {
	_, err := s.Context.StorageState(path)
	return err
}

// NewTab opens another page in the same browsing context. Closing it does not close the context.
func (s *Session) NewTab() (*Session, error) {
	page, err := s.Context.NewPage()
	if err != nil {
		return nil, err
	}
	return NewSession(page, s.Context, s.BaseURL, s.ExpectTimeout, false), nil
}

// Close closes the page, and the browsing context if this Session owns it.
func (s *Session) Close() error {
	var errs []error
	if s.Page != nil {
		errs = append(errs, s.Page.Close())
	}
	if s.ownsContext && s.Context != nil {
		errs = append(errs, s.Context.Close())
	}
	return errors.Join(errs...)
}
