package pages

import "github.com/playwright-community/playwright-go"

// PageState tracks where a page object is in its lifecycle. Nothing enforces it; it is there so
// that tests and debug output can tell whether a page was ever loaded.
type PageState int

const (
	Unbound PageState = iota
	Loading
	Ready
)

func (s PageState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unbound"
	}
}

// basePage is embedded in every page object.
type basePage struct {
	session *Session
	state   PageState
}

func (b *basePage) Session() *Session {
	return b.session
}

func (b *basePage) State() PageState {
	return b.state
}

func (b *basePage) resolve(l Locator) playwright.Locator {
	return b.session.Resolve(l)
}

// gotoAndWait navigates to path and then runs waitForReady.
func (b *basePage) gotoAndWait(path string, waitForReady func() error) error {
	b.state = Loading
	if err := b.session.Goto(path); err != nil {
		return err
	}
	return b.markReadyAfter(waitForReady)
}

func (b *basePage) markReadyAfter(waitForReady func() error) error {
	if b.state == Unbound {
		b.state = Loading
	}
	if err := waitForReady(); err != nil {
		return err
	}
	b.state = Ready
	return nil
}
