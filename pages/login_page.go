package pages

import "time"

const LoginPath = "/login"

type LoginPage struct {
	basePage

	AdminHeading   Locator
	ErrorMessage   Locator
	LoginTab       Locator
	RegisterTab    Locator
	UsernameInput  Locator
	PasswordInput  Locator
	LoginButton    Locator
	RegisterButton Locator
}

func NewLoginPage(s *Session) *LoginPage {
	return &LoginPage{
		basePage:       basePage{session: s},
		AdminHeading:   CSS("h1"),
		ErrorMessage:   Role("alert", ""),
		LoginTab:       Role("tab", "Login"),
		RegisterTab:    Role("tab", "Register"),
		UsernameInput:  Label("Username"),
		PasswordInput:  Label("Password"),
		LoginButton:    Role("button", "Login").Exact(),
		RegisterButton: Role("button", "Register").Exact(),
	}
}

func (p *LoginPage) Goto() error {
	return p.gotoAndWait(LoginPath, p.waitForForm)
}

// WaitForPageLoad waits for the login form, for when the page was reached by a link.
func (p *LoginPage) WaitForPageLoad() error {
	return p.markReadyAfter(p.waitForForm)
}

func (p *LoginPage) waitForForm() error {
	if err := p.session.WaitForLoadState(); err != nil {
		return err
	}
	return p.session.WaitForVisible(p.LoginTab, 10*time.Second)
}

// Login opens the Login tab, fills in both fields, and submits.
func (p *LoginPage) Login(username, password string) error {
	return p.submit(p.LoginTab, p.LoginButton, username, password)
}

// Register opens the Register tab, fills in both fields, and submits.
func (p *LoginPage) Register(username, password string) error {
	return p.submit(p.RegisterTab, p.RegisterButton, username, password)
}

func (p *LoginPage) submit(tab, button Locator, username, password string) error {
	if err := p.resolve(tab).Click(); err != nil {
		return err
	}
	if err := p.resolve(p.UsernameInput).Fill(username); err != nil {
		return err
	}
	if err := p.resolve(p.PasswordInput).Fill(password); err != nil {
		return err
	}
	return p.resolve(button).Click()
}
