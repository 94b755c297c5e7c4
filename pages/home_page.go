package pages

import (
	"fmt"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	HomePath = "/"

	ThemeModeKey = "themeMode"
	ReadBlogsKey = "readBlogs"
)

type HomePage struct {
	basePage

	AdminLoginLink   Locator
	BlogAppLink      Locator
	HomeLink         Locator
	DashboardLink    Locator
	DarkModeButton   Locator
	LogoutButton     Locator
	MainHeading      Locator
	CategoryDropdown Locator
	SearchBox        Locator
	BlogCards        Locator
	ReadBadge        Locator
}

func NewHomePage(s *Session) *HomePage {
	return &HomePage{
		basePage:         basePage{session: s},
		AdminLoginLink:   Role("link", "Admin Login"),
		BlogAppLink:      Role("link", "Blog App"),
		HomeLink:         Role("link", "Home"),
		DashboardLink:    Role("link", "Dashboard"),
		DarkModeButton:   RoleMatching("button", regexp.MustCompile(`(?i)switch to`)),
		LogoutButton:     Role("button", "Logout"),
		MainHeading:      CSS("h1"),
		CategoryDropdown: Role("combobox", "Category"),
		SearchBox:        Placeholder("Search blogs..."),
		BlogCards:        CSS(".MuiCard-root"),
		ReadBadge:        CSS(`.MuiChip-colorSuccess:has-text("Read")`),
	}
}

func (p *HomePage) Goto() error {
	return p.gotoAndWait(HomePath, p.session.WaitForLoadState)
}

func (p *HomePage) WaitForPageLoad() error {
	return p.markReadyAfter(p.session.WaitForLoadState)
}

// WaitForBlogCardsToLoad waits for the first blog card to be visible.
func (p *HomePage) WaitForBlogCardsToLoad() error {
	return p.session.WaitForVisible(p.BlogCards, 10*time.Second)
}

func (p *HomePage) BlogCardByIndex(i int) Locator {
	return p.BlogCards.Nth(i)
}

func (p *HomePage) BlogCardTitle(i int) Locator {
	return p.BlogCardByIndex(i).Locator("h2.MuiTypography-h5")
}

func (p *HomePage) ReadMoreButton(i int) Locator {
	return p.BlogCardByIndex(i).Within(Role("button", "Read More"))
}

func (p *HomePage) ReadBadgeOnCard(i int) Locator {
	return p.BlogCardByIndex(i).Locator(`.MuiChip-colorSuccess:has-text("Read")`)
}

func (p *HomePage) ClickAdminLogin() error {
	return p.resolve(p.AdminLoginLink).Click()
}

func (p *HomePage) ClickReadMore(i int) error {
	return p.resolve(p.ReadMoreButton(i)).Click()
}

func (p *HomePage) ToggleDarkMode() error {
	return p.resolve(p.DarkModeButton).Click()
}

// DarkModeButtonTitle returns the title of the theme toggle, which says which mode it switches to.
func (p *HomePage) DarkModeButtonTitle() (string, error) {
	return p.resolve(p.DarkModeButton).GetAttribute("title")
}

func (p *HomePage) Logout() error {
	return p.resolve(p.LogoutButton).Click()
}

func (p *HomePage) Search(query string) error {
	return p.resolve(p.SearchBox).Fill(query)
}

func (p *HomePage) SelectCategory(category string) error {
	_, err := p.resolve(p.CategoryDropdown).SelectOption(playwright.SelectOptionValues{
		Values: &[]string{category},
	})
	return err
}

// ReadBlogsFromStorage returns the IDs of the blogs marked as read. Any problem reading or parsing
// the stored value gives an empty list.
func (p *HomePage) ReadBlogsFromStorage() []string {
	var ids []interface{}
	if err := p.session.LocalStorageJSON(ReadBlogsKey, &ids); err != nil {
		return []string{}
	}
	ret := make([]string, 0, len(ids))
	for _, id := range ids {
		ret = append(ret, fmt.Sprint(id))
	}
	return ret
}

// WaitForReadBlogCount waits until at least n blogs are recorded as read.
func (p *HomePage) WaitForReadBlogCount(n int) error {
	_, err := p.session.Page.WaitForFunction(`n => {
		try {
			return JSON.parse(localStorage.getItem('readBlogs') || '[]').length >= n;
		} catch (e) {
			return false;
		}
	}`, n)
	return err
}

// ThemeMode returns the stored theme, or "" if none has been stored.
func (p *HomePage) ThemeMode() (string, error) {
	value, _, err := p.session.LocalStorageItem(ThemeModeKey)
	return value, err
}
