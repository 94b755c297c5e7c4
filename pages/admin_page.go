package pages

import (
	"fmt"
	"strings"
	"time"
)

const AdminPath = "/admin"

const tableBodyXPath = `//tbody[contains(@class,"MuiTableBody-root")]`

// AdminColumns are the headers of the blog post table, in order.
var AdminColumns = []string{"Title", "Category", "Status", "Views", "Likes", "Comments", "Created", "Actions"}

type AdminPage struct {
	basePage

	AdminHeading      Locator
	NewBlogPostButton Locator

	TitleHeader    Locator
	CategoryHeader Locator
	StatusHeader   Locator
	ViewsHeader    Locator
	LikesHeader    Locator
	CommentsHeader Locator
	CreatedHeader  Locator
	ActionsHeader  Locator

	TableBody     Locator
	TableRows     Locator
	TitleCells    Locator
	CategoryChips Locator
	StatusChips   Locator
	ViewsCells    Locator
	LikesCells    Locator
	CommentsCells Locator
	CreatedCells  Locator

	ViewButtons   Locator
	EditButtons   Locator
	DeleteButtons Locator

	PreviousPageButton Locator
	NextPageButton     Locator
	FirstPageButton    Locator
	CurrentPageButton  Locator

	DeleteModal         Locator
	DeleteModalTitle    Locator
	DeleteModalMessage  Locator
	CancelDeleteButton  Locator
	ConfirmDeleteButton Locator
}

func NewAdminPage(s *Session) *AdminPage {
	cell := func(n int) Locator {
		return XPath(fmt.Sprintf("%s//tr/td[%d]", tableBodyXPath, n))
	}
	chip := func(n int) Locator {
		return XPath(fmt.Sprintf(`%s//tr/td[%d]//span[contains(@class,"MuiChip-label")]`, tableBodyXPath, n))
	}
	header := func(name string) Locator {
		return XPath(fmt.Sprintf(`//th[text()="%s"]`, name))
	}
	return &AdminPage{
		basePage:          basePage{session: s},
		AdminHeading:      CSS("h1"),
		NewBlogPostButton: Role("button", "New Blog Post"),

		TitleHeader:    header("Title"),
		CategoryHeader: header("Category"),
		StatusHeader:   header("Status"),
		ViewsHeader:    header("Views"),
		LikesHeader:    header("Likes"),
		CommentsHeader: header("Comments"),
		CreatedHeader:  header("Created"),
		ActionsHeader:  header("Actions"),

		TableBody:     XPath(tableBodyXPath),
		TableRows:     XPath(tableBodyXPath + "//tr"),
		TitleCells:    cell(1),
		CategoryChips: chip(2),
		StatusChips:   chip(3),
		ViewsCells:    cell(4),
		LikesCells:    cell(5),
		CommentsCells: cell(6),
		CreatedCells:  cell(7),

		ViewButtons:   XPath(`//button[@title="View"]`),
		EditButtons:   XPath(`//button[@title="Edit"]`),
		DeleteButtons: XPath(`//button[@title="Delete"]`),

		PreviousPageButton: XPath(`//button[@aria-label="Go to previous page"]`),
		NextPageButton:     XPath(`//button[@aria-label="Go to next page"]`),
		FirstPageButton:    XPath(`//button[@aria-label="page 1"]`),
		CurrentPageButton:  XPath(`//button[@aria-current="true"]`),

		DeleteModal:         XPath(`//div[@role="dialog"]`),
		DeleteModalTitle:    XPath(`//h2[text()="Delete Blog Post"]`),
		DeleteModalMessage:  XPath(`//div[@role="dialog"]//div[contains(@class,"MuiDialogContent-root")]`),
		CancelDeleteButton:  Role("button", "Cancel"),
		ConfirmDeleteButton: TestID("confirm-delete-button"),
	}
}

func (p *AdminPage) Goto() error {
	return p.gotoAndWait(AdminPath, p.waitForHeading)
}

// WaitForPageLoad waits for the dashboard heading, for when the page was reached by logging in or
// by another in-app navigation.
func (p *AdminPage) WaitForPageLoad() error {
	return p.markReadyAfter(p.waitForHeading)
}

func (p *AdminPage) waitForHeading() error {
	if err := p.session.WaitForLoadState(); err != nil {
		return err
	}
	return p.session.WaitForVisible(p.AdminHeading, 10*time.Second)
}

// RowByTitle is the table row whose title cell is exactly title.
func (p *AdminPage) RowByTitle(title string) Locator {
	return p.TableRows.Having(CSS("td").Within(Text(title).Exact()))
}

func (p *AdminPage) ViewButtonForPost(title string) Locator {
	return p.RowByTitle(title).Locator(`button[title="View"]`)
}

func (p *AdminPage) EditButtonForPost(title string) Locator {
	return p.RowByTitle(title).Locator(`button[title="Edit"]`)
}

func (p *AdminPage) DeleteButtonForPost(title string) Locator {
	return p.RowByTitle(title).Locator(`button[title="Delete"]`)
}

// PageButton is the pagination button for page n.
func (p *AdminPage) PageButton(n int) Locator {
	return XPath(fmt.Sprintf(`//button[@aria-label="Go to page %d"]`, n))
}

func (p *AdminPage) ClickNewBlogPost() error {
	return p.resolve(p.NewBlogPostButton).Click()
}

func (p *AdminPage) ViewBlogPost(title string) error {
	return p.resolve(p.ViewButtonForPost(title)).Click()
}

func (p *AdminPage) EditBlogPost(title string) error {
	return p.resolve(p.EditButtonForPost(title)).Click()
}

func (p *AdminPage) DeleteBlogPost(title string) error {
	return p.resolve(p.DeleteButtonForPost(title)).Click()
}

func (p *AdminPage) ConfirmDelete() error {
	return p.resolve(p.ConfirmDeleteButton).Click()
}

func (p *AdminPage) CancelDelete() error {
	return p.resolve(p.CancelDeleteButton).Click()
}

// VerifyDeleteModalHiddenAfterConfirm confirms the deletion and waits, up to the expect timeout,
// for the dialog to go away. If it stays open, the error says so and carries the assertion's
// own message.
func (p *AdminPage) VerifyDeleteModalHiddenAfterConfirm() (bool, error) {
	if err := p.ConfirmDelete(); err != nil {
		return false, err
	}
	if err := p.session.Expect().Locator(p.resolve(p.DeleteModal)).ToBeHidden(); err != nil {
		return false, fmt.Errorf("delete dialog was still open after confirming: %w", err)
	}
	return true, nil
}

// VerifyBlogPostExists reports whether a row with this exact title is currently visible.
func (p *AdminPage) VerifyBlogPostExists(title string) (bool, error) {
	return p.resolve(p.RowByTitle(title)).IsVisible()
}

// BlogPostCount waits for the page to load and then counts the rows on the current page.
func (p *AdminPage) BlogPostCount() (int, error) {
	if err := p.WaitForPageLoad(); err != nil {
		return 0, err
	}
	return p.resolve(p.TableRows).Count()
}

func (p *AdminPage) PostTitles() ([]string, error) {
	return p.allTexts(p.TitleCells)
}

func (p *AdminPage) Statuses() ([]string, error) {
	return p.allTexts(p.StatusChips)
}

func (p *AdminPage) Categories() ([]string, error) {
	return p.allTexts(p.CategoryChips)
}

func (p *AdminPage) allTexts(l Locator) ([]string, error) {
	texts, err := p.resolve(l).AllTextContents()
	if err != nil {
		return nil, err
	}
	for i := range texts {
		texts[i] = strings.TrimSpace(texts[i])
	}
	return texts, nil
}

// StatusOf returns the status chip text of the row with this title.
func (p *AdminPage) StatusOf(title string) (string, error) {
	return p.resolve(p.RowByTitle(title).Locator(`td:nth-child(3) .MuiChip-label`)).TextContent()
}

func (p *AdminPage) CategoryOf(title string) (string, error) {
	return p.resolve(p.RowByTitle(title).Locator(`td:nth-child(2) .MuiChip-label`)).TextContent()
}

func (p *AdminPage) GoToNextPage() error {
	return p.resolve(p.NextPageButton).Click()
}

func (p *AdminPage) GoToPreviousPage() error {
	return p.resolve(p.PreviousPageButton).Click()
}

func (p *AdminPage) GoToPage(n int) error {
	return p.resolve(p.PageButton(n)).Click()
}

// CurrentPage returns the label of the highlighted pagination button.
func (p *AdminPage) CurrentPage() (string, error) {
	text, err := p.resolve(p.CurrentPageButton).TextContent()
	return strings.TrimSpace(text), err
}
