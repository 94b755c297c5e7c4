package pages

import (
	"fmt"
	"regexp"
	"time"
)

const (
	CreateBlogPath = "/admin/blog/new"

	imageUploadTimeout = 10 * time.Second
)

// EditBlogPath is the route of the edit form for a blog.
func EditBlogPath(id int) string {
	return fmt.Sprintf("/admin/blog/%d/edit", id)
}

// BlogDetails is what FillBasicBlogDetails enters into the form.
type BlogDetails struct {
	Title    string
	Excerpt  string
	Content  string
	Category string
	Tags     []string
}

// CreateBlogPage is the form used both to create and to edit a blog post.
type CreateBlogPage struct {
	basePage

	CreateHeading Locator
	EditHeading   Locator

	TitleInput        Locator
	ExcerptInput      Locator
	ExcerptHelperText Locator

	UploadImageButton Locator
	ImageInput        Locator
	ImageHelperText   Locator
	ImagePreview      Locator

	ContentHeading Locator
	Editor         Locator
	EditorToolbar  Locator
	EditorContent  Locator

	HeaderDropdown    Locator
	BoldButton        Locator
	ItalicButton      Locator
	UnderlineButton   Locator
	StrikeButton      Locator
	OrderedListButton Locator
	BulletListButton  Locator
	ColorPicker       Locator
	BackgroundPicker  Locator
	LinkButton        Locator
	ImageButton       Locator
	CleanButton       Locator

	CategoryDropdown Locator
	TagsDropdown     Locator

	StatusGroup     Locator
	DraftButton     Locator
	PublishedButton Locator

	CancelButton  Locator
	SaveButton    Locator
	PublishButton Locator
}

func NewCreateBlogPage(s *Session) *CreateBlogPage {
	toolbarButton := func(class string) Locator {
		return CSS("button." + class)
	}
	statusGroup := Role("group", "blog status")
	return &CreateBlogPage{
		basePage:      basePage{session: s},
		CreateHeading: Heading("Create New Blog Post", 1),
		EditHeading:   Heading("Edit Blog Post", 1),

		TitleInput:        LabelMatching(regexp.MustCompile(`(?i)^title`)),
		ExcerptInput:      LabelMatching(regexp.MustCompile(`(?i)^excerpt`)),
		ExcerptHelperText: Text("A short summary that appears in the blog list"),

		UploadImageButton: Role("button", "Upload Image"),
		ImageInput:        CSS(`input[type="file"][accept*="image"]`),
		ImageHelperText:   Text("Max 5MB. Allowed: JPG, PNG, GIF, WebP"),
		ImagePreview:      CSS("img").First(),

		ContentHeading: Heading("Content", 6),
		Editor:         CSS(".quill"),
		EditorToolbar:  CSS(".ql-toolbar"),
		EditorContent:  CSS(".ql-editor"),

		HeaderDropdown:    CSS(".ql-header").First(),
		BoldButton:        toolbarButton("ql-bold"),
		ItalicButton:      toolbarButton("ql-italic"),
		UnderlineButton:   toolbarButton("ql-underline"),
		StrikeButton:      toolbarButton("ql-strike"),
		OrderedListButton: CSS(`button.ql-list[value="ordered"]`),
		BulletListButton:  CSS(`button.ql-list[value="bullet"]`),
		ColorPicker:       CSS(".ql-color").First(),
		BackgroundPicker:  CSS(".ql-background").First(),
		LinkButton:        toolbarButton("ql-link"),
		ImageButton:       toolbarButton("ql-image"),
		CleanButton:       toolbarButton("ql-clean"),

		CategoryDropdown: XPath(`//label[text()='Category']//following-sibling::div/div`),
		TagsDropdown:     XPath(`//label[text()='Tags']//following-sibling::div/div`),

		StatusGroup:     statusGroup,
		DraftButton:     statusGroup.Locator(`button[value="draft"]`),
		PublishedButton: statusGroup.Locator(`button[value="published"]`),

		CancelButton:  Role("button", "Cancel"),
		SaveButton:    Role("button", "Save"),
		PublishButton: Role("button", "Publish Now"),
	}
}

func (p *CreateBlogPage) Goto() error {
	return p.gotoAndWait(CreateBlogPath, p.waitForForm(p.CreateHeading))
}

func (p *CreateBlogPage) GotoEdit(id int) error {
	return p.gotoAndWait(EditBlogPath(id), p.waitForForm(p.EditHeading))
}

// WaitForPageLoad waits for the form to appear, in either create or edit mode.
func (p *CreateBlogPage) WaitForPageLoad() error {
	return p.markReadyAfter(p.waitForForm(p.TitleInput))
}

func (p *CreateBlogPage) waitForForm(marker Locator) func() error {
	return func() error {
		if err := p.session.WaitForLoadState(); err != nil {
			return err
		}
		return p.session.WaitForVisible(marker, 10*time.Second)
	}
}

func (p *CreateBlogPage) FillTitle(title string) error {
	return p.resolve(p.TitleInput).Fill(title)
}

func (p *CreateBlogPage) FillExcerpt(excerpt string) error {
	return p.resolve(p.ExcerptInput).Fill(excerpt)
}

// FillContent replaces the editor content.
func (p *CreateBlogPage) FillContent(content string) error {
	editor := p.resolve(p.EditorContent)
	if err := editor.Click(); err != nil {
		return err
	}
	return editor.Fill(content)
}

// TypeContent types into the editor with the keyboard, so that active formatting applies.
func (p *CreateBlogPage) TypeContent(content string) error {
	if err := p.resolve(p.EditorContent).Click(); err != nil {
		return err
	}
	return p.session.TypeText(content)
}

func (p *CreateBlogPage) UploadImage(path string) error {
	return p.resolve(p.ImageInput).SetInputFiles(path)
}

// WaitForImagePreview waits for the uploaded image to be shown.
func (p *CreateBlogPage) WaitForImagePreview() error {
	return p.session.WaitForVisible(p.ImagePreview, imageUploadTimeout)
}

func (p *CreateBlogPage) ClickBold() error        { return p.resolve(p.BoldButton).Click() }
func (p *CreateBlogPage) ClickItalic() error      { return p.resolve(p.ItalicButton).Click() }
func (p *CreateBlogPage) ClickUnderline() error   { return p.resolve(p.UnderlineButton).Click() }
func (p *CreateBlogPage) ClickStrike() error      { return p.resolve(p.StrikeButton).Click() }
func (p *CreateBlogPage) ClickOrderedList() error { return p.resolve(p.OrderedListButton).Click() }
func (p *CreateBlogPage) ClickBulletList() error  { return p.resolve(p.BulletListButton).Click() }
func (p *CreateBlogPage) ClickLink() error        { return p.resolve(p.LinkButton).Click() }
func (p *CreateBlogPage) ClickImage() error       { return p.resolve(p.ImageButton).Click() }
func (p *CreateBlogPage) ClickClean() error       { return p.resolve(p.CleanButton).Click() }

// SelectHeaderLevel picks a heading level from the toolbar. Level 0 means normal text.
func (p *CreateBlogPage) SelectHeaderLevel(level int) error {
	if err := p.resolve(p.HeaderDropdown).Click(); err != nil {
		return err
	}
	value := ""
	if level > 0 {
		value = fmt.Sprint(level)
	}
	return p.resolve(CSS(fmt.Sprintf(`.ql-picker-item[data-value="%s"]`, value)).First()).Click()
}

// SelectCategory opens the category dropdown and picks an option.
func (p *CreateBlogPage) SelectCategory(category string) error {
	if err := p.resolve(p.CategoryDropdown).Click(); err != nil {
		return err
	}
	return p.resolve(Role("option", category)).Click()
}

// SelectTags opens the tags dropdown and picks each of the tags. The dropdown stays open, so
// callers usually press Escape afterwards.
func (p *CreateBlogPage) SelectTags(tags []string) error {
	if err := p.resolve(p.TagsDropdown).Click(); err != nil {
		return err
	}
	for _, tag := range tags {
		if err := p.resolve(Role("option", tag)).Click(); err != nil {
			return err
		}
	}
	return nil
}

func (p *CreateBlogPage) PressKey(key string) error {
	return p.session.PressKey(key)
}

func (p *CreateBlogPage) SelectDraftStatus() error {
	return p.resolve(p.DraftButton).Click()
}

func (p *CreateBlogPage) SelectPublishedStatus() error {
	return p.resolve(p.PublishedButton).Click()
}

func (p *CreateBlogPage) ClickCancel() error {
	return p.resolve(p.CancelButton).Click()
}

func (p *CreateBlogPage) ClickSave() error {
	return p.resolve(p.SaveButton).Click()
}

func (p *CreateBlogPage) ClickPublish() error {
	return p.resolve(p.PublishButton).Click()
}

// FillBasicBlogDetails fills title, excerpt, content and category in that order. If there are
// tags it then selects them and presses Escape to close the tags dropdown.
func (p *CreateBlogPage) FillBasicBlogDetails(d BlogDetails) error {
	steps := []func() error{
		func() error { return p.FillTitle(d.Title) },
		func() error { return p.FillExcerpt(d.Excerpt) },
		func() error { return p.FillContent(d.Content) },
		func() error { return p.SelectCategory(d.Category) },
	}
	if len(d.Tags) > 0 {
		steps = append(steps,
			func() error { return p.SelectTags(d.Tags) },
			func() error { return p.PressKey("Escape") },
		)
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (p *CreateBlogPage) TitleValue() (string, error) {
	return p.resolve(p.TitleInput).InputValue()
}

func (p *CreateBlogPage) ExcerptValue() (string, error) {
	return p.resolve(p.ExcerptInput).InputValue()
}

// ContentValue returns the editor's text, without markup.
func (p *CreateBlogPage) ContentValue() (string, error) {
	return p.resolve(p.EditorContent).TextContent()
}
