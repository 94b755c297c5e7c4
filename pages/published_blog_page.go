package pages

import (
	"fmt"
	"strings"
	"time"
)

// BlogPath is the public route of a blog post.
func BlogPath(id int) string {
	return fmt.Sprintf("/blog/%d", id)
}

type PublishedBlogPage struct {
	basePage

	BlogTitle      Locator
	LiveStatusIcon Locator
	LiveStatusText Locator
	ViewsCount     Locator
	LikesCount     Locator
	LikeButton     Locator
	PublishedDate  Locator

	PrimaryTag Locator
	TagLabels  Locator

	ContentContainer  Locator
	ContentHeadings   Locator
	ContentParagraphs Locator

	CommentsHeading   Locator
	AuthorBadgeInfo   Locator
	CommentInput      Locator
	CharacterCount    Locator
	PostCommentButton Locator
	CommentsList      Locator
}

func NewPublishedBlogPage(s *Session) *PublishedBlogPage {
	content := CSS("div.MuiBox-root.css-1yjvs5a")
	return &PublishedBlogPage{
		basePage:       basePage{session: s},
		BlogTitle:      CSS("h1"),
		LiveStatusIcon: CSS(`[data-testid="CircleIcon"]`),
		LiveStatusText: CSS("span.MuiTypography-caption").WithText("Live"),
		ViewsCount:     CSS("p.MuiTypography-body2").WithText("views"),
		LikesCount:     CSS("p.MuiTypography-body2").WithText("likes"),
		LikeButton:     CSS("button").Having(CSS(`[data-testid="ThumbUpIcon"]`)),
		PublishedDate:  CSS("span.MuiTypography-caption.MuiTypography-gutterBottom"),

		PrimaryTag: CSS(".MuiChip-filledPrimary .MuiChip-label"),
		TagLabels:  CSS(".MuiChip-root .MuiChip-label"),

		ContentContainer:  content,
		ContentHeadings:   content.Locator("h2, h3, h4, h5, h6"),
		ContentParagraphs: content.Locator("p"),

		CommentsHeading:   Heading("Comments", 5),
		AuthorBadgeInfo:   CSS(".MuiAlert-message").WithText("Posting as Author"),
		CommentInput:      CSS(`textarea[aria-describedby*="helper-text"]`),
		CharacterCount:    CSS(`[id$="helper-text"]`),
		PostCommentButton: Role("button", "Post as Author"),
		CommentsList:      CSS("ul.MuiList-root"),
	}
}

func (p *PublishedBlogPage) Goto(id int) error {
	return p.gotoAndWait(BlogPath(id), p.waitForTitle)
}

func (p *PublishedBlogPage) WaitForPageLoad() error {
	return p.markReadyAfter(p.waitForTitle)
}

func (p *PublishedBlogPage) waitForTitle() error {
	if err := p.session.WaitForLoadState(); err != nil {
		return err
	}
	return p.session.WaitForVisible(p.BlogTitle, 10*time.Second)
}

func (p *PublishedBlogPage) Title() (string, error) {
	text, err := p.resolve(p.BlogTitle).TextContent()
	return strings.TrimSpace(text), err
}

func (p *PublishedBlogPage) AllTags() ([]string, error) {
	return p.resolve(p.TagLabels).AllTextContents()
}

// IsLiveStatusVisible is true only if both the live icon and the "Live" caption are shown.
func (p *PublishedBlogPage) IsLiveStatusVisible() (bool, error) {
	icon, err := p.resolve(p.LiveStatusIcon).IsVisible()
	if err != nil || !icon {
		return false, err
	}
	return p.resolve(p.LiveStatusText).IsVisible()
}
