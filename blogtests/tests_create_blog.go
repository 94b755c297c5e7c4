package blogtests

import (
	"regexp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/pages"
)

var (
	adminPathPattern = regexp.MustCompile(`.*/admin`)
	qlActivePattern  = regexp.MustCompile(`ql-active`)
	imageAccept      = regexp.MustCompile(`image`)
)

func DoCreateBlogPageTests(t *T) {
	t.BeforeEach(func(t *T) {
		login := t.LoginPage()
		valid := t.TestData().Login.LoginValid
		require.NoError(t, login.Goto())
		require.NoError(t, login.Login(valid.Username, valid.Password))
		require.NoError(t, t.AdminPage().WaitForPageLoad())
		require.NoError(t, t.CreateBlogPage().Goto())
	})

	t.Describe("Page Display Testing", doCreateBlogDisplayTests)
	t.Describe("Form Field Interaction Testing", doCreateBlogFieldTests)
	t.Describe("Content Editor Formatting Testing", doCreateBlogFormattingTests)
	t.Describe("Complete Form Submission Testing", doCreateBlogSubmissionTests)
	t.Describe("Image Upload Testing", doCreateBlogImageTests)
	t.Describe("Data Persistence Testing", func(t *T) {
		t.Run("should retrieve filled form values", func(t *T) {
			form := t.CreateBlogPage()
			title, excerpt, content := "Persistence Test Title", "Persistence Test Excerpt", "Persistence Test Content"
			require.NoError(t, form.FillTitle(title))
			require.NoError(t, form.FillExcerpt(excerpt))
			require.NoError(t, form.FillContent(content))

			gotTitle, err := form.TitleValue()
			require.NoError(t, err)
			gotExcerpt, err := form.ExcerptValue()
			require.NoError(t, err)
			gotContent, err := form.ContentValue()
			require.NoError(t, err)

			assert.Equal(t, title, gotTitle)
			assert.Equal(t, excerpt, gotExcerpt)
			assert.Contains(t, gotContent, content)
		})
	})
	t.Describe("Responsive Design Testing", doCreateBlogResponsiveTests)
	t.Describe("Accessibility Testing", func(t *T) {
		t.Run("should have proper ARIA labels for form fields", func(t *T) {
			form := t.CreateBlogPage()
			t.Expect(form.TitleInput).ToHaveAttribute("aria-invalid", "false")
			t.Expect(form.ExcerptInput).ToHaveAttribute("aria-invalid", "false")
		})

		t.Run("should have accessible button labels", func(t *T) {
			form := t.CreateBlogPage()
			t.Expect(form.CancelButton).ToHaveText("Cancel")
			t.Expect(form.SaveButton).ToContainText("Save")
			t.Expect(form.PublishButton).ToContainText("Publish Now")
		})
	})
}

// requireImagePath returns the test image to upload, skipping the test if there is none.
func requireImagePath(t *T) string {
	path := t.TestData().ImagePath
	if path == "" {
		t.Skip("test image not found")
	}
	return path
}

func doCreateBlogDisplayTests(t *T) {
	t.Run("should display create blog page with correct heading", func(t *T) {
		form := t.CreateBlogPage()
		t.Expect(form.CreateHeading).ToBeVisible()
		t.Expect(form.CreateHeading).ToHaveText("Create New Blog Post")
	})

	t.Run("should display all required form fields", func(t *T) {
		form := t.CreateBlogPage()
		for _, l := range []pages.Locator{form.TitleInput, form.ExcerptInput, form.ExcerptHelperText, form.Editor} {
			t.Expect(l).ToBeVisible()
		}
	})

	t.Run("should display featured image section", func(t *T) {
		form := t.CreateBlogPage()
		t.Expect(form.UploadImageButton).ToBeVisible()
		t.Expect(form.ImageHelperText).ToBeVisible()
	})

	t.Run("should display content editor section", func(t *T) {
		form := t.CreateBlogPage()
		t.Expect(form.ContentHeading).ToBeVisible()
		t.Expect(form.ContentHeading).ToHaveText("Content")
		t.Expect(form.Editor).ToBeVisible()
		t.Expect(form.EditorToolbar).ToBeVisible()
	})

	t.Run("should display all editor toolbar buttons", func(t *T) {
		form := t.CreateBlogPage()
		for _, l := range []pages.Locator{
			form.HeaderDropdown, form.BoldButton, form.ItalicButton, form.UnderlineButton,
			form.StrikeButton, form.OrderedListButton, form.BulletListButton, form.ColorPicker,
			form.BackgroundPicker, form.LinkButton, form.ImageButton, form.CleanButton,
		} {
			t.Expect(l).ToBeVisible()
		}
	})

	t.Run("should display status toggle section", func(t *T) {
		form := t.CreateBlogPage()
		t.Expect(form.StatusGroup).ToBeVisible()
		t.Expect(form.DraftButton).ToBeVisible()
		t.Expect(form.PublishedButton).ToBeVisible()
	})

	t.Run("should display all action buttons", func(t *T) {
		form := t.CreateBlogPage()
		t.Expect(form.CancelButton).ToBeVisible()
		t.Expect(form.SaveButton).ToBeVisible()
		t.Expect(form.PublishButton).ToBeVisible()
	})

	t.Run("should have save and publish buttons disabled initially", func(t *T) {
		form := t.CreateBlogPage()
		t.Expect(form.SaveButton).ToBeDisabled()
		t.Expect(form.PublishButton).ToBeDisabled()
	})
}

func doCreateBlogFieldTests(t *T) {
	t.Run("should allow entering title", func(t *T) {
		form := t.CreateBlogPage()
		require.NoError(t, form.FillTitle("Test Blog Post Title"))
		t.Expect(form.TitleInput).ToHaveValue("Test Blog Post Title")
	})

	t.Run("should allow entering excerpt", func(t *T) {
		form := t.CreateBlogPage()
		excerpt := "This is a test excerpt for the blog post."
		require.NoError(t, form.FillExcerpt(excerpt))
		t.Expect(form.ExcerptInput).ToHaveValue(excerpt)
	})

	t.Run("should allow entering content in editor", func(t *T) {
		form := t.CreateBlogPage()
		content := "This is the main content of the blog post."
		require.NoError(t, form.FillContent(content))
		text, err := form.ContentValue()
		require.NoError(t, err)
		assert.Contains(t, text, content)
	})

	t.Run("should display excerpt helper text", func(t *T) {
		t.Expect(t.CreateBlogPage().ExcerptHelperText).ToHaveText("A short summary that appears in the blog list")
	})

	t.Run("should display image upload help text", func(t *T) {
		t.Expect(t.CreateBlogPage().ImageHelperText).ToHaveText("Max 5MB. Allowed: JPG, PNG, GIF, WebP")
	})
}

func doCreateBlogFormattingTests(t *T) {
	// selectAll fills the editor and selects all of its text, so a toolbar button applies to it.
	selectAll := func(t *T, form *pages.CreateBlogPage, text string) {
		require.NoError(t, form.FillContent(text))
		require.NoError(t, t.Session().Resolve(form.EditorContent).Click())
		require.NoError(t, form.PressKey("Control+A"))
	}

	t.Run("should apply bold formatting", func(t *T) {
		form := t.CreateBlogPage()
		selectAll(t, form, "Bold text")
		require.NoError(t, form.ClickBold())
		t.Expect(form.BoldButton).ToHaveClass(qlActivePattern)
	})

	t.Run("should apply underline formatting", func(t *T) {
		form := t.CreateBlogPage()
		selectAll(t, form, "Underlined text")
		require.NoError(t, form.ClickUnderline())
		t.Expect(form.UnderlineButton).ToHaveClass(qlActivePattern)
	})

	t.Run("should create ordered list", func(t *T) {
		form := t.CreateBlogPage()
		require.NoError(t, t.Session().Resolve(form.EditorContent).Click())
		require.NoError(t, form.ClickOrderedList())
		require.NoError(t, form.TypeContent("First item"))
		t.Expect(form.OrderedListButton).ToHaveClass(qlActivePattern)
	})

	t.Run("should create bullet list", func(t *T) {
		form := t.CreateBlogPage()
		require.NoError(t, t.Session().Resolve(form.EditorContent).Click())
		require.NoError(t, form.ClickBulletList())
		require.NoError(t, form.TypeContent("First item"))
		t.Expect(form.BulletListButton).ToHaveClass(qlActivePattern)
	})

	t.Run("should toggle multiple formatting options", func(t *T) {
		form := t.CreateBlogPage()
		selectAll(t, form, "Multi-formatted text")
		require.NoError(t, form.ClickBold())
		require.NoError(t, form.ClickItalic())
		require.NoError(t, form.ClickUnderline())

		t.Expect(form.BoldButton).ToHaveClass(qlActivePattern)
		t.Expect(form.ItalicButton).ToHaveClass(qlActivePattern)
		t.Expect(form.UnderlineButton).ToHaveClass(qlActivePattern)
	})
}

// uploadImageAndWait uploads the test image and waits until the form shows its preview.
func uploadImageAndWait(t *T, form *pages.CreateBlogPage, path string) {
	require.NoError(t, form.UploadImage(path))
	require.NoError(t, form.WaitForImagePreview())
}

// verifyPostInAdmin opens the dashboard and checks that a row with this title is shown.
func verifyPostInAdmin(t *T, title string) *pages.AdminPage {
	admin := t.AdminPage()
	require.NoError(t, admin.Goto())
	t.Expect(admin.RowByTitle(title)).ToBeVisible()
	return admin
}

func doCreateBlogSubmissionTests(t *T) {
	t.Run("should create complete blog post as draft with image", func(t *T) {
		form := t.CreateBlogPage()
		imagePath := requireImagePath(t)
		title := "E2E Draft Blog Post " + uniqueSuffix()

		t.Step("fill all blog details including image", func() {
			require.NoError(t, form.FillTitle(title))
			require.NoError(t, form.FillExcerpt(
				"This is a comprehensive end-to-end test for creating a draft blog post with all features."))
			require.NoError(t, form.FillContent(
				"This is the complete content of the draft blog post. It includes detailed information about the topic."))
			uploadImageAndWait(t, form, imagePath)
			require.NoError(t, form.SelectCategory("Web Development"))
			require.NoError(t, form.SelectTags([]string{"React", "JavaScript"}))
			require.NoError(t, form.PressKey("Escape"))
			require.NoError(t, form.SelectDraftStatus())
		})

		t.Step("verify save button is enabled and save", func() {
			t.Expect(form.SaveButton).ToBeEnabled()
			require.NoError(t, form.ClickSave())
			require.NoError(t, t.Session().WaitForURL(adminPathPattern))
		})

		t.Step("verify blog appears in admin dashboard", func() {
			verifyPostInAdmin(t, title)
		})
	})

	t.Run("should create complete blog post as published with image", func(t *T) {
		form := t.CreateBlogPage()
		imagePath := requireImagePath(t)
		title := "E2E Published Blog Post " + uniqueSuffix()
		category := "Technology"

		t.Step("fill all blog details including image", func() {
			require.NoError(t, form.FillBasicBlogDetails(pages.BlogDetails{
				Title:    title,
				Excerpt:  "This is a comprehensive end-to-end test for creating and publishing a blog post with all features.",
				Content:  "This is the complete content of the published blog post. It includes detailed information, formatting, and media.",
				Category: category,
				Tags:     []string{"Node.js"},
			}))
			uploadImageAndWait(t, form, imagePath)
			require.NoError(t, form.SelectPublishedStatus())
		})

		t.Step("verify publish button is enabled and publish", func() {
			t.Expect(form.PublishButton).ToBeEnabled()
			require.NoError(t, form.ClickPublish())
			require.NoError(t, t.Session().WaitForURL(adminPathPattern))
		})

		var admin *pages.AdminPage
		t.Step("verify blog appears in admin dashboard as published", func() {
			admin = verifyPostInAdmin(t, title)
			status, err := admin.StatusOf(title)
			require.NoError(t, err)
			assert.Contains(t, status, "published")
		})

		t.Step("verify blog is accessible on published page", func() {
			require.NoError(t, admin.ViewBlogPost(title))
			published := t.PublishedBlogPage()
			require.NoError(t, published.WaitForPageLoad())

			displayed, err := published.Title()
			require.NoError(t, err)
			assert.Contains(t, displayed, title)

			live, err := published.IsLiveStatusVisible()
			require.NoError(t, err)
			assert.True(t, live, "post is not shown as live")

			tags, err := published.AllTags()
			require.NoError(t, err)
			assert.Contains(t, tags, category)
		})
	})

	t.Run("should create blog with formatted content and image", func(t *T) {
		form := t.CreateBlogPage()
		imagePath := requireImagePath(t)
		title := "E2E Formatted Blog " + uniqueSuffix()

		t.Step("create blog with formatted content", func() {
			require.NoError(t, form.FillTitle(title))
			require.NoError(t, form.FillExcerpt("Blog post with rich formatting and media."))

			require.NoError(t, form.TypeContent(""))
			require.NoError(t, form.SelectHeaderLevel(1))
			require.NoError(t, t.Session().TypeText("Main Heading"))
			require.NoError(t, form.PressKey("Enter"))
			require.NoError(t, t.Session().TypeText("This is a paragraph with "))
			require.NoError(t, form.ClickBold())
			require.NoError(t, t.Session().TypeText("bold"))
			require.NoError(t, form.ClickBold())
			require.NoError(t, t.Session().TypeText(" and "))
			require.NoError(t, form.ClickItalic())
			require.NoError(t, t.Session().TypeText("italic"))
			require.NoError(t, form.ClickItalic())
			require.NoError(t, t.Session().TypeText(" text."))

			uploadImageAndWait(t, form, imagePath)
			require.NoError(t, form.SelectCategory("Programming"))
			require.NoError(t, form.SelectTags([]string{"TypeScript"}))
			require.NoError(t, form.PressKey("Escape"))
			require.NoError(t, form.SelectPublishedStatus())
		})

		t.Step("publish the formatted blog", func() {
			t.Expect(form.PublishButton).ToBeEnabled()
			require.NoError(t, form.ClickPublish())
			require.NoError(t, t.Session().WaitForURL(adminPathPattern))
		})

		t.Step("verify formatted blog appears in admin", func() {
			verifyPostInAdmin(t, title)
		})
	})

	t.Run("should handle cancel action and return to admin", func(t *T) {
		form := t.CreateBlogPage()
		t.Step("fill some blog details", func() {
			require.NoError(t, form.FillTitle("Test Title to Cancel"))
			require.NoError(t, form.FillExcerpt("Test excerpt to cancel"))
			require.NoError(t, form.FillContent("Test content to cancel"))
		})

		t.Step("click cancel and verify navigation", func() {
			require.NoError(t, form.ClickCancel())
			require.NoError(t, t.Session().WaitForURL(adminPathPattern))
			t.ExpectPage().ToHaveURL(adminPathPattern)
		})
	})

	t.Run("should enable save button only when required fields are filled", func(t *T) {
		form := t.CreateBlogPage()
		t.Step("verify buttons disabled initially", func() {
			t.Expect(form.SaveButton).ToBeDisabled()
			t.Expect(form.PublishButton).ToBeDisabled()
		})

		t.Step("fill only title - buttons still disabled", func() {
			require.NoError(t, form.FillTitle("Test Title Only"))
			t.Expect(form.SaveButton).ToBeDisabled()
		})

		t.Step("fill title and excerpt - buttons still disabled", func() {
			require.NoError(t, form.FillExcerpt("Test Excerpt"))
			t.Expect(form.SaveButton).ToBeDisabled()
		})

		t.Step("fill all required fields - buttons enabled", func() {
			require.NoError(t, form.FillContent("Test Content"))
			require.NoError(t, form.SelectCategory("Technology"))
			t.Expect(form.SaveButton).ToBeEnabled()
			t.Expect(form.PublishButton).ToBeEnabled()
		})
	})
}

func doCreateBlogImageTests(t *T) {
	t.Run("should display upload image button", func(t *T) {
		form := t.CreateBlogPage()
		t.Expect(form.UploadImageButton).ToBeVisible()
		t.Expect(form.UploadImageButton).ToContainText("Upload Image")
	})

	t.Run("should have file input with correct accept attribute", func(t *T) {
		t.Expect(t.CreateBlogPage().ImageInput).ToHaveAttribute("accept", imageAccept)
	})

	t.Run("should upload an image file", func(t *T) {
		form := t.CreateBlogPage()
		imagePath := requireImagePath(t)
		t.Step("upload featured image", func() {
			require.NoError(t, form.UploadImage(imagePath))
		})
		t.Step("verify image is uploaded", func() {
			require.NoError(t, form.WaitForImagePreview())
			t.Expect(form.ImagePreview).ToBeVisible()
		})
	})
}

func doCreateBlogResponsiveTests(t *T) {
	t.Run("should display correctly on mobile viewport", func(t *T) {
		form := t.CreateBlogPage()
		require.NoError(t, t.Session().SetViewport(375, 667))
		t.Expect(form.CreateHeading).ToBeVisible()
		t.Expect(form.TitleInput).ToBeVisible()
		t.Expect(form.Editor).ToBeVisible()
	})

	t.Run("should display correctly on tablet viewport", func(t *T) {
		form := t.CreateBlogPage()
		require.NoError(t, t.Session().SetViewport(768, 1024))
		t.Expect(form.CreateHeading).ToBeVisible()
		t.Expect(form.TitleInput).ToBeVisible()
		t.Expect(form.EditorToolbar).ToBeVisible()
	})

	t.Run("should display correctly on desktop viewport", func(t *T) {
		form := t.CreateBlogPage()
		require.NoError(t, t.Session().SetViewport(1920, 1080))
		t.Expect(form.CreateHeading).ToBeVisible()
		t.Expect(form.Editor).ToBeVisible()
		t.Expect(form.EditorToolbar).ToBeVisible()
	})
}
