package blogtests

import (
	"errors"
	"net/http"

	"github.com/blogapp/blog-e2e-harness/config"
	"github.com/blogapp/blog-e2e-harness/datafile"
	"github.com/blogapp/blog-e2e-harness/pages"
	"github.com/blogapp/blog-e2e-harness/servicedef"
)

const (
	loginDataFile = "login.json"
	blogPostsFile = "blogPosts.json"
	imageFile     = "image.png"
)

// SessionOpener creates browser sessions. The returned Session owns its browsing context.
type SessionOpener interface {
	// OpenSession opens a new browsing context with one page. If storageStatePath is not empty,
	// the context starts with the cookies and localStorage saved in that file.
	OpenSession(storageStatePath string) (*pages.Session, error)
}

var errNoBrowser = errors.New("no browser is available in this run (use -suites ui or -suites all)")

// Environment is everything that the tests in a run share. None of it is mutated by tests.
type Environment struct {
	Config config.Config

	// Sessions is nil when the run has no browser, in which case UI fixtures skip the test.
	Sessions SessionOpener

	Data       TestData
	HTTPClient *http.Client
}

// LoginData is the content of login.json.
type LoginData struct {
	LoginValid      servicedef.Credentials `json:"loginValid"`
	LoginInvalid    servicedef.Credentials `json:"loginInvalid"`
	RegisterInvalid servicedef.Credentials `json:"registerInvalid"`
}

// BlogPostRecord is one expected row of the admin table, from blogPosts.json.
type BlogPostRecord struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

type TestData struct {
	Login     LoginData
	BlogPosts []BlogPostRecord

	// ImagePath is empty if the data directory has no image.png.
	ImagePath string
}

// LoadTestData reads the JSON fixtures from the configured data directory.
func LoadTestData(cfg config.Config) (TestData, error) {
	var data TestData
	login, err := datafile.ReadJSONFile[LoginData](cfg.DataFile(loginDataFile))
	if err != nil {
		return data, err
	}
	data.Login = login

	posts, err := datafile.ReadJSONKey[[]BlogPostRecord](cfg.DataFile(blogPostsFile), "blogPosts")
	if err != nil {
		return data, err
	}
	data.BlogPosts = posts

	if path := cfg.DataFile(imageFile); datafile.FileExists(path) {
		data.ImagePath = path
	}
	return data, nil
}
