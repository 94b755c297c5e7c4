package blogtests

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/blogapp/blog-e2e-harness/config"
	"github.com/blogapp/blog-e2e-harness/pages"
)

// Browser is a running browser that hands out one browsing context per session. It is shared by
// all workers; Playwright allows contexts to be created concurrently.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     config.Config
}

// LaunchBrowser starts Playwright and the configured browser.
func LaunchBrowser(cfg config.Config) (*Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start Playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch cfg.Browser {
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch %s: %w", cfg.Browser, err)
	}
	return &Browser{pw: pw, browser: browser, cfg: cfg}, nil
}

func (b *Browser) OpenSession(storageStatePath string) (*pages.Session, error) {
	opts := playwright.BrowserNewContextOptions{
		BaseURL:           playwright.String(b.cfg.UIBaseURL),
		IgnoreHttpsErrors: playwright.Bool(b.cfg.IgnoreHTTPSErrors),
		Locale:            playwright.String(b.cfg.Locale),
		TimezoneId:        playwright.String(b.cfg.TimezoneID),
		Viewport:          &playwright.Size{Width: b.cfg.ViewportWidth, Height: b.cfg.ViewportHeight},
		AcceptDownloads:   playwright.Bool(true),
	}
	if storageStatePath != "" {
		opts.StorageStatePath = playwright.String(storageStatePath)
	}

	ctx, err := b.browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("could not create browsing context: %w", err)
	}
	ctx.SetDefaultTimeout(float64(b.cfg.ActionTimeout.Milliseconds()))
	ctx.SetDefaultNavigationTimeout(float64(b.cfg.NavigationTimeout.Milliseconds()))

	page, err := ctx.NewPage()
	if err != nil {
		_ = ctx.Close()
		return nil, fmt.Errorf("could not open page: %w", err)
	}
	return pages.NewSession(page, ctx, b.cfg.UIBaseURL, b.cfg.ExpectTimeout, true), nil
}

func (b *Browser) Close() error {
	return errors.Join(b.browser.Close(), b.pw.Stop())
}
