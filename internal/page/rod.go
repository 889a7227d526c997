package page

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"jobfill/internal/config"
	"jobfill/internal/logging"
	"jobfill/pkg/utils"
)

// RodLoader renders pages in a headless browser so script-built application
// forms exist in the snapshot. The browser launches lazily on first use and
// is shared across requests.
type RodLoader struct {
	config   *config.Config
	launcher *launcher.Launcher
	browser  *rod.Browser
	solver   CaptchaSolver
	logger   logging.Logger
	mu       sync.Mutex
}

// NewRodLoader creates a new headless browser loader instance
func NewRodLoader(cfg *config.Config) *RodLoader {
	l := launcher.New().
		Headless(cfg.Loader.HeadlessMode).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")

	if cfg.Loader.UserAgent != "" {
		l = l.Set("user-agent", cfg.Loader.UserAgent)
	}

	return &RodLoader{
		config:   cfg,
		launcher: l,
		solver:   NewTwoCaptchaSolver(cfg),
		logger:   logging.GetGlobalLogger(),
	}
}

// LoadPage navigates to the URL in a stealth page and returns the rendered
// HTML once the load event fires.
func (r *RodLoader) LoadPage(ctx context.Context, url string) (*LoadedPage, error) {
	browser, err := r.getBrowser()
	if err != nil {
		return nil, utils.NewPageLoadError(fmt.Sprintf("browser unavailable: %v", err))
	}

	page, err := r.newPage(browser)
	if err != nil {
		return nil, utils.NewPageLoadError(fmt.Sprintf("failed to open page: %v", err))
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(r.config.Loader.RequestTimeout)

	if err := page.Navigate(url); err != nil {
		return nil, utils.NewPageLoadError(fmt.Sprintf("navigation to %s failed: %v", url, err))
	}
	if err := page.WaitLoad(); err != nil {
		return nil, utils.NewPageLoadError(fmt.Sprintf("load wait for %s failed: %v", url, err))
	}

	// Give client-side routers a moment to render the application form.
	time.Sleep(500 * time.Millisecond)

	if r.config.Loader.Captcha.EnableAutoSolve {
		if err := r.solveCaptchaIfPresent(ctx, page, url); err != nil {
			r.logger.Warn("Captcha solving failed, continuing with current page state", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, utils.NewPageLoadError(fmt.Sprintf("failed to read page HTML: %v", err))
	}

	var title string
	if info, err := page.Info(); err == nil {
		title = info.Title
	}

	r.logger.Debug("Page rendered in headless browser", map[string]interface{}{
		"url":         url,
		"html_length": len(html),
	})
	return &LoadedPage{HTML: html, URL: url, Title: title}, nil
}

func (r *RodLoader) getBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	controlURL, err := r.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	r.browser = browser
	r.logger.Info("Headless browser started", nil)
	return browser, nil
}

func (r *RodLoader) newPage(browser *rod.Browser) (*rod.Page, error) {
	if r.config.Loader.StealthMode {
		return stealth.Page(browser)
	}
	return browser.Page(proto.TargetCreateTarget{})
}

// solveCaptchaIfPresent checks for a reCAPTCHA widget and, when found,
// solves it through the configured service and injects the token.
func (r *RodLoader) solveCaptchaIfPresent(ctx context.Context, page *rod.Page, url string) error {
	el, err := page.Timeout(2 * time.Second).Element(".g-recaptcha[data-sitekey]")
	if err != nil {
		return nil // no captcha on the page
	}
	siteKey, err := el.Attribute("data-sitekey")
	if err != nil || siteKey == nil || *siteKey == "" {
		return nil
	}

	token, err := r.solver.SolveRecaptcha(ctx, *siteKey, url)
	if err != nil {
		return err
	}

	script := fmt.Sprintf(`() => {
		const area = document.getElementById('g-recaptcha-response');
		if (area) { area.innerHTML = %q; }
	}`, token)
	if _, err := page.Eval(script); err != nil {
		return fmt.Errorf("failed to inject captcha token: %w", err)
	}
	return nil
}

// Name returns the loader engine name
func (r *RodLoader) Name() string { return "rod" }

// Cleanup closes the shared browser
func (r *RodLoader) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		if err := r.browser.Close(); err != nil {
			r.logger.Warn("Failed to close browser", map[string]interface{}{
				"error": err.Error(),
			})
		}
		r.browser = nil
	}
	r.launcher.Cleanup()
}
