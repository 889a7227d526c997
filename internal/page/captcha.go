package page

import (
	"context"
	"fmt"
	"time"

	api2captcha "github.com/2captcha/2captcha-go"

	"jobfill/internal/config"
	"jobfill/internal/logging"
)

// CaptchaSolver solves challenges that block page loads.
type CaptchaSolver interface {
	SolveRecaptcha(ctx context.Context, siteKey, pageURL string) (string, error)
	IsHealthy() bool
}

// TwoCaptchaSolver integrates the 2CAPTCHA service.
type TwoCaptchaSolver struct {
	config *config.Config
	client *api2captcha.Client
	logger logging.Logger
}

// NewTwoCaptchaSolver creates a new 2CAPTCHA solver instance
func NewTwoCaptchaSolver(cfg *config.Config) *TwoCaptchaSolver {
	logger := logging.GetGlobalLogger()

	if cfg.Loader.Captcha.APIKey == "" {
		logger.Warn("2CAPTCHA API key not configured - captcha solving disabled", nil)
	}

	client := api2captcha.NewClient(cfg.Loader.Captcha.APIKey)
	client.DefaultTimeout = int(cfg.Loader.Captcha.Timeout.Seconds())
	client.RecaptchaTimeout = int(cfg.Loader.Captcha.Timeout.Seconds())
	client.PollingInterval = 5

	return &TwoCaptchaSolver{
		config: cfg,
		client: client,
		logger: logger,
	}
}

// SolveRecaptcha solves a reCAPTCHA v2 challenge and returns the response
// token.
func (tcs *TwoCaptchaSolver) SolveRecaptcha(ctx context.Context, siteKey, pageURL string) (string, error) {
	if !tcs.config.Loader.Captcha.EnableAutoSolve {
		return "", fmt.Errorf("captcha auto-solve is disabled")
	}
	if tcs.config.Loader.Captcha.APIKey == "" {
		return "", fmt.Errorf("2CAPTCHA API key not configured")
	}

	started := time.Now()
	captcha := api2captcha.ReCaptcha{
		SiteKey: siteKey,
		Url:     pageURL,
	}

	code, _, err := tcs.client.Solve(captcha.ToRequest())
	if err != nil {
		return "", fmt.Errorf("2CAPTCHA solve failed: %w", err)
	}

	tcs.logger.Info("Captcha solved", map[string]interface{}{
		"page_url": pageURL,
		"duration": time.Since(started).String(),
	})
	return code, nil
}

// IsHealthy reports whether the solver is usable.
func (tcs *TwoCaptchaSolver) IsHealthy() bool {
	return tcs.config.Loader.Captcha.APIKey != ""
}
