package page

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"jobfill/internal/config"
	"jobfill/internal/logging"
	"jobfill/pkg/utils"
)

// Static-markup pages don't need a browser; a plain GET is the cheapest
// path and the default.
type HTTPLoader struct {
	config *config.Config
	client *http.Client
	logger logging.Logger
}

// NewHTTPLoader creates a new HTTP loader instance
func NewHTTPLoader(cfg *config.Config) *HTTPLoader {
	return &HTTPLoader{
		config: cfg,
		client: &http.Client{Timeout: cfg.Loader.RequestTimeout},
		logger: logging.GetGlobalLogger(),
	}
}

// LoadPage fetches the URL with a browser-like user agent.
func (h *HTTPLoader) LoadPage(ctx context.Context, url string) (*LoadedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build page request: %w", err)
	}
	req.Header.Set("User-Agent", h.config.Loader.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, utils.NewPageLoadError(fmt.Sprintf("failed to fetch %s: %v", url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, utils.NewPageLoadError(fmt.Sprintf("%s returned %d", url, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.NewPageLoadError(fmt.Sprintf("failed to read %s: %v", url, err))
	}

	h.logger.Debug("Page fetched over HTTP", map[string]interface{}{
		"url":         url,
		"html_length": len(body),
	})
	return &LoadedPage{HTML: string(body), URL: url}, nil
}

// Name returns the loader engine name
func (h *HTTPLoader) Name() string { return "http" }

// Cleanup releases loader resources
func (h *HTTPLoader) Cleanup() {}
