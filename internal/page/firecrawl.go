package page

import (
	"context"
	"fmt"

	"github.com/mendableai/firecrawl-go"

	"jobfill/internal/config"
	"jobfill/internal/logging"
	"jobfill/pkg/utils"
)

// FirecrawlLoader fetches rendered pages through the Firecrawl API, for
// deployments without a local browser.
type FirecrawlLoader struct {
	config *config.Config
	app    *firecrawl.FirecrawlApp
	logger logging.Logger
}

// NewFirecrawlLoader creates a new Firecrawl loader instance
func NewFirecrawlLoader(cfg *config.Config) (*FirecrawlLoader, error) {
	app, err := firecrawl.NewFirecrawlApp(
		cfg.Loader.Firecrawl.APIKey,
		cfg.Loader.Firecrawl.APIURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firecrawl: %w", err)
	}

	return &FirecrawlLoader{
		config: cfg,
		app:    app,
		logger: logging.GetGlobalLogger(),
	}, nil
}

// LoadPage scrapes the URL through Firecrawl and returns the raw HTML.
// Analysis needs markup, not markdown, so only the HTML format is
// requested.
func (f *FirecrawlLoader) LoadPage(ctx context.Context, url string) (*LoadedPage, error) {
	result, err := f.app.ScrapeURL(url, &firecrawl.ScrapeParams{
		Formats: []string{"html"},
	})
	if err != nil {
		return nil, utils.NewPageLoadError(fmt.Sprintf("firecrawl scrape of %s failed: %v", url, err))
	}
	if result == nil || result.HTML == "" {
		return nil, utils.NewPageLoadError(fmt.Sprintf("firecrawl returned no HTML for %s", url))
	}

	// Title comes out of the returned markup during parsing.
	page := &LoadedPage{HTML: result.HTML, URL: url}

	f.logger.Debug("Page fetched via Firecrawl", map[string]interface{}{
		"url":         url,
		"html_length": len(page.HTML),
	})
	return page, nil
}

// Name returns the loader engine name
func (f *FirecrawlLoader) Name() string { return "firecrawl" }

// Cleanup releases loader resources
func (f *FirecrawlLoader) Cleanup() {}
