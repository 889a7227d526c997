package page

import (
	"context"
	"fmt"

	"jobfill/internal/config"
)

// LoadedPage is a snapshot fetched on the caller's behalf, shaped exactly
// like the snapshots host runtimes post directly.
type LoadedPage struct {
	HTML  string
	URL   string
	Title string
}

// Loader fetches a page snapshot for analyze-by-URL requests. Hosts that
// already run inside the page never need this path.
type Loader interface {
	LoadPage(ctx context.Context, url string) (*LoadedPage, error)
	Name() string
	Cleanup()
}

// NewLoader creates the configured loader. "auto" prefers the remote
// Firecrawl service when a key is configured, then a local headless
// browser, then plain HTTP.
func NewLoader(cfg *config.Config) (Loader, error) {
	switch cfg.Loader.Engine {
	case "http":
		return NewHTTPLoader(cfg), nil
	case "rod":
		return NewRodLoader(cfg), nil
	case "firecrawl":
		return NewFirecrawlLoader(cfg)
	case "auto":
		if cfg.Loader.Firecrawl.APIKey != "" {
			return NewFirecrawlLoader(cfg)
		}
		if cfg.Loader.HeadlessMode {
			return NewRodLoader(cfg), nil
		}
		return NewHTTPLoader(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported loader engine: %s", cfg.Loader.Engine)
	}
}
