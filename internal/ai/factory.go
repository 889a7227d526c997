package ai

import (
	"fmt"

	"jobfill/internal/ai/providers"
	"jobfill/internal/config"
)

// ProviderFactory creates content providers based on configuration
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory instance
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{config: cfg}
}

// CreateProvider creates the configured content provider. The platform
// provider proxies the job platform's generation endpoints; the claude
// provider talks to Anthropic directly for deployments that bypass the
// platform backend.
func (f *ProviderFactory) CreateProvider() (ContentProvider, error) {
	switch f.config.AI.Provider {
	case "platform":
		return providers.NewPlatformProvider(f.config), nil
	case "claude":
		return providers.NewClaudeProvider(f.config), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", f.config.AI.Provider)
	}
}
