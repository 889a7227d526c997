package ai

import (
	"context"

	"jobfill/pkg/models"
)

// ContentProvider defines the interface for content-generation backends
type ContentProvider interface {
	// GenerateContent produces prose for one essay-class field
	GenerateContent(ctx context.Context, req *models.AIContentRequest) (*models.AIContentResponse, error)

	// IsHealthy checks if the provider is configured and reachable
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the provider
	GetProviderName() string
}
