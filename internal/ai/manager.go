package ai

import (
	"context"
	"fmt"
	"sync"

	"jobfill/internal/config"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
)

// Default word ceilings per endpoint. A declared maxlength tightens them
// further at roughly five characters per word.
const (
	coverLetterMaxWords   = 400
	essayMaxWords         = 300
	shortResponseMaxWords = 50
	charsPerWord          = 5
	coverLetterTone       = "professional"
)

// Manager orchestrates content generation for essay-class fields: endpoint
// routing, word limits, rate limiting and provider lifecycle. One field is
// one attempt; retries are a user-initiated re-fill, never internal.
type Manager struct {
	config   *config.Config
	factory  *ProviderFactory
	provider ContentProvider
	limiter  *RateLimiter
	logger   logging.Logger
	mu       sync.RWMutex
	healthy  bool
}

// NewManager creates a new content-generation manager instance
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config:  cfg,
		factory: NewProviderFactory(cfg),
		limiter: NewRateLimiter(cfg),
		logger:  logging.GetGlobalLogger(),
	}
}

// Start initializes the manager and creates the provider
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting AI content manager", map[string]interface{}{
		"provider": m.config.AI.Provider,
	})

	provider, err := m.factory.CreateProvider()
	if err != nil {
		return fmt.Errorf("failed to create content provider: %w", err)
	}
	m.provider = provider

	ctx, cancel := context.WithTimeout(context.Background(), m.config.AI.Timeout)
	defer cancel()

	if err := m.provider.IsHealthy(ctx); err != nil {
		m.logger.Warn("Content provider health check failed - AI filling will be degraded", map[string]interface{}{
			"error": err.Error(),
		})
		m.healthy = false
		// Server still starts; profile-only filling works without AI.
	} else {
		m.healthy = true
		m.logger.Info("AI content manager started", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
		})
	}
	return nil
}

// Stop shuts down the manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.provider = nil
	m.healthy = false
	return nil
}

// BuildRequest resolves the endpoint and word limit for one essay-class
// field. Cover letters route to their own endpoint; every essay family
// shares the essay endpoint; anything else landing here falls through to
// the short-response endpoint.
func BuildRequest(field models.FormField, jobData models.JobData, userID, authToken string) *models.AIContentRequest {
	req := &models.AIContentRequest{
		UserID:    userID,
		AuthToken: authToken,
		JobData:   jobData,
		FieldContext: models.FieldContext{
			Label:       field.Label,
			FieldType:   field.FieldType,
			Placeholder: field.Placeholder,
			MaxLength:   field.MaxLength,
			Required:    field.Required,
		},
	}

	switch {
	case field.FieldType == models.FieldTypeCoverLetter:
		req.Endpoint = models.AIEndpointCoverLetter
		req.Tone = coverLetterTone
		req.WordLimit = wordLimit(coverLetterMaxWords, field.MaxLength)
	case field.FieldType.IsEssay():
		req.Endpoint = models.AIEndpointEssayQuestion
		req.Question = field.Label
		req.WordLimit = wordLimit(essayMaxWords, field.MaxLength)
	default:
		req.Endpoint = models.AIEndpointShortResponse
		req.WordLimit = wordLimit(shortResponseMaxWords, field.MaxLength)
	}
	return req
}

func wordLimit(ceiling int, maxLength *int) int {
	if maxLength == nil || *maxLength <= 0 {
		return ceiling
	}
	byLength := *maxLength / charsPerWord
	if byLength < ceiling {
		return byLength
	}
	return ceiling
}

// GenerateForField runs one generation attempt for a field. Failures are
// returned to the caller, which records them in that field's result entry
// and keeps filling sibling fields.
func (m *Manager) GenerateForField(ctx context.Context, field models.FormField, jobData models.JobData, userID, authToken string) (*models.AIContentResponse, error) {
	m.mu.RLock()
	provider := m.provider
	healthy := m.healthy
	m.mu.RUnlock()

	if provider == nil {
		return nil, fmt.Errorf("content manager not started")
	}
	if !healthy {
		return nil, fmt.Errorf("content provider unavailable - check AI_API_KEY and AI_BASE_URL")
	}

	req := BuildRequest(field, jobData, userID, authToken)
	if !m.limiter.Allow(req.Endpoint) {
		return nil, fmt.Errorf("generation rate limit exceeded for %s", req.Endpoint)
	}

	resp, err := provider.GenerateContent(ctx, req)
	if err != nil {
		m.limiter.RecordFailure(req.Endpoint)
		return nil, err
	}
	if !resp.Success {
		m.limiter.RecordFailure(req.Endpoint)
		if resp.ErrorMessage != "" {
			return nil, fmt.Errorf("generation failed: %s", resp.ErrorMessage)
		}
		return nil, fmt.Errorf("generation failed for %s", req.Endpoint)
	}
	return resp, nil
}

// IsHealthy checks if the manager and provider are healthy
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// GetStats exposes per-endpoint limiter statistics for the status surface.
func (m *Manager) GetStats() map[string]map[string]interface{} {
	return m.limiter.GetStats()
}

// CheckHealth performs a health check on the provider and caches the result
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return fmt.Errorf("content provider not available")
	}

	err := provider.IsHealthy(ctx)
	m.mu.Lock()
	m.healthy = (err == nil)
	m.mu.Unlock()
	return err
}
