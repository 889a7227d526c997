package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jobfill/internal/config"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
	"jobfill/pkg/utils"
)

const (
	coverLetterPath   = "/api/ai/generate-cover-letter"
	essayQuestionPath = "/api/ai/answer-essay-question"
	shortResponsePath = "/api/ai/generate-short-response"
)

// PlatformProvider calls the job platform's content-generation endpoints.
// Each request is one attempt: a failed generation is reported back for
// that field only, never retried inside a fill cycle.
type PlatformProvider struct {
	config *config.Config
	client *http.Client
	logger logging.Logger
}

// NewPlatformProvider creates a new platform provider instance
func NewPlatformProvider(cfg *config.Config) *PlatformProvider {
	return &PlatformProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.AI.Timeout},
		logger: logging.GetGlobalLogger(),
	}
}

// GenerateContent routes the request to the endpoint-specific payload shape
// and normalizes the platform's response.
func (p *PlatformProvider) GenerateContent(ctx context.Context, req *models.AIContentRequest) (*models.AIContentResponse, error) {
	path, payload := p.buildPayload(req)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.AI.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.AuthToken)
	}

	started := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, utils.NewNetworkFailureError(fmt.Sprintf("content generation call failed: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.NewNetworkFailureError(fmt.Sprintf("failed to read generation response: %v", err))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, utils.NewAuthInvalidError("generation endpoint rejected the token")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, utils.NewNetworkFailureError(fmt.Sprintf("generation endpoint returned %d", resp.StatusCode))
	}

	var out models.AIContentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}

	p.logger.Debug("Content generated", map[string]interface{}{
		"endpoint":   string(req.Endpoint),
		"word_count": out.WordCount,
		"duration":   time.Since(started).String(),
	})
	return &out, nil
}

// buildPayload shapes the request per endpoint. The cover-letter endpoint
// wants only tone and limits; the essay endpoint carries the question and
// full field context; short responses carry just the label.
func (p *PlatformProvider) buildPayload(req *models.AIContentRequest) (string, map[string]interface{}) {
	switch req.Endpoint {
	case models.AIEndpointCoverLetter:
		return coverLetterPath, map[string]interface{}{
			"user_id":   req.UserID,
			"job_data":  req.JobData,
			"tone":      req.Tone,
			"max_words": req.WordLimit,
		}
	case models.AIEndpointEssayQuestion:
		return essayQuestionPath, map[string]interface{}{
			"user_id":       req.UserID,
			"job_data":      req.JobData,
			"question":      req.Question,
			"field_context": req.FieldContext,
			"max_words":     req.WordLimit,
		}
	default:
		return shortResponsePath, map[string]interface{}{
			"user_id":     req.UserID,
			"job_data":    req.JobData,
			"field_label": req.FieldContext.Label,
			"max_words":   req.WordLimit,
		}
	}
}

// IsHealthy probes the platform's base URL.
func (p *PlatformProvider) IsHealthy(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.AI.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("platform unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("platform unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// GetProviderName returns the name of the provider
func (p *PlatformProvider) GetProviderName() string {
	return "platform"
}
