package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"jobfill/internal/config"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
)

// ClaudeProvider generates field content directly against Anthropic's API,
// for deployments that run without the job platform's generation backend.
type ClaudeProvider struct {
	client anthropic.Client
	config *config.Config
	logger logging.Logger
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.AI.APIKey),
	)

	return &ClaudeProvider{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// GenerateContent builds an endpoint-specific prompt and runs one Claude
// completion. Word counting happens here so the response shape matches the
// platform provider's.
func (cp *ClaudeProvider) GenerateContent(ctx context.Context, req *models.AIContentRequest) (*models.AIContentResponse, error) {
	startTime := time.Now()

	prompt := cp.buildPrompt(req)

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cp.config.AI.Model),
		MaxTokens: int64(cp.config.AI.MaxTokens),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	var content strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(content.String())
	if text == "" {
		return nil, fmt.Errorf("empty response from Claude")
	}

	cp.logger.Debug("Content generated", map[string]interface{}{
		"endpoint": string(req.Endpoint),
		"provider": "claude",
		"duration": time.Since(startTime).String(),
	})

	return &models.AIContentResponse{
		Success:   true,
		Content:   text,
		WordCount: len(strings.Fields(text)),
	}, nil
}

func (cp *ClaudeProvider) buildPrompt(req *models.AIContentRequest) string {
	job := fmt.Sprintf("%s at %s (%s)", req.JobData.Title, req.JobData.Company, req.JobData.URL)

	switch req.Endpoint {
	case models.AIEndpointCoverLetter:
		return fmt.Sprintf(`Write a cover letter for the position: %s.
Tone: %s. Keep it under %d words. Return only the letter body, no preamble.`,
			job, req.Tone, req.WordLimit)
	case models.AIEndpointEssayQuestion:
		return fmt.Sprintf(`You are answering an application question for the position: %s.
Question: %s
Field context: label %q, type %s, required %t.
Answer in first person, under %d words. Return only the answer.`,
			job, req.Question, req.FieldContext.Label, req.FieldContext.FieldType, req.FieldContext.Required, req.WordLimit)
	default:
		return fmt.Sprintf(`Provide a short response for the application field %q for the position: %s.
Under %d words. Return only the response text.`,
			req.FieldContext.Label, job, req.WordLimit)
	}
}

// IsHealthy verifies the provider is configured with an API key.
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	if cp.config.AI.APIKey == "" {
		return fmt.Errorf("claude API key not configured")
	}
	return nil
}

// GetProviderName returns the name of the provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}
