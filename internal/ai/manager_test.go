package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfill/internal/config"
	"jobfill/pkg/models"
)

func intPtr(n int) *int { return &n }

func TestBuildRequestCoverLetter(t *testing.T) {
	field := models.FormField{
		Label:           "Cover Letter",
		FieldType:       models.FieldTypeCoverLetter,
		IsEssayQuestion: true,
	}
	req := BuildRequest(field, models.JobData{Title: "Engineer"}, "u1", "tok")

	assert.Equal(t, models.AIEndpointCoverLetter, req.Endpoint)
	assert.Equal(t, "professional", req.Tone)
	assert.Equal(t, 400, req.WordLimit)
	assert.Equal(t, "u1", req.UserID)
}

func TestBuildRequestEssay(t *testing.T) {
	field := models.FormField{
		Label:           "Why do you want to work here?",
		FieldType:       models.FieldTypeEssayMotivation,
		IsEssayQuestion: true,
	}
	req := BuildRequest(field, models.JobData{}, "u1", "tok")

	assert.Equal(t, models.AIEndpointEssayQuestion, req.Endpoint)
	assert.Equal(t, "Why do you want to work here?", req.Question)
	assert.Equal(t, 300, req.WordLimit)
}

func TestBuildRequestShortResponse(t *testing.T) {
	field := models.FormField{
		Label:     "Desired salary",
		FieldType: models.FieldTypeSalary,
	}
	req := BuildRequest(field, models.JobData{}, "u1", "tok")

	assert.Equal(t, models.AIEndpointShortResponse, req.Endpoint)
	assert.Equal(t, 50, req.WordLimit)
}

// A declared maxlength tightens the ceiling at five characters per word;
// a generous maxlength never loosens it.
func TestBuildRequestWordLimitFromMaxLength(t *testing.T) {
	essay := models.FormField{
		Label:           "Describe your experience",
		FieldType:       models.FieldTypeEssayExperience,
		IsEssayQuestion: true,
	}

	essay.MaxLength = intPtr(500)
	assert.Equal(t, 100, BuildRequest(essay, models.JobData{}, "u1", "tok").WordLimit)

	essay.MaxLength = intPtr(10000)
	assert.Equal(t, 300, BuildRequest(essay, models.JobData{}, "u1", "tok").WordLimit)

	essay.MaxLength = nil
	assert.Equal(t, 300, BuildRequest(essay, models.JobData{}, "u1", "tok").WordLimit)
}

func newAIServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/ai/", handler)
	return httptest.NewServer(mux)
}

func startedManager(t *testing.T, baseURL string) *Manager {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.AI.Provider = "platform"
	cfg.AI.BaseURL = baseURL

	m := NewManager(cfg)
	require.NoError(t, m.Start())
	require.True(t, m.IsHealthy())
	return m
}

func TestGenerateForFieldSuccess(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}
	srv := newAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(models.AIContentResponse{
			Success:   true,
			Content:   "Generated essay answer.",
			WordCount: 3,
		})
	})
	defer srv.Close()

	m := startedManager(t, srv.URL)
	field := models.FormField{
		Label:           "Why do you want to work here?",
		FieldType:       models.FieldTypeEssayMotivation,
		IsEssayQuestion: true,
	}

	resp, err := m.GenerateForField(context.Background(), field, models.JobData{Title: "Engineer", Company: "Acme"}, "u1", "tok")
	require.NoError(t, err)
	assert.Equal(t, "Generated essay answer.", resp.Content)

	assert.Equal(t, "/api/ai/answer-essay-question", gotPath)
	assert.Equal(t, "Why do you want to work here?", gotPayload["question"])
	assert.Equal(t, "u1", gotPayload["user_id"])
}

func TestGenerateForFieldUpstreamFailure(t *testing.T) {
	srv := newAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	m := startedManager(t, srv.URL)
	field := models.FormField{Label: "Cover Letter", FieldType: models.FieldTypeCoverLetter, IsEssayQuestion: true}

	_, err := m.GenerateForField(context.Background(), field, models.JobData{}, "u1", "tok")
	assert.Error(t, err)
}

func TestGenerateForFieldReportedFailure(t *testing.T) {
	srv := newAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.AIContentResponse{
			Success:      false,
			ErrorMessage: "profile too sparse to generate",
		})
	})
	defer srv.Close()

	m := startedManager(t, srv.URL)
	field := models.FormField{Label: "Cover Letter", FieldType: models.FieldTypeCoverLetter, IsEssayQuestion: true}

	_, err := m.GenerateForField(context.Background(), field, models.JobData{}, "u1", "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile too sparse")
}

func TestGenerateForFieldNotStarted(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	m := NewManager(cfg)

	field := models.FormField{Label: "Cover Letter", FieldType: models.FieldTypeCoverLetter}
	_, err = m.GenerateForField(context.Background(), field, models.JobData{}, "u1", "tok")
	assert.Error(t, err)
}
