package models

import "time"

// AnalyzeRequest carries a DOM snapshot captured by the host runtime.
type AnalyzeRequest struct {
	SessionID string `json:"session_id" validate:"required,session_id"`
	HTML      string `json:"html" validate:"required"`
	PageURL   string `json:"page_url" validate:"omitempty,url"`
	PageTitle string `json:"page_title,omitempty"`
}

// AnalyzeURLRequest asks the service to load a page itself and analyze the
// rendered snapshot.
type AnalyzeURLRequest struct {
	URL     string          `json:"url" validate:"required,url"`
	Options *AnalyzeOptions `json:"options,omitempty"`
}

// AnalyzeOptions provides additional configuration for analyze-by-URL.
type AnalyzeOptions struct {
	Engine    string        `json:"engine,omitempty"` // "http", "rod", "firecrawl", "auto"
	Timeout   time.Duration `json:"timeout,omitempty"`
	UserAgent string        `json:"user_agent,omitempty"`
}

// FillRequest asks for a fill plan for one detected form. WithAI enables the
// AI-generated content path for essay-class fields.
type FillRequest struct {
	SessionID string `json:"session_id" validate:"required,session_id"`
	FormID    string `json:"form_id,omitempty" validate:"omitempty,form_id"`
	WithAI    bool   `json:"with_ai,omitempty"`
	Async     bool   `json:"async,omitempty"`
}

// MutationNotification is the host's report of a DOM subtree mutation. The
// change observer schedules a debounced re-scan when a form was added.
type MutationNotification struct {
	SessionID  string `json:"session_id" validate:"required,session_id"`
	AddedForms int    `json:"added_forms"`
	HTML       string `json:"html,omitempty"`
	PageURL    string `json:"page_url,omitempty"`
	PageTitle  string `json:"page_title,omitempty"`
}

// GenerateContentRequest asks for AI content for a single field outside a
// full fill cycle (the GENERATE_AI_CONTENT message).
type GenerateContentRequest struct {
	SessionID    string       `json:"session_id" validate:"required,session_id"`
	FieldContext FieldContext `json:"field_context" validate:"required"`
	JobData      JobData      `json:"job_data"`
}
