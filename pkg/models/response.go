package models

import "time"

// AnalyzeResponse returns the forms detected in one scan cycle.
type AnalyzeResponse struct {
	Success        bool           `json:"success"`
	Forms          []DetectedForm `json:"forms"`
	JobData        *JobData       `json:"job_data,omitempty"`
	Error          string         `json:"error,omitempty"`
	ProcessingTime time.Duration  `json:"processing_time"`
	Engine         string         `json:"engine_used,omitempty"`
	RequestID      string         `json:"request_id"`
}

// FieldFillStatus is the outcome for a single field within a fill cycle.
type FieldFillStatus string

const (
	FieldFilled  FieldFillStatus = "filled"
	FieldSkipped FieldFillStatus = "skipped"
	FieldErrored FieldFillStatus = "error"
)

// FillSource records where a filled value came from, driving the visual cue
// the host applies.
type FillSource string

const (
	FillSourceProfile FillSource = "profile"
	FillSourceAI      FillSource = "ai"
	FillSourceNone    FillSource = "none"
)

// FieldResult is the per-field entry of a fill report.
type FieldResult struct {
	FieldName string          `json:"field_name"`
	FieldType FieldType       `json:"field_type"`
	Status    FieldFillStatus `json:"status"`
	Source    FillSource      `json:"source"`
	Value     string          `json:"value,omitempty"`
	Error     string          `json:"error,omitempty"`
	Events    []string        `json:"events,omitempty"`
	CueColor  string          `json:"cue_color,omitempty"`
}

// FillResponse is the "filled N of M fields" summary plus itemized status.
type FillResponse struct {
	Success        bool          `json:"success"`
	FormID         string        `json:"form_id"`
	FilledCount    int           `json:"filled_count"`
	TotalFields    int           `json:"total_fields"`
	AIGenerated    int           `json:"ai_generated_fields"`
	Results        []FieldResult `json:"results"`
	CueRevertAfter time.Duration `json:"cue_revert_after"`
	Error          string        `json:"error,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
	RequestID      string        `json:"request_id"`
}

// SubmitPlan describes how the host should submit an analyzed form. The
// engine never performs the submission itself.
type SubmitPlan struct {
	FormID         string `json:"form_id"`
	SubmitSelector string `json:"submit_selector,omitempty"`
	Method         string `json:"method,omitempty"`
	Action         string `json:"action,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
