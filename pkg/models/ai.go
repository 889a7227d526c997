package models

// AIEndpoint selects which content-generation endpoint a field is routed to.
type AIEndpoint string

const (
	AIEndpointCoverLetter   AIEndpoint = "cover-letter"
	AIEndpointEssayQuestion AIEndpoint = "essay-question"
	AIEndpointShortResponse AIEndpoint = "short-response"
)

// FieldContext carries the metadata of the field a generation request is
// for, so prompts can respect labels, limits and required flags.
type FieldContext struct {
	Label       string    `json:"label"`
	FieldType   FieldType `json:"field_type"`
	Placeholder string    `json:"placeholder,omitempty"`
	MaxLength   *int      `json:"max_length,omitempty"`
	Required    bool      `json:"required"`
}

// AIContentRequest is one generation request for a single essay-class field.
// AuthToken rides along for providers that call the platform on the user's
// behalf; it never serializes.
type AIContentRequest struct {
	Endpoint     AIEndpoint   `json:"endpoint"`
	AuthToken    string       `json:"-"`
	UserID       string       `json:"user_id"`
	JobData      JobData      `json:"job_data"`
	Question     string       `json:"question,omitempty"`
	FieldContext FieldContext `json:"field_context"`
	Tone         string       `json:"tone,omitempty"`
	WordLimit    int          `json:"max_words"`
}

// AIContentResponse is the normalized result of a generation call. A failed
// call carries ErrorMessage and leaves Content empty; the caller fills the
// remaining fields regardless.
type AIContentResponse struct {
	Success      bool   `json:"success"`
	Content      string `json:"content,omitempty"`
	WordCount    int    `json:"word_count,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}
