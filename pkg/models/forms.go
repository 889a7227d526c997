package models

import "time"

// ContainerOrigin distinguishes real <form> containers from synthetic ones
// built over loose inputs.
type ContainerOrigin string

const (
	OriginReal    ContainerOrigin = "real"
	OriginVirtual ContainerOrigin = "virtual"
)

// FormType is a derived label describing what kind of application form was
// detected, based on which field types and input kinds are present.
type FormType string

const (
	FormTypeFullApplication     FormType = "full-application"
	FormTypeQuickApply          FormType = "quick-apply"
	FormTypeDetailedApplication FormType = "detailed-application"
	FormTypeBasicForm           FormType = "basic-form"
)

// FieldType is the closed set of semantic tags a form field can classify to.
type FieldType string

const (
	FieldTypeEmail        FieldType = "email"
	FieldTypeFirstName    FieldType = "firstName"
	FieldTypeLastName     FieldType = "lastName"
	FieldTypeFullName     FieldType = "fullName"
	FieldTypePhone        FieldType = "phone"
	FieldTypeLinkedin     FieldType = "linkedin"
	FieldTypePortfolio    FieldType = "portfolio"
	FieldTypeResume       FieldType = "resume"
	FieldTypeLocation     FieldType = "location"
	FieldTypeSalary       FieldType = "salary"
	FieldTypeAvailability FieldType = "availability"
	FieldTypeExperience   FieldType = "experience"
	FieldTypeEducation    FieldType = "education"
	FieldTypeOther        FieldType = "other"

	// Long-text sub-tags. Fields carrying one of these (or coverLetter) are
	// routed to AI content generation instead of the profile data mapper.
	FieldTypeEssayMotivation FieldType = "essayMotivation"
	FieldTypeEssayExperience FieldType = "essayExperience"
	FieldTypeEssayStrengths  FieldType = "essayStrengths"
	FieldTypeEssayChallenges FieldType = "essayChallenges"
	FieldTypeEssayGoals      FieldType = "essayGoals"
	FieldTypeEssayTeamwork   FieldType = "essayTeamwork"
	FieldTypeEssayAboutYou   FieldType = "essayAboutYou"
	FieldTypeCoverLetter     FieldType = "coverLetter"
	FieldTypeEssayGeneral    FieldType = "essayGeneral"

	// FieldTypeTextArea marks a textarea that matched no essay family and has
	// too short a label to be worth generating prose for.
	FieldTypeTextArea FieldType = "textArea"
)

// IsEssay reports whether the field type requires generated prose rather
// than a literal profile value.
func (ft FieldType) IsEssay() bool {
	if ft == FieldTypeCoverLetter {
		return true
	}
	return len(ft) > 5 && ft[:5] == "essay"
}

// SelectOption is one option of a <select> field.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormField describes one extracted input-like element. ElementRef is a
// non-owning locator (name or id) into the live DOM; it must be re-resolved
// at fill time, never trusted across scan cycles.
type FormField struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Label           string         `json:"label"`
	Placeholder     string         `json:"placeholder,omitempty"`
	Required        bool           `json:"required"`
	MaxLength       *int           `json:"max_length,omitempty"`
	Options         []SelectOption `json:"options,omitempty"`
	FieldType       FieldType      `json:"field_type"`
	IsEssayQuestion bool           `json:"is_essay_question"`
	TagName         string         `json:"tag_name"`
	InputType       string         `json:"input_type,omitempty"`
	Context         string         `json:"context,omitempty"`
	ElementRef      string         `json:"element_ref"`
}

// DetectedForm is one accepted container with its extracted fields. It is
// created per scan cycle and fully rebuilt on re-scan; every scan is an
// independent snapshot over the live DOM.
type DetectedForm struct {
	ID         string          `json:"id"`
	Fields     []FormField     `json:"fields"`
	Confidence float64         `json:"confidence"`
	FormType   FormType        `json:"form_type"`
	Origin     ContainerOrigin `json:"origin"`
	PageURL    string          `json:"page_url"`
	PageTitle  string          `json:"page_title,omitempty"`
	DetectedAt time.Time       `json:"detected_at"`
}

// ClassificationScore breaks down how a container scored against the
// job-application indicators, kept for auditability of accept/reject calls.
type ClassificationScore struct {
	Total          int      `json:"total"`
	StrongHit      bool     `json:"strong_hit"`
	KeywordHits    []string `json:"keyword_hits,omitempty"`
	AntiHits       []string `json:"anti_hits,omitempty"`
	HasFileInput   bool     `json:"has_file_input"`
	HasTextArea    bool     `json:"has_textarea"`
	Accepted       bool     `json:"accepted"`
	Confidence     float64  `json:"confidence"`
	LenientVirtual bool     `json:"lenient_virtual,omitempty"`
}
