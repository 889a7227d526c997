package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobfill/pkg/models"
)

const essayMinChars = 10

func TestClassifyFieldTypeInputShortcuts(t *testing.T) {
	assert.Equal(t, models.FieldTypeEmail, ClassifyFieldType("input", "email", "contact", "", "", essayMinChars))
	assert.Equal(t, models.FieldTypePhone, ClassifyFieldType("input", "tel", "contact", "", "", essayMinChars))
	assert.Equal(t, models.FieldTypeResume, ClassifyFieldType("input", "file", "attachment", "", "", essayMinChars))
}

func TestClassifyFieldTypeKeywordTable(t *testing.T) {
	tests := []struct {
		name        string
		label       string
		placeholder string
		want        models.FieldType
	}{
		{"email", "Email Address", "", models.FieldTypeEmail},
		{"fname", "", "", models.FieldTypeFirstName},
		{"", "Last Name", "", models.FieldTypeLastName},
		{"", "Full Name", "", models.FieldTypeFullName},
		{"", "Your name", "", models.FieldTypeFullName},
		{"phone_number", "", "", models.FieldTypePhone},
		{"", "LinkedIn Profile", "", models.FieldTypeLinkedin},
		{"", "Portfolio URL", "", models.FieldTypePortfolio},
		{"", "", "github.com/you", models.FieldTypePortfolio},
		{"", "Curriculum Vitae", "", models.FieldTypeResume},
		{"", "Current City", "", models.FieldTypeLocation},
		{"", "Expected salary", "", models.FieldTypeSalary},
		{"", "Notice period", "", models.FieldTypeAvailability},
		{"", "Years of experience", "", models.FieldTypeExperience},
		{"", "Highest degree", "", models.FieldTypeEducation},
		{"", "Favorite color", "", models.FieldTypeOther},
	}
	for _, tt := range tests {
		got := ClassifyFieldType("input", "text", tt.name, tt.label, tt.placeholder, essayMinChars)
		assert.Equal(t, tt.want, got, "name=%q label=%q placeholder=%q", tt.name, tt.label, tt.placeholder)
	}
}

// "First name" must never be swallowed by the bare "name" phrase: rule
// order is part of the contract.
func TestClassifyFieldTypeOrderMatters(t *testing.T) {
	assert.Equal(t, models.FieldTypeFirstName, ClassifyFieldType("input", "text", "", "First Name", "", essayMinChars))
	assert.Equal(t, models.FieldTypeLastName, ClassifyFieldType("input", "text", "", "Last Name", "", essayMinChars))
	assert.Equal(t, models.FieldTypeFullName, ClassifyFieldType("input", "text", "", "Name", "", essayMinChars))
}

func TestClassifyEssayFamilies(t *testing.T) {
	tests := []struct {
		label string
		want  models.FieldType
	}{
		{"Cover Letter", models.FieldTypeCoverLetter},
		{"Why do you want to work here?", models.FieldTypeEssayMotivation},
		{"Describe your experience with Go", models.FieldTypeEssayExperience},
		{"What makes you a good fit?", models.FieldTypeEssayStrengths},
		{"Tell us about a challenge you overcame", models.FieldTypeEssayChallenges},
		{"Where do you see yourself in five years?", models.FieldTypeEssayGoals},
		{"How do you collaborate with designers?", models.FieldTypeEssayTeamwork},
		{"Tell us about yourself", models.FieldTypeEssayAboutYou},
	}
	for _, tt := range tests {
		got := ClassifyFieldType("textarea", "", "", tt.label, "", essayMinChars)
		assert.Equal(t, tt.want, got, "label=%q", tt.label)
	}
}

func TestClassifyEssayGeneralFallback(t *testing.T) {
	// Long unmatched label: still a real question, routed to generation.
	got := ClassifyFieldType("textarea", "", "", "Anything else we ought to know?", "", essayMinChars)
	assert.Equal(t, models.FieldTypeEssayGeneral, got)

	// Short label: plain textarea, not an essay.
	got = ClassifyFieldType("textarea", "", "", "Notes", "", essayMinChars)
	assert.Equal(t, models.FieldTypeTextArea, got)
}

func TestClassifyFieldTypeDeterministic(t *testing.T) {
	first := ClassifyFieldType("input", "text", "applicant_email", "Email", "", essayMinChars)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ClassifyFieldType("input", "text", "applicant_email", "Email", "", essayMinChars))
	}
}

func TestIsEssay(t *testing.T) {
	assert.True(t, models.FieldTypeCoverLetter.IsEssay())
	assert.True(t, models.FieldTypeEssayGeneral.IsEssay())
	assert.True(t, models.FieldTypeEssayMotivation.IsEssay())
	assert.False(t, models.FieldTypeTextArea.IsEssay())
	assert.False(t, models.FieldTypeEmail.IsEssay())
}
