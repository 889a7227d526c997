package analyzer

import (
	"strings"

	"jobfill/pkg/models"
)

// typeRule binds a semantic field type to the phrases that trigger it.
// Rules are evaluated in order and the first hit wins, so narrower
// phrases ("first name") must precede broader ones (bare "name").
type typeRule struct {
	Type    models.FieldType
	Phrases []string
}

var fieldTypeRules = []typeRule{
	{models.FieldTypeEmail, []string{"email", "e-mail"}},
	{models.FieldTypeFirstName, []string{"first name", "firstname", "first_name", "given name", "fname"}},
	{models.FieldTypeLastName, []string{"last name", "lastname", "last_name", "surname", "family name", "lname"}},
	{models.FieldTypeFullName, []string{"full name", "fullname", "full_name", "your name", "name"}},
	{models.FieldTypePhone, []string{"phone", "mobile", "telephone", "tel"}},
	{models.FieldTypeLinkedin, []string{"linkedin"}},
	{models.FieldTypePortfolio, []string{"portfolio", "personal website", "personal site", "github", "website"}},
	{models.FieldTypeResume, []string{"resume", "curriculum vitae", "cv"}},
	{models.FieldTypeLocation, []string{"location", "city", "address", "country", "where are you based"}},
	{models.FieldTypeSalary, []string{"salary", "compensation", "expected pay", "pay expectation", "desired rate"}},
	{models.FieldTypeAvailability, []string{"availability", "start date", "notice period", "when can you start", "available"}},
	{models.FieldTypeExperience, []string{"years of experience", "experience", "years"}},
	{models.FieldTypeEducation, []string{"education", "degree", "university", "school", "qualification"}},
}

// Essay families for long-text fields. Cover letter first, then the more
// specific families before the catch-all "about you" phrasing.
var essayRules = []typeRule{
	{models.FieldTypeCoverLetter, []string{"cover letter", "covering letter", "letter of interest"}},
	{models.FieldTypeEssayMotivation, []string{"why do you want", "why are you interested", "why this role", "why this company", "what interests you", "motivation"}},
	{models.FieldTypeEssayExperience, []string{"describe your experience", "relevant experience", "tell us about your experience", "experience with", "previous work"}},
	{models.FieldTypeEssayStrengths, []string{"strength", "what makes you", "why should we hire", "best qualities", "unique skills"}},
	{models.FieldTypeEssayChallenges, []string{"challenge", "difficult situation", "obstacle", "conflict", "problem you solved"}},
	{models.FieldTypeEssayGoals, []string{"career goals", "where do you see yourself", "aspiration", "five years", "long term"}},
	{models.FieldTypeEssayTeamwork, []string{"team", "collaborat", "work with others"}},
	{models.FieldTypeEssayAboutYou, []string{"about yourself", "tell us about you", "describe yourself", "introduce yourself", "who are you"}},
}

// ClassifyFieldType maps a control's attributes to a semantic field type.
// Classification is deterministic: the same inputs always produce the same
// type. Textareas defer to the essay sub-classifier; everything unmatched
// falls back to "other".
func ClassifyFieldType(tagName, inputType, name, label, placeholder string, essayMinChars int) models.FieldType {
	if tagName == "textarea" {
		return classifyEssay(name, label, placeholder, essayMinChars)
	}

	switch inputType {
	case "email":
		return models.FieldTypeEmail
	case "tel":
		return models.FieldTypePhone
	case "file":
		return models.FieldTypeResume
	}

	fieldText := fieldTextBlob(name, label, placeholder)
	for _, rule := range fieldTypeRules {
		if matchesAny(fieldText, rule.Phrases) {
			return rule.Type
		}
	}
	return models.FieldTypeOther
}

// classifyEssay matches long-text fields against the essay families. A
// textarea whose label matches no family but is long enough to be a real
// question is still routed to generation as essayGeneral; short unlabeled
// textareas stay generic.
func classifyEssay(name, label, placeholder string, essayMinChars int) models.FieldType {
	fieldText := fieldTextBlob(name, label, placeholder)
	for _, rule := range essayRules {
		if matchesAny(fieldText, rule.Phrases) {
			return rule.Type
		}
	}
	if len(strings.TrimSpace(label)) > essayMinChars {
		return models.FieldTypeEssayGeneral
	}
	return models.FieldTypeTextArea
}

func fieldTextBlob(parts ...string) string {
	return strings.ToLower(strings.Join(parts, " "))
}

func matchesAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
