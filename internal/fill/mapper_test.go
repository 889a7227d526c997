package fill

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobfill/pkg/models"
)

var fullProfile = &models.UserProfileRecord{
	UserID:       "user_1",
	FirstName:    "Ada",
	LastName:     "Lovelace",
	Email:        "ada@example.com",
	Phone:        "+44 20 7946 0958",
	LinkedinURL:  "https://linkedin.com/in/ada",
	PortfolioURL: "https://ada.dev",
	WebsiteURL:   "https://ada.example.org",
	Location:     "London, UK",
}

func TestMapProfileValue(t *testing.T) {
	tests := []struct {
		fieldType models.FieldType
		want      string
	}{
		{models.FieldTypeEmail, "ada@example.com"},
		{models.FieldTypeFirstName, "Ada"},
		{models.FieldTypeLastName, "Lovelace"},
		{models.FieldTypeFullName, "Ada Lovelace"},
		{models.FieldTypePhone, "+44 20 7946 0958"},
		{models.FieldTypeLinkedin, "https://linkedin.com/in/ada"},
		{models.FieldTypePortfolio, "https://ada.dev"},
		{models.FieldTypeLocation, "London, UK"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapProfileValue(tt.fieldType, fullProfile), "fieldType %s", tt.fieldType)
	}
}

func TestMapProfileValuePortfolioFallsBackToWebsite(t *testing.T) {
	profile := &models.UserProfileRecord{WebsiteURL: "https://ada.example.org"}
	assert.Equal(t, "https://ada.example.org", MapProfileValue(models.FieldTypePortfolio, profile))
}

func TestMapProfileValueNeverFabricates(t *testing.T) {
	empty := &models.UserProfileRecord{UserID: "user_2"}
	for _, ft := range []models.FieldType{
		models.FieldTypeEmail,
		models.FieldTypeFullName,
		models.FieldTypePhone,
		models.FieldTypeLinkedin,
		models.FieldTypePortfolio,
		models.FieldTypeLocation,
	} {
		assert.Empty(t, MapProfileValue(ft, empty), "fieldType %s", ft)
	}

	// Types outside the mapping table stay blank even on a full profile.
	assert.Empty(t, MapProfileValue(models.FieldTypeSalary, fullProfile))
	assert.Empty(t, MapProfileValue(models.FieldTypeResume, fullProfile))
	assert.Empty(t, MapProfileValue(models.FieldTypeEssayMotivation, fullProfile))
	assert.Empty(t, MapProfileValue(models.FieldTypeOther, fullProfile))
}

func TestMapProfileValueNilProfile(t *testing.T) {
	assert.Empty(t, MapProfileValue(models.FieldTypeEmail, nil))
}

func TestMapProfileValueFullNamePartial(t *testing.T) {
	assert.Equal(t, "Ada", MapProfileValue(models.FieldTypeFullName, &models.UserProfileRecord{FirstName: "Ada"}))
	assert.Equal(t, "Lovelace", MapProfileValue(models.FieldTypeFullName, &models.UserProfileRecord{LastName: "Lovelace"}))
}
