package fill

import (
	"strings"

	"jobfill/pkg/models"
)

// MapProfileValue resolves a semantic field type to a literal value from
// the user's profile. Anything not covered by the table yields an empty
// string and is left for the AI path or left blank; the mapper never
// fabricates data the profile does not carry.
func MapProfileValue(fieldType models.FieldType, profile *models.UserProfileRecord) string {
	if profile == nil {
		return ""
	}
	switch fieldType {
	case models.FieldTypeEmail:
		return profile.Email
	case models.FieldTypeFirstName:
		return profile.FirstName
	case models.FieldTypeLastName:
		return profile.LastName
	case models.FieldTypeFullName:
		return strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	case models.FieldTypePhone:
		return profile.Phone
	case models.FieldTypeLinkedin:
		return profile.LinkedinURL
	case models.FieldTypePortfolio:
		if profile.PortfolioURL != "" {
			return profile.PortfolioURL
		}
		return profile.WebsiteURL
	case models.FieldTypeLocation:
		return profile.Location
	default:
		return ""
	}
}
