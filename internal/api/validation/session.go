package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// SessionIDPattern constrains session ids to safe opaque tokens.
var SessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{4,64}$`)

// ValidateSessionID checks that a session id is a safe token
func ValidateSessionID(fl validator.FieldLevel) bool {
	return SessionIDPattern.MatchString(fl.Field().String())
}

// FormIDPattern matches the ids the analyzer assigns to detected forms.
var FormIDPattern = regexp.MustCompile(`^form_[a-f0-9-]{4,36}$`)

// ValidateFormID checks that a form id has the detected-form shape
func ValidateFormID(fl validator.FieldLevel) bool {
	return FormIDPattern.MatchString(fl.Field().String())
}

// RegisterEngineValidators registers the custom validators used by the
// request models.
func RegisterEngineValidators(v *validator.Validate) {
	v.RegisterValidation("session_id", ValidateSessionID)
	v.RegisterValidation("form_id", ValidateFormID)
}
