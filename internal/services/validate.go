package services

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"khata-backend/internal/models"
)

var validate = validator.New()

// validateStruct runs the declarative tags on a request struct and maps
// the first failure onto the ledger's own validation error type.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return &models.ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: validationMessage(fe),
		}
	}
	return &models.ValidationError{Message: err.Error()}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "numeric":
		return "must contain only digits"
	case "email":
		return "must be a valid email address"
	default:
		return "failed validation rule " + fe.Tag()
	}
}
