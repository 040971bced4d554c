package utils

import (
	"github.com/go-playground/validator/v10"

	"booking-service/domain"
)

var validate = validator.New()

// ValidateStruct checks the `validate` tags of a request payload and folds
// the first failure into a domain validation error.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
			return domain.ValidationError{Message: "Invalid value for field " + fieldErrors[0].Field()}
		}
		return domain.ValidationError{Message: err.Error()}
	}
	return nil
}
