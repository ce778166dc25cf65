// Package validation checks request structs against their `validate` tags.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/studyplan/internal/apperr"
)

var validate = validator.New()

// FieldError describes one failed constraint
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate returns the failed constraints of data, or nil
func Validate(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("must satisfy %s", fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// Check validates data and folds any failures into a single validation error
func Check(what string, data interface{}) error {
	fields := Validate(data)
	if len(fields) == 0 {
		return nil
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return apperr.Validation("invalid "+what, strings.Join(parts, "; "))
}

// ValidateIntRange is a plain bounds check for values outside a tagged struct
func ValidateIntRange(value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("value must be between %d and %d", min, max)
	}
	return nil
}
