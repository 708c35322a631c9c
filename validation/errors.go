package validation

import (
	"errors"
	"strings"
)

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// Error is returned when one or more fields fail validation.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.String()
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Field returns the error recorded for field, if any.
func (e *Error) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// IsValidationError reports whether err is or wraps an *Error.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}
