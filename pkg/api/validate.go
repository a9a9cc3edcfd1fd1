package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks input that must not reach the store.
var ErrValidation = errors.New("validation failed")

// ValidationError names the first offending field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewDraft trims both fields and rejects empty ones. Title is checked first.
func NewDraft(title, body string) (Draft, error) {
	d := Draft{Title: strings.TrimSpace(title), Body: strings.TrimSpace(body)}
	return d, d.Validate()
}

// Validate reports a *ValidationError when a field is blank after trimming.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title"}
	}
	if strings.TrimSpace(d.Body) == "" {
		return &ValidationError{Field: "body"}
	}
	return nil
}
