// Package validation carries field-level request errors from usecases
// to the HTTP layer, where they land in the response envelope's data.
package validation

import "strings"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

type Builder struct {
	errs FieldErrors
}

func (b *Builder) Require(field, value, message string) *Builder {
	if strings.TrimSpace(value) == "" {
		b.errs = append(b.errs, FieldError{Field: field, Message: message})
	}
	return b
}

func (b *Builder) Add(field, message string) *Builder {
	b.errs = append(b.errs, FieldError{Field: field, Message: message})
	return b
}

// Err returns nil when no field failed, so callers can return it
// directly.
func (b *Builder) Err() error {
	if b == nil || len(b.errs) == 0 {
		return nil
	}
	return b.errs
}
