package dto

import (
	"fmt"
	"strings"
)

const maxSongIDLength = 256

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) ToMap() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func validateSongID(field, id string) []ValidationError {
	var errs []ValidationError
	switch {
	case strings.TrimSpace(id) == "":
		errs = append(errs, ValidationError{Field: field, Message: "is required"})
	case len(id) > maxSongIDLength:
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", maxSongIDLength)})
	case strings.ContainsAny(id, " \t\r\n"):
		errs = append(errs, ValidationError{Field: field, Message: "must not contain whitespace"})
	}
	return errs
}
