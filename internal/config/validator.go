package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a settings validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateSettings validates converter settings
func ValidateSettings(s Settings) []ValidationError {
	var errors []ValidationError

	if s.MaxRedirects < 0 {
		errors = append(errors, ValidationError{
			Path:    KeyMaxRedirects,
			Message: "cannot be negative",
		})
	}

	if s.Iterations < 0 {
		errors = append(errors, ValidationError{
			Path:    KeyIterations,
			Message: "cannot be negative",
		})
	}

	if s.VUs < 0 {
		errors = append(errors, ValidationError{
			Path:    KeyVUs,
			Message: "cannot be negative",
		})
	}

	if s.Duration != "" {
		if d, err := parseDurationString(s.Duration); err != nil {
			errors = append(errors, ValidationError{
				Path:    KeyDuration,
				Message: fmt.Sprintf("invalid duration format '%s'", s.Duration),
			})
		} else if d <= 0 {
			errors = append(errors, ValidationError{
				Path:    KeyDuration,
				Message: "must be positive",
			})
		}
	}

	if strings.TrimSpace(s.Libs) == "" {
		errors = append(errors, ValidationError{
			Path:    KeyLibs,
			Message: "libs directory is required",
		})
	}

	return errors
}

// joinValidationErrors renders errors as a single message
func joinValidationErrors(errs []ValidationError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
