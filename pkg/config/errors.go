package config

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every *ConfigurationError under errors.Is.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports malformed or missing build inputs.
type ConfigurationError struct {
	// Field names the offending setting or input, if any.
	Field   string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration"
	if e.Field != "" {
		msg += " " + e.Field
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Errorf builds a ConfigurationError for field.
func Errorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
