package loader

import "fmt"

// ErrorCode categorizes load failures.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	ParseError      ErrorCode = "ParseError"
	ConversionError ErrorCode = "ConversionError"
	ValidationError ErrorCode = "ValidationError"
)

// LoadError is a structured document loading error.
type LoadError struct {
	Code     ErrorCode
	Message  string
	Location string // file path
	Cause    error
}

func (e *LoadError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s: %s", e.Location, e.Message)
	}
	return e.Message
}

func (e *LoadError) Unwrap() error { return e.Cause }

func loadErrorf(code ErrorCode, location string, cause error, format string, args ...any) *LoadError {
	return &LoadError{Code: code, Message: fmt.Sprintf(format, args...), Location: location, Cause: cause}
}
