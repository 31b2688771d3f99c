package types

import "fmt"

// ValidationError reports malformed input or an internal analysis failure
// surfaced to the caller. Callers own the fallback policy; the analyzer
// never substitutes a partial result for a failed one.
type ValidationError struct {
	Message string
	Cause   error
}

// NewValidationError wraps cause (which may be nil) with a message
func NewValidationError(message string, cause error) *ValidationError {
	return &ValidationError{Message: message, Cause: cause}
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// ConfigurationError reports an invalid or unreadable configuration file
type ConfigurationError struct {
	Message string
	Cause   error
}

// NewConfigurationError wraps cause (which may be nil) with a message
func NewConfigurationError(message string, cause error) *ConfigurationError {
	return &ConfigurationError{Message: message, Cause: cause}
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// ExtractionError reports a failure to pull structured data out of a
// document. The message names the file involved.
type ExtractionError struct {
	Message string
	Cause   error
}

// NewExtractionError wraps cause, which may be nil
func NewExtractionError(message string, cause error) *ExtractionError {
	return &ExtractionError{Message: message, Cause: cause}
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
