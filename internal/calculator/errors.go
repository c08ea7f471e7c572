package calculator

import "fmt"

// ValidationError reports malformed or out-of-range input. The message is
// shown to the user verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: field + " " + fmt.Sprintf(format, args...)}
}

// ConfigurationError means the static reference data has no usable entry for a
// requested combination. It is a defect in the tables, not bad input.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return "reference data: " + e.Reason
	}
	return fmt.Sprintf("reference data for %s: %s", e.Key, e.Reason)
}
