package search

import (
	"errors"
	"fmt"
)

// errDeadlineExceeded aborts the current iteration. It never leaves the package.
var errDeadlineExceeded = errors.New("search deadline exceeded")

// ConfigurationError is returned when an engine is created or called with unusable settings.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Reason)
}
