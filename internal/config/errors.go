package config

import (
	"errors"
	"fmt"
)

// ConfigurationError is a recoverable, section-scoped problem in the
// configuration: a missing or malformed key, an unknown type, or a type that
// cannot play the role the section asks of it.
type ConfigurationError struct {
	Section string
	Err     error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Section == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("section '%s': %v", e.Section, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Errorf builds a ConfigurationError for the given section. The format
// supports %w like fmt.Errorf.
func Errorf(section, format string, args ...any) error {
	return &ConfigurationError{Section: section, Err: fmt.Errorf(format, args...)}
}

// IsConfigurationError reports whether err or any error it wraps is a
// ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
