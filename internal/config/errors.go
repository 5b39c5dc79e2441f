package config

import (
	"fmt"
)

// ConfigError represents configuration validation errors
type ConfigError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func NewConfigError(field, value, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("config validation failed for %s=%s: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) WithCause(err error) *ConfigError {
	e.Err = err
	return e
}
