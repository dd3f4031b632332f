package rig

import (
	"errors"
	"fmt"
)

// ConfigError reports a configuration field outside its valid domain.
// It is returned once, when a rig is constructed, and never from Evaluate.
type ConfigError struct {
	Rig    string // "orbit", "isometric", "vr180", ...
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s config: %s = %v (%s)", e.Rig, e.Field, e.Value, e.Reason)
}

// NewConfigError creates a ConfigError for the given rig field.
func NewConfigError(rigName, field string, value any, reason string) *ConfigError {
	return &ConfigError{Rig: rigName, Field: field, Value: value, Reason: reason}
}

// IsConfigError reports whether err wraps a *ConfigError.
func IsConfigError(err error) bool {
	var cerr *ConfigError
	return errors.As(err, &cerr)
}
