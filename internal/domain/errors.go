package domain

import "fmt"

// ValidationError reports a malformed entity. It is returned synchronously by
// Validate and by the calculators; values are never silently coerced.
type ValidationError struct {
	Entity string // e.g. "transaction", "investment"
	ID     string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid %s: %s %s", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s %s", e.Entity, e.ID, e.Field, e.Reason)
}

// ConfigurationError reports unsupported or malformed static configuration,
// such as an unknown currency code.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}

func invalid(entity, id, field, reason string) error {
	return &ValidationError{Entity: entity, ID: id, Field: field, Reason: reason}
}
