package config

import (
	"fmt"
	"strings"
)

// LoadError is returned when the config file exists but cannot be read or parsed.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load config %s: %v", e.Path, e.Cause)
}
func (e *LoadError) Unwrap() error { return e.Cause }

// ValidationError lists every invalid config value.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "config validation failed: " + strings.Join(e.Problems, "; ")
}
func (e *ValidationError) InvalidInput() bool { return true }
