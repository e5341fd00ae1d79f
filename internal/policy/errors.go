package policy

import "fmt"

// LoadError is returned when the policy file exists but cannot be read.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load policy %s: %v", e.Path, e.Cause)
}
func (e *LoadError) Unwrap() error { return e.Cause }
func (e *LoadError) IOError() bool { return true }

// SaveError is returned when the policy file cannot be written.
type SaveError struct {
	Path  string
	Cause error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save policy %s: %v", e.Path, e.Cause)
}
func (e *SaveError) Unwrap() error { return e.Cause }
func (e *SaveError) IOError() bool { return true }

// DeniedError describes a command the gate refused.
type DeniedError struct {
	Command  string
	Decision Decision
	Reason   string
	Entry    string
}

func (e *DeniedError) Error() string {
	switch {
	case e.Entry != "":
		return fmt.Sprintf("Command blocked by policy (matches %q): %s", e.Entry, e.Command)
	case e.Reason != "":
		return fmt.Sprintf("Command denied by user: %s (reason: %s)", e.Command, e.Reason)
	default:
		return fmt.Sprintf("Command denied by user: %s", e.Command)
	}
}
func (e *DeniedError) PermissionDenied() bool { return true }
