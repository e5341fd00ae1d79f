package fs

import "fmt"

// OpError reports a failed step of an atomic write or a copy.
type OpError struct {
	Op    string
	Path  string
	Cause error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}
func (e *OpError) Unwrap() error { return e.Cause }
func (e *OpError) IOError() bool { return true }
