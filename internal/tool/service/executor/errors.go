package executor

import "fmt"

// StartError is returned when the shell process cannot be spawned.
type StartError struct {
	Shell string
	Cause error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Shell, e.Cause)
}
func (e *StartError) Unwrap() error { return e.Cause }
