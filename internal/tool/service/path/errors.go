package path

import (
	"errors"
	"fmt"
)

// StartDirError is returned when the start directory cannot be used.
type StartDirError struct {
	Dir   string
	Cause error
}

func (e *StartDirError) Error() string {
	return fmt.Sprintf("cannot start in %s: %v", e.Dir, e.Cause)
}
func (e *StartDirError) Unwrap() error { return e.Cause }

var (
	// ErrOutsideWorkingDir rejects paths that escape the boundary directory.
	ErrOutsideWorkingDir = errors.New("path is outside the working directory")
	ErrNoWorkingDir      = errors.New("working directory not set")
	ErrNotADirectory     = errors.New("not a directory")
)
