package loop

import "fmt"

// MaxIterationsError is returned when a turn keeps calling tools past the
// iteration limit.
type MaxIterationsError struct {
	Limit int
}

func (e *MaxIterationsError) Error() string {
	return fmt.Sprintf("max iterations (%d) reached", e.Limit)
}

// StreamError wraps a failure while reading the model stream.
type StreamError struct {
	Cause error
}

func (e *StreamError) Error() string { return fmt.Sprintf("model stream: %v", e.Cause) }
func (e *StreamError) Unwrap() error { return e.Cause }
