package plan

import "fmt"

// InvalidStatusError is returned for an unknown item status.
type InvalidStatusError struct {
	Index  int
	Status Status
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q at item %d (expected pending, in_progress or done)", e.Status, e.Index)
}

func (e *InvalidStatusError) InvalidInput() bool {
	return true
}

// EmptyTitleError is returned when an item has no title.
type EmptyTitleError struct {
	Index int
}

func (e *EmptyTitleError) Error() string {
	return fmt.Sprintf("item %d: title cannot be empty", e.Index)
}

func (e *EmptyTitleError) InvalidInput() bool {
	return true
}
