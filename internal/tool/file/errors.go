package file

import (
	"errors"
	"fmt"
)

// ErrEmptyPath is returned when no path is given.
var ErrEmptyPath = errors.New("File path cannot be empty")

// NotFoundError is returned when the target file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string  { return "File not found: " + e.Path }
func (e *NotFoundError) NotFound() bool { return true }

// TooLargeError is returned when a file exceeds the size ceiling.
type TooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("File too large (max %d MB)", e.Limit/(1024*1024))
}
func (e *TooLargeError) InvalidInput() bool { return true }

// SearchTextNotFoundError is returned when replace finds nothing.
type SearchTextNotFoundError struct {
	Path string
}

func (e *SearchTextNotFoundError) Error() string  { return "Search text not found in file" }
func (e *SearchTextNotFoundError) NotFound() bool { return true }

// LineOutOfRangeError is returned for an invalid insert position.
type LineOutOfRangeError struct {
	Line  int
	Total int
}

func (e *LineOutOfRangeError) Error() string {
	return fmt.Sprintf("Invalid line number: %d (file has %d lines)", e.Line, e.Total)
}
func (e *LineOutOfRangeError) InvalidInput() bool { return true }

// LineRangeError is returned for an invalid delete range.
type LineRangeError struct {
	Start int
	End   int
	Total int
}

func (e *LineRangeError) Error() string {
	return fmt.Sprintf("Invalid line range: %d-%d (file has %d lines)", e.Start, e.End, e.Total)
}
func (e *LineRangeError) InvalidInput() bool { return true }

// IsDirectoryError is returned when the path names a directory.
type IsDirectoryError struct {
	Path string
}

func (e *IsDirectoryError) Error() string      { return "Path is a directory: " + e.Path }
func (e *IsDirectoryError) InvalidInput() bool { return true }

// BackupError is returned when the pre-edit snapshot fails.
type BackupError struct {
	Path  string
	Cause error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("failed to back up %s: %v", e.Path, e.Cause)
}
func (e *BackupError) Unwrap() error { return e.Cause }
func (e *BackupError) IOError() bool { return true }

// ReadError is returned when the file cannot be read or decoded.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Cause)
}
func (e *ReadError) Unwrap() error { return e.Cause }
func (e *ReadError) IOError() bool { return true }

// WriteError is returned when the edited content cannot be written.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}
func (e *WriteError) Unwrap() error { return e.Cause }
func (e *WriteError) IOError() bool { return true }
