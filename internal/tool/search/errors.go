package search

// DirectoryNotFoundError is returned when the search root does not exist.
type DirectoryNotFoundError struct {
	Path string
}

func (e *DirectoryNotFoundError) Error() string  { return "Directory not found: " + e.Path }
func (e *DirectoryNotFoundError) NotFound() bool { return true }

// PatternRequiredError is returned when the pattern is blank.
type PatternRequiredError struct{}

func (e *PatternRequiredError) Error() string      { return "Pattern cannot be empty" }
func (e *PatternRequiredError) InvalidInput() bool { return true }
