package directory

const (
	// DefaultListLimit is the page size when the model gives none.
	DefaultListLimit = 200
	// DefaultMaxEntries caps how many entries a single walk may collect.
	DefaultMaxEntries = 2000
)

// ChangeDirectoryRequest is the change_directory argument document.
type ChangeDirectoryRequest struct {
	Path string `json:"path"`
}

// ListDirectoryRequest is the list_directory argument document.
type ListDirectoryRequest struct {
	Path           string `json:"path"`
	Pattern        string `json:"pattern"`
	MaxDepth       int    `json:"max_depth"`
	IncludeIgnored bool   `json:"include_ignored"`
	Offset         int    `json:"offset"`
	Limit          int    `json:"limit"`
}

// Entry is one listed file or directory.
type Entry struct {
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size,omitempty"`
}

// ListDirectoryResponse is the list_directory output document.
type ListDirectoryResponse struct {
	Success          bool    `json:"success"`
	Directory        string  `json:"directory"`
	Entries          []Entry `json:"entries"`
	Offset           int     `json:"offset"`
	Limit            int     `json:"limit"`
	TotalCount       int     `json:"total_count"`
	Truncated        bool    `json:"truncated"`
	TruncationReason string  `json:"truncation_reason,omitempty"`
}

type changeDirectoryResponse struct {
	Success           bool   `json:"success"`
	PreviousDirectory string `json:"previous_directory"`
	CurrentDirectory  string `json:"current_directory"`
	Message           string `json:"message"`
}
