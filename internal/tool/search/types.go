package search

// Backend identifies a search implementation.
type Backend string

const (
	BackendRipgrep    Backend = "ripgrep"
	BackendGrep       Backend = "grep"
	BackendPowerShell Backend = "powershell"
)

// DefaultMaxResults caps matches when the caller does not.
const DefaultMaxResults = 100

// DefaultTimeoutSeconds bounds one backend invocation.
const DefaultTimeoutSeconds = 30

// Options describes one search.
type Options struct {
	Pattern        string
	SearchPath     string
	FileType       string
	CaseSensitive  bool
	ContextLines   int
	MaxResults     int
	IsRegex        bool
	TimeoutSeconds int
}

// Match is one matching line.
type Match struct {
	FilePath      string   `json:"file_path"`
	LineNumber    int      `json:"line_number"`
	LineContent   string   `json:"line_content"`
	ContextBefore []string `json:"context_before"`
	ContextAfter  []string `json:"context_after"`
}

// Result is the normalized outcome of a search.
type Result struct {
	Success        bool
	Matches        []Match
	TotalMatches   int
	Backend        Backend
	Platform       string
	BackendCommand string
	Error          string
}
