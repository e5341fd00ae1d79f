package search

import (
	"context"
	"encoding/json"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
)

// Request is the search tool's argument document.
type Request struct {
	Pattern       string `json:"pattern"`
	Path          string `json:"path"`
	FileType      string `json:"file_type"`
	CaseSensitive bool   `json:"case_sensitive"`
	ContextLines  int    `json:"context_lines"`
	MaxResults    int    `json:"max_results"`
	Regex         bool   `json:"regex"`
}

type response struct {
	Success       bool    `json:"success"`
	TotalMatches  int     `json:"total_matches"`
	Platform      string  `json:"platform"`
	SearchCommand string  `json:"search_command"`
	Matches       []Match `json:"matches"`
}

// searcher runs searches.
type searcher interface {
	Search(ctx context.Context, opts Options) (*Result, error)
}

// SearchTool exposes the search engine to the model.
type SearchTool struct {
	engine         searcher
	maxResults     int
	timeoutSeconds int
}

// NewSearchTool creates a SearchTool. maxResults and timeoutSeconds are the
// defaults applied when the model omits them.
func NewSearchTool(engine searcher, maxResults, timeoutSeconds int) *SearchTool {
	if engine == nil {
		panic("engine is required")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &SearchTool{engine: engine, maxResults: maxResults, timeoutSeconds: timeoutSeconds}
}

func (t *SearchTool) Name() string { return "search" }

func (t *SearchTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "search",
		Description: "Search for text patterns in files. Supports regex, file type filters, and context lines. Uses ripgrep or grep on Linux/macOS and PowerShell on Windows.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"pattern":        {Type: tool.TypeString, Description: "The text or regex pattern to search for"},
				"path":           {Type: tool.TypeString, Description: "Directory to search in (default: current directory)"},
				"file_type":      {Type: tool.TypeString, Description: "Filter by file extension (e.g., 'go', 'txt', 'json')"},
				"case_sensitive": {Type: tool.TypeBoolean, Description: "Whether the search is case-sensitive (default: false)"},
				"context_lines":  {Type: tool.TypeInteger, Description: "Context lines before and after each match (default: 0)"},
				"max_results":    {Type: tool.TypeInteger, Description: "Maximum number of results (default: 100)"},
				"regex":          {Type: tool.TypeBoolean, Description: "Treat pattern as regex (default: false, literal search)"},
			},
			Required: []string{"pattern"},
		},
	}
}

func (t *SearchTool) Execute(ctx context.Context, args json.RawMessage) (tool.Result, error) {
	var req Request
	if err := tool.DecodeArgs(args, &req); err != nil {
		return tool.Failure(err.Error()), nil
	}
	if req.MaxResults <= 0 {
		req.MaxResults = t.maxResults
	}

	res, err := t.engine.Search(ctx, Options{
		Pattern:        req.Pattern,
		SearchPath:     req.Path,
		FileType:       req.FileType,
		CaseSensitive:  req.CaseSensitive,
		ContextLines:   req.ContextLines,
		MaxResults:     req.MaxResults,
		IsRegex:        req.Regex,
		TimeoutSeconds: t.timeoutSeconds,
	})
	if err != nil {
		return tool.Result{}, err
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "Search failed"
		}
		return tool.Failure(msg), nil
	}

	matches := res.Matches
	if matches == nil {
		matches = []Match{}
	}
	out, err := json.Marshal(response{
		Success:       true,
		TotalMatches:  res.TotalMatches,
		Platform:      res.Platform,
		SearchCommand: res.BackendCommand,
		Matches:       matches,
	})
	if err != nil {
		return tool.Failure(err.Error()), nil
	}
	return tool.Success(string(out)), nil
}
