package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/service/git"
	"github.com/bmatcuk/doublestar/v4"
)

// ListDirectoryTool lists a directory below the working directory,
// respecting the .gitignore found at the listed root.
type ListDirectoryTool struct {
	fs           fileSystem
	paths        pathResolver
	defaultLimit int
	maxEntries   int
}

// NewListDirectoryTool creates a ListDirectoryTool. Non-positive limits use
// DefaultListLimit and DefaultMaxEntries.
func NewListDirectoryTool(fs fileSystem, paths pathResolver, defaultLimit, maxEntries int) *ListDirectoryTool {
	if fs == nil {
		panic("fs is required")
	}
	if paths == nil {
		panic("paths is required")
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultListLimit
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &ListDirectoryTool{fs: fs, paths: paths, defaultLimit: defaultLimit, maxEntries: maxEntries}
}

func (t *ListDirectoryTool) Name() string { return "list_directory" }

func (t *ListDirectoryTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "list_directory",
		Description: "Lists files and directories. Paths are relative to the listed directory; entries ignored by .gitignore are skipped unless include_ignored is set.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path":            {Type: tool.TypeString, Description: "Directory to list (default: current directory)"},
				"pattern":         {Type: tool.TypeString, Description: "Optional glob filter such as '**/*.go'"},
				"max_depth":       {Type: tool.TypeInteger, Description: "0 lists immediate children only, -1 is unlimited (default: 0)"},
				"include_ignored": {Type: tool.TypeBoolean, Description: "Include gitignored entries (default: false)"},
				"offset":          {Type: tool.TypeInteger, Description: "Entries to skip"},
				"limit":           {Type: tool.TypeInteger, Description: "Maximum entries to return"},
			},
		},
	}
}

func (t *ListDirectoryTool) Execute(ctx context.Context, args json.RawMessage) (tool.Result, error) {
	var req ListDirectoryRequest
	if err := tool.DecodeArgs(args, &req); err != nil {
		return tool.Failure(err.Error()), nil
	}
	if req.Offset < 0 {
		return tool.Failuref("offset cannot be negative: %d", req.Offset), nil
	}
	if req.Limit < 0 {
		return tool.Failuref("limit cannot be negative: %d", req.Limit), nil
	}
	if req.Pattern != "" && !doublestar.ValidatePattern(req.Pattern) {
		return tool.Failuref("Invalid pattern: %s", req.Pattern), nil
	}
	limit := t.defaultLimit
	if req.Limit > 0 {
		limit = req.Limit
	}

	root := t.paths.ResolveRelativePath(req.Path)
	info, err := t.fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return tool.Failure("Directory not found: " + root), nil
		}
		return tool.Failuref("Error reading directory: %v", err), nil
	}
	if !info.IsDir() {
		return tool.Failure("Not a directory: " + root), nil
	}

	var matcher ignoreMatcher = git.NoOpMatcher{}
	if !req.IncludeIgnored {
		m, err := git.NewIgnoreMatcher(root, t.fs)
		if err != nil {
			return tool.Failure(err.Error()), nil
		}
		matcher = m
	}

	w := &walker{
		fs:       t.fs,
		root:     root,
		matcher:  matcher,
		pattern:  req.Pattern,
		maxDepth: req.MaxDepth,
		max:      t.maxEntries,
		visited:  make(map[string]bool),
	}
	if err := w.walk(ctx, root, 0); err != nil {
		if ctx.Err() != nil {
			return tool.Result{}, ctx.Err()
		}
		return tool.Failuref("Error reading directory: %v", err), nil
	}

	entries := w.entries
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Path < entries[j].Path
	})

	page, total, more := paginate(entries, req.Offset, limit)
	resp := ListDirectoryResponse{
		Success:    true,
		Directory:  root,
		Entries:    page,
		Offset:     req.Offset,
		Limit:      limit,
		TotalCount: total,
		Truncated:  more || w.capped,
	}
	switch {
	case w.capped:
		resp.TruncationReason = fmt.Sprintf("Results capped at %d entries.", t.maxEntries)
	case more:
		resp.TruncationReason = fmt.Sprintf("Page limit reached. More results at offset %d.", req.Offset+limit)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return tool.Failure(err.Error()), nil
	}
	return tool.Success(string(out)), nil
}

type walker struct {
	fs       fileSystem
	root     string
	matcher  ignoreMatcher
	pattern  string
	maxDepth int
	max      int
	visited  map[string]bool
	entries  []Entry
	seen     int
	capped   bool
}

// walk collects entries below dir. maxDepth 0 stops at immediate children,
// negative is unlimited. Symlink loops are visited once.
func (w *walker) walk(ctx context.Context, dir string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		canonical = dir
	}
	if w.visited[canonical] {
		return nil
	}
	w.visited[canonical] = true

	children, err := w.fs.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, child := range children {
		if w.seen >= w.max {
			w.capped = true
			return nil
		}
		abs := filepath.Join(dir, child.Name())
		rel, err := filepath.Rel(w.root, abs)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		isDir := child.IsDir()
		if child.Name() == ".git" || w.matcher.ShouldIgnore(rel, isDir) {
			continue
		}
		w.seen++

		if w.matches(rel) {
			e := Entry{Path: rel, IsDir: isDir}
			if !isDir {
				if fi, err := child.Info(); err == nil {
					e.Size = fi.Size()
				}
			}
			w.entries = append(w.entries, e)
		}

		if isDir && (w.maxDepth < 0 || depth < w.maxDepth) {
			if err := w.walk(ctx, abs, depth+1); err != nil {
				return err
			}
			if w.capped {
				return nil
			}
		}
	}
	return nil
}

func (w *walker) matches(rel string) bool {
	if w.pattern == "" {
		return true
	}
	if ok, _ := doublestar.Match(w.pattern, rel); ok {
		return true
	}
	// Patterns without a separator also match on the base name.
	if !strings.Contains(w.pattern, "/") {
		ok, _ := doublestar.Match(w.pattern, filepath.Base(rel))
		return ok
	}
	return false
}

// paginate returns items[offset:offset+limit] clamped to bounds, the total
// count and whether more items follow the page.
func paginate[T any](items []T, offset, limit int) ([]T, int, bool) {
	total := len(items)
	start := min(offset, total)
	end := min(offset+limit, total)
	page := items[start:end]
	if page == nil {
		page = []T{}
	}
	return page, total, offset+limit < total
}
