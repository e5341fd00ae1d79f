// Package git applies .gitignore rules to directory listings.
package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/helper/content"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// GitignoreReadError is returned when a .gitignore exists but cannot be read.
type GitignoreReadError struct {
	Path  string
	Cause error
}

func (e *GitignoreReadError) Error() string {
	return fmt.Sprintf("failed to read .gitignore at %s: %v", e.Path, e.Cause)
}
func (e *GitignoreReadError) Unwrap() error { return e.Cause }

type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// IgnoreMatcher applies the .gitignore at root plus any nested .gitignore
// files, which are read the first time a path below them is checked.
// Not safe for concurrent use.
type IgnoreMatcher struct {
	root     string
	fs       fileSystem
	loaded   map[string]bool
	patterns []gitignore.Pattern
	matcher  gitignore.Matcher
}

// NewIgnoreMatcher reads root/.gitignore. A missing file is not an error.
func NewIgnoreMatcher(root string, fs fileSystem) (*IgnoreMatcher, error) {
	if root == "" {
		panic("root is required")
	}
	if fs == nil {
		panic("fs is required")
	}
	m := &IgnoreMatcher{root: root, fs: fs, loaded: make(map[string]bool)}
	if err := m.load(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// ShouldIgnore reports whether relativePath (slash or OS separated, relative
// to root) is ignored.
func (m *IgnoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	parts := splitPath(relativePath)
	if len(parts) == 0 {
		return false
	}
	for i := 1; i < len(parts); i++ {
		if err := m.load(parts[:i]); err != nil {
			logging.Warn("nested gitignore skipped", "error", err)
		}
	}
	if m.matcher == nil {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

// load reads the .gitignore of the directory named by domain once. Later
// patterns take precedence in go-git, and deeper files load after their
// parents, so nested rules override outer ones.
func (m *IgnoreMatcher) load(domain []string) error {
	key := strings.Join(domain, "/")
	if m.loaded[key] {
		return nil
	}
	m.loaded[key] = true

	path := filepath.Join(append([]string{m.root}, append(domain, ".gitignore")...)...)
	if _, err := m.fs.Stat(path); err != nil {
		return nil
	}
	data, err := m.fs.ReadFile(path)
	if err != nil {
		return &GitignoreReadError{Path: path, Cause: err}
	}

	before := len(m.patterns)
	for _, line := range content.SplitLines(string(data)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.patterns = append(m.patterns, gitignore.ParsePattern(line, append([]string(nil), domain...)))
	}
	if len(m.patterns) > before {
		m.matcher = gitignore.NewMatcher(m.patterns)
	}
	return nil
}

func splitPath(path string) []string {
	var segments []string
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}

// NoOpMatcher ignores nothing. Used when include_ignored is set.
type NoOpMatcher struct{}

func (NoOpMatcher) ShouldIgnore(string, bool) bool { return false }
