// Package path confines tool paths to the session's working directory.
package path

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// boundary supplies the current boundary directory.
type boundary interface {
	Get() string
}

// Resolver resolves tool paths and rejects those outside the boundary. The
// boundary is read on every call, so it follows change_directory.
type Resolver struct {
	dir boundary
}

func NewResolver(dir boundary) *Resolver {
	if dir == nil {
		panic("dir is required")
	}
	return &Resolver{dir: dir}
}

// FixedDir is a boundary that never moves.
type FixedDir string

func (d FixedDir) Get() string { return string(d) }

// CanonicaliseRoot returns dir as an absolute, symlink-free directory path.
func CanonicaliseRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", &StartDirError{Dir: dir, Cause: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &StartDirError{Dir: abs, Cause: err}
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", &StartDirError{Dir: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &StartDirError{Dir: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Abs joins relative paths onto the boundary, cleans the result and returns
// ErrOutsideWorkingDir when it escapes.
func (r *Resolver) Abs(p string) (string, error) {
	base := r.dir.Get()
	if base == "" {
		return "", ErrNoWorkingDir
	}
	base = filepath.Clean(base)

	abs := filepath.Clean(p)
	if !filepath.IsAbs(p) {
		abs = filepath.Join(base, p)
	}
	if !inside(base, abs) {
		return "", ErrOutsideWorkingDir
	}
	return abs, nil
}

func inside(base, abs string) bool {
	if abs == base {
		return true
	}
	return strings.HasPrefix(abs, strings.TrimSuffix(base, string(filepath.Separator))+string(filepath.Separator))
}
