// Package workdir holds the agent's current directory, which is independent of
// the process working directory.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// NotFoundError is returned when a directory does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string  { return "Directory not found: " + e.Path }
func (e *NotFoundError) NotFound() bool { return true }

// NotDirectoryError is returned when the path exists but is not a directory.
type NotDirectoryError struct {
	Path string
}

func (e *NotDirectoryError) Error() string  { return "Not a directory: " + e.Path }
func (e *NotDirectoryError) NotFound() bool { return true }

// pathNormalizer expands "~" and fixes separators.
type pathNormalizer interface {
	NormalizePath(path string) string
}

// Service is a mutex-guarded absolute directory path.
type Service struct {
	mu       sync.RWMutex
	current  string
	initial  string
	platform pathNormalizer
}

// New creates a Service rooted at start, which must be an existing directory.
func New(start string, platform pathNormalizer) (*Service, error) {
	if platform == nil {
		panic("platform is required")
	}
	s := &Service{platform: platform}
	abs, err := s.resolve(start, "")
	if err != nil {
		return nil, err
	}
	if err := checkDir(abs); err != nil {
		return nil, err
	}
	s.current = abs
	s.initial = abs
	return s, nil
}

// Get returns the current directory.
func (s *Service) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Initial returns the directory the service started in.
func (s *Service) Initial() string {
	return s.initial
}

// Set changes the current directory. On error the state is unchanged.
func (s *Service) Set(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	abs, err := s.resolve(path, s.current)
	if err != nil {
		return "", err
	}
	if err := checkDir(abs); err != nil {
		return "", err
	}
	s.current = abs
	return abs, nil
}

// ResolveRelativePath returns an absolute, cleaned path. Relative paths are
// joined to the current directory; an empty path yields the current directory.
func (s *Service) ResolveRelativePath(path string) string {
	abs, err := s.resolve(path, s.Get())
	if err != nil {
		return filepath.Join(s.Get(), path)
	}
	return abs
}

// DirectoryExists reports whether path resolves to an existing directory.
func (s *Service) DirectoryExists(path string) bool {
	return checkDir(s.ResolveRelativePath(path)) == nil
}

func (s *Service) resolve(path, base string) (string, error) {
	if strings.TrimSpace(path) == "" {
		if base == "" {
			return "", fmt.Errorf("path is required")
		}
		return base, nil
	}
	p := s.platform.NormalizePath(path)
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	if base == "" {
		return filepath.Abs(p)
	}
	return filepath.Join(base, p), nil
}

func checkDir(abs string) error {
	info, err := os.Stat(abs)
	if err != nil {
		return &NotFoundError{Path: abs}
	}
	if !info.IsDir() {
		return &NotDirectoryError{Path: abs}
	}
	return nil
}
