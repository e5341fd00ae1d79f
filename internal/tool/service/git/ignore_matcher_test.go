package git

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFS is an in-memory fileSystem keyed by absolute path.
type memFS struct {
	files   map[string]string
	readErr error
	reads   []string
}

func (m *memFS) Stat(path string) (os.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return nil, nil
	}
	return nil, os.ErrNotExist
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	m.reads = append(m.reads, path)
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(data), nil
}

func newMatcher(t *testing.T, files map[string]string) (*IgnoreMatcher, *memFS) {
	t.Helper()
	fs := &memFS{files: files}
	m, err := NewIgnoreMatcher("/project", fs)
	require.NoError(t, err)
	return m, fs
}

func TestIgnoreMatcher_RootPatterns(t *testing.T) {
	m, _ := newMatcher(t, map[string]string{
		"/project/.gitignore": "# build output\nbuild/\n*.log\n!keep.log\r\nnode_modules\r\n",
	})

	tests := []struct {
		path   string
		isDir  bool
		ignore bool
	}{
		{"app.log", false, true},
		{".hidden.log", false, true},
		{"keep.log", false, false},
		{"main.go", false, false},
		{"build", true, true},
		{"build", false, false},
		{"src/debug.log", false, true},
		{"node_modules", true, true},
		{"foo//bar.log", false, true},
		{"./baz.log", false, true},
		{"", true, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ignore, m.ShouldIgnore(tt.path, tt.isDir), "path %q dir=%v", tt.path, tt.isDir)
	}
}

func TestIgnoreMatcher_NoGitignore(t *testing.T) {
	m, _ := newMatcher(t, map[string]string{})
	assert.False(t, m.ShouldIgnore("app.log", false))
	assert.False(t, m.ShouldIgnore("a/b/c", true))
}

func TestIgnoreMatcher_NestedGitignore(t *testing.T) {
	m, fs := newMatcher(t, map[string]string{
		"/project/.gitignore":     "*.log\n",
		"/project/pkg/.gitignore": "!keep.log\ngen/\n",
	})

	assert.True(t, m.ShouldIgnore("other/keep.log", false))
	assert.False(t, m.ShouldIgnore("pkg/keep.log", false), "nested negation overrides the root rule")
	assert.True(t, m.ShouldIgnore("pkg/gen", true))
	assert.False(t, m.ShouldIgnore("gen", true), "nested rule does not leak upward")
	assert.True(t, m.ShouldIgnore("pkg/other.log", false))

	m.ShouldIgnore("pkg/x.go", false)
	assert.Equal(t, []string{"/project/.gitignore", "/project/pkg/.gitignore"}, fs.reads, "each file is read once")
}

func TestNewIgnoreMatcher_ReadError(t *testing.T) {
	fs := &memFS{files: map[string]string{"/project/.gitignore": "*.log"}, readErr: errors.New("disk failure")}

	_, err := NewIgnoreMatcher("/project", fs)
	var readErr *GitignoreReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "/project/.gitignore", readErr.Path)
}

func TestNoOpMatcher(t *testing.T) {
	assert.False(t, NoOpMatcher{}.ShouldIgnore("build", true))
}
