package directory

import "os"

// dirChanger is the working directory as seen by change_directory.
type dirChanger interface {
	Get() string
	Set(path string) (string, error)
	ResolveRelativePath(path string) string
}

// pathResolver resolves tool paths against the working directory.
type pathResolver interface {
	ResolveRelativePath(path string) string
}

// fileSystem is what list_directory needs from the disk.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]os.DirEntry, error)
}

// ignoreMatcher decides whether a path relative to the listed directory is gitignored.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}
