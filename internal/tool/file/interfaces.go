package file

import "os"

// fileSystem defines the filesystem operations needed for editing files.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
	CopyFile(src, dst string) error
	EnsureDirs(path string) error
}

// fileReader defines the operations needed by read_local_file.
type fileReader interface {
	Stat(path string) (os.FileInfo, error)
	ReadFileLimit(path string, limit int64) ([]byte, bool, error)
}

// pathResolver resolves paths against the working directory.
type pathResolver interface {
	ResolveRelativePath(path string) string
}

// boundedResolver resolves paths that must stay inside the working directory.
type boundedResolver interface {
	Abs(path string) (string, error)
}
