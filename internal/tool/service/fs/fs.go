// Package fs is the disk access used by the file and directory tools.
package fs

import (
	"io"
	"os"
	"path/filepath"
)

// OSFileSystem reads and writes the local disk.
type OSFileSystem struct{}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (*OSFileSystem) Stat(path string) (os.FileInfo, error)      { return os.Stat(path) }
func (*OSFileSystem) ReadFile(path string) ([]byte, error)       { return os.ReadFile(path) }
func (*OSFileSystem) ReadDir(path string) ([]os.DirEntry, error) { return os.ReadDir(path) }
func (*OSFileSystem) EnsureDirs(path string) error               { return os.MkdirAll(path, 0o755) }

// ReadFileLimit reads at most limit bytes. truncated reports whether the
// file had more.
func (*OSFileSystem) ReadFileLimit(path string, limit int64) (data []byte, truncated bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > limit {
		return data[:limit], true, nil
	}
	return data, false, nil
}

// WriteFileAtomic writes to a temp file beside path, syncs it and renames it
// over path, so a failed edit never leaves a half-written file.
func (*OSFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".grok-edit-*")
	if err != nil {
		return &OpError{Op: "create temp file in", Path: dir, Cause: err}
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return &OpError{Op: "write", Path: tmpPath, Cause: err}
	}
	if err = tmp.Sync(); err != nil {
		return &OpError{Op: "sync", Path: tmpPath, Cause: err}
	}
	if err = tmp.Close(); err != nil {
		return &OpError{Op: "close", Path: tmpPath, Cause: err}
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return &OpError{Op: "chmod", Path: tmpPath, Cause: err}
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return &OpError{Op: "rename onto", Path: path, Cause: err}
	}
	return nil
}

// CopyFile copies src to dst with the source permissions. Used for backups.
func (*OSFileSystem) CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return &OpError{Op: "copy to", Path: dst, Cause: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return &OpError{Op: "copy to", Path: dst, Cause: err}
	}
	if err := out.Close(); err != nil {
		return &OpError{Op: "copy to", Path: dst, Cause: err}
	}
	return nil
}
