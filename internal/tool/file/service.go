package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
	"github.com/pmezard/go-difflib/difflib"
)

// backupTimeFormat is the timestamp suffix of backup files.
const backupTimeFormat = "20060102_150405"

// EditService performs single-file text edits with optional backups.
// Every write is atomic at the file level; a failure before the write leaves
// the file untouched.
type EditService struct {
	fs      fileSystem
	paths   pathResolver
	maxSize int64
	now     func() time.Time
}

// NewEditService creates an EditService. maxSize <= 0 uses MaxFileSize.
func NewEditService(fs fileSystem, paths pathResolver, maxSize int64) *EditService {
	if fs == nil {
		panic("fs is required")
	}
	if paths == nil {
		panic("paths is required")
	}
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	return &EditService{fs: fs, paths: paths, maxSize: maxSize, now: time.Now}
}

// Replace replaces every non-overlapping occurrence of search.
func (s *EditService) Replace(path, search, replacement string, backup bool) (*EditResult, error) {
	abs, info, doc, err := s.load(path)
	if err != nil {
		return nil, err
	}
	search = normalizeNewlines(search)
	replacement = normalizeNewlines(replacement)

	count := countOccurrences(doc.text, search)
	if count == 0 {
		return nil, &SearchTextNotFoundError{Path: abs}
	}
	updated := strings.ReplaceAll(doc.text, search, replacement)

	res, err := s.commit(abs, info.Mode().Perm(), doc, updated, backup, true)
	if err != nil {
		return nil, err
	}
	res.LinesModified = count
	res.Message = fmt.Sprintf("Replaced %d occurrence(s) of text", count)
	return res, nil
}

// Insert inserts content before 1-based line; total+1 appends after the last line.
func (s *EditService) Insert(path string, line int, content string, backup bool) (*EditResult, error) {
	abs, info, doc, err := s.load(path)
	if err != nil {
		return nil, err
	}
	lines := splitLines(doc.text)
	if line < 1 || line > len(lines)+1 {
		return nil, &LineOutOfRangeError{Line: line, Total: len(lines)}
	}

	inserted := splitLines(normalizeNewlines(content))
	if len(inserted) == 0 {
		inserted = []string{""}
	}
	out := make([]string, 0, len(lines)+len(inserted))
	out = append(out, lines[:line-1]...)
	out = append(out, inserted...)
	out = append(out, lines[line-1:]...)

	trailing := doc.text == "" || strings.HasSuffix(doc.text, "\n")
	res, err := s.commit(abs, info.Mode().Perm(), doc, joinLines(out, trailing), backup, true)
	if err != nil {
		return nil, err
	}
	res.LinesModified = len(inserted)
	res.Message = fmt.Sprintf("Inserted text at line %d", line)
	return res, nil
}

// Append adds content at the end of the file verbatim.
func (s *EditService) Append(path, content string, backup bool) (*EditResult, error) {
	abs, info, doc, err := s.load(path)
	if err != nil {
		return nil, err
	}
	content = normalizeNewlines(content)

	res, err := s.commit(abs, info.Mode().Perm(), doc, doc.text+content, backup, true)
	if err != nil {
		return nil, err
	}
	res.LinesModified = len(splitLines(content))
	res.Message = "Content appended to file"
	return res, nil
}

// DeleteLines removes the 1-based inclusive range start..end.
func (s *EditService) DeleteLines(path string, start, end int, backup bool) (*EditResult, error) {
	abs, info, doc, err := s.load(path)
	if err != nil {
		return nil, err
	}
	lines := splitLines(doc.text)
	if start < 1 || end > len(lines) || start > end {
		return nil, &LineRangeError{Start: start, End: end, Total: len(lines)}
	}

	out := make([]string, 0, len(lines)-(end-start+1))
	out = append(out, lines[:start-1]...)
	out = append(out, lines[end:]...)

	res, err := s.commit(abs, info.Mode().Perm(), doc, joinLines(out, strings.HasSuffix(doc.text, "\n")), backup, true)
	if err != nil {
		return nil, err
	}
	count := end - start + 1
	res.LinesModified = count
	res.Message = fmt.Sprintf("Deleted %d line(s)", count)
	return res, nil
}

// Write replaces the whole file, creating it and its parent directories when
// missing. An existing file keeps its encoding and line endings.
func (s *EditService) Write(path, content string, backup bool) (*EditResult, error) {
	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > s.maxSize {
		return nil, &TooLargeError{Path: abs, Size: int64(len(content)), Limit: s.maxSize}
	}
	lines := len(splitLines(normalizeNewlines(content)))

	if _, err := s.fs.Stat(abs); err == nil {
		_, info, doc, err := s.load(path)
		if err != nil {
			return nil, err
		}
		res, err := s.commit(abs, info.Mode().Perm(), doc, normalizeNewlines(content), backup, true)
		if err != nil {
			return nil, err
		}
		res.LinesModified = lines
		res.Message = "File updated"
		return res, nil
	} else if !os.IsNotExist(err) {
		return nil, &ReadError{Path: abs, Cause: err}
	}

	if err := s.fs.EnsureDirs(filepath.Dir(abs)); err != nil {
		return nil, &WriteError{Path: abs, Cause: err}
	}
	res, err := s.commit(abs, 0o644, document{encoding: encodingUTF8}, content, false, false)
	if err != nil {
		return nil, err
	}
	res.LinesModified = lines
	res.Message = "File created"
	return res, nil
}

func (s *EditService) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	return s.paths.ResolveRelativePath(path), nil
}

// load resolves path and reads an existing file within the size ceiling.
func (s *EditService) load(path string) (string, os.FileInfo, document, error) {
	abs, err := s.resolve(path)
	if err != nil {
		return "", nil, document{}, err
	}
	info, err := s.fs.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, document{}, &NotFoundError{Path: abs}
		}
		return "", nil, document{}, &ReadError{Path: abs, Cause: err}
	}
	if info.IsDir() {
		return "", nil, document{}, &IsDirectoryError{Path: abs}
	}
	if info.Size() > s.maxSize {
		return "", nil, document{}, &TooLargeError{Path: abs, Size: info.Size(), Limit: s.maxSize}
	}
	data, err := s.fs.ReadFile(abs)
	if err != nil {
		return "", nil, document{}, &ReadError{Path: abs, Cause: err}
	}
	doc, err := parseDocument(data)
	if err != nil {
		return "", nil, document{}, &ReadError{Path: abs, Cause: err}
	}
	return abs, info, doc, nil
}

// commit snapshots the original when asked, then writes updated atomically.
func (s *EditService) commit(abs string, perm os.FileMode, doc document, updated string, backup, exists bool) (*EditResult, error) {
	data, err := doc.render(updated)
	if err != nil {
		return nil, &WriteError{Path: abs, Cause: err}
	}
	if int64(len(data)) > s.maxSize {
		return nil, &TooLargeError{Path: abs, Size: int64(len(data)), Limit: s.maxSize}
	}

	res := &EditResult{FilePath: abs, Encoding: doc.encoding.String()}
	if backup && exists {
		backupPath, err := s.backup(abs)
		if err != nil {
			return nil, err
		}
		res.BackupPath = backupPath
	}

	if err := s.fs.WriteFileAtomic(abs, data, perm); err != nil {
		return nil, &WriteError{Path: abs, Cause: err}
	}
	res.Diff = unifiedDiff(filepath.Base(abs), doc.text, updated)
	logging.Debug("file edited", "path", abs, "backup", res.BackupPath, "bytes", len(data))
	return res, nil
}

// backup copies abs to <name>.backup_yyyyMMdd_HHmmss beside it. A numeric
// suffix keeps backups taken within the same second distinct.
func (s *EditService) backup(abs string) (string, error) {
	base := fmt.Sprintf("%s.backup_%s", abs, s.now().Format(backupTimeFormat))
	candidate := base
	for i := 1; ; i++ {
		if _, err := s.fs.Stat(candidate); os.IsNotExist(err) {
			break
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
	if err := s.fs.CopyFile(abs, candidate); err != nil {
		return "", &BackupError{Path: abs, Cause: err}
	}
	return candidate, nil
}

// countOccurrences counts non-overlapping matches scanning forward.
func countOccurrences(content, search string) int {
	if search == "" {
		return 0
	}
	count := 0
	for pos := 0; ; {
		i := strings.Index(content[pos:], search)
		if i < 0 {
			return count
		}
		count++
		pos += i + len(search)
	}
}

func unifiedDiff(filename, oldContent, newContent string) string {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: "a/" + filename,
		ToFile:   "b/" + filename,
		Context:  3,
	}
	diff, _ := difflib.GetUnifiedDiffString(ud)
	return diff
}
