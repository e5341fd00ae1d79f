package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool/service/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

type dirResolver string

func (d dirResolver) ResolveRelativePath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(string(d), path)
}

func newService(t *testing.T) (*EditService, string) {
	t.Helper()
	dir := t.TempDir()
	s := NewEditService(fs.NewOSFileSystem(), dirResolver(dir), 0)
	s.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	return s, dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

func TestReplace_WithBackup(t *testing.T) {
	s, dir := newService(t)
	p := writeFile(t, dir, "a.txt", "foo foo")

	res, err := s.Replace("a.txt", "foo", "bar", true)
	require.NoError(t, err)

	assert.Equal(t, 2, res.LinesModified)
	assert.Equal(t, "Replaced 2 occurrence(s) of text", res.Message)
	assert.Equal(t, p+".backup_20240309_140507", res.BackupPath)
	assert.Equal(t, "foo foo", readFile(t, res.BackupPath))
	assert.Equal(t, "bar bar", readFile(t, p))
	assert.Contains(t, res.Diff, "-foo foo")
	assert.Contains(t, res.Diff, "+bar bar")
}

func TestReplace_NonOverlappingCount(t *testing.T) {
	s, dir := newService(t)
	p := writeFile(t, dir, "a.txt", "aaaa")

	res, err := s.Replace(p, "aa", "b", false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.LinesModified)
	assert.Equal(t, "bb", readFile(t, p))
	assert.Empty(t, res.BackupPath)
}

func TestReplace_Errors(t *testing.T) {
	s, dir := newService(t)
	p := writeFile(t, dir, "a.txt", "hello")

	_, err := s.Replace("missing.txt", "x", "y", true)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "File not found: "+filepath.Join(dir, "missing.txt"), err.Error())

	_, err = s.Replace("a.txt", "absent", "y", true)
	var st *SearchTextNotFoundError
	require.ErrorAs(t, err, &st)
	assert.Equal(t, "Search text not found in file", err.Error())

	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1, "no backup for a failed edit")
	assert.Equal(t, "hello", readFile(t, p))
}

func TestTooLarge(t *testing.T) {
	dir := t.TempDir()
	s := NewEditService(fs.NewOSFileSystem(), dirResolver(dir), 4)
	writeFile(t, dir, "big.txt", "12345")

	_, err := s.Append("big.txt", "x", false)
	var tl *TooLargeError
	require.ErrorAs(t, err, &tl)
	assert.Equal(t, "File too large (max 10 MB)", (&TooLargeError{Limit: MaxFileSize}).Error())
}

func TestInsert(t *testing.T) {
	s, dir := newService(t)
	p := writeFile(t, dir, "a.txt", "one\ntwo\n")

	res, err := s.Insert("a.txt", 2, "middle", false)
	require.NoError(t, err)
	assert.Equal(t, "Inserted text at line 2", res.Message)
	assert.Equal(t, "one\nmiddle\ntwo\n", readFile(t, p))

	_, err = s.Insert("a.txt", 4, "end", false)
	require.NoError(t, err)
	assert.Equal(t, "one\nmiddle\ntwo\nend\n", readFile(t, p))

	_, err = s.Insert("a.txt", 6, "x", false)
	assert.EqualError(t, err, "Invalid line number: 6 (file has 4 lines)")
	_, err = s.Insert("a.txt", 0, "x", false)
	assert.EqualError(t, err, "Invalid line number: 0 (file has 4 lines)")
}

func TestInsert_PreservesCRLF(t *testing.T) {
	s, dir := newService(t)
	p := writeFile(t, dir, "w.txt", "one\r\ntwo\r\n")

	_, err := s.Insert("w.txt", 1, "zero", false)
	require.NoError(t, err)
	assert.Equal(t, "zero\r\none\r\ntwo\r\n", readFile(t, p))
}

func TestAppend(t *testing.T) {
	s, dir := newService(t)
	p := writeFile(t, dir, "a.txt", "line\n")

	res, err := s.Append("a.txt", "more\n", true)
	require.NoError(t, err)
	assert.Equal(t, "Content appended to file", res.Message)
	assert.Equal(t, "line\nmore\n", readFile(t, p))
	assert.Equal(t, "line\n", readFile(t, res.BackupPath))
}

func TestDeleteLines(t *testing.T) {
	s, dir := newService(t)
	p := writeFile(t, dir, "a.txt", "1\n2\n3\n4\n")

	res, err := s.DeleteLines("a.txt", 2, 3, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.LinesModified)
	assert.Equal(t, "Deleted 2 line(s)", res.Message)
	assert.Equal(t, "1\n4\n", readFile(t, p))

	for _, r := range [][2]int{{0, 1}, {2, 1}, {1, 3}} {
		_, err = s.DeleteLines("a.txt", r[0], r[1], false)
		var lr *LineRangeError
		require.ErrorAs(t, err, &lr)
	}
	_, err = s.DeleteLines("a.txt", 1, 3, false)
	assert.EqualError(t, err, "Invalid line range: 1-3 (file has 2 lines)")
}

func TestWrite(t *testing.T) {
	s, dir := newService(t)

	res, err := s.Write("sub/new.txt", "hello\n", true)
	require.NoError(t, err)
	assert.Equal(t, "File created", res.Message)
	assert.Empty(t, res.BackupPath)
	assert.Equal(t, "hello\n", readFile(t, filepath.Join(dir, "sub", "new.txt")))

	res, err = s.Write("sub/new.txt", "bye\n", true)
	require.NoError(t, err)
	assert.Equal(t, "File updated", res.Message)
	assert.Equal(t, "hello\n", readFile(t, res.BackupPath))
	assert.Equal(t, "bye\n", readFile(t, filepath.Join(dir, "sub", "new.txt")))

	_, err = s.Write("  ", "x", false)
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestBackup_SameSecondIsUnique(t *testing.T) {
	s, dir := newService(t)
	writeFile(t, dir, "a.txt", "v1")

	first, err := s.Replace("a.txt", "v1", "v2", true)
	require.NoError(t, err)
	second, err := s.Replace("a.txt", "v2", "v3", true)
	require.NoError(t, err)

	assert.NotEqual(t, first.BackupPath, second.BackupPath)
	assert.True(t, strings.HasPrefix(filepath.Base(second.BackupPath), "a.txt.backup_20240309_140507"))
	assert.Equal(t, "v1", readFile(t, first.BackupPath))
	assert.Equal(t, "v2", readFile(t, second.BackupPath))
}

func TestPreservesEncoding(t *testing.T) {
	t.Run("utf-8 bom", func(t *testing.T) {
		s, dir := newService(t)
		p := writeFile(t, dir, "bom.txt", "\xEF\xBB\xBFname=old\r\n")

		res, err := s.Replace("bom.txt", "old", "new", false)
		require.NoError(t, err)
		assert.Equal(t, "utf-8-bom", res.Encoding)
		assert.Equal(t, "\xEF\xBB\xBFname=new\r\n", readFile(t, p))
	})

	t.Run("utf-16le", func(t *testing.T) {
		s, dir := newService(t)
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		raw, err := enc.Bytes([]byte("héllo\r\nwörld\r\n"))
		require.NoError(t, err)
		p := filepath.Join(dir, "u16.txt")
		require.NoError(t, os.WriteFile(p, raw, 0o644))

		res, err := s.Replace("u16.txt", "wörld", "welt", false)
		require.NoError(t, err)
		assert.Equal(t, "utf-16le", res.Encoding)

		got, err := os.ReadFile(p)
		require.NoError(t, err)
		want, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("héllo\r\nwelt\r\n"))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestCountOccurrences(t *testing.T) {
	assert.Equal(t, 0, countOccurrences("abc", ""))
	assert.Equal(t, 1, countOccurrences("aaa", "aa"))
	assert.Equal(t, 3, countOccurrences("x.x.x", "x"))
}
