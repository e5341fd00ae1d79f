package executor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/Forgate-Labs/Grok-CLI/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecutor(t *testing.T, maxBytes int) *ShellExecutor {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell tests use /bin/bash")
	}
	return NewShellExecutor(platform.NewFor("linux", ""), maxBytes)
}

func TestExecute(t *testing.T) {
	e := newExecutor(t, 0)

	t.Run("success", func(t *testing.T) {
		res, err := e.Execute(context.Background(), "echo hello", "", 5)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 0, res.ExitCode)
		assert.Equal(t, "hello", strings.TrimSpace(res.Stdout))
		assert.Equal(t, "Bash", res.ShellLabel)
		assert.Equal(t, "echo hello", res.Command)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		res, err := e.Execute(context.Background(), "echo oops >&2; exit 3", "", 5)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, 3, res.ExitCode)
		assert.Equal(t, "oops", strings.TrimSpace(res.Stderr))
	})

	t.Run("runs in dir", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0o644))
		res, err := e.Execute(context.Background(), "ls", dir, 5)
		require.NoError(t, err)
		assert.Contains(t, res.Stdout, "marker.txt")
	})

	t.Run("missing interpreter is a failed result", func(t *testing.T) {
		res, err := e.Execute(context.Background(), "definitely-not-a-command-xyz", "", 5)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, 127, res.ExitCode)
	})
}

func TestExecute_Timeout(t *testing.T) {
	e := newExecutor(t, 0)

	start := time.Now()
	res, err := e.Execute(context.Background(), "echo starting; sleep 30", "", 1)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 10*time.Second, "process tree should be killed promptly")
	assert.False(t, res.Success)
	assert.True(t, res.TimedOut)
	assert.Equal(t, -1, res.ExitCode)
	assert.Equal(t, "Command timed out after 1 seconds", res.Stderr)
	assert.Equal(t, "starting", strings.TrimSpace(res.Stdout))
}

func TestExecute_TimeoutKillsChildren(t *testing.T) {
	e := newExecutor(t, 0)
	marker := filepath.Join(t.TempDir(), "late")

	_, err := e.Execute(context.Background(), "(sleep 2; touch "+marker+") & sleep 30", "", 1)
	require.NoError(t, err)

	time.Sleep(2500 * time.Millisecond)
	assert.NoFileExists(t, marker, "background child should have been killed")
}

func TestExecute_Cancellation(t *testing.T) {
	e := newExecutor(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	res, err := e.Execute(ctx, "sleep 30", "", 60)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestExecute_AlreadyCancelled(t *testing.T) {
	e := newExecutor(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Execute(ctx, "echo never", "", 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute_TruncatesOutput(t *testing.T) {
	e := newExecutor(t, 10)

	res, err := e.Execute(context.Background(), "echo 123456789012345", "", 5)
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Equal(t, "1234567890", res.Stdout)
}

func TestCappedBuffer(t *testing.T) {
	t.Run("under limit", func(t *testing.T) {
		c := newCappedBuffer(10, 5)
		n, err := c.Write([]byte("abc"))
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, "abc", c.String())
		assert.False(t, c.Truncated())
	})

	t.Run("over limit across writes", func(t *testing.T) {
		c := newCappedBuffer(5, 5)
		_, _ = c.Write([]byte("abc"))
		n, _ := c.Write([]byte("def"))
		assert.Equal(t, 3, n)
		_, _ = c.Write([]byte("ghi"))
		assert.Equal(t, "abcde", c.String())
		assert.True(t, c.Truncated())
	})

	t.Run("binary", func(t *testing.T) {
		c := newCappedBuffer(10, 5)
		_, _ = c.Write([]byte{'a', 0, 'b'})
		assert.Equal(t, binaryPlaceholder, c.String())
		assert.True(t, c.Truncated())
	})

	t.Run("nul after sniff window is kept", func(t *testing.T) {
		c := newCappedBuffer(20, 2)
		_, _ = c.Write([]byte("ab"))
		_, _ = c.Write([]byte{'c', 0})
		assert.Equal(t, "abc\x00", c.String())
	})
}
