package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
)

// DefaultMaxOutputBytes caps each of stdout and stderr.
const DefaultMaxOutputBytes = 1 << 20

// binarySampleSize is how much leading output is checked for binary content.
const binarySampleSize = 8000

// ShellResult represents the outcome of a shell command.
type ShellResult struct {
	Success    bool
	ExitCode   int
	Stdout     string
	Stderr     string
	Command    string
	ShellLabel string
	Truncated  bool
	TimedOut   bool
}

// shellPlatform supplies the shell invocation recipe.
type shellPlatform interface {
	ShellCommand(command string) (string, []string)
	ShellLabel() string
}

// ShellExecutor spawns one shell process per call.
type ShellExecutor struct {
	platform shellPlatform
	maxBytes int
}

// NewShellExecutor creates a ShellExecutor. maxOutputBytes <= 0 uses DefaultMaxOutputBytes.
func NewShellExecutor(platform shellPlatform, maxOutputBytes int) *ShellExecutor {
	if platform == nil {
		panic("platform is required")
	}
	if maxOutputBytes <= 0 {
		maxOutputBytes = DefaultMaxOutputBytes
	}
	return &ShellExecutor{platform: platform, maxBytes: maxOutputBytes}
}

// Execute runs command in dir. On timeout the process tree is killed and a
// failed result with exit code -1 is returned. On cancellation the process
// tree is killed and ctx.Err() is returned.
func (e *ShellExecutor) Execute(ctx context.Context, command, dir string, timeoutSeconds int) (*ShellResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 300
	}

	name, args := e.platform.ShellCommand(command)
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = nil
	prepareProcessGroup(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &StartError{Shell: name, Cause: err}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, &StartError{Shell: name, Cause: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &StartError{Shell: name, Cause: err}
	}

	logging.Debug("shell started", "command", command, "dir", dir, "pid", cmd.Process.Pid)

	var stdoutStr, stderrStr string
	var truncated bool
	collectDone := make(chan struct{})
	go func() {
		stdoutStr, stderrStr, truncated = e.collectOutput(stdoutPipe, stderrPipe)
		close(collectDone)
	}()

	done := make(chan error, 1)
	go func() {
		<-collectDone
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(time.Duration(timeoutSeconds) * time.Second)
	defer timer.Stop()

	result := &ShellResult{Command: command, ShellLabel: e.platform.ShellLabel()}

	select {
	case waitErr := <-done:
		result.ExitCode = exitCode(waitErr)
		result.Success = result.ExitCode == 0
		result.Stdout = stdoutStr
		result.Stderr = stderrStr
		result.Truncated = truncated
		logging.Debug("shell finished", "command", command, "exit_code", result.ExitCode)
		return result, nil

	case <-ctx.Done():
		killTree(cmd)
		<-done
		logging.Info("shell cancelled", "command", command)
		return nil, ctx.Err()

	case <-timer.C:
		killTree(cmd)
		<-done
		logging.Warn("shell timed out", "command", command, "timeout_seconds", timeoutSeconds)
		result.ExitCode = -1
		result.TimedOut = true
		result.Stdout = stdoutStr
		result.Stderr = fmt.Sprintf("Command timed out after %d seconds", timeoutSeconds)
		result.Truncated = truncated
		return result, nil
	}
}

// collectOutput drains both pipes concurrently until the process closes them.
func (e *ShellExecutor) collectOutput(stdout, stderr io.Reader) (string, string, bool) {
	out := newCappedBuffer(e.maxBytes, binarySampleSize)
	errOut := newCappedBuffer(e.maxBytes, binarySampleSize)

	var wg sync.WaitGroup
	for _, p := range []struct {
		dst io.Writer
		src io.Reader
	}{{out, stdout}, {errOut, stderr}} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = io.Copy(p.dst, p.src)
		}()
	}
	wg.Wait()

	return out.String(), errOut.String(), out.Truncated() || errOut.Truncated()
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
