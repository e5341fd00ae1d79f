package search

import (
	"context"
	"strings"
	"sync"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
)

// Engine picks a backend for the platform and normalizes its output.
type Engine struct {
	platform platformInfo
	shell    shellRunner
	dirs     dirResolver

	rgMu     sync.Mutex
	rgProbed bool
	rgFound  bool
}

// NewEngine creates an Engine.
func NewEngine(platform platformInfo, shell shellRunner, dirs dirResolver) *Engine {
	if platform == nil {
		panic("platform is required")
	}
	if shell == nil {
		panic("shell is required")
	}
	if dirs == nil {
		panic("dirs is required")
	}
	return &Engine{platform: platform, shell: shell, dirs: dirs}
}

// PlatformLabel names the OS family searches run on.
func (e *Engine) PlatformLabel() string {
	switch {
	case e.platform.IsWindows():
		return "Windows"
	case e.platform.IsLinux():
		return "Linux"
	case e.platform.IsMacOS():
		return "MacOS"
	default:
		return "Unknown"
	}
}

// RipgrepAvailable reports whether rg runs. Never true on Windows.
// The probe runs once per Engine.
func (e *Engine) RipgrepAvailable(ctx context.Context) bool {
	if e.platform.IsWindows() {
		return false
	}
	e.rgMu.Lock()
	defer e.rgMu.Unlock()
	if e.rgProbed {
		return e.rgFound
	}
	res, err := e.shell.Execute(ctx, "rg --version", "", 5)
	if err != nil && ctx.Err() != nil {
		return false
	}
	e.rgProbed = true
	e.rgFound = err == nil && res != nil && res.ExitCode == 0
	logging.Debug("ripgrep probe", "available", e.rgFound)
	return e.rgFound
}

// Search runs one search. The returned error is non-nil only for cancellation;
// every other failure is reported in the Result.
func (e *Engine) Search(ctx context.Context, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.Pattern) == "" {
		return &Result{Error: (&PatternRequiredError{}).Error(), Platform: e.PlatformLabel()}, nil
	}
	if opts.SearchPath == "" {
		opts.SearchPath = "."
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.ContextLines < 0 {
		opts.ContextLines = 0
	}
	if opts.TimeoutSeconds <= 0 {
		opts.TimeoutSeconds = DefaultTimeoutSeconds
	}
	opts.FileType = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(opts.FileType), "*"), ".")

	opts.SearchPath = e.dirs.ResolveRelativePath(opts.SearchPath)
	if !e.dirs.DirectoryExists(opts.SearchPath) {
		return &Result{
			Error:    (&DirectoryNotFoundError{Path: opts.SearchPath}).Error(),
			Platform: e.PlatformLabel(),
		}, nil
	}

	switch {
	case e.platform.IsWindows():
		return e.run(ctx, opts, BackendPowerShell)
	case e.platform.IsLinux() || e.platform.IsMacOS():
		if e.RipgrepAvailable(ctx) {
			return e.run(ctx, opts, BackendRipgrep)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return e.run(ctx, opts, BackendGrep)
	default:
		return &Result{Error: "Unsupported platform", Platform: e.PlatformLabel()}, nil
	}
}

func (e *Engine) run(ctx context.Context, opts Options, backend Backend) (*Result, error) {
	var command, label string
	switch backend {
	case BackendRipgrep:
		command, label = ripgrepCommand(opts), "Linux/macOS (ripgrep)"
	case BackendGrep:
		command, label = grepCommand(opts), "Linux/macOS (grep)"
	default:
		command, label = powerShellCommand(opts), "Windows (PowerShell)"
	}

	result := &Result{Backend: backend, Platform: label, BackendCommand: command}
	logging.Debug("search", "backend", string(backend), "command", command)

	sr, err := e.shell.Execute(ctx, command, opts.SearchPath, opts.TimeoutSeconds)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result.Error = err.Error()
		return result, nil
	}

	if !backendSucceeded(backend, sr.ExitCode, sr.Success) {
		result.Error = strings.TrimSpace(sr.Stderr)
		if result.Error == "" {
			result.Error = "Search failed"
		}
		logging.Debug("search failed", "backend", string(backend), "exit_code", sr.ExitCode)
		return result, nil
	}

	switch backend {
	case BackendRipgrep:
		result.Matches = parseRipgrep(sr.Stdout, opts.ContextLines)
	case BackendGrep:
		result.Matches = parseGrep(sr.Stdout, opts.ContextLines)
	default:
		result.Matches = parsePowerShell(sr.Stdout)
	}
	// rg and grep apply -m per file.
	if len(result.Matches) > opts.MaxResults {
		result.Matches = result.Matches[:opts.MaxResults]
	}
	result.TotalMatches = len(result.Matches)
	result.Success = true
	return result, nil
}

// backendSucceeded applies each backend's own exit convention. rg and grep
// exit 1 when nothing matched; the PowerShell pipeline exits 0 either way.
func backendSucceeded(backend Backend, exitCode int, success bool) bool {
	switch backend {
	case BackendRipgrep, BackendGrep:
		return exitCode == 0 || exitCode == 1
	default:
		return success
	}
}
