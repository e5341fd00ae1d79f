package search

import (
	"context"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool/service/executor"
)

// shellRunner runs backend commands.
type shellRunner interface {
	Execute(ctx context.Context, command, dir string, timeoutSeconds int) (*executor.ShellResult, error)
}

// platformInfo selects the backend family.
type platformInfo interface {
	IsWindows() bool
	IsLinux() bool
	IsMacOS() bool
}

// dirResolver resolves paths against the working directory.
type dirResolver interface {
	ResolveRelativePath(path string) string
	DirectoryExists(path string) bool
}
