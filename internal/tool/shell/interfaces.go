package shell

import (
	"context"

	"github.com/Forgate-Labs/Grok-CLI/internal/policy"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/service/executor"
)

// commandRunner executes one shell command.
type commandRunner interface {
	Execute(ctx context.Context, command, dir string, timeoutSeconds int) (*executor.ShellResult, error)
}

// authorizer decides whether a command may run.
type authorizer interface {
	Authorize(ctx context.Context, req policy.ApprovalRequest) error
}

// workingDirectory resolves paths against the session's current directory.
type workingDirectory interface {
	Get() string
	ResolveRelativePath(path string) string
	DirectoryExists(path string) bool
}
