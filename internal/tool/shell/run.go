package shell

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
	"github.com/Forgate-Labs/Grok-CLI/internal/policy"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/service/executor"
)

// RunCommandTool runs a command line in the platform shell after the
// permission gate has approved it.
type RunCommandTool struct {
	runner         commandRunner
	gate           authorizer
	dirs           workingDirectory
	defaultTimeout int
}

// NewRunCommandTool creates a RunCommandTool. defaultTimeout <= 0 uses
// DefaultTimeoutSeconds.
func NewRunCommandTool(runner commandRunner, gate authorizer, dirs workingDirectory, defaultTimeout int) *RunCommandTool {
	if runner == nil {
		panic("runner is required")
	}
	if gate == nil {
		panic("gate is required")
	}
	if dirs == nil {
		panic("dirs is required")
	}
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeoutSeconds
	}
	return &RunCommandTool{runner: runner, gate: gate, dirs: dirs, defaultTimeout: defaultTimeout}
}

func (t *RunCommandTool) Name() string { return "run_command" }

func (t *RunCommandTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "run_command",
		Description: "Executes CLI commands (e.g., build/test tools) in the working directory using the system shell.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"command":           {Type: tool.TypeString, Description: "The command to execute (e.g., 'go build ./...')"},
				"working_directory": {Type: tool.TypeString, Description: "Optional path to run the command in (relative to the current working directory)"},
				"timeout_seconds":   {Type: tool.TypeInteger, Description: "Maximum time to allow the command to run (default: 300 seconds)"},
			},
			Required: []string{"command"},
		},
	}
}

func (t *RunCommandTool) Execute(ctx context.Context, args json.RawMessage) (tool.Result, error) {
	var req RunCommandRequest
	if err := tool.DecodeArgs(args, &req); err != nil {
		return tool.Failure(err.Error()), nil
	}
	command := strings.TrimSpace(req.Command)
	if command == "" {
		return tool.Failure("Command cannot be empty"), nil
	}

	dir := t.dirs.Get()
	if strings.TrimSpace(req.WorkingDirectory) != "" {
		dir = t.dirs.ResolveRelativePath(req.WorkingDirectory)
	}
	if !t.dirs.DirectoryExists(dir) {
		return tool.Failure("Working directory not found: " + dir), nil
	}

	timeout := t.defaultTimeout
	if req.TimeoutSeconds > 0 {
		timeout = req.TimeoutSeconds
	}

	return run(ctx, t.gate, t.runner, "run_command", command, dir, timeout)
}

// run passes command through the gate and then the shell. Denials and
// failed commands are failure results; only cancellation escapes.
func run(ctx context.Context, gate authorizer, runner commandRunner, toolName, command, dir string, timeout int) (tool.Result, error) {
	err := gate.Authorize(ctx, policy.ApprovalRequest{ToolName: toolName, Command: command, WorkingDir: dir})
	if err != nil {
		if ctx.Err() != nil {
			return tool.Result{}, ctx.Err()
		}
		var denied *policy.DeniedError
		if errors.As(err, &denied) {
			return tool.Failure(denied.Error()), nil
		}
		return tool.Failuref("Permission check failed: %v", err), nil
	}

	res, err := runner.Execute(ctx, command, dir, timeout)
	if err != nil {
		if ctx.Err() != nil {
			return tool.Result{}, ctx.Err()
		}
		logging.Warn("command failed to start", "tool", toolName, "command", command, "error", err)
		return tool.Failuref("Error executing command: %v", err), nil
	}
	return fromShellResult(res), nil
}

func fromShellResult(res *executor.ShellResult) tool.Result {
	if res.Success {
		return tool.Result{Success: true, Output: res.Stdout, Error: res.Stderr}.WithExitCode(res.ExitCode)
	}
	msg := res.Stderr
	if strings.TrimSpace(msg) == "" {
		msg = "Command failed"
	}
	return tool.Failure(msg).WithOutput(res.Stdout).WithExitCode(res.ExitCode)
}
