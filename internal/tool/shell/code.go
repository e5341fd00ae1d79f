package shell

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/platform"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
)

// CodeExecutionTool runs a Python snippet through python3 -c. The snippet is
// gated like any other command.
type CodeExecutionTool struct {
	runner  commandRunner
	gate    authorizer
	dirs    workingDirectory
	family  platform.Family
	timeout int
}

// NewCodeExecutionTool creates a CodeExecutionTool. timeout <= 0 uses
// DefaultTimeoutSeconds.
func NewCodeExecutionTool(runner commandRunner, gate authorizer, dirs workingDirectory, family platform.Family, timeout int) *CodeExecutionTool {
	if runner == nil {
		panic("runner is required")
	}
	if gate == nil {
		panic("gate is required")
	}
	if dirs == nil {
		panic("dirs is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeoutSeconds
	}
	return &CodeExecutionTool{runner: runner, gate: gate, dirs: dirs, family: family, timeout: timeout}
}

func (t *CodeExecutionTool) Name() string { return "code_execution" }

func (t *CodeExecutionTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "code_execution",
		Description: "Executes Python code",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"code": {Type: tool.TypeString, Description: "The Python code to execute"},
			},
			Required: []string{"code"},
		},
	}
}

func (t *CodeExecutionTool) Execute(ctx context.Context, args json.RawMessage) (tool.Result, error) {
	var req CodeExecutionRequest
	if err := tool.DecodeArgs(args, &req); err != nil {
		return tool.Failure(err.Error()), nil
	}
	if strings.TrimSpace(req.Code) == "" {
		return tool.Failure("Code cannot be empty"), nil
	}
	return run(ctx, t.gate, t.runner, "code_execution", PythonCommand(t.family, req.Code), t.dirs.Get(), t.timeout)
}

// PythonCommand builds the interpreter command line for code.
func PythonCommand(family platform.Family, code string) string {
	if family == platform.FamilyPowerShell {
		return "python -c " + platform.QuotePowerShell(code)
	}
	return "python3 -c " + platform.QuotePOSIX(code)
}
