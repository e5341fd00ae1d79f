package directory

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
	"github.com/Forgate-Labs/Grok-CLI/internal/workdir"
)

// ChangeDirectoryTool moves the session's working directory.
type ChangeDirectoryTool struct {
	dirs dirChanger
}

// NewChangeDirectoryTool creates a ChangeDirectoryTool.
func NewChangeDirectoryTool(dirs dirChanger) *ChangeDirectoryTool {
	if dirs == nil {
		panic("dirs is required")
	}
	return &ChangeDirectoryTool{dirs: dirs}
}

func (t *ChangeDirectoryTool) Name() string { return "change_directory" }

func (t *ChangeDirectoryTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "change_directory",
		Description: "Changes the current working directory. Supports relative paths, absolute paths, '..' for parent directory, and '~' for home directory.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path": {Type: tool.TypeString, Description: "The target directory path (relative or absolute). Use '..' for parent directory, '~' for home directory."},
			},
			Required: []string{"path"},
		},
	}
}

func (t *ChangeDirectoryTool) Execute(ctx context.Context, args json.RawMessage) (tool.Result, error) {
	if err := ctx.Err(); err != nil {
		return tool.Result{}, err
	}
	var req ChangeDirectoryRequest
	if err := tool.DecodeArgs(args, &req); err != nil {
		return tool.Failure(err.Error()), nil
	}
	if strings.TrimSpace(req.Path) == "" {
		return tool.Failure("Path cannot be empty"), nil
	}

	previous := t.dirs.Get()
	current, err := t.dirs.Set(req.Path)
	if err != nil {
		var notFound *workdir.NotFoundError
		if errors.As(err, &notFound) {
			return tool.Failure(err.Error()).WithOutput("Current directory: " + previous), nil
		}
		return tool.Failuref("Error changing directory: %v", err).WithOutput("Current directory: " + previous), nil
	}

	out, err := json.Marshal(changeDirectoryResponse{
		Success:           true,
		PreviousDirectory: previous,
		CurrentDirectory:  current,
		Message:           "Changed directory to " + current,
	})
	if err != nil {
		return tool.Failure(err.Error()), nil
	}
	return tool.Success(string(out)), nil
}
