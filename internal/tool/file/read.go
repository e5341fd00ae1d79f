package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/helper/content"
	pathsvc "github.com/Forgate-Labs/Grok-CLI/internal/tool/service/path"
)

// ReadLocalFileTool reads a text file inside the working directory.
type ReadLocalFileTool struct {
	fs    fileReader
	paths boundedResolver
	limit int64
}

// NewReadLocalFileTool creates a ReadLocalFileTool. limit <= 0 uses DefaultReadLimit.
func NewReadLocalFileTool(fs fileReader, paths boundedResolver, limit int64) *ReadLocalFileTool {
	if fs == nil {
		panic("fs is required")
	}
	if paths == nil {
		panic("paths is required")
	}
	if limit <= 0 {
		limit = DefaultReadLimit
	}
	return &ReadLocalFileTool{fs: fs, paths: paths, limit: limit}
}

func (t *ReadLocalFileTool) Name() string { return "read_local_file" }

func (t *ReadLocalFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "read_local_file",
		Description: "Reads a file from the current working directory",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"path": {Type: tool.TypeString, Description: "Relative path to the file to read from the current working directory"},
			},
			Required: []string{"path"},
		},
	}
}

func (t *ReadLocalFileTool) Execute(ctx context.Context, args json.RawMessage) (tool.Result, error) {
	if err := ctx.Err(); err != nil {
		return tool.Result{}, err
	}
	var r ReadLocalFileRequest
	if err := tool.DecodeArgs(args, &r); err != nil {
		return tool.Failure("Invalid arguments payload"), nil
	}
	if strings.TrimSpace(r.Path) == "" {
		return tool.Failure("Path is required"), nil
	}

	abs, err := t.paths.Abs(r.Path)
	if err != nil {
		if errors.Is(err, pathsvc.ErrOutsideWorkingDir) {
			return tool.Failure("Path must stay inside the working directory"), nil
		}
		return tool.Failure(err.Error()), nil
	}

	info, err := t.fs.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return tool.Failure("File not found: " + r.Path), nil
		}
		return tool.Failuref("Error reading file: %v", err), nil
	}
	if info.IsDir() {
		return tool.Failure((&IsDirectoryError{Path: abs}).Error()), nil
	}
	if info.Size() > t.limit {
		return tool.Failuref("File is too large to read (limit %d bytes)", t.limit), nil
	}

	data, _, err := t.fs.ReadFileLimit(abs, t.limit)
	if err != nil {
		return tool.Failuref("Error reading file: %v", err), nil
	}
	if content.IsBinaryContent(data) {
		return tool.Failure("Cannot read binary file: " + r.Path), nil
	}
	text, _, err := decodeText(data)
	if err != nil {
		return tool.Failuref("Error reading file: %v", err), nil
	}
	return tool.Success(text), nil
}
