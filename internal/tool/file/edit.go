package file

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
)

// editor is the edit service as seen by the tool.
type editor interface {
	Replace(path, search, replacement string, backup bool) (*EditResult, error)
	Insert(path string, line int, content string, backup bool) (*EditResult, error)
	Append(path, content string, backup bool) (*EditResult, error)
	DeleteLines(path string, start, end int, backup bool) (*EditResult, error)
	Write(path, content string, backup bool) (*EditResult, error)
}

// EditFileTool exposes the edit service to the model.
type EditFileTool struct {
	editor editor
}

// NewEditFileTool creates an EditFileTool.
func NewEditFileTool(editor editor) *EditFileTool {
	if editor == nil {
		panic("editor is required")
	}
	return &EditFileTool{editor: editor}
}

func (t *EditFileTool) Name() string {
	return "edit_file"
}

func (t *EditFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "edit_file",
		Description: "Edits text files with various operations: replace text, insert lines, append content, delete lines, or write entire file.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"file_path": {Type: tool.TypeString, Description: "Path to the file to edit (relative or absolute)"},
				"operation": {
					Type:        tool.TypeString,
					Description: "The edit operation to perform",
					Enum:        []string{string(OpReplace), string(OpInsert), string(OpAppend), string(OpDelete), string(OpWrite)},
				},
				"search_text":      {Type: tool.TypeString, Description: "Text to search for (required for 'replace')"},
				"replacement_text": {Type: tool.TypeString, Description: "Text to replace with (required for 'replace')"},
				"content":          {Type: tool.TypeString, Description: "Content to insert/append/write (required for 'insert', 'append', 'write')"},
				"line_number":      {Type: tool.TypeInteger, Description: "Line number for insert (1-based)"},
				"start_line":       {Type: tool.TypeInteger, Description: "Start line for delete (1-based)"},
				"end_line":         {Type: tool.TypeInteger, Description: "End line for delete (1-based, defaults to start_line)"},
				"create_backup":    {Type: tool.TypeBoolean, Description: "Create a timestamped backup beside the file before editing (default: true)"},
			},
			Required: []string{"file_path", "operation"},
		},
	}
}

type editResponse struct {
	Success bool `json:"success"`
	*EditResult
}

// Execute applies one edit operation.
// Note: ctx is only checked up front; file I/O is synchronous.
func (t *EditFileTool) Execute(ctx context.Context, args json.RawMessage) (tool.Result, error) {
	if err := ctx.Err(); err != nil {
		return tool.Result{}, err
	}
	var r EditFileRequest
	if err := tool.DecodeArgs(args, &r); err != nil {
		return tool.Failure(err.Error()), nil
	}
	if strings.TrimSpace(r.FilePath) == "" {
		return tool.Failure(ErrEmptyPath.Error()), nil
	}
	backup := true
	if r.CreateBackup != nil {
		backup = *r.CreateBackup
	}

	var (
		res *EditResult
		err error
	)
	op := Operation(strings.ToLower(strings.TrimSpace(r.Operation)))
	switch op {
	case OpReplace:
		if r.SearchText == nil || r.ReplacementText == nil {
			return tool.Failure("'replace' operation requires 'search_text' and 'replacement_text' parameters"), nil
		}
		res, err = t.editor.Replace(r.FilePath, *r.SearchText, *r.ReplacementText, backup)
	case OpInsert:
		if r.Content == nil || r.LineNumber == nil {
			return tool.Failure("'insert' operation requires 'content' and 'line_number' parameters"), nil
		}
		res, err = t.editor.Insert(r.FilePath, *r.LineNumber, *r.Content, backup)
	case OpAppend:
		if r.Content == nil {
			return tool.Failure("'append' operation requires 'content' parameter"), nil
		}
		res, err = t.editor.Append(r.FilePath, *r.Content, backup)
	case OpDelete:
		if r.StartLine == nil {
			return tool.Failure("'delete' operation requires 'start_line' parameter"), nil
		}
		end := *r.StartLine
		if r.EndLine != nil {
			end = *r.EndLine
		}
		res, err = t.editor.DeleteLines(r.FilePath, *r.StartLine, end, backup)
	case OpWrite:
		if r.Content == nil {
			return tool.Failure("'write' operation requires 'content' parameter"), nil
		}
		res, err = t.editor.Write(r.FilePath, *r.Content, backup)
	default:
		return tool.Failuref("Unknown operation: %s. Valid operations are: replace, insert, append, delete, write", r.Operation), nil
	}
	if err != nil {
		return tool.Failure(err.Error()), nil
	}

	out, err := json.Marshal(editResponse{Success: true, EditResult: res})
	if err != nil {
		return tool.Failure(fmt.Sprintf("encode result: %v", err)), nil
	}
	return tool.Success(string(out)), nil
}
