package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
)

// planStore persists the latest plan.
type planStore interface {
	Write(p Plan)
}

// Parse decodes and validates set_plan arguments. A missing status means pending.
func Parse(args json.RawMessage) (Plan, error) {
	var p Plan
	if err := tool.DecodeArgs(args, &p); err != nil {
		return Plan{}, err
	}
	p.Title = strings.TrimSpace(p.Title)
	for i := range p.Items {
		item := &p.Items[i]
		item.Title = strings.TrimSpace(item.Title)
		if item.Title == "" {
			return Plan{}, &EmptyTitleError{Index: i}
		}
		item.Status = Status(strings.ToLower(strings.TrimSpace(string(item.Status))))
		switch item.Status {
		case "":
			item.Status = StatusPending
		case StatusPending, StatusInProgress, StatusDone:
		default:
			return Plan{}, &InvalidStatusError{Index: i, Status: item.Status}
		}
	}
	return p, nil
}

// SetPlanTool replaces the plan shown above the prompt.
type SetPlanTool struct {
	store planStore
}

// NewSetPlanTool creates a SetPlanTool.
func NewSetPlanTool(store planStore) *SetPlanTool {
	if store == nil {
		panic("store is required")
	}
	return &SetPlanTool{store: store}
}

func (t *SetPlanTool) Name() string { return SetPlanToolName }

func (t *SetPlanTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        SetPlanToolName,
		Description: "Updates the current execution plan to show above the input prompt.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"title": {Type: tool.TypeString, Description: "Headline for the plan block"},
				"items": {
					Type: tool.TypeArray,
					Items: &tool.Schema{
						Type: tool.TypeObject,
						Properties: map[string]*tool.Schema{
							"title":  {Type: tool.TypeString, Description: "Task title"},
							"status": {Type: tool.TypeString, Description: "Task status", Enum: []string{string(StatusPending), string(StatusInProgress), string(StatusDone)}},
						},
						Required: []string{"title"},
					},
				},
			},
			Required: []string{"items"},
		},
	}
}

func (t *SetPlanTool) Execute(ctx context.Context, args json.RawMessage) (tool.Result, error) {
	if err := ctx.Err(); err != nil {
		return tool.Result{}, err
	}
	p, err := Parse(args)
	if err != nil {
		return tool.Failuref("Error applying plan: %v", err), nil
	}
	t.store.Write(p)
	return tool.Success(fmt.Sprintf("plan updated (%d item(s))", len(p.Items))), nil
}

// ShareReasoningTool echoes private reasoning back so it can be shown in the
// reasoning channel instead of the reply.
type ShareReasoningTool struct{}

func NewShareReasoningTool() *ShareReasoningTool { return &ShareReasoningTool{} }

func (t *ShareReasoningTool) Name() string { return ShareReasoningToolName }

func (t *ShareReasoningTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        ShareReasoningToolName,
		Description: "Shares private reasoning or chain-of-thought content without exposing it in the main reply.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"text": {Type: tool.TypeString, Description: "Reasoning text to display in the Thinking block"},
			},
			Required: []string{"text"},
		},
	}
}

func (t *ShareReasoningTool) Execute(ctx context.Context, args json.RawMessage) (tool.Result, error) {
	if err := ctx.Err(); err != nil {
		return tool.Result{}, err
	}
	var req ShareReasoningRequest
	if err := tool.DecodeArgs(args, &req); err != nil {
		return tool.Failure(err.Error()), nil
	}
	if req.Text == nil {
		return tool.Failure("Missing text"), nil
	}
	return tool.Success(*req.Text), nil
}

// WorkflowDoneTool signals that the assistant has finished the turn.
type WorkflowDoneTool struct{}

func NewWorkflowDoneTool() *WorkflowDoneTool { return &WorkflowDoneTool{} }

func (t *WorkflowDoneTool) Name() string { return WorkflowDoneToolName }

func (t *WorkflowDoneTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        WorkflowDoneToolName,
		Description: "Signals that the assistant has finished.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"summary": {Type: tool.TypeString, Description: "Optional one-line summary of the finished work"},
			},
		},
	}
}

func (t *WorkflowDoneTool) Execute(ctx context.Context, args json.RawMessage) (tool.Result, error) {
	if err := ctx.Err(); err != nil {
		return tool.Result{}, err
	}
	var ignored map[string]any
	if err := tool.DecodeArgs(args, &ignored); err != nil {
		return tool.Failure(err.Error()), nil
	}
	return tool.Success(`{"status":"done"}`), nil
}
