// Package loop runs conversation turns against a streaming model.
package loop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
	"github.com/Forgate-Labs/Grok-CLI/internal/provider"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/plan"
	"github.com/Forgate-Labs/Grok-CLI/internal/workflow"
)

// DefaultMaxIterations bounds the model exchanges of one turn.
const DefaultMaxIterations = 50

// Config tunes an Engine.
type Config struct {
	// MaxIterations caps model exchanges per turn. Zero uses DefaultMaxIterations.
	MaxIterations int
	// CompletionTool ends the turn once called. Empty uses workflow_done.
	CompletionTool string
	// PrePrompt is read at the start of each new conversation.
	PrePrompt func() string
}

// Engine drives the streaming send, receive and tool-call loop.
type Engine struct {
	provider       llmProvider
	tools          toolManager
	maxIterations  int
	completionTool string
	prePrompt      func() string
}

func NewEngine(p llmProvider, tools toolManager, cfg Config) *Engine {
	if p == nil {
		panic("provider is required")
	}
	if tools == nil {
		panic("tools is required")
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.CompletionTool == "" {
		cfg.CompletionTool = plan.WorkflowDoneToolName
	}
	if cfg.PrePrompt == nil {
		cfg.PrePrompt = func() string { return "" }
	}
	return &Engine{
		provider:       p,
		tools:          tools,
		maxIterations:  cfg.MaxIterations,
		completionTool: cfg.CompletionTool,
		prePrompt:      cfg.PrePrompt,
	}
}

func (e *Engine) Model() string               { return e.provider.Model() }
func (e *Engine) SetModel(model string) error { return e.provider.SetModel(model) }

func (e *Engine) ListModels(ctx context.Context) ([]string, error) {
	return e.provider.ListModels(ctx)
}

// SendMessage runs one turn. Events go to events, which may be nil; the
// consumer must keep reading until DoneEvent. On error or cancellation the
// conversation is rolled back to its length before the call.
func (e *Engine) SendMessage(ctx context.Context, text string, conv *workflow.Conversation, events chan<- workflow.Event) (err error) {
	checkpoint := conv.Len()
	defer func() {
		if err != nil {
			conv.Rollback(checkpoint)
			logging.Warn("turn failed, conversation rolled back", "checkpoint", checkpoint, "error", err)
		}
		if events != nil {
			events <- workflow.DoneEvent{}
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	if checkpoint == 0 {
		if pre := strings.TrimSpace(e.prePrompt()); pre != "" {
			conv.Append(provider.Message{Role: provider.RoleSystem, Content: pre})
		}
	}
	conv.Append(provider.Message{Role: provider.RoleUser, Content: text})

	for i := 0; i < e.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := e.iterate(ctx, conv, events)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return &MaxIterationsError{Limit: e.maxIterations}
}

// iterate runs one model exchange and its tool calls. done reports whether
// the turn is over.
func (e *Engine) iterate(ctx context.Context, conv *workflow.Conversation, events chan<- workflow.Event) (done bool, err error) {
	emit(ctx, events, workflow.ThinkingEvent{})

	stream, err := e.provider.Stream(ctx, provider.Request{
		Messages: conv.Messages(),
		Tools:    e.tools.Declarations(),
	})
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("provider.Stream: %w", err)
	}

	text, calls, err := e.consume(ctx, stream, events)
	if err != nil {
		return false, err
	}

	if len(calls) == 0 {
		conv.Append(provider.Message{Role: provider.RoleAssistant, Content: text})
		return true, nil
	}

	conv.Append(provider.Message{Role: provider.RoleAssistant, Content: text, ToolCalls: calls})

	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		emit(ctx, events, workflow.ToolCallEvent{ID: call.ID, Name: call.Name, Arguments: call.Arguments})
		logging.Debug("tool called", "tool", call.Name, "tool_call_id", call.ID)

		res, err := e.tools.Execute(ctx, call.Name, json.RawMessage(call.Arguments))
		if err != nil {
			return false, err
		}
		logging.Debug("tool result", "tool", call.Name, "tool_call_id", call.ID, "success", res.Success)

		emit(ctx, events, workflow.ToolResultEvent{ID: call.ID, Name: call.Name, Arguments: call.Arguments, Result: res})
		e.emitSideChannel(ctx, events, call, res.Success, res.Output)

		conv.Append(provider.Message{
			Role:       provider.RoleTool,
			ToolCallID: call.ID,
			Name:       call.Name,
			Content:    res.Payload(),
		})
		if call.Name == e.completionTool {
			done = true
		}
	}
	return done, nil
}

// consume reads the stream to the end, returning the reassembled text and
// the tool calls in order of first appearance.
func (e *Engine) consume(ctx context.Context, stream provider.Stream, events chan<- workflow.Event) (string, []provider.ToolCall, error) {
	defer stream.Close()

	var (
		asm   textAssembler
		text  strings.Builder
		acc   = map[int]*provider.ToolCall{}
		order []int
	)
	writeText := func(s string) {
		if s == "" {
			return
		}
		text.WriteString(s)
		emit(ctx, events, workflow.TextEvent{Text: s})
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		chunk, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return "", nil, ctx.Err()
			}
			return "", nil, &StreamError{Cause: err}
		}

		writeText(asm.Push(chunk.Text))
		if chunk.Reasoning != "" {
			emit(ctx, events, workflow.ReasoningEvent{Text: chunk.Reasoning})
		}
		for _, d := range chunk.ToolCalls {
			tc, ok := acc[d.Index]
			if !ok {
				tc = &provider.ToolCall{}
				acc[d.Index] = tc
				order = append(order, d.Index)
			}
			if d.ID != "" {
				tc.ID = d.ID
			}
			if d.Name != "" {
				tc.Name = d.Name
			}
			tc.Arguments += d.Arguments
		}
		if chunk.Usage != nil {
			emit(ctx, events, workflow.UsageEvent{Usage: *chunk.Usage})
		}
	}
	writeText(asm.Flush())

	calls := make([]provider.ToolCall, 0, len(order))
	for _, idx := range order {
		tc := *acc[idx]
		if tc.ID == "" {
			tc.ID = fmt.Sprintf("call_%d", idx)
		}
		calls = append(calls, tc)
	}
	return text.String(), calls, nil
}

// emitSideChannel surfaces plan updates and shared reasoning.
func (e *Engine) emitSideChannel(ctx context.Context, events chan<- workflow.Event, call provider.ToolCall, success bool, output string) {
	if !success {
		return
	}
	switch call.Name {
	case plan.SetPlanToolName:
		p, err := plan.Parse(json.RawMessage(call.Arguments))
		if err != nil {
			return
		}
		emit(ctx, events, workflow.PlanEvent{Plan: p})
	case plan.ShareReasoningToolName:
		emit(ctx, events, workflow.ReasoningEvent{Text: output})
	}
}

// emit delivers ev unless ctx is done first.
func emit(ctx context.Context, events chan<- workflow.Event, ev workflow.Event) {
	if events == nil {
		return
	}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
