package workflow

import (
	"github.com/Forgate-Labs/Grok-CLI/internal/provider"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/plan"
)

// Event is the interface for all workflow events.
// The console handles events via type switch.
type Event interface {
	isEvent()
}

// TextEvent is emitted for each reassembled piece of assistant text.
type TextEvent struct {
	Text string
}

func (TextEvent) isEvent() {}

// ReasoningEvent carries side-channel reasoning text, either streamed by the
// model or shared through the share_reasoning tool.
type ReasoningEvent struct {
	Text string
}

func (ReasoningEvent) isEvent() {}

// ThinkingEvent is emitted when a model exchange starts.
type ThinkingEvent struct{}

func (ThinkingEvent) isEvent() {}

// DoneEvent is emitted once when a turn ends, whatever the outcome.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}

// ToolCallEvent is emitted right before a tool runs.
type ToolCallEvent struct {
	ID        string
	Name      string
	Arguments string
}

func (ToolCallEvent) isEvent() {}

// ToolResultEvent is emitted after a tool returns.
type ToolResultEvent struct {
	ID        string
	Name      string
	Arguments string
	Result    tool.Result
}

func (ToolResultEvent) isEvent() {}

// UsageEvent reports token usage for one model exchange.
type UsageEvent struct {
	Usage provider.Usage
}

func (UsageEvent) isEvent() {}

// PlanEvent is emitted after the model replaces its plan.
type PlanEvent struct {
	Plan plan.Plan
}

func (PlanEvent) isEvent() {}
