package loop

import (
	"context"
	"encoding/json"

	"github.com/Forgate-Labs/Grok-CLI/internal/provider"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
)

// llmProvider streams model output.
type llmProvider interface {
	// Stream opens one streaming exchange.
	Stream(ctx context.Context, req provider.Request) (provider.Stream, error)

	Model() string
	SetModel(model string) error
	ListModels(ctx context.Context) ([]string, error)
}

// toolManager manages tool storage and execution.
type toolManager interface {
	// Declarations returns all tool schemas for the LLM.
	Declarations() []tool.Declaration

	// Execute runs a tool by name. Only cancellation is returned as an error.
	Execute(ctx context.Context, name string, args json.RawMessage) (tool.Result, error)
}
