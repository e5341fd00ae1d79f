package toolmanager

import (
	"context"
	"encoding/json"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
)

// toolImpl defines the interface for individual tools.
type toolImpl interface {
	// Name returns the tool's identifier.
	Name() string

	// Declaration returns the tool's schema for the LLM.
	Declaration() tool.Declaration

	// Execute runs the tool with raw JSON arguments. Only cancellation is
	// reported as an error.
	Execute(ctx context.Context, args json.RawMessage) (tool.Result, error)
}
