package toolmanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
)

// ToolManager dispatches tool calls by name over a set fixed at construction.
type ToolManager struct {
	registry map[string]toolImpl
}

// NewToolManager builds the registry. Duplicate names panic.
func NewToolManager(tools ...toolImpl) *ToolManager {
	tm := &ToolManager{
		registry: make(map[string]toolImpl, len(tools)),
	}
	for _, t := range tools {
		if t == nil {
			panic("tool is required")
		}
		if _, dup := tm.registry[t.Name()]; dup {
			panic(fmt.Sprintf("duplicate tool: %s", t.Name()))
		}
		tm.registry[t.Name()] = t
	}
	return tm
}

// Names returns the registered tool names in sorted order.
func (m *ToolManager) Names() []string {
	names := make([]string, 0, len(m.registry))
	for name := range m.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Declarations returns all tool schemas sorted by name.
func (m *ToolManager) Declarations() []tool.Declaration {
	decls := make([]tool.Declaration, 0, len(m.registry))
	for _, t := range m.registry {
		decls = append(decls, t.Declaration())
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].Name < decls[j].Name
	})
	return decls
}

// Execute runs the named tool. Unknown names, malformed arguments, panics
// and tool errors all come back as failed results; only cancellation is
// returned as an error.
func (m *ToolManager) Execute(ctx context.Context, name string, args json.RawMessage) (res tool.Result, err error) {
	t, ok := m.registry[name]
	if !ok {
		logging.Warn("unknown tool requested", "tool", name)
		return tool.Failuref("Tool '%s' not found", name), nil
	}

	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if !json.Valid(args) {
		declJSON, _ := json.MarshalIndent(t.Declaration(), "", "  ")
		return tool.Failuref("Invalid arguments for tool '%s': arguments are not valid JSON\n\nExpected schema:\n%s", name, declJSON), nil
	}

	if err := ctx.Err(); err != nil {
		return tool.Result{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			logging.Error("tool panicked", "tool", name, "panic", r, "stack", string(debug.Stack()))
			res, err = tool.Failuref("Tool '%s' failed: %v", name, r), nil
		}
	}()

	res, err = t.Execute(ctx, args)
	if err != nil {
		if isCancellation(ctx, err) {
			return tool.Result{}, err
		}
		logging.Warn("tool returned error", "tool", name, "error", err)
		return tool.Failure(err.Error()), nil
	}
	return res, nil
}

func isCancellation(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return ctx.Err() != nil
}
