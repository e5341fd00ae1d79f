// Package provider defines the model transport contract shared by the
// conversation engine and the concrete API clients.
package provider

import (
	"io"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
)

// Role is the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a fully assembled tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Message is one entry of the conversation history.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	// Name is the tool name on RoleTool messages.
	Name string
}

// Request is a single streaming exchange.
type Request struct {
	Model       string
	Messages    []Message
	Tools       []tool.Declaration
	Temperature *float64
}

// ToolCallDelta is a fragment of a tool call keyed by its index in the
// assistant turn. ID and Name usually arrive once; Arguments accumulate.
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}

// Usage reports token accounting for an exchange.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Chunk is one streamed update. Text carries UTF-16 code units exactly as
// sent on the wire, so a surrogate pair may be split across chunks.
type Chunk struct {
	Text         []uint16
	Reasoning    string
	ToolCalls    []ToolCallDelta
	Usage        *Usage
	FinishReason string
}

// Stream yields chunks until Next returns io.EOF.
type Stream interface {
	Next() (Chunk, error)
	Close() error
}

// SliceStream replays a fixed list of chunks, optionally ending with Err
// instead of io.EOF.
type SliceStream struct {
	Chunks []Chunk
	Err    error
	pos    int
	closed bool
}

func (s *SliceStream) Next() (Chunk, error) {
	if s.pos < len(s.Chunks) {
		c := s.Chunks[s.pos]
		s.pos++
		return c, nil
	}
	if s.Err != nil {
		return Chunk{}, s.Err
	}
	return Chunk{}, io.EOF
}

func (s *SliceStream) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *SliceStream) Closed() bool { return s.closed }
