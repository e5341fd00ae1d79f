package workflow

import (
	"sync"

	"github.com/Forgate-Labs/Grok-CLI/internal/provider"
)

// Conversation is the ordered message history of one session.
// Only one turn may write to it at a time.
type Conversation struct {
	mu       sync.Mutex
	messages []provider.Message
}

// NewConversation returns a conversation seeded with msgs.
func NewConversation(msgs ...provider.Message) *Conversation {
	return &Conversation{messages: append([]provider.Message(nil), msgs...)}
}

// Append adds messages to the end of the history.
func (c *Conversation) Append(msgs ...provider.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msgs...)
}

// Len returns the number of messages, usable as a rollback checkpoint.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []provider.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]provider.Message(nil), c.messages...)
}

// Rollback truncates the history to checkpoint messages.
// A checkpoint at or past the current length is a no-op.
func (c *Conversation) Rollback(checkpoint int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if checkpoint < 0 {
		checkpoint = 0
	}
	if checkpoint >= len(c.messages) {
		return
	}
	clear(c.messages[checkpoint:])
	c.messages = c.messages[:checkpoint]
}

// Clear drops every message.
func (c *Conversation) Clear() {
	c.Rollback(0)
}
