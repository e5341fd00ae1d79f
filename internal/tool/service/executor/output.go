package executor

import (
	"bytes"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool/helper/content"
)

const binaryPlaceholder = "[Binary Content]"

// cappedBuffer keeps the first limit bytes of a stream. Streams whose first
// sniff bytes contain NUL are replaced by a placeholder.
type cappedBuffer struct {
	buf      bytes.Buffer
	limit    int
	sniff    int
	sniffed  int
	binary   bool
	overflow bool
}

func newCappedBuffer(limit, sniff int) *cappedBuffer {
	return &cappedBuffer{limit: limit, sniff: sniff}
}

// Write never fails so the child process is never blocked on a full pipe.
func (c *cappedBuffer) Write(p []byte) (int, error) {
	if c.binary {
		return len(p), nil
	}
	if c.sniffed < c.sniff {
		head := p[:min(len(p), c.sniff-c.sniffed)]
		if content.IsBinaryContent(head) {
			c.binary = true
			c.buf.Reset()
			return len(p), nil
		}
		c.sniffed += len(head)
	}

	room := c.limit - c.buf.Len()
	if len(p) > room {
		c.overflow = true
		c.buf.Write(p[:max(room, 0)])
		return len(p), nil
	}
	c.buf.Write(p)
	return len(p), nil
}

func (c *cappedBuffer) String() string {
	if c.binary {
		return binaryPlaceholder
	}
	return c.buf.String()
}

// Truncated reports whether anything was dropped.
func (c *cappedBuffer) Truncated() bool { return c.binary || c.overflow }
