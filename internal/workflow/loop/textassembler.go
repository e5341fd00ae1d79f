package loop

import (
	"unicode"
	"unicode/utf16"
)

// textAssembler turns streamed UTF-16 code units into valid strings. A chunk
// may end in the middle of a surrogate pair, so a trailing high surrogate is
// held back until the next chunk arrives.
type textAssembler struct {
	pending    uint16
	hasPending bool
}

// Push decodes units, prefixed by any held surrogate. Unpaired surrogates
// become U+FFFD.
func (a *textAssembler) Push(units []uint16) string {
	if len(units) == 0 {
		return ""
	}
	buf := units
	if a.hasPending {
		buf = make([]uint16, 0, len(units)+1)
		buf = append(buf, a.pending)
		buf = append(buf, units...)
		a.hasPending = false
	}
	if last := buf[len(buf)-1]; isHighSurrogate(last) {
		a.pending, a.hasPending = last, true
		buf = buf[:len(buf)-1]
	}
	if len(buf) == 0 {
		return ""
	}
	return string(utf16.Decode(buf))
}

// Flush ends the stream. A held high surrogate becomes one U+FFFD.
func (a *textAssembler) Flush() string {
	if !a.hasPending {
		return ""
	}
	a.hasPending = false
	return string(unicode.ReplacementChar)
}

func isHighSurrogate(u uint16) bool {
	return u >= 0xD800 && u < 0xDC00
}
