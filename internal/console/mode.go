package console

import (
	"fmt"
	"strings"
)

// Mode selects how much of a turn is shown.
type Mode int

const (
	// ModeNormal summarises tool calls and renders replies as markdown.
	ModeNormal Mode = iota
	// ModeDebug streams raw text and prints full arguments and payloads.
	ModeDebug
)

func (m Mode) String() string {
	if m == ModeDebug {
		return "debug"
	}
	return "normal"
}

// ParseMode parses "normal" or "debug", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return ModeNormal, nil
	case "debug":
		return ModeDebug, nil
	default:
		return ModeNormal, fmt.Errorf("unknown mode %q (want normal or debug)", s)
	}
}
