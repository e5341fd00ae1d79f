package policy

import (
	"context"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
)

// Gate decides whether a shell or interpreter command may run.
type Gate struct {
	store   *Store
	channel ApprovalChannel
}

// NewGate creates a Gate over store, asking channel for undecided commands.
func NewGate(store *Store, channel ApprovalChannel) *Gate {
	if store == nil {
		panic("store is required")
	}
	if channel == nil {
		panic("channel is required")
	}
	return &Gate{store: store, channel: channel}
}

// Authorize returns nil when the command may run, a *DeniedError when it may
// not, or ctx.Err() when the approval was cancelled.
func (g *Gate) Authorize(ctx context.Context, req ApprovalRequest) error {
	command := strings.TrimSpace(req.Command)

	decision, entry, decided := g.store.Classify(command)
	if decided {
		if decision == Never {
			logging.Warn("command blocked", "command", command, "entry", entry)
			return &DeniedError{Command: command, Decision: Never, Entry: entry}
		}
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	resp, err := g.channel.RequestApproval(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Warn("approval channel failed", "command", command, "error", err)
		return &DeniedError{Command: command, Decision: Deny, Reason: err.Error()}
	}
	logging.Info("command approval", "command", command, "decision", resp.Decision.String())

	switch resp.Decision {
	case AllowOnce:
		return nil
	case AllowAlways:
		if err := g.store.AddAllowed(command); err != nil {
			logging.Warn("persist allowed command failed", "command", command, "error", err)
		}
		return nil
	case Never:
		if err := g.store.AddBlocked(command); err != nil {
			logging.Warn("persist blocked command failed", "command", command, "error", err)
		}
		return &DeniedError{Command: command, Decision: Never, Reason: resp.Reason}
	default:
		return &DeniedError{Command: command, Decision: Deny, Reason: resp.Reason}
	}
}
