package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGate(t *testing.T, ch ApprovalChannel, allowed ...string) (*Gate, *Store) {
	t.Helper()
	s, err := OpenWithFS("/w/p.json", newMemFS())
	require.NoError(t, err)
	for _, a := range allowed {
		require.NoError(t, s.AddAllowed(a))
	}
	return NewGate(s, ch), s
}

func TestAuthorize_BlockedNeverAsks(t *testing.T) {
	ch := NewScriptedChannel(ApprovalResponse{Decision: AllowOnce})
	g, _ := newGate(t, ch)

	err := g.Authorize(context.Background(), ApprovalRequest{Command: "rm -rf /"})
	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, Never, denied.Decision)
	assert.True(t, denied.PermissionDenied())
	assert.Empty(t, ch.Requests())
}

func TestAuthorize_EmptyAllowListAllows(t *testing.T) {
	ch := NewScriptedChannel()
	g, _ := newGate(t, ch)

	assert.NoError(t, g.Authorize(context.Background(), ApprovalRequest{Command: "echo hi"}))
	assert.Empty(t, ch.Requests())
}

func TestAuthorize_AllowPrefix(t *testing.T) {
	ch := NewScriptedChannel()
	g, _ := newGate(t, ch, "go test")

	assert.NoError(t, g.Authorize(context.Background(), ApprovalRequest{Command: "GO TEST ./..."}))
	assert.Empty(t, ch.Requests())
}

func TestAuthorize_Prompted(t *testing.T) {
	tests := []struct {
		name        string
		resp        ApprovalResponse
		wantErr     bool
		wantAllowed []string
		wantBlocked bool
	}{
		{name: "once", resp: ApprovalResponse{Decision: AllowOnce}, wantAllowed: []string{"make"}},
		{name: "always", resp: ApprovalResponse{Decision: AllowAlways}, wantAllowed: []string{"make", "npm install"}},
		{name: "deny", resp: ApprovalResponse{Decision: Deny, Reason: "not now"}, wantErr: true, wantAllowed: []string{"make"}},
		{name: "never", resp: ApprovalResponse{Decision: Never}, wantErr: true, wantAllowed: []string{"make"}, wantBlocked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := NewScriptedChannel(tt.resp)
			g, s := newGate(t, ch, "make")

			err := g.Authorize(context.Background(), ApprovalRequest{ToolName: "run_command", Command: "npm install"})
			if tt.wantErr {
				var denied *DeniedError
				require.ErrorAs(t, err, &denied)
				assert.Equal(t, tt.resp.Reason, denied.Reason)
			} else {
				require.NoError(t, err)
			}
			require.Len(t, ch.Requests(), 1)
			assert.Equal(t, "run_command", ch.Requests()[0].ToolName)

			snap := s.Snapshot()
			assert.Equal(t, tt.wantAllowed, snap.AllowedCommands)
			assert.Equal(t, tt.wantBlocked, contains(snap.BlockedCommands, "npm install"))
		})
	}
}

func TestAuthorize_DeniedMessageIncludesReason(t *testing.T) {
	g, _ := newGate(t, NewScriptedChannel(ApprovalResponse{Decision: Deny, Reason: "use yarn"}), "make")

	err := g.Authorize(context.Background(), ApprovalRequest{Command: "npm i"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use yarn")
}

func TestAuthorize_Cancelled(t *testing.T) {
	g, _ := newGate(t, NewScriptedChannel(ApprovalResponse{Decision: AllowOnce}), "make")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Authorize(ctx, ApprovalRequest{Command: "npm i"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAutoDeny(t *testing.T) {
	g, _ := newGate(t, AutoDeny{}, "make")
	err := g.Authorize(context.Background(), ApprovalRequest{Command: "npm i"})
	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, Deny, denied.Decision)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow_always", AllowAlways.String())
	assert.True(t, AllowAlways.Allowed())
	assert.False(t, Never.Allowed())
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
