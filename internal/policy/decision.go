package policy

import (
	"context"
	"sync"
)

// Decision is the outcome of a permission check.
type Decision int

const (
	AllowOnce Decision = iota
	AllowAlways
	Deny
	Never
)

func (d Decision) String() string {
	switch d {
	case AllowOnce:
		return "allow_once"
	case AllowAlways:
		return "allow_always"
	case Deny:
		return "deny"
	case Never:
		return "never"
	default:
		return "unknown"
	}
}

// Allowed reports whether the decision permits execution.
func (d Decision) Allowed() bool {
	return d == AllowOnce || d == AllowAlways
}

// ApprovalRequest describes a command awaiting approval.
type ApprovalRequest struct {
	ToolName   string
	Command    string
	WorkingDir string
}

// ApprovalResponse is the answer from an approval channel.
type ApprovalResponse struct {
	Decision Decision
	Reason   string
}

// ApprovalChannel resolves commands that neither list decides.
// Implementations block until the user answers or ctx is done.
type ApprovalChannel interface {
	RequestApproval(ctx context.Context, req ApprovalRequest) (ApprovalResponse, error)
}

// AutoDeny denies every request. Used for non-interactive sessions.
type AutoDeny struct {
	Reason string
}

func (a AutoDeny) RequestApproval(ctx context.Context, req ApprovalRequest) (ApprovalResponse, error) {
	if err := ctx.Err(); err != nil {
		return ApprovalResponse{}, err
	}
	reason := a.Reason
	if reason == "" {
		reason = "non-interactive session"
	}
	return ApprovalResponse{Decision: Deny, Reason: reason}, nil
}

// AutoApprove allows every request once.
type AutoApprove struct{}

func (AutoApprove) RequestApproval(ctx context.Context, req ApprovalRequest) (ApprovalResponse, error) {
	if err := ctx.Err(); err != nil {
		return ApprovalResponse{}, err
	}
	return ApprovalResponse{Decision: AllowOnce}, nil
}

// ScriptedChannel answers requests from a fixed queue and records them.
// When the queue is exhausted it denies.
type ScriptedChannel struct {
	mu        sync.Mutex
	responses []ApprovalResponse
	requests  []ApprovalRequest
}

// NewScriptedChannel creates a channel answering with responses in order.
func NewScriptedChannel(responses ...ApprovalResponse) *ScriptedChannel {
	return &ScriptedChannel{responses: responses}
}

func (s *ScriptedChannel) RequestApproval(ctx context.Context, req ApprovalRequest) (ApprovalResponse, error) {
	if err := ctx.Err(); err != nil {
		return ApprovalResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.responses) == 0 {
		return ApprovalResponse{Decision: Deny, Reason: "no scripted response"}, nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

// Requests returns the requests seen so far.
func (s *ScriptedChannel) Requests() []ApprovalRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ApprovalRequest, len(s.requests))
	copy(out, s.requests)
	return out
}
