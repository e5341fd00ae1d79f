package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Forgate-Labs/Grok-CLI/internal/policy"
)

const approvalPrompt = "[y]es once / [a]lways / [n]o / ne[v]er: "

// Approver asks the user about commands the policy lists do not decide.
// It implements policy.ApprovalChannel.
type Approver struct {
	editor LineEditor
	out    io.Writer
	mu     sync.Mutex
}

// NewApprover creates an Approver reading answers from editor.
func NewApprover(editor LineEditor, out io.Writer) *Approver {
	if editor == nil {
		panic("editor is required")
	}
	if out == nil {
		panic("out is required")
	}
	return &Approver{editor: editor, out: out}
}

// RequestApproval blocks until the user answers. Ctrl+C or end of input
// deny the command.
func (a *Approver) RequestApproval(ctx context.Context, req policy.ApprovalRequest) (policy.ApprovalResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return policy.ApprovalResponse{}, err
	}

	body := fmt.Sprintf("%s wants to run:\n  %s", req.ToolName, req.Command)
	if req.WorkingDir != "" {
		body += fmt.Sprintf("\nin %s", req.WorkingDir)
	}
	fmt.Fprintf(a.out, "\n%s\n", styleApproval.Render(body))

	for {
		answer, err := a.editor.ReadLine(approvalPrompt)
		if err != nil {
			if errors.Is(err, errInputInterrupt) || errors.Is(err, errInputEOF) {
				return policy.ApprovalResponse{Decision: policy.Deny, Reason: "approval interrupted"}, nil
			}
			return policy.ApprovalResponse{}, err
		}
		if err := ctx.Err(); err != nil {
			return policy.ApprovalResponse{}, err
		}

		decision, ok := parseAnswer(answer)
		if !ok {
			fmt.Fprintln(a.out, styleError.Render("Please answer y, a, n or v."))
			continue
		}
		resp := policy.ApprovalResponse{Decision: decision}
		if decision == policy.Deny {
			reason, err := a.editor.ReadLine("Reason (optional): ")
			if err == nil {
				resp.Reason = strings.TrimSpace(reason)
			}
		}
		return resp, nil
	}
}

func parseAnswer(s string) (policy.Decision, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return policy.AllowOnce, true
	case "a", "always":
		return policy.AllowAlways, true
	case "n", "no":
		return policy.Deny, true
	case "v", "never":
		return policy.Never, true
	default:
		return policy.Deny, false
	}
}
