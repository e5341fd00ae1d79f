//go:build windows

package executor

import (
	"context"
	"os/exec"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

func prepareProcessGroup(cmd *exec.Cmd) {}

// killTree kills descendants first, then the shell itself.
func killTree(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p, err := process.NewProcessWithContext(ctx, int32(cmd.Process.Pid)); err == nil {
		killChildren(ctx, p)
	}
	_ = cmd.Process.Kill()
}

func killChildren(ctx context.Context, p *process.Process) {
	children, err := p.ChildrenWithContext(ctx)
	if err != nil {
		return
	}
	for _, c := range children {
		killChildren(ctx, c)
		_ = c.KillWithContext(ctx)
	}
}
