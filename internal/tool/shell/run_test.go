package shell

import (
	"context"
	"encoding/json"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Forgate-Labs/Grok-CLI/internal/platform"
	"github.com/Forgate-Labs/Grok-CLI/internal/policy"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/service/executor"
	"github.com/Forgate-Labs/Grok-CLI/internal/workdir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls  []string
	dirs   []string
	result *executor.ShellResult
	err    error
}

func (f *fakeRunner) Execute(ctx context.Context, command, dir string, timeoutSeconds int) (*executor.ShellResult, error) {
	f.calls = append(f.calls, command)
	f.dirs = append(f.dirs, dir)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &executor.ShellResult{Success: true, Command: command}, nil
}

type fakeGate struct {
	requests []policy.ApprovalRequest
	err      error
}

func (f *fakeGate) Authorize(ctx context.Context, req policy.ApprovalRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}

func newDirs(t *testing.T) (*workdir.Service, string) {
	t.Helper()
	root := t.TempDir()
	dirs, err := workdir.New(root, platform.New())
	require.NoError(t, err)
	return dirs, dirs.Get()
}

func TestRunCommand_Validation(t *testing.T) {
	dirs, root := newDirs(t)
	runner := &fakeRunner{}
	gate := &fakeGate{}
	tl := NewRunCommandTool(runner, gate, dirs, 0)

	res, err := tl.Execute(context.Background(), json.RawMessage(`{"command":"   "}`))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Command cannot be empty", res.Error)

	res, err = tl.Execute(context.Background(), json.RawMessage(`{"command":"ls","working_directory":"nope"}`))
	require.NoError(t, err)
	assert.Equal(t, "Working directory not found: "+filepath.Join(root, "nope"), res.Error)

	assert.Empty(t, gate.requests)
	assert.Empty(t, runner.calls)
}

func TestRunCommand_PassesGateThenRuns(t *testing.T) {
	dirs, root := newDirs(t)
	runner := &fakeRunner{result: &executor.ShellResult{Success: true, Stdout: "ok\n"}}
	gate := &fakeGate{}
	tl := NewRunCommandTool(runner, gate, dirs, 0)

	res, err := tl.Execute(context.Background(), json.RawMessage(`{"command":" go test ./... "}`))
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "ok\n", res.Output)
	require.NotNil(t, res.ExitCode)
	assert.Equal(t, 0, *res.ExitCode)

	require.Len(t, gate.requests, 1)
	assert.Equal(t, policy.ApprovalRequest{ToolName: "run_command", Command: "go test ./...", WorkingDir: root}, gate.requests[0])
	assert.Equal(t, []string{"go test ./..."}, runner.calls)
	assert.Equal(t, []string{root}, runner.dirs)
}

func TestRunCommand_DeniedDoesNotSpawn(t *testing.T) {
	dirs, _ := newDirs(t)
	runner := &fakeRunner{}
	gate := &fakeGate{err: &policy.DeniedError{Command: "make", Decision: policy.Deny, Reason: "not now"}}
	tl := NewRunCommandTool(runner, gate, dirs, 0)

	res, err := tl.Execute(context.Background(), json.RawMessage(`{"command":"make"}`))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Command denied by user: make (reason: not now)", res.Error)
	assert.Empty(t, runner.calls)
}

func TestRunCommand_FailureCarriesExitCode(t *testing.T) {
	dirs, _ := newDirs(t)
	runner := &fakeRunner{result: &executor.ShellResult{ExitCode: 2, Stdout: "partial", Stderr: "boom"}}
	tl := NewRunCommandTool(runner, &fakeGate{}, dirs, 0)

	res, err := tl.Execute(context.Background(), json.RawMessage(`{"command":"false"}`))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "boom", res.Error)
	assert.Equal(t, "partial", res.Output)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Payload()), &payload))
	assert.Equal(t, float64(2), payload["exitCode"])
	assert.Equal(t, false, payload["success"])

	runner.result = &executor.ShellResult{ExitCode: 1}
	res, err = tl.Execute(context.Background(), json.RawMessage(`{"command":"false"}`))
	require.NoError(t, err)
	assert.Equal(t, "Command failed", res.Error)
}

func TestRunCommand_CancellationPropagates(t *testing.T) {
	dirs, _ := newDirs(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &fakeRunner{err: context.Canceled}
	tl := NewRunCommandTool(runner, &fakeGate{}, dirs, 0)

	_, err := tl.Execute(ctx, json.RawMessage(`{"command":"sleep 10"}`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunCommand_EndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/bash")
	}
	dirs, _ := newDirs(t)
	store, err := policy.Open(filepath.Join(t.TempDir(), policy.FileName))
	require.NoError(t, err)
	runner := executor.NewShellExecutor(platform.New(), 0)

	t.Run("allowed echo", func(t *testing.T) {
		require.NoError(t, store.AddAllowed("echo"))
		tl := NewRunCommandTool(runner, policy.NewGate(store, policy.AutoDeny{}), dirs, 0)

		res, err := tl.Execute(context.Background(), json.RawMessage(`{"command":"echo hi"}`))
		require.NoError(t, err)
		require.True(t, res.Success, res.Error)
		assert.Equal(t, "hi\n", res.Output)
		assert.Equal(t, 0, *res.ExitCode)
	})

	t.Run("blocked command never reaches the shell", func(t *testing.T) {
		channel := policy.NewScriptedChannel()
		spy := &fakeRunner{}
		tl := NewRunCommandTool(spy, policy.NewGate(store, channel), dirs, 0)

		res, err := tl.Execute(context.Background(), json.RawMessage(`{"command":"rm -rf /"}`))
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "Command blocked by policy")
		assert.Empty(t, spy.calls)
		assert.Empty(t, channel.Requests())
	})
}

func TestCodeExecution(t *testing.T) {
	dirs, root := newDirs(t)
	runner := &fakeRunner{result: &executor.ShellResult{Success: true, Stdout: "4\n"}}
	gate := &fakeGate{}
	tl := NewCodeExecutionTool(runner, gate, dirs, platform.FamilyPOSIX, 0)

	res, err := tl.Execute(context.Background(), json.RawMessage(`{"code":"print('%d' % 4)"}`))
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "4\n", res.Output)

	want := `python3 -c 'print('\''%d'\'' % 4)'`
	assert.Equal(t, []string{want}, runner.calls)
	require.Len(t, gate.requests, 1)
	assert.Equal(t, "code_execution", gate.requests[0].ToolName)
	assert.Equal(t, want, gate.requests[0].Command)
	assert.Equal(t, root, gate.requests[0].WorkingDir)

	res, err = tl.Execute(context.Background(), json.RawMessage(`{"code":""}`))
	require.NoError(t, err)
	assert.Equal(t, "Code cannot be empty", res.Error)
}

func TestPythonCommand(t *testing.T) {
	assert.Equal(t, `python3 -c 'x=1'`, PythonCommand(platform.FamilyPOSIX, "x=1"))
	assert.Equal(t, `python -c 'print(''a'')'`, PythonCommand(platform.FamilyPowerShell, "print('a')"))
}
