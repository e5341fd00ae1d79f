package console

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool/service/executor"
	"github.com/Forgate-Labs/Grok-CLI/internal/workflow"
)

// scriptedEditor returns queued lines, then end of input.
type scriptedEditor struct {
	mu      sync.Mutex
	lines   []string
	errs    map[int]error
	prompts []string
	out     bytes.Buffer
}

func (s *scriptedEditor) ReadLine(prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if err, ok := s.errs[i]; ok {
		return "", err
	}
	if len(s.lines) == 0 {
		return "", errInputEOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedEditor) Output() io.Writer { return &s.out }
func (s *scriptedEditor) Close() error      { return nil }

type fakeEngine struct {
	model    string
	models   []string
	setErr   error
	sent     []string
	sendFunc func(ctx context.Context, text string, conv *workflow.Conversation, events chan<- workflow.Event) error
}

func (f *fakeEngine) SendMessage(ctx context.Context, text string, conv *workflow.Conversation, events chan<- workflow.Event) error {
	f.sent = append(f.sent, text)
	var err error
	if f.sendFunc != nil {
		err = f.sendFunc(ctx, text, conv, events)
	}
	events <- workflow.DoneEvent{}
	return err
}

func (f *fakeEngine) Model() string { return f.model }
func (f *fakeEngine) SetModel(model string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.model = model
	return nil
}
func (f *fakeEngine) ListModels(ctx context.Context) ([]string, error) { return f.models, nil }

type fakeShell struct {
	commands []string
	dirs     []string
	result   *executor.ShellResult
}

func (f *fakeShell) Execute(ctx context.Context, command, dir string, timeoutSeconds int) (*executor.ShellResult, error) {
	f.commands = append(f.commands, command)
	f.dirs = append(f.dirs, dir)
	if f.result != nil {
		return f.result, nil
	}
	return &executor.ShellResult{Success: true, ExitCode: 0, Stdout: "ok\n"}, nil
}

type staticDir string

func (d staticDir) Get() string { return string(d) }

// memFiles is an in-memory policy.FileSystem.
type memFiles struct {
	files map[string][]byte
}

func (m *memFiles) ReadFile(path string) ([]byte, error) {
	b, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return b, nil
}

func (m *memFiles) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.files[path] = append([]byte(nil), data...)
	return nil
}
