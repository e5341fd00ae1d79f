package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

var (
	errInputInterrupt = errors.New("console: input interrupted")
	errInputEOF       = errors.New("console: input eof")
)

// LineEditor reads one line of user input at a time. Output is safe for
// concurrent use so the approver can share it with the renderer.
type LineEditor interface {
	ReadLine(prompt string) (string, error)
	Output() io.Writer
	Close() error
}

// EditorConfig configures the prompt line editor.
type EditorConfig struct {
	HistoryFile string
	Commands    []string
}

// NewLineEditor returns a readline editor on a terminal and a plain stdio
// reader otherwise.
func NewLineEditor(cfg EditorConfig) LineEditor {
	if IsTerminal(os.Stdin) && IsTerminal(os.Stdout) {
		rl, err := newReadlineEditor(cfg)
		if err == nil {
			return rl
		}
	}
	return &stdioEditor{reader: bufio.NewReader(os.Stdin), out: &syncWriter{w: os.Stdout}}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of stdout, or fallback when unknown.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

type readlineEditor struct {
	rl  *readline.Instance
	out io.Writer
}

func newReadlineEditor(cfg EditorConfig) (*readlineEditor, error) {
	historyFile := strings.TrimSpace(cfg.HistoryFile)
	if historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0o755); err != nil {
			return nil, fmt.Errorf("console: create history dir: %w", err)
		}
	}

	items := make([]readline.PrefixCompleterInterface, 0, len(cfg.Commands))
	for _, cmd := range cfg.Commands {
		cmd = strings.TrimSpace(cmd)
		if cmd == "" {
			continue
		}
		items = append(items, readline.PcItem("/"+cmd))
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyFile,
		AutoComplete:      readline.NewPrefixCompleter(items...),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, err
	}
	return &readlineEditor{rl: rl, out: &syncWriter{w: rl.Stdout()}}, nil
}

func (r *readlineEditor) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err == nil {
		return strings.TrimSpace(line), nil
	}
	if errors.Is(err, readline.ErrInterrupt) {
		return "", errInputInterrupt
	}
	if errors.Is(err, io.EOF) {
		return "", errInputEOF
	}
	return "", err
}

func (r *readlineEditor) Output() io.Writer { return r.out }
func (r *readlineEditor) Close() error      { return r.rl.Close() }

type stdioEditor struct {
	reader *bufio.Reader
	out    io.Writer
}

func (s *stdioEditor) ReadLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if strings.TrimSpace(line) != "" {
				return strings.TrimSpace(line), nil
			}
			return "", errInputEOF
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *stdioEditor) Output() io.Writer { return s.out }
func (s *stdioEditor) Close() error      { return nil }
