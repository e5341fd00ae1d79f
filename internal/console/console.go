// Package console is the interactive terminal front end.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
	"github.com/Forgate-Labs/Grok-CLI/internal/platform"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/service/executor"
	"github.com/Forgate-Labs/Grok-CLI/internal/workflow"
	"github.com/google/uuid"
)

// Commands lists the slash commands for completion.
var Commands = []string{"help", "clear", "model", "models", "mode", "pwd", "ls", "cmd", "exit"}

// engine runs conversation turns.
type engine interface {
	SendMessage(ctx context.Context, text string, conv *workflow.Conversation, events chan<- workflow.Event) error
	Model() string
	SetModel(model string) error
	ListModels(ctx context.Context) ([]string, error)
}

// shellRunner runs user-typed commands.
type shellRunner interface {
	Execute(ctx context.Context, command, dir string, timeoutSeconds int) (*executor.ShellResult, error)
}

// workingDirectory exposes the session directory.
type workingDirectory interface {
	Get() string
}

// Options configures a Console.
type Options struct {
	Mode           Mode
	Markdown       bool
	Width          int
	ShellTimeout   int
	ProviderName   string
	InterruptTurns bool
}

// Console is the read-eval-print loop around the engine.
type Console struct {
	engine   engine
	editor   LineEditor
	shell    shellRunner
	dirs     workingDirectory
	adapter  platform.CommandAdapter
	renderer *Renderer
	out      io.Writer
	conv     *workflow.Conversation
	opts     Options
	session  string
}

// New creates a Console. Output goes through the editor so prompts are
// redrawn correctly.
func New(e engine, editor LineEditor, shell shellRunner, dirs workingDirectory, adapter platform.CommandAdapter, opts Options) *Console {
	if e == nil {
		panic("engine is required")
	}
	if editor == nil {
		panic("editor is required")
	}
	if shell == nil {
		panic("shell is required")
	}
	if dirs == nil {
		panic("dirs is required")
	}
	if opts.Width <= 0 {
		opts.Width = 100
	}
	out := editor.Output()
	return &Console{
		engine:   e,
		editor:   editor,
		shell:    shell,
		dirs:     dirs,
		adapter:  adapter,
		renderer: NewRenderer(out, opts.Mode, opts.Markdown, opts.Width, dirs.Get),
		out:      out,
		conv:     workflow.NewConversation(),
		opts:     opts,
		session:  uuid.NewString(),
	}
}

// Output returns the writer shared by the console and its approver.
func (c *Console) Output() io.Writer { return c.out }

// Conversation returns the current conversation.
func (c *Console) Conversation() *workflow.Conversation { return c.conv }

// Run reads input until /exit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	logging.Info("console session started", "session_id", c.session, "model", c.engine.Model())
	c.welcome()

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := c.editor.ReadLine(styleUser.Render("> "))
		if err != nil {
			if errors.Is(err, errInputInterrupt) {
				continue
			}
			if errors.Is(err, errInputEOF) {
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := c.command(ctx, line); quit {
				return nil
			}
			continue
		}
		c.turn(ctx, line)
	}
}

func (c *Console) welcome() {
	c.renderer.Info("Grok CLI - Agentic Mode")
	c.renderer.Info(fmt.Sprintf("Model: %s (%s)", c.engine.Model(), orDefault(c.opts.ProviderName, "xai")))
	c.renderer.Info(fmt.Sprintf("Directory: %s", c.dirs.Get()))
	c.renderer.Info("Type /help for commands. Ctrl+C cancels a running turn.")
	fmt.Fprintln(c.out)
}

// turn runs one SendMessage, rendering events until the turn is done.
func (c *Console) turn(parent context.Context, text string) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	if c.opts.InterruptTurns {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
	}

	events := make(chan workflow.Event, 64)
	errCh := make(chan error, 1)
	c.renderer.BeginTurn()
	go func() {
		errCh <- c.engine.SendMessage(ctx, text, c.conv, events)
	}()

	for ev := range events {
		c.renderer.Handle(ev)
		if _, done := ev.(workflow.DoneEvent); done {
			break
		}
	}
	err := <-errCh
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		c.renderer.Info("Turn cancelled.")
	default:
		logging.Error("turn failed", "session_id", c.session, "error", err)
		c.renderer.Error(err)
	}
}

// command handles a slash command and reports whether to quit.
func (c *Console) command(ctx context.Context, line string) bool {
	name, arg := splitCommand(line)
	switch name {
	case "exit", "quit":
		return true

	case "help":
		c.renderer.Info(strings.Join([]string{
			"/clear           start a new conversation",
			"/model [id]      show or switch the model",
			"/models          list available models",
			"/mode [m]        show or set display mode (normal, debug)",
			"/pwd             show the working directory",
			"/ls [path]       list a directory",
			"/cmd <command>   run a shell command directly",
			"/exit            quit",
		}, "\n"))

	case "clear":
		c.conv = workflow.NewConversation()
		c.renderer.Info("Conversation cleared.")

	case "model":
		if arg == "" {
			c.renderer.Info("Model: " + c.engine.Model())
			break
		}
		if err := c.engine.SetModel(arg); err != nil {
			c.renderer.Error(err)
			break
		}
		c.renderer.Info("Model set to " + c.engine.Model())

	case "models":
		models, err := c.engine.ListModels(ctx)
		if err != nil {
			c.renderer.Error(err)
			break
		}
		current := c.engine.Model()
		var b strings.Builder
		for _, m := range models {
			marker := "  "
			if m == current {
				marker = "* "
			}
			b.WriteString(marker + m + "\n")
		}
		c.renderer.Info(strings.TrimRight(b.String(), "\n"))

	case "mode":
		if arg == "" {
			c.renderer.Info("Mode: " + c.renderer.Mode().String())
			break
		}
		mode, err := ParseMode(arg)
		if err != nil {
			c.renderer.Error(err)
			break
		}
		c.renderer.SetMode(mode)
		c.renderer.Info("Mode set to " + mode.String())

	case "pwd":
		c.renderer.Info(c.dirs.Get())

	case "ls":
		command, err := c.adapter.Build(platform.OpList, orDefault(arg, "."))
		if err != nil {
			c.renderer.Error(err)
			break
		}
		c.shellCommand(ctx, command)

	case "cmd":
		if arg == "" {
			c.renderer.Error(errors.New("usage: /cmd <command>"))
			break
		}
		c.shellCommand(ctx, arg)

	default:
		c.renderer.Error(fmt.Errorf("unknown command /%s (try /help)", name))
	}
	return false
}

// shellCommand runs a user-typed command in the session directory. The user
// typed it, so the permission gate is not consulted.
func (c *Console) shellCommand(ctx context.Context, command string) {
	res, err := c.shell.Execute(ctx, command, c.dirs.Get(), c.opts.ShellTimeout)
	if err != nil {
		c.renderer.Error(err)
		return
	}
	result := tool.Result{Success: res.Success, Output: res.Stdout, Error: res.Stderr}.WithExitCode(res.ExitCode)
	if c.renderer.Mode() == ModeDebug {
		fmt.Fprintf(c.out, "\n💻 [Command]: %s\n📋 [Exit Code]: %d\n", command, res.ExitCode)
		if res.Stdout != "" {
			fmt.Fprintf(c.out, "\n%s\n%s\n", styleSuccess.Render("[Output]:"), res.Stdout)
		}
		if res.Stderr != "" {
			fmt.Fprintf(c.out, "\n%s\n%s\n", styleError.Render("[Error]:"), res.Stderr)
		}
		return
	}
	fmt.Fprintf(c.out, "\n%s\n%s\n", styleTool.Render("● Run("+command+")"),
		resultStyle(result.Success).Render(strings.TrimRight(block(commandMessage(result)), "\n")))
}

func splitCommand(line string) (name, arg string) {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "/"))
	name, arg, _ = strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(arg)
}

// syncWriter serialises writes from the render loop and the approver.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
