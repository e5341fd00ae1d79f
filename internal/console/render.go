package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
	"github.com/Forgate-Labs/Grok-CLI/internal/provider"
	"github.com/Forgate-Labs/Grok-CLI/internal/workflow"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Renderer writes workflow events to a terminal.
type Renderer struct {
	out      io.Writer
	mode     Mode
	markdown *glamour.TermRenderer
	width    int
	cwd      func() string
	now      func() time.Time

	text      strings.Builder
	reasoning strings.Builder
	usage     provider.Usage
	started   time.Time
}

// NewRenderer creates a Renderer. When markdown is true, normal-mode replies
// are rendered with glamour at the given width.
func NewRenderer(out io.Writer, mode Mode, markdown bool, width int, cwd func() string) *Renderer {
	if out == nil {
		panic("out is required")
	}
	if cwd == nil {
		cwd = func() string { return "" }
	}
	r := &Renderer{out: out, mode: mode, width: width, cwd: cwd, now: time.Now}
	if markdown {
		md, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
		if err != nil {
			logging.Warn("markdown renderer unavailable", "error", err)
		} else {
			r.markdown = md
		}
	}
	return r
}

func (r *Renderer) Mode() Mode        { return r.mode }
func (r *Renderer) SetMode(mode Mode) { r.mode = mode }

// BeginTurn resets per-turn state.
func (r *Renderer) BeginTurn() {
	r.text.Reset()
	r.reasoning.Reset()
	r.usage = provider.Usage{}
	r.started = r.now()
}

// Handle renders one event.
func (r *Renderer) Handle(ev workflow.Event) {
	switch ev := ev.(type) {
	case workflow.ThinkingEvent:
		r.flush()
		if r.mode == ModeDebug {
			fmt.Fprintln(r.out, styleDim.Render("thinking..."))
		}

	case workflow.TextEvent:
		if r.mode == ModeDebug {
			fmt.Fprint(r.out, ev.Text)
			return
		}
		r.text.WriteString(ev.Text)

	case workflow.ReasoningEvent:
		if r.mode == ModeDebug {
			fmt.Fprint(r.out, styleReasoning.Render(ev.Text))
			return
		}
		r.reasoning.WriteString(ev.Text)

	case workflow.ToolCallEvent:
		r.flush()
		if r.mode == ModeDebug {
			fmt.Fprintf(r.out, "\n%s\n", styleTool.Render(fmt.Sprintf("🔧 [Tool: %s]", ev.Name)))
			if strings.TrimSpace(ev.Arguments) != "" {
				fmt.Fprintf(r.out, "📋 Arguments:\n%s\n", ev.Arguments)
			}
		}

	case workflow.ToolResultEvent:
		if r.mode == ModeDebug {
			fmt.Fprintf(r.out, "%s\n%s\n\n", resultStyle(ev.Result.Success).Render("Result:"), ev.Result.Payload())
			return
		}
		summary := summarize(ev, r.cwd())
		if summary == "" {
			return
		}
		header, body, _ := strings.Cut(summary, "\n")
		fmt.Fprintf(r.out, "\n%s\n%s", styleTool.Render("● "+header), resultStyle(ev.Result.Success).Render(strings.TrimRight(body, "\n")))
		fmt.Fprintln(r.out)

	case workflow.UsageEvent:
		r.usage = ev.Usage

	case workflow.PlanEvent:
		r.flush()
		fmt.Fprintf(r.out, "\n%s", planView(ev.Plan))

	case workflow.DoneEvent:
		r.flush()
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, styleDim.Render(r.doneLine()))
	}
}

// Error reports a failed turn.
func (r *Renderer) Error(err error) {
	r.flush()
	fmt.Fprintln(r.out, styleError.Render("Error: "+err.Error()))
}

// Info prints a system message.
func (r *Renderer) Info(msg string) {
	fmt.Fprintln(r.out, styleInfo.Render(msg))
}

func (r *Renderer) flush() {
	if r.reasoning.Len() > 0 {
		fmt.Fprintln(r.out, styleReasoning.Render(strings.TrimSpace(r.reasoning.String())))
		r.reasoning.Reset()
	}
	if r.text.Len() == 0 {
		return
	}
	text := r.text.String()
	r.text.Reset()
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(text); err == nil {
			fmt.Fprint(r.out, rendered)
			return
		}
	}
	fmt.Fprintln(r.out, text)
}

func (r *Renderer) doneLine() string {
	elapsed := r.now().Sub(r.started).Round(100 * time.Millisecond)
	prefix := fmt.Sprintf("─ Worked for %s - %d total tokens ", elapsed, r.usage.TotalTokens)
	if pad := r.width - len([]rune(prefix)); pad > 0 {
		return prefix + strings.Repeat("─", pad)
	}
	return prefix
}

func resultStyle(success bool) lipgloss.Style {
	if success {
		return styleSuccess
	}
	return styleError
}
