package console

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool"
	"github.com/Forgate-Labs/Grok-CLI/internal/tool/plan"
	"github.com/Forgate-Labs/Grok-CLI/internal/workflow"
)

const snippetLimit = 80

// summarize renders the normal-mode view of a finished tool call. cwd is
// used when the call did not name a directory. An empty string means the
// call is shown elsewhere.
func summarize(ev workflow.ToolResultEvent, cwd string) string {
	args := parseObject(ev.Arguments)
	res := ev.Result

	switch ev.Name {
	case "search":
		header := fmt.Sprintf("Search(pattern: %q, path: %q)", stringField(args, "pattern"), orDefault(stringField(args, "path"), cwd))
		if !res.Success {
			return header + "\n" + block(orDefault(res.Error, "Search failed"))
		}
		n := intField(parseObject(res.Output), "total_matches")
		return header + "\n" + line(fmt.Sprintf("Found %d %s", n, plural(n, "match", "matches")))

	case "run_command":
		command := truncate(strings.ReplaceAll(stringField(args, "command"), "\n", " "), snippetLimit)
		header := fmt.Sprintf("Command(path: %q, command: %q)", orDefault(stringField(args, "working_directory"), cwd), command)
		return header + "\n" + block(commandMessage(res))

	case "code_execution":
		code := truncate(strings.ReplaceAll(stringField(args, "code"), "\n", " "), snippetLimit)
		header := fmt.Sprintf("Python(path: %q, command: %q)", cwd, code)
		msg := res.Output
		if !res.Success {
			msg = orDefault(res.Error, "Execution failed")
		}
		if strings.TrimSpace(msg) == "" {
			msg = "Completed with no output"
		}
		return header + "\n" + block(msg)

	case "read_local_file":
		header := fmt.Sprintf("Read(%s)", orDefault(stringField(args, "path"), "unknown"))
		if !res.Success {
			return header + "\n" + line(normalize(orDefault(res.Error, "Read failed")))
		}
		return header + "\n" + line(fmt.Sprintf("Read %d lines (%d tokens)", countLines(res.Output), len(strings.Fields(res.Output))))

	case "edit_file":
		header := fmt.Sprintf("Update(%s)", orDefault(stringField(args, "file_path"), "unknown"))
		if !res.Success {
			return header + "\n" + line(normalize(orDefault(res.Error, "Update failed")))
		}
		n := intField(parseObject(res.Output), "lines_modified")
		return header + "\n" + line(fmt.Sprintf("Update %d %s", n, plural(n, "line", "lines")))

	case "change_directory":
		header := fmt.Sprintf("ChangeDirectory(path: %q)", stringField(args, "path"))
		if !res.Success {
			return header + "\n" + line(normalize(orDefault(res.Error, "Directory change failed")))
		}
		return header + "\n" + line("Now at "+orDefault(stringField(parseObject(res.Output), "current_directory"), "unknown"))

	case "list_directory":
		header := fmt.Sprintf("List(%s)", orDefault(stringField(args, "path"), cwd))
		if !res.Success {
			return header + "\n" + line(normalize(orDefault(res.Error, "Listing failed")))
		}
		n := intField(parseObject(res.Output), "total_count")
		return header + "\n" + line(fmt.Sprintf("Listed %d %s", n, plural(n, "entry", "entries")))

	case plan.SetPlanToolName, plan.ShareReasoningToolName, plan.WorkflowDoneToolName:
		if res.Success {
			return ""
		}
		return fmt.Sprintf("%s()", ev.Name) + "\n" + line(normalize(orDefault(res.Error, "Tool failed")))

	default:
		msg := res.Output
		switch {
		case !res.Success:
			msg = orDefault(res.Error, "Tool failed")
		case strings.TrimSpace(msg) == "":
			msg = "Completed"
		}
		return fmt.Sprintf("%s()", ev.Name) + "\n" + block(msg)
	}
}

func commandMessage(res tool.Result) string {
	exit := "?"
	if res.ExitCode != nil {
		exit = fmt.Sprint(*res.ExitCode)
	}
	if !res.Success {
		switch {
		case strings.TrimSpace(res.Error) != "":
			return res.Error
		case strings.TrimSpace(res.Output) != "":
			return res.Output
		default:
			return "Command failed with exit code " + exit
		}
	}
	msg := res.Output
	if strings.TrimSpace(res.Error) != "" {
		if strings.TrimSpace(msg) == "" {
			msg = res.Error
		} else {
			msg = strings.TrimRight(msg, "\n") + "\n" + res.Error
		}
	}
	if strings.TrimSpace(msg) == "" {
		msg = "Exit code " + exit + " with no output"
	}
	return msg
}

// planView renders a plan as a checklist.
func planView(p plan.Plan) string {
	var b strings.Builder
	title := orDefault(p.Title, "Plan")
	b.WriteString(stylePlanTitle.Render(title))
	b.WriteString("\n")
	for _, item := range p.Items {
		switch item.Status {
		case plan.StatusDone:
			b.WriteString(styleSuccess.Render("[x] " + item.Title))
		case plan.StatusInProgress:
			b.WriteString(styleInfo.Render("[~] " + item.Title))
		default:
			b.WriteString("[ ] " + item.Title)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func line(text string) string {
	return "⎿ " + text + "\n"
}

// block prints short output whole and long output as head, count and tail.
func block(text string) string {
	lines := strings.Split(normalize(text), "\n")
	if len(lines) > 4 {
		lines = []string{
			lines[0],
			fmt.Sprintf("... +%d lines", len(lines)-3),
			lines[len(lines)-2],
			lines[len(lines)-1],
		}
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(line(l))
	}
	return b.String()
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimRight(text, "\n")
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func parseObject(s string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	f, _ := m[key].(float64)
	return int(f)
}
