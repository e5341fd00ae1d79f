package search

import (
	"bufio"
	"encoding/json"
	"strconv"
	"strings"
)

// maxLineBytes bounds a single scanned output line (minified sources).
const maxLineBytes = 10 * 1024 * 1024

type rgRecord struct {
	Type string `json:"type"`
	Data struct {
		Path struct {
			Text string `json:"text"`
		} `json:"path"`
		Lines struct {
			Text string `json:"text"`
		} `json:"lines"`
		LineNumber *int `json:"line_number"`
	} `json:"data"`
}

// contextTracker assigns context lines to matches. A context line directly
// after a match joins its ContextAfter until limit lines are held; the run of
// context lines directly before a match, trimmed to the last limit lines,
// becomes its ContextBefore. A line between two close matches can belong to
// both. limit <= 0 means no cap.
type contextTracker struct {
	limit   int
	run     []string
	runPath string
	runEnd  int
}

func (c *contextTracker) context(matches []Match, path string, lineNumber int, text string) {
	if n := len(matches); n > 0 {
		last := &matches[n-1]
		if last.FilePath == path &&
			lineNumber == last.LineNumber+len(last.ContextAfter)+1 &&
			(c.limit <= 0 || len(last.ContextAfter) < c.limit) {
			last.ContextAfter = append(last.ContextAfter, text)
		}
	}
	if c.runPath != path || lineNumber != c.runEnd+1 {
		c.run = nil
	}
	c.run = append(c.run, text)
	if c.limit > 0 && len(c.run) > c.limit {
		c.run = c.run[len(c.run)-c.limit:]
	}
	c.runPath, c.runEnd = path, lineNumber
}

func (c *contextTracker) match(m Match) Match {
	if len(c.run) > 0 && c.runPath == m.FilePath && c.runEnd == m.LineNumber-1 {
		m.ContextBefore = append([]string(nil), c.run...)
	}
	c.reset()
	return m
}

func (c *contextTracker) reset() {
	c.run, c.runPath, c.runEnd = nil, "", 0
}

// parseRipgrep parses rg --json output. contextLines is the -C value the
// search ran with. Malformed lines are skipped.
func parseRipgrep(output string, contextLines int) []Match {
	matches := []Match{}
	tracker := &contextTracker{limit: contextLines}

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec rgRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		text := strings.TrimRight(rec.Data.Lines.Text, "\r\n")
		path := rec.Data.Path.Text

		switch rec.Type {
		case "match":
			if rec.Data.LineNumber == nil || path == "" {
				continue
			}
			matches = append(matches, tracker.match(Match{FilePath: path, LineNumber: *rec.Data.LineNumber, LineContent: text}))
		case "context":
			if rec.Data.LineNumber == nil || path == "" {
				continue
			}
			tracker.context(matches, path, *rec.Data.LineNumber, text)
		case "end", "begin":
			tracker.reset()
		}
	}
	return matches
}

// parseGrep parses grep --null -n output. The path ends at the NUL byte and
// the character after the line number tells a match (':') from a context
// line ('-'). Group separators reset context; other lines are skipped.
func parseGrep(output string, contextLines int) []Match {
	matches := []Match{}
	tracker := &contextTracker{limit: contextLines}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if line == "--" {
			tracker.reset()
			continue
		}
		path, rest, ok := strings.Cut(line, "\x00")
		if !ok || path == "" {
			continue
		}
		digits := 0
		for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
			digits++
		}
		if digits == 0 || digits == len(rest) {
			continue
		}
		n, err := strconv.Atoi(rest[:digits])
		if err != nil {
			continue
		}
		text := rest[digits+1:]
		switch rest[digits] {
		case ':':
			matches = append(matches, tracker.match(Match{FilePath: path, LineNumber: n, LineContent: text}))
		case '-':
			tracker.context(matches, path, n, text)
		}
	}
	return matches
}

type psRecord struct {
	Path       *string `json:"Path"`
	LineNumber *int    `json:"LineNumber"`
	Line       *string `json:"Line"`
	Context    *struct {
		PreContext  []string `json:"PreContext"`
		PostContext []string `json:"PostContext"`
	} `json:"Context"`
}

// parsePowerShell parses ConvertTo-Json output, which is an array for
// several matches and a bare object for one. Incomplete records are skipped.
func parsePowerShell(output string) []Match {
	matches := []Match{}
	trimmed := strings.TrimSpace(strings.TrimPrefix(output, "\ufeff"))
	if trimmed == "" {
		return matches
	}

	var records []json.RawMessage
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
			return matches
		}
	} else {
		records = []json.RawMessage{json.RawMessage(trimmed)}
	}

	for _, raw := range records {
		var rec psRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		if rec.Path == nil || rec.LineNumber == nil || rec.Line == nil {
			continue
		}
		m := Match{FilePath: *rec.Path, LineNumber: *rec.LineNumber, LineContent: *rec.Line}
		if rec.Context != nil {
			m.ContextBefore = rec.Context.PreContext
			m.ContextAfter = rec.Context.PostContext
		}
		matches = append(matches, m)
	}
	return matches
}
