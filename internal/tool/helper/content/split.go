// Package content holds byte-level helpers shared by the file, search and
// shell services.
package content

import "strings"

// SplitLines splits on LF and CRLF. A lone CR is kept as content and a final
// line ending does not produce a trailing empty line.
func SplitLines(s string) []string {
	var lines []string
	for s != "" {
		line, rest, found := strings.Cut(s, "\n")
		if !found {
			lines = append(lines, line)
			break
		}
		lines = append(lines, strings.TrimSuffix(line, "\r"))
		s = rest
	}
	return lines
}
