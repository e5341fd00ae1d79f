package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Forgate-Labs/Grok-CLI/internal/platform"
)

// ripgrepCommand builds an rg invocation emitting JSON records.
func ripgrepCommand(o Options) string {
	args := []string{"rg"}
	if o.IsRegex {
		args = append(args, "-e")
	} else {
		args = append(args, "-F")
	}
	args = append(args, platform.QuotePOSIX(o.Pattern))
	if !o.CaseSensitive {
		args = append(args, "-i")
	}
	if o.ContextLines > 0 {
		args = append(args, fmt.Sprintf("-C %d", o.ContextLines))
	}
	args = append(args, "-n", fmt.Sprintf("-m %d", o.MaxResults))
	if o.FileType != "" {
		args = append(args, "--glob "+platform.QuotePOSIX("*."+o.FileType))
	}
	args = append(args, "--json", platform.QuotePOSIX(o.SearchPath))
	return strings.Join(args, " ")
}

// grepCommand builds a recursive grep invocation emitting path NUL line:text
// for matches and path NUL line-text for context lines.
func grepCommand(o Options) string {
	args := []string{"grep", "-r", "-n", "--null"}
	if !o.CaseSensitive {
		args = append(args, "-i")
	}
	if o.ContextLines > 0 {
		args = append(args, fmt.Sprintf("-C %d", o.ContextLines))
	}
	args = append(args, fmt.Sprintf("-m %d", o.MaxResults))
	if !o.IsRegex {
		args = append(args, "-F")
	}
	if o.FileType != "" {
		args = append(args, "--include="+platform.QuotePOSIX("*."+o.FileType))
	}
	args = append(args, platform.QuotePOSIX(o.Pattern), platform.QuotePOSIX(o.SearchPath))
	return strings.Join(args, " ")
}

var psDoubleQuoteEscaper = strings.NewReplacer("`", "``", `"`, "`\"", "$", "`$")

// powerShellCommand builds a Select-String pipeline emitting a JSON array.
func powerShellCommand(o Options) string {
	pattern := o.Pattern
	if !o.IsRegex {
		pattern = regexp.QuoteMeta(pattern)
	}
	pattern = psDoubleQuoteEscaper.Replace(pattern)

	var b strings.Builder
	fmt.Fprintf(&b, "Get-ChildItem -Path %s -Recurse -File", platform.QuotePowerShell(o.SearchPath))
	if o.FileType != "" {
		fmt.Fprintf(&b, " -Filter %s", platform.QuotePowerShell("*."+o.FileType))
	}
	fmt.Fprintf(&b, " | Select-String -Pattern \"%s\"", pattern)
	if o.CaseSensitive {
		b.WriteString(" -CaseSensitive")
	}
	if o.ContextLines > 0 {
		fmt.Fprintf(&b, " -Context %d,%d", o.ContextLines, o.ContextLines)
	}
	fmt.Fprintf(&b, " | Select-Object -First %d", o.MaxResults)
	b.WriteString(" | Select-Object Path, LineNumber, Line, Context | ConvertTo-Json -Depth 3")
	return b.String()
}
