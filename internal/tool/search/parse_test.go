package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRipgrep(t *testing.T) {
	output := `{"type":"begin","data":{"path":{"text":"/w/a.go"}}}
{"type":"match","data":{"path":{"text":"/w/a.go"},"lines":{"text":"func main() {\n"},"line_number":3}}
not json at all
{"type":"match","data":{"path":{"text":"/w/a.go"},"lines":{"text":"main()\n"},"line_number":9}}
{"type":"match","data":{"path":{"text":"/w/a.go"},"lines":{"text":"no line number"}}}
{"type":"end","data":{"path":{"text":"/w/a.go"}}}
{"type":"match","data":{"path":{"text":"/w/b.go"},"lines":{"text":"x := main\r\n"},"line_number":1}}
{"type":"summary","data":{}}
`
	matches := parseRipgrep(output, 0)
	require.Len(t, matches, 3)
	assert.Equal(t, Match{FilePath: "/w/a.go", LineNumber: 3, LineContent: "func main() {"}, matches[0])
	assert.Equal(t, 9, matches[1].LineNumber)
	assert.Equal(t, "/w/b.go", matches[2].FilePath)
	assert.Equal(t, "x := main", matches[2].LineContent)
}

func TestParseRipgrep_Context(t *testing.T) {
	output := `{"type":"begin","data":{"path":{"text":"f.txt"}}}
{"type":"context","data":{"path":{"text":"f.txt"},"lines":{"text":"one\n"},"line_number":1}}
{"type":"match","data":{"path":{"text":"f.txt"},"lines":{"text":"two\n"},"line_number":2}}
{"type":"context","data":{"path":{"text":"f.txt"},"lines":{"text":"three\n"},"line_number":3}}
{"type":"end","data":{"path":{"text":"f.txt"}}}
`
	matches := parseRipgrep(output, 1)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"one"}, matches[0].ContextBefore)
	assert.Equal(t, []string{"three"}, matches[0].ContextAfter)
}

func rgLine(kind, path, text string, n int) string {
	return fmt.Sprintf(`{"type":%q,"data":{"path":{"text":%q},"lines":{"text":%q},"line_number":%d}}`, kind, path, text+"\n", n) + "\n"
}

func TestParseRipgrep_TouchingContextWindows(t *testing.T) {
	t.Run("one line of context", func(t *testing.T) {
		output := rgLine("context", "f", "l1", 1) +
			rgLine("match", "f", "l2", 2) +
			rgLine("context", "f", "l3", 3) +
			rgLine("context", "f", "l4", 4) +
			rgLine("match", "f", "l5", 5) +
			rgLine("context", "f", "l6", 6)

		matches := parseRipgrep(output, 1)
		require.Len(t, matches, 2)
		assert.Equal(t, []string{"l1"}, matches[0].ContextBefore)
		assert.Equal(t, []string{"l3"}, matches[0].ContextAfter)
		assert.Equal(t, []string{"l4"}, matches[1].ContextBefore)
		assert.Equal(t, []string{"l6"}, matches[1].ContextAfter)
	})

	t.Run("shared lines", func(t *testing.T) {
		output := rgLine("match", "f", "l1", 1) +
			rgLine("context", "f", "l2", 2) +
			rgLine("context", "f", "l3", 3) +
			rgLine("match", "f", "l4", 4)

		matches := parseRipgrep(output, 2)
		require.Len(t, matches, 2)
		assert.Equal(t, []string{"l2", "l3"}, matches[0].ContextAfter)
		assert.Equal(t, []string{"l2", "l3"}, matches[1].ContextBefore)
	})

	t.Run("adjacent matches", func(t *testing.T) {
		output := rgLine("match", "f", "l1", 1) + rgLine("match", "f", "l2", 2) + rgLine("context", "f", "l3", 3)

		matches := parseRipgrep(output, 1)
		require.Len(t, matches, 2)
		assert.Nil(t, matches[0].ContextAfter)
		assert.Nil(t, matches[1].ContextBefore)
		assert.Equal(t, []string{"l3"}, matches[1].ContextAfter)
	})
}

func TestParseGrep(t *testing.T) {
	output := "src/a.go\x0012:\tfmt.Println(\"a:b\")\n" +
		"src/a.go\x0013-context line\n" +
		"--\n" +
		"garbage\n" +
		"src/b.go\x00x:not a number\n" +
		"src/b.go\x004:done\r\n"

	matches := parseGrep(output, 1)
	require.Len(t, matches, 2)
	assert.Equal(t, Match{FilePath: "src/a.go", LineNumber: 12, LineContent: "\tfmt.Println(\"a:b\")", ContextAfter: []string{"context line"}}, matches[0])
	assert.Equal(t, Match{FilePath: "src/b.go", LineNumber: 4, LineContent: "done"}, matches[1])
}

func TestParseGrep_ContextLines(t *testing.T) {
	t.Run("colon-number text in a context line", func(t *testing.T) {
		output := "src/a.go\x003-// at 10:30:00 daily\n" +
			"src/a.go\x004:match here\n" +
			"src/a.go\x005-}\n"

		matches := parseGrep(output, 1)
		require.Len(t, matches, 1)
		assert.Equal(t, Match{
			FilePath:      "src/a.go",
			LineNumber:    4,
			LineContent:   "match here",
			ContextBefore: []string{"// at 10:30:00 daily"},
			ContextAfter:  []string{"}"},
		}, matches[0])
	})

	t.Run("paths with separators", func(t *testing.T) {
		matches := parseGrep("dir/a-1-b:2:c.txt\x007:hit\n", 0)
		require.Len(t, matches, 1)
		assert.Equal(t, "dir/a-1-b:2:c.txt", matches[0].FilePath)
		assert.Equal(t, 7, matches[0].LineNumber)
	})

	t.Run("touching windows and group separator", func(t *testing.T) {
		output := "f\x001-l1\nf\x002:l2\nf\x003-l3\nf\x004-l4\nf\x005:l5\nf\x006-l6\n--\nf\x009-l9\nf\x0010:l10\n"

		matches := parseGrep(output, 1)
		require.Len(t, matches, 3)
		assert.Equal(t, []string{"l3"}, matches[0].ContextAfter)
		assert.Equal(t, []string{"l4"}, matches[1].ContextBefore)
		assert.Equal(t, []string{"l6"}, matches[1].ContextAfter)
		assert.Equal(t, []string{"l9"}, matches[2].ContextBefore)
	})
}

func TestParseGrep_Empty(t *testing.T) {
	assert.Empty(t, parseGrep("", 0))
	assert.NotNil(t, parseGrep("", 0))
}

func TestParsePowerShell(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		output := `[
  {"Path":"C:\\w\\a.cs","LineNumber":5,"Line":"class A","Context":{"PreContext":["// a"],"PostContext":["{"]}},
  {"Path":"C:\\w\\b.cs","LineNumber":7,"Line":"class B","Context":null},
  {"LineNumber":8,"Line":"missing path"}
]`
		matches := parsePowerShell(output)
		require.Len(t, matches, 2)
		assert.Equal(t, `C:\w\a.cs`, matches[0].FilePath)
		assert.Equal(t, []string{"// a"}, matches[0].ContextBefore)
		assert.Equal(t, []string{"{"}, matches[0].ContextAfter)
		assert.Nil(t, matches[1].ContextBefore)
	})

	t.Run("single object", func(t *testing.T) {
		matches := parsePowerShell("\ufeff{\"Path\":\"C:\\\\a.txt\",\"LineNumber\":1,\"Line\":\"hit\"}\r\n")
		require.Len(t, matches, 1)
		assert.Equal(t, "hit", matches[0].LineContent)
	})

	t.Run("malformed", func(t *testing.T) {
		assert.Empty(t, parsePowerShell("[{broken"))
		assert.Empty(t, parsePowerShell("   "))
	})
}
