package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	assert.Equal(t, `'it'\''s'`, QuotePOSIX("it's"))
	assert.Equal(t, `'it''s'`, QuotePowerShell("it's"))
}

func TestCommandAdapter_POSIX(t *testing.T) {
	a := NewCommandAdapter(FamilyPOSIX)

	assert.Equal(t, "ls -lah '/tmp/x'", a.ListDirectory("/tmp/x"))
	assert.Equal(t, "cat 'a b.txt'", a.ReadFile("a b.txt"))
	assert.Equal(t, `printf '%s' 'don'\''t' > 'f'`, a.WriteFile("f", "don't"))
	assert.Equal(t, "rm -f 'f'", a.DeleteFile("f"))
	assert.Equal(t, "cp 'a' 'b'", a.CopyFile("a", "b"))
	assert.Equal(t, "mv 'a' 'b'", a.MoveFile("a", "b"))
	assert.Equal(t, "mkdir -p 'd'", a.CreateDirectory("d"))
	assert.Equal(t, "find '.' -name '*.go' -type f", a.FindFiles("*.go", "."))
	assert.Equal(t, "grep -r 'todo' '.'", a.SearchInFiles("todo", "."))
}

func TestCommandAdapter_PowerShell(t *testing.T) {
	a := NewCommandAdapter(FamilyPowerShell)

	assert.Equal(t, "Get-ChildItem -Path 'C:\\x' | Format-Table Name, Length, LastWriteTime", a.ListDirectory(`C:\x`))
	assert.Equal(t, "Set-Content -Path 'f' -Value 'don''t' -Encoding UTF8", a.WriteFile("f", "don't"))
	assert.Equal(t, "Remove-Item -Path 'f' -Force", a.DeleteFile("f"))
	assert.Equal(t, "Get-ChildItem -Path '.' -Recurse -File | Select-String -Pattern 'x'", a.SearchInFiles("x", "."))
}

func TestCommandAdapter_Build(t *testing.T) {
	a := NewCommandAdapter(FamilyPOSIX)

	cmd, err := a.Build(OpCopy, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, a.CopyFile("a", "b"), cmd)

	_, err = a.Build(OpCopy, "a")
	assert.Error(t, err)

	_, err = a.Build(Op("chmod"), "a")
	assert.Error(t, err)
}
