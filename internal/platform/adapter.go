package platform

import (
	"fmt"
	"strings"
)

// QuotePOSIX wraps s in single quotes for bash, escaping embedded quotes as '\”.
func QuotePOSIX(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// QuotePowerShell wraps s in single quotes for PowerShell, doubling embedded quotes.
func QuotePowerShell(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// CommandAdapter maps abstract file operations to command text for one shell
// family. It has no side effects.
type CommandAdapter struct {
	family Family
}

// NewCommandAdapter returns an adapter for the given shell family.
func NewCommandAdapter(family Family) CommandAdapter {
	return CommandAdapter{family: family}
}

// Family reports the shell family the adapter targets.
func (a CommandAdapter) Family() Family { return a.family }

func (a CommandAdapter) quote(s string) string {
	if a.family == FamilyPowerShell {
		return QuotePowerShell(s)
	}
	return QuotePOSIX(s)
}

func (a CommandAdapter) pick(posix, ps string) string {
	if a.family == FamilyPowerShell {
		return ps
	}
	return posix
}

func (a CommandAdapter) ListDirectory(path string) string {
	p := a.quote(path)
	return a.pick(
		"ls -lah "+p,
		"Get-ChildItem -Path "+p+" | Format-Table Name, Length, LastWriteTime",
	)
}

func (a CommandAdapter) ReadFile(path string) string {
	p := a.quote(path)
	return a.pick("cat "+p, "Get-Content -Path "+p+" -Encoding UTF8")
}

func (a CommandAdapter) WriteFile(path, content string) string {
	p, c := a.quote(path), a.quote(content)
	return a.pick(
		"printf '%s' "+c+" > "+p,
		"Set-Content -Path "+p+" -Value "+c+" -Encoding UTF8",
	)
}

func (a CommandAdapter) DeleteFile(path string) string {
	p := a.quote(path)
	return a.pick("rm -f "+p, "Remove-Item -Path "+p+" -Force")
}

func (a CommandAdapter) CopyFile(src, dst string) string {
	s, d := a.quote(src), a.quote(dst)
	return a.pick("cp "+s+" "+d, "Copy-Item -Path "+s+" -Destination "+d+" -Force")
}

func (a CommandAdapter) MoveFile(src, dst string) string {
	s, d := a.quote(src), a.quote(dst)
	return a.pick("mv "+s+" "+d, "Move-Item -Path "+s+" -Destination "+d+" -Force")
}

func (a CommandAdapter) CreateDirectory(path string) string {
	p := a.quote(path)
	return a.pick("mkdir -p "+p, "New-Item -ItemType Directory -Path "+p+" -Force")
}

func (a CommandAdapter) FindFiles(pattern, path string) string {
	pat, p := a.quote(pattern), a.quote(path)
	return a.pick(
		"find "+p+" -name "+pat+" -type f",
		"Get-ChildItem -Path "+p+" -Filter "+pat+" -Recurse -File",
	)
}

func (a CommandAdapter) SearchInFiles(pattern, path string) string {
	pat, p := a.quote(pattern), a.quote(path)
	return a.pick(
		"grep -r "+pat+" "+p,
		"Get-ChildItem -Path "+p+" -Recurse -File | Select-String -Pattern "+pat,
	)
}

// Op names an abstract file operation.
type Op string

const (
	OpList   Op = "list"
	OpRead   Op = "read"
	OpWrite  Op = "write"
	OpDelete Op = "delete"
	OpCopy   Op = "copy"
	OpMove   Op = "move"
	OpMkdir  Op = "mkdir"
	OpFind   Op = "find"
	OpSearch Op = "search"
)

// Build dispatches op to the matching method. args are positional: path for
// single-path operations, (src, dst) for copy/move, (path, content) for write
// and (pattern, path) for find/search.
func (a CommandAdapter) Build(op Op, args ...string) (string, error) {
	need := 1
	switch op {
	case OpCopy, OpMove, OpWrite, OpFind, OpSearch:
		need = 2
	}
	if len(args) != need {
		return "", fmt.Errorf("%s expects %d argument(s), got %d", op, need, len(args))
	}
	switch op {
	case OpList:
		return a.ListDirectory(args[0]), nil
	case OpRead:
		return a.ReadFile(args[0]), nil
	case OpWrite:
		return a.WriteFile(args[0], args[1]), nil
	case OpDelete:
		return a.DeleteFile(args[0]), nil
	case OpCopy:
		return a.CopyFile(args[0], args[1]), nil
	case OpMove:
		return a.MoveFile(args[0], args[1]), nil
	case OpMkdir:
		return a.CreateDirectory(args[0]), nil
	case OpFind:
		return a.FindFiles(args[0], args[1]), nil
	case OpSearch:
		return a.SearchInFiles(args[0], args[1]), nil
	}
	return "", fmt.Errorf("unknown operation %q", op)
}
