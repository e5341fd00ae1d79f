// Package platform detects the host OS once and exposes its shell recipe and
// path conventions.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// OS identifies the detected operating system.
type OS string

const (
	Windows OS = "Windows"
	Linux   OS = "Linux"
	MacOS   OS = "MacOS"
	Unknown OS = "Unknown"
)

// Family is a shell invocation convention.
type Family int

const (
	// FamilyPOSIX runs commands through /bin/bash -c.
	FamilyPOSIX Family = iota
	// FamilyPowerShell runs commands through powershell.exe -NoProfile -Command.
	FamilyPowerShell
)

func (f Family) String() string {
	if f == FamilyPowerShell {
		return "powershell"
	}
	return "posix"
}

// Service holds the result of a single OS detection pass.
type Service struct {
	os            OS
	shellLabel    string
	pathSeparator string
	lineEnding    string
	homeDir       string
}

// New detects the running OS.
func New() *Service {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return NewFor(runtime.GOOS, home)
}

// NewFor builds a Service for the given GOOS value and home directory.
func NewFor(goos, homeDir string) *Service {
	s := &Service{os: detect(goos), homeDir: homeDir}
	switch s.os {
	case Windows:
		s.shellLabel = "PowerShell"
		s.pathSeparator = `\`
		s.lineEnding = "\r\n"
	case Linux:
		s.shellLabel = "Bash"
		s.pathSeparator = "/"
		s.lineEnding = "\n"
	case MacOS:
		s.shellLabel = "Bash/Zsh"
		s.pathSeparator = "/"
		s.lineEnding = "\n"
	default:
		s.shellLabel = "Unknown"
		s.pathSeparator = "/"
		s.lineEnding = "\n"
	}
	return s
}

func detect(goos string) OS {
	switch goos {
	case "windows":
		return Windows
	case "linux":
		return Linux
	case "darwin":
		return MacOS
	default:
		return Unknown
	}
}

func (s *Service) OS() OS                { return s.os }
func (s *Service) IsWindows() bool       { return s.os == Windows }
func (s *Service) IsLinux() bool         { return s.os == Linux }
func (s *Service) IsMacOS() bool         { return s.os == MacOS }
func (s *Service) ShellLabel() string    { return s.shellLabel }
func (s *Service) LineEnding() string    { return s.lineEnding }
func (s *Service) PathSeparator() string { return s.pathSeparator }
func (s *Service) HomeDir() string       { return s.homeDir }

// Family returns the shell family used for command execution.
func (s *Service) Family() Family {
	if s.os == Windows {
		return FamilyPowerShell
	}
	return FamilyPOSIX
}

// ShellCommand returns the executable and argument vector that run command
// in the platform shell. Arguments are passed to the process directly, so the
// command text needs no additional quoting.
func (s *Service) ShellCommand(command string) (string, []string) {
	if s.Family() == FamilyPowerShell {
		return "powershell.exe", []string{"-NoProfile", "-Command", command}
	}
	return "/bin/bash", []string{"-c", command}
}

// ExpandHome replaces a leading "~" path element with the home directory.
func (s *Service) ExpandHome(path string) string {
	if s.homeDir == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	if path == "~" {
		return s.homeDir
	}
	if path[1] == '/' || (path[1] == '\\' && s.IsWindows()) {
		return s.homeDir + s.pathSeparator + path[2:]
	}
	return path
}

// NormalizePath expands "~", converts forward slashes to backslashes on
// Windows and cleans the result. A backslash is an ordinary filename
// character elsewhere and is kept. Relative paths stay relative.
func (s *Service) NormalizePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return path
	}
	path = s.ExpandHome(path)
	if s.IsWindows() {
		path = strings.ReplaceAll(path, "/", `\`)
	}
	return filepath.Clean(path)
}

// PathsEqual compares two paths after normalization. Comparison is ordinal on
// Linux and case-insensitive elsewhere.
func (s *Service) PathsEqual(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	a, b = s.NormalizePath(a), s.NormalizePath(b)
	if s.IsLinux() {
		return a == b
	}
	return strings.EqualFold(a, b)
}
