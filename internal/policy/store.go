package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Forgate-Labs/Grok-CLI/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// FileName is the policy document name looked up in the start directory.
const FileName = "grok.config.json"

// DefaultBlockedCommands returns the destructive prefixes seeded into a new store.
func DefaultBlockedCommands() []string {
	return []string{
		"rm -rf /",
		"rm -rf .*",
		"dd ",
		"mkfs",
		"shutdown",
		"reboot",
		"halt",
		"poweroff",
		"format",
		"del /s /q",
		"remove-item -recurse -force",
		"stop-computer",
		"restart-computer",
	}
}

// Document is the persisted policy file.
type Document struct {
	APIKey          string   `json:"XAI_API_KEY"`
	PrePrompt       string   `json:"pre_prompt,omitempty"`
	AllowedCommands []string `json:"allowed_commands"`
	BlockedCommands []string `json:"blocked_commands"`
}

// FileSystem abstracts file operations for testability.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
}

// OSFiles implements FileSystem on the local disk.
type OSFiles struct{}

func (OSFiles) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
func (OSFiles) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// Store holds the allow and block lists plus the credential and pre-prompt.
// Every mutation is flushed to disk while the lock is held.
type Store struct {
	mu   sync.Mutex
	path string
	fs   FileSystem
	doc  Document
}

// Open loads path from disk, creating it with defaults when missing or empty.
func Open(path string) (*Store, error) {
	return OpenWithFS(path, OSFiles{})
}

// OpenWithFS loads the store through fs.
func OpenWithFS(path string, fs FileSystem) (*Store, error) {
	if fs == nil {
		panic("fs is required")
	}
	s := &Store{path: path, fs: fs}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

// FindInAncestors returns the nearest policy file at or above dir, or "".
func FindInAncestors(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Snapshot returns a copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDocument(s.doc)
}

// APIKey returns the stored credential.
func (s *Store) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.APIKey
}

// PrePrompt returns the stored pre-prompt.
func (s *Store) PrePrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.PrePrompt
}

// SetAPIKey stores a credential and flushes.
func (s *Store) SetAPIKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.APIKey = strings.TrimSpace(key)
	return s.saveLocked()
}

// AddAllowed appends prefix to the allow list and flushes.
func (s *Store) AddAllowed(prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(&s.doc.AllowedCommands, prefix)
}

// AddBlocked appends prefix to the block list and flushes.
func (s *Store) AddBlocked(prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(&s.doc.BlockedCommands, prefix)
}

// Reload re-reads the file, replacing in-memory state.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Watch reloads the store whenever the file is written externally.
// It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := s.reloadIfValid(); err != nil {
				logging.Warn("policy reload failed", "path", s.path, "error", err)
				continue
			}
			logging.Debug("policy reloaded", "path", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("policy watcher error", "error", err)
		}
	}
}

// reloadIfValid replaces state only when the file parses, so a half-written
// file does not reset the lists to defaults.
func (s *Store) reloadIfValid() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(data)) == "" {
		return errors.New("empty policy file")
	}
	doc, err := parseDocument(data)
	if err != nil {
		return err
	}
	s.doc = doc
	return nil
}

// match reports the first list entry that prefixes command, case-insensitively.
func match(list []string, command string) (string, bool) {
	cmd := strings.ToLower(strings.TrimSpace(command))
	for _, entry := range list {
		e := strings.ToLower(strings.TrimSpace(entry))
		if e == "" {
			continue
		}
		if strings.HasPrefix(cmd, e) {
			return entry, true
		}
	}
	return "", false
}

func (s *Store) addLocked(list *[]string, prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return errors.New("command prefix is empty")
	}
	for _, existing := range *list {
		if strings.EqualFold(strings.TrimSpace(existing), prefix) {
			return nil
		}
	}
	*list = append(*list, prefix)
	return s.saveLocked()
}

func (s *Store) loadLocked() error {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return &LoadError{Path: s.path, Cause: err}
		}
		return s.resetLocked()
	}
	if strings.TrimSpace(string(data)) == "" {
		return s.resetLocked()
	}
	doc, err := parseDocument(data)
	if err != nil {
		logging.Warn("policy file unreadable, recreating with defaults", "path", s.path, "error", err)
		return s.resetLocked()
	}
	s.doc = doc
	return nil
}

func (s *Store) resetLocked() error {
	s.doc = Document{
		AllowedCommands: []string{},
		BlockedCommands: DefaultBlockedCommands(),
	}
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	doc := cloneDocument(s.doc)
	if doc.AllowedCommands == nil {
		doc.AllowedCommands = []string{}
	}
	if doc.BlockedCommands == nil {
		doc.BlockedCommands = []string{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(s.path, append(data, '\n'), 0o600); err != nil {
		return &SaveError{Path: s.path, Cause: err}
	}
	return nil
}

// parseDocument accepts both snake_case keys and their hyphenated aliases.
func parseDocument(data []byte) (Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, err
	}
	var doc Document
	doc.APIKey = strings.TrimSpace(readString(raw, "XAI_API_KEY"))
	doc.PrePrompt = strings.TrimSpace(readString(raw, "pre_prompt", "pre-prompt"))
	doc.AllowedCommands = readList(raw, "allowed_commands", "allowed-commands")
	doc.BlockedCommands = readList(raw, "blocked_commands", "blocked-commands")
	return doc, nil
}

func readString(raw map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(v, &s) == nil {
			return s
		}
	}
	return ""
}

func readList(raw map[string]json.RawMessage, keys ...string) []string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var items []any
		if json.Unmarshal(v, &items) != nil {
			continue
		}
		out := []string{}
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

func cloneDocument(d Document) Document {
	d.AllowedCommands = append([]string(nil), d.AllowedCommands...)
	d.BlockedCommands = append([]string(nil), d.BlockedCommands...)
	return d
}

// Classify applies the lists to command. decided is false when the user
// must be asked.
func (s *Store) Classify(command string) (d Decision, entry string, decided bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := match(s.doc.BlockedCommands, command); ok {
		return Never, e, true
	}
	if len(s.doc.AllowedCommands) == 0 {
		return AllowOnce, "", true
	}
	if e, ok := match(s.doc.AllowedCommands, command); ok {
		return AllowOnce, e, true
	}
	return Deny, "", false
}
