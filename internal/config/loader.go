package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ConfigDir is the directory name under the user config directory.
	ConfigDir = "grok"
	// ConfigFile is the config file name.
	ConfigFile = "config.json"
)

// Environment variables applied over the file.
const (
	EnvProvider = "GROK_PROVIDER"
	EnvModel    = "GROK_MODEL"
	EnvBaseURL  = "GROK_BASE_URL"
	EnvLogLevel = "GROK_LOG_LEVEL"
)

// FileSystem abstracts file operations for testability.
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem on the local disk.
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error)         { return os.UserHomeDir() }
func (ConfigFileReader) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Loader reads the config file and environment.
type Loader struct {
	fs     FileSystem
	getenv func(string) string
}

// NewLoader reads the real disk and process environment.
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}, getenv: os.Getenv}
}

// NewLoaderWithFS reads through fs and ignores the environment.
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs, getenv: func(string) string { return "" }}
}

// WithEnv replaces the environment lookup.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// DefaultPath returns $XDG_CONFIG_HOME/grok/config.json, falling back to
// ~/.config/grok/config.json, or "" when neither is known.
func (l *Loader) DefaultPath() string {
	if xdg := strings.TrimSpace(l.getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, ConfigDir, ConfigFile)
	}
	home, err := l.fs.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", ConfigDir, ConfigFile)
}

// Load reads the default path. A missing file or unknown home directory
// yields the defaults.
func (l *Loader) Load() (*Config, error) {
	path := l.DefaultPath()
	if path == "" {
		return l.finish(DefaultConfig())
	}
	return l.LoadFile(path)
}

// LoadFile decodes path over DefaultConfig(), so keys present in the file,
// including explicit zeros, replace defaults and absent keys keep them.
// Unknown keys are rejected to catch typos.
func (l *Loader) LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := l.fs.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return l.finish(cfg)
	case err != nil:
		return nil, &LoadError{Path: path, Cause: err}
	}

	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, &LoadError{Path: path, Cause: err}
		}
	}
	return l.finish(cfg)
}

func (l *Loader) finish(cfg *Config) (*Config, error) {
	for env, dst := range map[string]*string{
		EnvProvider: &cfg.Provider.Name,
		EnvModel:    &cfg.Provider.Model,
		EnvBaseURL:  &cfg.Provider.BaseURL,
		EnvLogLevel: &cfg.Log.Level,
	} {
		if v := strings.TrimSpace(l.getenv(env)); v != "" {
			*dst = v
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the default config file with the process environment.
func Load() (*Config, error) {
	return NewLoader().Load()
}
