package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Provider ProviderConfig `json:"provider"`
	Workflow WorkflowConfig `json:"workflow"`
	Tools    ToolsConfig    `json:"tools"`
	Log      LogConfig      `json:"log"`
}

type ProviderConfig struct {
	Name        string   `json:"name"`        // Default: "xai" (xai | gemini)
	Model       string   `json:"model"`       // Default: "" (provider default)
	BaseURL     string   `json:"base_url"`    // Default: "" (provider default)
	Temperature *float64 `json:"temperature"` // Default: nil (API default)
	MaxRetries  int      `json:"max_retries"` // Default: 2
}

type WorkflowConfig struct {
	MaxIterations  int    `json:"max_iterations"`  // Default: 50
	CompletionTool string `json:"completion_tool"` // Default: "workflow_done"
}

type ToolsConfig struct {
	// Command Execution
	DefaultShellTimeout         int `json:"default_shell_timeout"`           // Default: 300 (seconds)
	DefaultMaxCommandOutputSize int `json:"default_max_command_output_size"` // Default: 1 MiB

	// Search
	DefaultSearchMaxResults int `json:"default_search_max_results"` // Default: 100
	SearchTimeout           int `json:"search_timeout"`             // Default: 30 (seconds)

	// File Operations
	MaxReadFileSize int64 `json:"max_read_file_size"` // Default: 200000
	MaxEditFileSize int64 `json:"max_edit_file_size"` // Default: 10 MiB

	// Directory Listing
	DefaultListDirectoryLimit int `json:"default_list_directory_limit"` // Default: 200
	MaxListDirectoryResults   int `json:"max_list_directory_results"`   // Default: 2000
}

type LogConfig struct {
	Level string `json:"level"` // Default: "info"
	Dir   string `json:"dir"`   // Default: "" (logging disabled unless --debug)
}

// Provider names.
const (
	ProviderXAI    = "xai"
	ProviderGemini = "gemini"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:       ProviderXAI,
			MaxRetries: 2,
		},
		Workflow: WorkflowConfig{
			MaxIterations:  50,
			CompletionTool: "workflow_done",
		},
		Tools: ToolsConfig{
			DefaultShellTimeout:         300,
			DefaultMaxCommandOutputSize: 1 << 20,
			DefaultSearchMaxResults:     100,
			SearchTimeout:               30,
			MaxReadFileSize:             200_000,
			MaxEditFileSize:             10 * 1024 * 1024,
			DefaultListDirectoryLimit:   200,
			MaxListDirectoryResults:     2000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
