package config

// Validate checks config values for correctness.
// Returns a *ValidationError listing every invalid value.
func (c *Config) Validate() error {
	var errs []string

	// Provider validation
	switch c.Provider.Name {
	case ProviderXAI, ProviderGemini:
	default:
		errs = append(errs, "provider.name must be one of xai, gemini")
	}
	if t := c.Provider.Temperature; t != nil && (*t < 0 || *t > 2) {
		errs = append(errs, "provider.temperature must be between 0 and 2")
	}
	if c.Provider.MaxRetries < 0 {
		errs = append(errs, "provider.max_retries must be >= 0")
	}

	// Workflow validation
	if c.Workflow.MaxIterations < 1 {
		errs = append(errs, "workflow.max_iterations must be >= 1")
	}
	if c.Workflow.CompletionTool == "" {
		errs = append(errs, "workflow.completion_tool must not be empty")
	}

	// Tools validation - Command Execution
	if c.Tools.DefaultShellTimeout < 1 {
		errs = append(errs, "tools.default_shell_timeout must be >= 1")
	}
	if c.Tools.DefaultMaxCommandOutputSize < 1 {
		errs = append(errs, "tools.default_max_command_output_size must be >= 1")
	}

	// Tools validation - Search
	if c.Tools.DefaultSearchMaxResults < 1 {
		errs = append(errs, "tools.default_search_max_results must be >= 1")
	}
	if c.Tools.SearchTimeout < 1 {
		errs = append(errs, "tools.search_timeout must be >= 1")
	}

	// Tools validation - Files
	if c.Tools.MaxReadFileSize < 1 {
		errs = append(errs, "tools.max_read_file_size must be >= 1")
	}
	if c.Tools.MaxEditFileSize < 1 {
		errs = append(errs, "tools.max_edit_file_size must be >= 1")
	}

	// Tools validation - Directory Listing
	if c.Tools.DefaultListDirectoryLimit < 1 {
		errs = append(errs, "tools.default_list_directory_limit must be >= 1")
	}
	if c.Tools.MaxListDirectoryResults < 1 {
		errs = append(errs, "tools.max_list_directory_results must be >= 1")
	}

	// Semantic validation: Default <= Max constraints
	if c.Tools.DefaultListDirectoryLimit > c.Tools.MaxListDirectoryResults {
		errs = append(errs, "tools.default_list_directory_limit must be <= tools.max_list_directory_results")
	}

	// Log validation
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "log.level must be one of debug, info, warn, error")
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}

	return nil
}
