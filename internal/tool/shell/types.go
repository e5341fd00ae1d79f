package shell

// DefaultTimeoutSeconds applies when run_command omits timeout_seconds.
const DefaultTimeoutSeconds = 300

// RunCommandRequest is the run_command argument document.
type RunCommandRequest struct {
	Command          string `json:"command"`
	WorkingDirectory string `json:"working_directory"`
	TimeoutSeconds   int    `json:"timeout_seconds"`
}

// CodeExecutionRequest is the code_execution argument document.
type CodeExecutionRequest struct {
	Code string `json:"code"`
}
