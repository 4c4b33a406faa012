package entities

import "time"

// ContextWire is the JSON wire format for context.Context propagation.
type ContextWire struct {
	Deadline  *time.Time `json:"deadline,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
	Job       Job        `json:"job,omitempty"`
	TimeoutMs int64      `json:"timeout_ms,omitempty"`
	Canceled  bool       `json:"canceled,omitempty"`
}

// ExecRequest is the JSON wire format for an exec request.
type ExecRequest struct {
	Args      []string    `json:"args"`
	Env       []string    `json:"env,omitempty"`
	Command   string      `json:"command"`
	Dir       string      `json:"dir,omitempty"`
	Context   ContextWire `json:"context"`
	TimeoutMs int64       `json:"timeout_ms,omitempty"`
}

// ExecResponse is the JSON wire format for an exec response.
type ExecResponse struct {
	Error      *ErrorDetail `json:"error,omitempty"`
	Stdout     string       `json:"stdout"`
	Stderr     string       `json:"stderr"`
	ExitCode   int          `json:"exit_code"`
	DurationMs int64        `json:"duration_ms,omitempty"`
	IsTimeout  bool         `json:"is_timeout,omitempty"`
}

// EnvVar is a single environment variable assignment.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// GetEnvRequest is the JSON wire format for reading a host environment variable.
type GetEnvRequest struct {
	Name string `json:"name"`
}

// GetEnvResponse is the JSON wire format for an environment variable lookup.
type GetEnvResponse struct {
	Error *ErrorDetail `json:"error,omitempty"`
	Value string       `json:"value"`
	Found bool         `json:"found"`
}

// SetEnvsRequest is the JSON wire format for updating the host environment.
type SetEnvsRequest struct {
	Vars []EnvVar `json:"vars"`
}

// SetEnvsResponse is the JSON wire format for an environment update.
type SetEnvsResponse struct {
	Error *ErrorDetail `json:"error,omitempty"`
}

// PlatformRequest is the JSON wire format for a platform query. It carries no fields.
type PlatformRequest struct{}

// PlatformResponse is the JSON wire format for a platform query.
type PlatformResponse struct {
	Error    *ErrorDetail `json:"error,omitempty"`
	Platform Platform     `json:"platform"`
}

// ModuleCallRequest is the JSON wire format for invoking another pipeline module.
type ModuleCallRequest struct {
	Module   string      `json:"module"`
	Function string      `json:"function"`
	Args     []string    `json:"args,omitempty"`
	Context  ContextWire `json:"context"`
}

// ModuleCallResponse is the JSON wire format for a module call result.
type ModuleCallResponse struct {
	Error  *ErrorDetail `json:"error,omitempty"`
	Output string       `json:"output"`
}

// LogMessage is the JSON wire format for a log record sent from the plugin to the host.
type LogMessage struct {
	Timestamp time.Time   `json:"timestamp"`
	Attrs     []LogAttr   `json:"attrs,omitempty"`
	Level     string      `json:"level"`
	Message   string      `json:"message"`
	Context   ContextWire `json:"context"`
}

// LogAttr is a single log attribute rendered as a string.
type LogAttr struct {
	Key   string `json:"key"`
	Type  string `json:"type"` // string, int64, uint64, bool, float64, time, duration, error, json, any
	Value string `json:"value"`
}

// JobRequest is the JSON payload passed to the plugin's job exports.
type JobRequest struct {
	// Config replaces the plugin's default job configuration when set.
	Config  *JobConfig  `json:"config,omitempty"`
	Args    []string    `json:"args,omitempty"`
	Context ContextWire `json:"context"`
	DryRun  bool        `json:"dry_run,omitempty"`
}
