package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema represents a JSON Schema for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Map converts the schema to the generic map form the model APIs expect.
func (s *Schema) Map() map[string]any {
	if s == nil {
		return map[string]any{"type": string(TypeObject), "properties": map[string]any{}}
	}
	m := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for k, v := range s.Properties {
			props[k] = v.Map()
		}
		m["properties"] = props
	} else if s.Type == TypeObject {
		m["properties"] = map[string]any{}
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	if s.Items != nil {
		m["items"] = s.Items.Map()
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}
	return m
}

// Declaration declares a tool's function signature for the LLM.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Tool is a named capability the model can invoke.
// Execute returns a non-nil error only for cancellation; every other failure
// is reported through a failed Result.
type Tool interface {
	Name() string
	Declaration() Declaration
	Execute(ctx context.Context, args json.RawMessage) (Result, error)
}

// Result is the outcome of a tool invocation.
type Result struct {
	Success  bool
	Output   string
	Error    string
	ExitCode *int
}

// Success builds a successful result.
func Success(output string) Result {
	return Result{Success: true, Output: output}
}

// Failure builds a failed result.
func Failure(msg string) Result {
	return Result{Success: false, Error: msg}
}

// Failuref builds a failed result from a format string.
func Failuref(format string, args ...any) Result {
	return Failure(fmt.Sprintf(format, args...))
}

// WithExitCode returns a copy of r carrying an exit code.
func (r Result) WithExitCode(code int) Result {
	r.ExitCode = &code
	return r
}

// WithOutput returns a copy of r with stdout set.
func (r Result) WithOutput(out string) Result {
	r.Output = out
	return r
}

type payload struct {
	Success  bool   `json:"success"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode *int   `json:"exitCode"`
}

// Payload renders the result as the JSON document sent back to the model.
func (r Result) Payload() string {
	b, err := json.Marshal(payload{
		Success:  r.Success,
		Stdout:   r.Output,
		Stderr:   r.Error,
		ExitCode: r.ExitCode,
	})
	if err != nil {
		return fmt.Sprintf(`{"success":false,"stdout":"","stderr":%q,"exitCode":null}`, err.Error())
	}
	return string(b)
}

// DecodeArgs decodes model-supplied JSON arguments into out. Numbers sent as
// strings and similar loose typing are accepted. Empty input decodes as {}.
func DecodeArgs(raw json.RawMessage, out any) error {
	var m map[string]any
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &m); err != nil {
			return &InvalidArgumentsError{Cause: err}
		}
	}
	if m == nil {
		m = map[string]any{}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return &InvalidArgumentsError{Cause: err}
	}
	return nil
}

// InvalidArgumentsError reports arguments that could not be decoded.
type InvalidArgumentsError struct {
	Cause error
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments: %v", e.Cause)
}
func (e *InvalidArgumentsError) Unwrap() error      { return e.Cause }
func (e *InvalidArgumentsError) InvalidInput() bool { return true }
