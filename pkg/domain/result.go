package domain

import (
	"encoding/json"
	"fmt"
)

// Mode identifies which backend produced an execution result.
type Mode string

const (
	ModeShell Mode = "shell"
	ModeLLM   Mode = "llm"
)

// Payload is the canonical, normalized outcome of an execution prior to
// formatting and persistence: a structured JSON value when the backend
// reply parsed as JSON, otherwise the raw text.
type Payload struct {
	// Value holds the decoded JSON value (object or array) when the
	// reply was structured. Nil for raw-text payloads.
	Value any
	// Raw is the original reply text, always populated.
	Raw string
}

// Structured reports whether the payload carries a decoded JSON value.
func (p Payload) Structured() bool { return p.Value != nil }

// Serialized returns the form stored in the content column: compact JSON
// for structured payloads, the raw text otherwise.
func (p Payload) Serialized() (string, error) {
	if !p.Structured() {
		return p.Raw, nil
	}
	b, err := json.Marshal(p.Value)
	if err != nil {
		return "", fmt.Errorf("serializing payload: %w", err)
	}
	return string(b), nil
}

// ExecutionResult is the terminal state of one engine invocation.
// A completed shell command with a non-zero exit is still a result, not
// an error: ExitCode and Stderr carry what happened.
type ExecutionResult struct {
	Galaxy  string
	Mode    Mode
	Payload Payload

	// Shell-mode capture.
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool

	// Persistence outcome. PersistedID is set when the primary model
	// received the payload; PersistWarning carries a non-fatal failure.
	PersistedID    *int64
	PersistWarning string
}

// Errored reports whether the shell action exited non-zero or timed out.
func (r *ExecutionResult) Errored() bool {
	return r.Mode == ModeShell && (r.ExitCode != 0 || r.TimedOut)
}

// DisplayOutput is the caller-facing shape of a run: a display string
// plus the persisted record id when a model was written.
type DisplayOutput struct {
	Text        string `json:"text"`
	PersistedID *int64 `json:"persisted_id,omitempty"`
	Warning     string `json:"warning,omitempty"`
}
