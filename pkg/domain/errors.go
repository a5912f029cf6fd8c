package domain

import (
	"errors"
	"fmt"
)

// ErrGalaxyNotFound is returned when a Galaxy name cannot be resolved to
// a definition file in the apps directory.
var ErrGalaxyNotFound = errors.New("galaxy not found")

// ParseError reports a malformed or incomplete definition document.
// During discovery it is collected per file and never aborts the batch.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigError reports a descriptor that resolves to no executable mode.
type ConfigError struct {
	Galaxy string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("galaxy %s: %s", e.Galaxy, e.Reason)
}

// LLMError reports a provider, network or auth failure from the LLM
// capability. It is terminal for the invocation; retry policy, if any,
// belongs to the client behind the Completer port.
type LLMError struct {
	Provider string
	Err      error
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("llm %s: %v", e.Provider, e.Err)
}

func (e *LLMError) Unwrap() error { return e.Err }

// StoreError reports a persistence failure. The engine degrades it to a
// warning on an otherwise successful result; it surfaces as an error only
// from explicit store operations (db commands, boot).
type StoreError struct {
	Galaxy string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Galaxy, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
