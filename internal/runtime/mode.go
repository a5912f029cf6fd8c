package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/douglas-run/douglas/pkg/domain"
)

var errNoCompleter = errors.New("no llm client configured (is OPENAI_API_KEY set?)")

// executionMode is the tagged union of ways a Galaxy can execute.
// Mode selection happens exactly once per invocation; each variant
// produces a raw result from the resolved bindings.
type executionMode interface {
	execute(ctx context.Context, e *Engine, g *domain.Galaxy, bindings map[string]string) (*domain.ExecutionResult, error)
}

// selectMode resolves which backend drives this invocation. The LLM
// pipeline wins when declared and enabled; otherwise the shell action;
// a Galaxy with neither is a configuration error.
func selectMode(g *domain.Galaxy) (executionMode, error) {
	if g.UsesLLM() {
		return llmMode{}, nil
	}
	if g.Action != "" {
		return shellMode{}, nil
	}
	return nil, &domain.ConfigError{Galaxy: g.Name, Reason: "no executable action: neither an enabled llm block nor an action is declared"}
}

type shellMode struct{}

func (shellMode) execute(ctx context.Context, e *Engine, g *domain.Galaxy, bindings map[string]string) (*domain.ExecutionResult, error) {
	command := Resolve(g.Action, bindings)

	capture, err := e.shell.Exec(ctx, command)
	if err != nil {
		return nil, &domain.ConfigError{Galaxy: g.Name, Reason: "shell unavailable: " + err.Error()}
	}

	return &domain.ExecutionResult{
		Galaxy:   g.Name,
		Mode:     domain.ModeShell,
		Payload:  domain.Payload{Raw: strings.TrimSpace(capture.Stdout)},
		Stdout:   capture.Stdout,
		Stderr:   capture.Stderr,
		ExitCode: capture.ExitCode,
		TimedOut: capture.TimedOut,
	}, nil
}

type llmMode struct{}

func (llmMode) execute(ctx context.Context, e *Engine, g *domain.Galaxy, bindings map[string]string) (*domain.ExecutionResult, error) {
	if e.completer == nil {
		return nil, &domain.LLMError{Provider: g.LLM.Provider, Err: errNoCompleter}
	}

	prompt := Resolve(g.LLM.Prompt, bindings)
	model := g.LLM.Model
	if model == "" {
		model = e.defaultModel
	}

	reply, err := e.completer.Complete(ctx, model, prompt)
	if err != nil {
		return nil, &domain.LLMError{Provider: g.LLM.Provider, Err: err}
	}

	return &domain.ExecutionResult{
		Galaxy:  g.Name,
		Mode:    domain.ModeLLM,
		Payload: normalize(reply),
	}, nil
}

// normalize shapes a backend reply into the canonical payload: a
// structured value when the text parses as a JSON object or array, the
// raw text otherwise. Both outcomes are valid, never a failure.
func normalize(reply string) domain.Payload {
	payload := domain.Payload{Raw: reply}

	trimmed := strings.TrimSpace(reply)
	looksJSON := (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"))
	if !looksJSON {
		return payload
	}

	var value any
	if err := json.Unmarshal([]byte(trimmed), &value); err == nil {
		payload.Value = value
	}
	return payload
}
