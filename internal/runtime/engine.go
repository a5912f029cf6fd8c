// Package runtime is the core of the Galaxy execution engine: mode
// selection, template resolution, backend dispatch, payload
// normalization and transactional persistence.
package runtime

import (
	"context"
	"io"
	"log/slog"

	"github.com/douglas-run/douglas/internal/metrics"
	"github.com/douglas-run/douglas/pkg/domain"
	"github.com/douglas-run/douglas/pkg/ports"
)

// BindingUserInput is the only recognized placeholder binding today.
const BindingUserInput = "user_input"

// Engine orchestrates one Galaxy invocation at a time. Execution is
// synchronous and request-response: the backend call and persistence
// both complete before control returns.
type Engine struct {
	shell        ports.ShellRunner
	completer    ports.Completer
	stores       ports.StoreManager
	logger       *slog.Logger
	defaultModel string
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithShellRunner injects the shell capability.
func WithShellRunner(r ports.ShellRunner) EngineOption {
	return func(e *Engine) { e.shell = r }
}

// WithCompleter injects the LLM capability. Nil means LLM-backed
// Galaxies fail with an LLMError at invocation time.
func WithCompleter(c ports.Completer) EngineOption {
	return func(e *Engine) { e.completer = c }
}

// WithStoreManager injects the persistence layer. Nil disables
// persistence; Galaxies with models then run without writes.
func WithStoreManager(m ports.StoreManager) EngineOption {
	return func(e *Engine) { e.stores = m }
}

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithDefaultModel sets the model used when a Galaxy declares none.
func WithDefaultModel(model string) EngineOption {
	return func(e *Engine) { e.defaultModel = model }
}

// NewEngine creates an engine. Callers normally wire all three
// capabilities; tests substitute fakes through the same options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one Galaxy invocation to completion.
//
// Failures in the primary action (no executable mode, LLM failure,
// shell unavailable) are terminal and returned as errors. A shell
// command that ran and exited non-zero is a completed execution, not an
// error. A persistence failure degrades to a warning on the result.
func (e *Engine) Run(ctx context.Context, g *domain.Galaxy, input string) (*domain.ExecutionResult, error) {
	mode, err := selectMode(g)
	if err != nil {
		metrics.Runs.WithLabelValues("none", "config_error").Inc()
		return nil, err
	}

	bindings := map[string]string{BindingUserInput: input}

	result, err := mode.execute(ctx, e, g, bindings)
	if err != nil {
		metrics.Runs.WithLabelValues(modeLabel(g), "error").Inc()
		return nil, err
	}

	e.logger.Debug("execution complete",
		"galaxy", g.Name, "mode", result.Mode, "exit_code", result.ExitCode)

	e.persist(ctx, g, result)
	metrics.Runs.WithLabelValues(string(result.Mode), "ok").Inc()
	return result, nil
}

// persist hands the canonical payload to the primary model's store.
// The primary action already completed, so any failure here is reported
// as a warning instead of failing the invocation.
func (e *Engine) persist(ctx context.Context, g *domain.Galaxy, result *domain.ExecutionResult) {
	model, ok := g.PrimaryModel()
	if !ok || e.stores == nil {
		return
	}
	if len(g.Database.Models) > 1 {
		e.logger.Warn("multiple models declared; only the first receives automatic writes",
			"galaxy", g.Name, "model", model.Name)
	}

	content, err := result.Payload.Serialized()
	if err != nil {
		e.warnPersist(result, g, err)
		return
	}

	store, err := e.stores.Open(ctx, g.Name)
	if err != nil {
		e.warnPersist(result, g, err)
		return
	}
	defer store.Close()

	if err := store.EnsureTable(ctx, model); err != nil {
		e.warnPersist(result, g, err)
		return
	}

	id, err := store.Insert(ctx, model, content)
	if err != nil {
		e.warnPersist(result, g, err)
		return
	}
	result.PersistedID = &id
}

func (e *Engine) warnPersist(result *domain.ExecutionResult, g *domain.Galaxy, err error) {
	metrics.PersistFailures.Inc()
	e.logger.Warn("persistence failed", "galaxy", g.Name, "err", err)
	result.PersistWarning = "result was not persisted: " + err.Error()
}

func modeLabel(g *domain.Galaxy) string {
	if g.UsesLLM() {
		return string(domain.ModeLLM)
	}
	return string(domain.ModeShell)
}
