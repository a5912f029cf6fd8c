package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/douglas-run/douglas/pkg/adapters/shell"
	"github.com/douglas-run/douglas/pkg/adapters/sqlite"
	"github.com/douglas-run/douglas/pkg/domain"
	"github.com/douglas-run/douglas/pkg/ports"
)

// fakeCompleter records every prompt it is asked to complete.
type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
	models  []string
}

func (f *fakeCompleter) Complete(ctx context.Context, model, prompt string) (string, error) {
	f.models = append(f.models, model)
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// brokenStores always fails to open, to exercise the degrade-to-warning
// path of persistence.
type brokenStores struct{}

func (brokenStores) Open(ctx context.Context, galaxy string) (ports.GalaxyStore, error) {
	return nil, &domain.StoreError{Galaxy: galaxy, Err: errors.New("disk on fire")}
}
func (brokenStores) Reset(galaxy string) error { return nil }
func (brokenStores) Path(galaxy string) string { return "" }

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	base := []EngineOption{
		WithShellRunner(shell.NewRunner()),
	}
	return NewEngine(append(base, opts...)...)
}

func TestRun_ShellAction(t *testing.T) {
	engine := newTestEngine(t)
	g := &domain.Galaxy{Name: "system-info", Title: "System Info", Action: "echo hi"}

	result, err := engine.Run(context.Background(), g, "")
	require.NoError(t, err)

	out := Format(result)
	assert.Equal(t, "hi", out.Text)
	assert.Nil(t, out.PersistedID)
	assert.Empty(t, out.Warning)
}

func TestRun_ShellNonZeroExit(t *testing.T) {
	engine := newTestEngine(t)
	g := &domain.Galaxy{Name: "flaky", Title: "Flaky", Action: "echo boom; exit 2"}

	result, err := engine.Run(context.Background(), g, "")
	require.NoError(t, err, "a non-zero exit must not escape Run as an error")

	assert.True(t, result.Errored())
	assert.Equal(t, 2, result.ExitCode)

	out := Format(result)
	assert.Contains(t, out.Text, "boom")
	assert.Contains(t, out.Text, "[error: exit status 2]")
}

func TestRun_ShellSubstitutesInput(t *testing.T) {
	engine := newTestEngine(t)
	g := &domain.Galaxy{Name: "greeter", Title: "Greeter", Action: "echo hello {{user_input}}"}

	result, err := engine.Run(context.Background(), g, "arthur")
	require.NoError(t, err)
	assert.Equal(t, "hello arthur", Format(result).Text)
}

func TestRun_ActionOnlyNeverInvokesLLM(t *testing.T) {
	completer := &fakeCompleter{reply: "never seen"}
	engine := newTestEngine(t, WithCompleter(completer))
	g := &domain.Galaxy{Name: "system-info", Title: "System Info", Action: "echo hi"}

	_, err := engine.Run(context.Background(), g, "anything")
	require.NoError(t, err)
	assert.Empty(t, completer.prompts, "shell-only galaxies must not touch the LLM")
}

func TestRun_LLMPromptResolution(t *testing.T) {
	completer := &fakeCompleter{reply: "fine"}
	engine := newTestEngine(t, WithCompleter(completer), WithDefaultModel("gpt-4o"))
	g := &domain.Galaxy{
		Name:  "x",
		Title: "X",
		LLM:   &domain.LLMConfig{UseLLM: true, Prompt: "Echo: {{user_input}}"},
	}

	_, err := engine.Run(context.Background(), g, "toast")
	require.NoError(t, err)

	require.Len(t, completer.prompts, 1)
	assert.Equal(t, "Echo: toast", completer.prompts[0])
	assert.Equal(t, "gpt-4o", completer.models[0], "default model applies when the galaxy declares none")
}

func TestRun_LLMTakesPrecedenceOverAction(t *testing.T) {
	completer := &fakeCompleter{reply: "from llm"}
	engine := newTestEngine(t, WithCompleter(completer))
	g := &domain.Galaxy{
		Name:   "both",
		Title:  "Both",
		Action: "echo from shell",
		LLM:    &domain.LLMConfig{UseLLM: true, Prompt: "p"},
	}

	result, err := engine.Run(context.Background(), g, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeLLM, result.Mode)
	assert.Equal(t, "from llm", result.Payload.Raw)
}

func TestRun_LLMDisabledFallsBackToAction(t *testing.T) {
	completer := &fakeCompleter{reply: "nope"}
	engine := newTestEngine(t, WithCompleter(completer))
	g := &domain.Galaxy{
		Name:   "both",
		Title:  "Both",
		Action: "echo shell wins",
		LLM:    &domain.LLMConfig{UseLLM: false, Prompt: "p"},
	}

	result, err := engine.Run(context.Background(), g, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeShell, result.Mode)
	assert.Empty(t, completer.prompts)
}

func TestRun_NoExecutableMode(t *testing.T) {
	engine := newTestEngine(t)
	g := &domain.Galaxy{Name: "empty", Title: "Empty"}

	_, err := engine.Run(context.Background(), g, "")
	var configErr *domain.ConfigError
	require.ErrorAs(t, err, &configErr)
}

func TestRun_LLMFailureIsTerminal(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("401 unauthorized")}
	engine := newTestEngine(t, WithCompleter(completer))
	g := &domain.Galaxy{
		Name:  "x",
		Title: "X",
		LLM:   &domain.LLMConfig{UseLLM: true, Prompt: "p"},
	}

	_, err := engine.Run(context.Background(), g, "")
	var llmErr *domain.LLMError
	require.ErrorAs(t, err, &llmErr)
}

func TestRun_NoCompleterConfigured(t *testing.T) {
	engine := newTestEngine(t)
	g := &domain.Galaxy{
		Name:  "x",
		Title: "X",
		LLM:   &domain.LLMConfig{UseLLM: true, Prompt: "p"},
	}

	_, err := engine.Run(context.Background(), g, "")
	var llmErr *domain.LLMError
	require.ErrorAs(t, err, &llmErr)
}

func TestRun_PersistsLLMResult(t *testing.T) {
	stores := sqlite.NewManager(t.TempDir())
	completer := &fakeCompleter{reply: `{"calories": 100}`}
	engine := newTestEngine(t, WithCompleter(completer), WithStoreManager(stores))

	g := &domain.Galaxy{
		Name:  "food-logger",
		Title: "Food Logger",
		LLM:   &domain.LLMConfig{UseLLM: true, Prompt: "Echo: {{user_input}}"},
		Database: &domain.DatabaseConfig{
			Models: []domain.ModelSpec{{Name: "Meals", Type: domain.ModelTypeJSON}},
		},
	}

	ctx := context.Background()

	first, err := engine.Run(ctx, g, "toast")
	require.NoError(t, err)
	require.NotNil(t, first.PersistedID)
	assert.Equal(t, int64(1), *first.PersistedID)

	second, err := engine.Run(ctx, g, "tea")
	require.NoError(t, err)
	require.NotNil(t, second.PersistedID)
	assert.Equal(t, int64(2), *second.PersistedID)

	// Re-read and compare semantically, ignoring formatting.
	store, err := stores.Open(ctx, g.Name)
	require.NoError(t, err)
	defer store.Close()

	records, err := store.List(ctx, g.Database.Models[0])
	require.NoError(t, err)
	require.Len(t, records, 2)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(records[0].Content), &decoded))
	assert.Equal(t, map[string]any{"calories": float64(100)}, decoded)
}

func TestRun_RawTextStillPersisted(t *testing.T) {
	stores := sqlite.NewManager(t.TempDir())
	completer := &fakeCompleter{reply: "just some prose"}
	engine := newTestEngine(t, WithCompleter(completer), WithStoreManager(stores))

	g := &domain.Galaxy{
		Name:  "journal",
		Title: "Journal",
		LLM:   &domain.LLMConfig{UseLLM: true, Prompt: "{{user_input}}"},
		Database: &domain.DatabaseConfig{
			Models: []domain.ModelSpec{{Name: "entries", Type: domain.ModelTypeJSON}},
		},
	}

	ctx := context.Background()
	result, err := engine.Run(ctx, g, "dear diary")
	require.NoError(t, err)
	require.NotNil(t, result.PersistedID)
	assert.False(t, result.Payload.Structured())

	store, err := stores.Open(ctx, g.Name)
	require.NoError(t, err)
	defer store.Close()

	records, err := store.List(ctx, g.Database.Models[0])
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "just some prose", records[0].Content)
}

func TestRun_StoreFailureDegradesToWarning(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	engine := newTestEngine(t, WithCompleter(completer), WithStoreManager(brokenStores{}))

	g := &domain.Galaxy{
		Name:  "x",
		Title: "X",
		LLM:   &domain.LLMConfig{UseLLM: true, Prompt: "p"},
		Database: &domain.DatabaseConfig{
			Models: []domain.ModelSpec{{Name: "rows", Type: domain.ModelTypeJSON}},
		},
	}

	result, err := engine.Run(context.Background(), g, "")
	require.NoError(t, err, "persistence failure must not fail the run")
	assert.Nil(t, result.PersistedID)
	assert.Contains(t, result.PersistWarning, "not persisted")
}
