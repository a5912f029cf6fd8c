package douglas

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/douglas-run/douglas/internal/loader"
	"github.com/douglas-run/douglas/internal/runtime"
	"github.com/douglas-run/douglas/pkg/adapters/shell"
	"github.com/douglas-run/douglas/pkg/adapters/sqlite"
	"github.com/douglas-run/douglas/pkg/domain"
	"github.com/douglas-run/douglas/pkg/ports"
)

// Engine is the high-level entry point for the Douglas library.
// It wraps the internal runtime and provides a simplified API for
// consumers: the CLI/REPL, the HTTP adapter and tests.
type Engine struct {
	loader      ports.DefinitionLoader
	stores      ports.StoreManager
	runtimeOpts []runtime.EngineOption
	runtime     *runtime.Engine
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLoader injects a custom DefinitionLoader, bypassing the default
// filesystem loader.
func WithLoader(l ports.DefinitionLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithCompleter injects the LLM capability. Without one, LLM-backed
// Galaxies fail at invocation time.
func WithCompleter(c ports.Completer) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithCompleter(c))
	}
}

// WithShellRunner overrides the default /bin/sh runner.
func WithShellRunner(r ports.ShellRunner) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithShellRunner(r))
	}
}

// WithStoreManager overrides the default SQLite store manager.
func WithStoreManager(m ports.StoreManager) Option {
	return func(e *Engine) {
		e.stores = m
	}
}

// WithDataDir relocates the default store manager's data root
// (default ~/.douglas). Ignored when WithStoreManager is used.
func WithDataDir(dir string) Option {
	return func(e *Engine) {
		if e.stores == nil && dir != "" {
			e.stores = sqlite.NewManager(dir)
		}
	}
}

// WithDefaultModel sets the LLM model used when a Galaxy declares none.
func WithDefaultModel(model string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithDefaultModel(model))
	}
}

// New creates an Engine reading definitions from appsDir.
func New(appsDir string, opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.loader == nil {
		e.loader = loader.New(appsDir)
	}
	if e.stores == nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		e.stores = sqlite.NewManager(filepath.Join(home, ".douglas"))
	}

	rtOpts := append([]runtime.EngineOption{
		runtime.WithShellRunner(shell.NewRunner()),
		runtime.WithLogger(e.logger),
		runtime.WithStoreManager(e.stores),
	}, e.runtimeOpts...)
	e.runtime = runtime.NewEngine(rtOpts...)

	return e, nil
}

// Load resolves a Galaxy name to its parsed descriptor.
func (e *Engine) Load(name string) (*domain.Galaxy, error) {
	return e.loader.Load(name)
}

// List enumerates all Galaxy definitions plus any per-file failures.
func (e *Engine) List() ([]*domain.Galaxy, []ports.Problem) {
	return e.loader.Discover()
}

// Run loads the named Galaxy, executes it with the given input and
// returns the formatted output.
func (e *Engine) Run(ctx context.Context, name, input string) (domain.DisplayOutput, error) {
	g, err := e.loader.Load(name)
	if err != nil {
		return domain.DisplayOutput{}, err
	}
	return e.RunGalaxy(ctx, g, input)
}

// RunGalaxy executes an already-loaded descriptor. The REPL uses this
// for interactive sessions so the definition is parsed once.
func (e *Engine) RunGalaxy(ctx context.Context, g *domain.Galaxy, input string) (domain.DisplayOutput, error) {
	result, err := e.runtime.Run(ctx, g, input)
	if err != nil {
		return domain.DisplayOutput{}, err
	}
	return runtime.Format(result), nil
}

// Boot initializes the store of every discovered Galaxy that declares
// models. Idempotent; returns how many stores are ready. Discovery
// problems are skipped here and reported by List.
func (e *Engine) Boot(ctx context.Context) (int, error) {
	galaxies, _ := e.loader.Discover()

	ready := 0
	for _, g := range galaxies {
		if !g.HasModels() {
			continue
		}
		if err := e.initStore(ctx, g); err != nil {
			e.logger.Warn("store init failed", "galaxy", g.Name, "err", err)
			continue
		}
		ready++
	}
	return ready, nil
}

func (e *Engine) initStore(ctx context.Context, g *domain.Galaxy) error {
	store, err := e.stores.Open(ctx, g.Name)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, model := range g.Database.Models {
		if err := store.EnsureTable(ctx, model); err != nil {
			return err
		}
	}
	return nil
}

// Records returns all rows persisted for the Galaxy's primary model.
func (e *Engine) Records(ctx context.Context, name string) ([]domain.Record, error) {
	g, err := e.loader.Load(name)
	if err != nil {
		return nil, err
	}
	model, ok := g.PrimaryModel()
	if !ok {
		return nil, &domain.ConfigError{Galaxy: name, Reason: "no database models declared"}
	}

	store, err := e.stores.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.EnsureTable(ctx, model); err != nil {
		return nil, err
	}
	return store.List(ctx, model)
}

// DeleteRecords removes rows from the Galaxy's primary model.
func (e *Engine) DeleteRecords(ctx context.Context, name string, ids []int64) (int64, error) {
	g, err := e.loader.Load(name)
	if err != nil {
		return 0, err
	}
	model, ok := g.PrimaryModel()
	if !ok {
		return 0, &domain.ConfigError{Galaxy: name, Reason: "no database models declared"}
	}

	store, err := e.stores.Open(ctx, name)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	return store.Delete(ctx, model, ids)
}

// ResetStore deletes the Galaxy's entire store file.
func (e *Engine) ResetStore(name string) error {
	return e.stores.Reset(name)
}

// StorePath returns where the Galaxy's store lives (existing or not).
func (e *Engine) StorePath(name string) string {
	return e.stores.Path(name)
}
