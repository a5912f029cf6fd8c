// Package cli implements the interactive REPL and the shared command
// output used by the cobra subcommands.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	douglas "github.com/douglas-run/douglas"
	"github.com/douglas-run/douglas/internal/config"
	"github.com/douglas-run/douglas/internal/presentation/tui"
	"github.com/douglas-run/douglas/pkg/domain"
)

// REPL is the interactive command shell around the engine.
type REPL struct {
	engine   *douglas.Engine
	settings *config.Settings
	logger   *slog.Logger
	version  string

	in     io.Reader
	out    io.Writer
	render func(string) (string, error)
	isTTY  bool
}

// REPLOption configures the shell.
type REPLOption func(*REPL)

// WithIO redirects input/output (tests).
func WithIO(in io.Reader, out io.Writer) REPLOption {
	return func(r *REPL) {
		r.in = in
		r.out = out
		r.isTTY = false
	}
}

// WithVersion sets the version string shown in the banner.
func WithVersion(v string) REPLOption {
	return func(r *REPL) {
		r.version = v
	}
}

// NewREPL creates the interactive shell.
func NewREPL(engine *douglas.Engine, settings *config.Settings, logger *slog.Logger, opts ...REPLOption) *REPL {
	r := &REPL{
		engine:   engine,
		settings: settings,
		logger:   logger,
		in:       os.Stdin,
		out:      os.Stdout,
		isTTY:    term.IsTerminal(int(os.Stdout.Fd())),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.isTTY {
		r.render = tui.NewRenderer()
	}
	return r
}

// Run starts the boot sequence and the prompt loop, returning when the
// user exits or input is exhausted.
func (r *REPL) Run(ctx context.Context) error {
	if r.isTTY {
		tui.PrintBanner(r.version)
	}

	ready, err := r.engine.Boot(ctx)
	if err != nil {
		return err
	}
	if ready > 0 {
		fmt.Fprintf(r.out, "boot: %d database(s) ready\n", ready)
	}

	fmt.Fprintln(r.out, "type 'help' for commands or 'exit' to quit")

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "douglas> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") {
			fmt.Fprintln(r.out, "thanks for using douglas, don't forget your towel")
			return nil
		}
		r.handleCommand(ctx, scanner, line)
	}
}

func (r *REPL) handleCommand(ctx context.Context, scanner *bufio.Scanner, line string) {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "run":
		if len(args) < 1 {
			fmt.Fprintln(r.out, "usage: run <galaxy-name> [arguments...]")
			return
		}
		r.runGalaxy(ctx, scanner, args[0], strings.Join(args[1:], " "))

	case "list", "ls":
		PrintList(r.out, r.engine)

	case "env":
		PrintEnv(r.out, r.settings)

	case "db":
		r.handleDB(ctx, args)

	case "help":
		fmt.Fprintln(r.out, "commands:")
		fmt.Fprintln(r.out, "  run <galaxy> [input]  - launch a galaxy")
		fmt.Fprintln(r.out, "  list / ls             - list available galaxies")
		fmt.Fprintln(r.out, "  db [show|reset] ...   - inspect galaxy databases")
		fmt.Fprintln(r.out, "  env                   - show credential status")
		fmt.Fprintln(r.out, "  exit                  - quit")

	default:
		fmt.Fprintf(r.out, "unknown command: %s (try 'help')\n", cmd)
	}
}

func (r *REPL) handleDB(ctx context.Context, args []string) {
	if len(args) == 0 || args[0] == "list" {
		PrintStores(r.out, r.settings.DataDir)
		return
	}
	switch args[0] {
	case "show":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "usage: db show <galaxy-name>")
			return
		}
		if err := PrintRecords(ctx, r.out, r.engine, args[1]); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	case "reset":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "usage: db reset <galaxy-name>")
			return
		}
		if err := r.engine.ResetStore(args[1]); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			return
		}
		fmt.Fprintf(r.out, "store for %s removed\n", args[1])
	default:
		fmt.Fprintf(r.out, "unknown db command: %s\n", args[0])
	}
}

func (r *REPL) runGalaxy(ctx context.Context, scanner *bufio.Scanner, name, input string) {
	g, err := r.engine.Load(name)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	if g.Description != "" {
		fmt.Fprintln(r.out, g.Description)
	}

	if g.Interactive {
		r.interactiveSession(ctx, scanner, g, input)
		return
	}

	r.execute(ctx, g, input)
}

// interactiveSession runs a nested prompt loop for an interactive
// Galaxy: each line is one execution against the same descriptor.
// Non-LLM interactive Galaxies just echo, mirroring a chat shell.
func (r *REPL) interactiveSession(ctx context.Context, scanner *bufio.Scanner, g *domain.Galaxy, initial string) {
	fmt.Fprintf(r.out, "entering %s interactive mode, type 'exit' to return\n", g.Name)

	handle := func(input string) {
		if g.UsesLLM() || g.Action != "" {
			r.execute(ctx, g, input)
			return
		}
		fmt.Fprintf(r.out, "%s: %s\n", g.Name, input)
	}

	if initial != "" {
		handle(initial)
	}

	for {
		fmt.Fprintf(r.out, "%s> ", g.Name)
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			fmt.Fprintf(r.out, "exiting %s\n", g.Name)
			return
		}
		handle(input)
	}
}

func (r *REPL) execute(ctx context.Context, g *domain.Galaxy, input string) {
	out, err := r.engine.RunGalaxy(ctx, g, input)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}

	text := out.Text
	// Markdown rendering only for LLM prose on a real terminal; shell
	// output and structured JSON stay byte-exact.
	if r.render != nil && g.UsesLLM() && !strings.HasPrefix(strings.TrimSpace(text), "{") {
		if rendered, err := r.render(text); err == nil {
			text = strings.TrimRight(rendered, "\n")
		}
	}
	fmt.Fprintln(r.out, text)

	if out.PersistedID != nil {
		fmt.Fprintf(r.out, "saved as entry %d\n", *out.PersistedID)
	}
	if out.Warning != "" {
		fmt.Fprintf(r.out, "warning: %s\n", out.Warning)
	}
}
