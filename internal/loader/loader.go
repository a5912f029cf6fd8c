// Package loader parses Galaxy definition files and discovers them in
// the apps directory.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/douglas-run/douglas/pkg/domain"
	"github.com/douglas-run/douglas/pkg/ports"
)

// Loader resolves Galaxy names against a single apps directory.
// Loading is a pure parse: one file read, no other side effects.
type Loader struct {
	dir string
}

// New creates a loader for the given apps directory.
func New(dir string) *Loader {
	return &Loader{dir: dir}
}

var _ ports.DefinitionLoader = (*Loader)(nil)

// Dir returns the apps directory the loader reads from.
func (l *Loader) Dir() string { return l.dir }

// Load parses the definition for the named Galaxy. The filename stem is
// the canonical Galaxy name; the document's own `name` is display
// metadata but remains a required field.
func (l *Loader) Load(name string) (*domain.Galaxy, error) {
	path := filepath.Join(l.dir, name+".yaml")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrGalaxyNotFound, name)
		}
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	return l.LoadPath(path)
}

// LoadPath parses one definition file.
func (l *Loader) LoadPath(path string) (*domain.Galaxy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	if raw == nil {
		return nil, &domain.ParseError{Path: path, Err: errors.New("empty document")}
	}

	galaxy, err := decode(raw)
	if err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	galaxy.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if err := validate(galaxy); err != nil {
		return nil, &domain.ParseError{Path: path, Err: err}
	}
	return galaxy, nil
}

// Discover enumerates every *.yaml definition in the apps directory and
// loads each independently. A malformed file is collected as a Problem
// and never aborts discovery of the others.
func (l *Loader) Discover() ([]*domain.Galaxy, []ports.Problem) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, []ports.Problem{{Path: l.dir, Err: err}}
	}

	var galaxies []*domain.Galaxy
	var problems []ports.Problem
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(l.dir, e.Name())
		g, err := l.LoadPath(path)
		if err != nil {
			problems = append(problems, ports.Problem{Path: path, Err: err})
			continue
		}
		galaxies = append(galaxies, g)
	}

	sort.Slice(galaxies, func(i, j int) bool {
		return galaxies[i].Name < galaxies[j].Name
	})
	return galaxies, problems
}

// decode maps the generic YAML document onto the descriptor. Unknown
// keys are recorded for diagnostics instead of failing, so definitions
// written for newer versions keep loading.
func decode(raw map[string]any) (*domain.Galaxy, error) {
	var galaxy domain.Galaxy
	var meta mapstructure.Metadata

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &galaxy,
		Metadata:         &meta,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}

	for _, key := range meta.Unused {
		// Only top-level strays; nested ones repeat the parent prefix.
		if !strings.Contains(key, ".") {
			galaxy.Unknown = append(galaxy.Unknown, key)
		}
	}
	sort.Strings(galaxy.Unknown)
	return &galaxy, nil
}

func validate(g *domain.Galaxy) error {
	if strings.TrimSpace(g.Title) == "" {
		return errors.New("missing required field: name")
	}
	if g.LLM != nil && g.LLM.UseLLM && strings.TrimSpace(g.LLM.Prompt) == "" {
		return errors.New("llm.useLLM is true but no prompt is defined")
	}
	return nil
}
