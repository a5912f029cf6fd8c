package ports

import "github.com/douglas-run/douglas/pkg/domain"

// Problem records a definition file that failed to load during
// discovery. One bad file never aborts discovery of the others.
type Problem struct {
	Path string
	Err  error
}

// DefinitionLoader resolves Galaxy names to parsed descriptors.
type DefinitionLoader interface {
	// Load parses the definition for the named Galaxy.
	// Returns domain.ErrGalaxyNotFound when no definition file exists.
	Load(name string) (*domain.Galaxy, error)

	// Discover enumerates every definition in the apps directory,
	// returning the descriptors that loaded plus per-file failures.
	Discover() ([]*domain.Galaxy, []Problem)
}
