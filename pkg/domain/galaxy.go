package domain

// Galaxy is the parsed, validated form of a single definition file.
// It is immutable after load; the engine never caches it across runs.
type Galaxy struct {
	// Name is the canonical identity, derived from the filename stem.
	// It selects the Galaxy on `run <name>` and names its store.
	Name string `mapstructure:"-" json:"name"`

	// Title is the display name declared inside the document.
	Title       string `mapstructure:"name" json:"title"`
	Description string `mapstructure:"description" json:"description,omitempty"`
	Interactive bool   `mapstructure:"interactive" json:"interactive,omitempty"`

	// Action is an optional shell command template ({{user_input}} tokens).
	Action string `mapstructure:"action" json:"action,omitempty"`

	LLM      *LLMConfig      `mapstructure:"llm" json:"llm,omitempty"`
	Database *DatabaseConfig `mapstructure:"database" json:"database,omitempty"`

	// Unknown lists top-level document keys the loader did not recognize.
	// Kept for diagnostics only; unknown keys are not an error.
	Unknown []string `mapstructure:"-" json:"-"`
}

// LLMConfig declares the prompt pipeline of an LLM-backed Galaxy.
type LLMConfig struct {
	UseLLM   bool   `mapstructure:"useLLM" json:"useLLM"`
	Provider string `mapstructure:"provider" json:"provider,omitempty"`
	Model    string `mapstructure:"model" json:"model,omitempty"`
	Prompt   string `mapstructure:"prompt" json:"prompt,omitempty"`
}

// DatabaseConfig declares the persisted data models of a Galaxy.
type DatabaseConfig struct {
	Models []ModelSpec `mapstructure:"models" json:"models"`
}

// UsesLLM reports whether the LLM pipeline drives execution.
// When both llm and action are declared, llm wins if useLLM is true.
func (g *Galaxy) UsesLLM() bool {
	return g.LLM != nil && g.LLM.UseLLM
}

// HasModels reports whether the Galaxy declares at least one data model.
func (g *Galaxy) HasModels() bool {
	return g.Database != nil && len(g.Database.Models) > 0
}

// PrimaryModel returns the model that receives automatic writes.
// Only the first declared model is written to; declaring more is legal
// but the extras are schema-only until a response names its target.
func (g *Galaxy) PrimaryModel() (ModelSpec, bool) {
	if !g.HasModels() {
		return ModelSpec{}, false
	}
	return g.Database.Models[0], true
}
