// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings holds every environment-derived knob of the runner.
type Settings struct {
	AppsDir string `envconfig:"DOUGLAS_APPS_DIR"`
	DataDir string `envconfig:"DOUGLAS_DATA_DIR"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	Model        string `envconfig:"MODEL" default:"gpt-4o"`

	LLMTimeout   time.Duration `envconfig:"DOUGLAS_LLM_TIMEOUT" default:"60s"`
	ShellTimeout time.Duration `envconfig:"DOUGLAS_SHELL_TIMEOUT" default:"30s"`

	LogLevel string `envconfig:"DOUGLAS_LOG_LEVEL" default:"info"`
}

// Load reads .env (if present) into the process environment, then
// resolves Settings. Directory defaults: ./apps for definitions,
// ~/.douglas for data.
func Load() (*Settings, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, err
	}

	if s.AppsDir == "" {
		s.AppsDir = "apps"
	}
	if s.DataDir == "" {
		s.DataDir = defaultDataDir()
	}
	return &s, nil
}

// CredentialSet reports whether an LLM credential is available.
func (s *Settings) CredentialSet() bool {
	return s.OpenAIAPIKey != ""
}

// KeyPreview returns a redacted view of the credential for the env
// command: first 10 and last 4 characters.
func (s *Settings) KeyPreview() string {
	k := s.OpenAIAPIKey
	if len(k) < 15 {
		return "(too short to preview)"
	}
	return k[:10] + "..." + k[len(k)-4:]
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".douglas"
	}
	return filepath.Join(home, ".douglas")
}
