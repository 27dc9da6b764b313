// Package config loads the assistant's YAML configuration. Configuration
// is optional: a missing file yields working defaults, and environment
// variables fill in credentials so secrets stay out of the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultModel is used when neither the config file nor flags name one.
const DefaultModel = "gpt-4o"

// LLMConfig configures provider access.
type LLMConfig struct {
	// Model is the reply model identifier.
	Model string `yaml:"model"`

	// ClassifierModel optionally routes intent classification to a
	// smaller model. Empty means the reply model is used.
	ClassifierModel string `yaml:"classifier_model"`

	// BaseURL overrides the provider endpoint for OpenAI-compatible
	// gateways. Empty falls through to OPENAI_BASE_URL, then the default.
	BaseURL string `yaml:"base_url"`
}

// AgentConfig configures the conversation engine.
type AgentConfig struct {
	// SystemPrompt overrides the built-in system prompt when non-empty.
	SystemPrompt string `yaml:"system_prompt"`

	// Workspace is the directory file tools operate in. Empty means the
	// process working directory.
	Workspace string `yaml:"workspace"`

	// MaxOutputBytes overrides the tool output byte limit. Zero keeps the
	// built-in bound.
	MaxOutputBytes int `yaml:"max_output_bytes"`

	// CommandTimeoutCeiling overrides the cap on caller-requested command
	// timeouts, in seconds. Zero keeps the built-in bound.
	CommandTimeoutCeiling int `yaml:"command_timeout_ceiling"`
}

// Config is the full configuration document.
type Config struct {
	LLM   LLMConfig   `yaml:"llm"`
	Agent AgentConfig `yaml:"agent"`
}

// DefaultPath returns ~/.gilfoyle/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".gilfoyle", "config.yaml"), nil
}

// Load reads the config file at path. A missing file is not an error —
// defaults are returned. A file that exists but does not parse is an
// error, because silently ignoring a broken config hides typos.
func Load(path string) (*Config, error) {
	cfg := &Config{
		LLM: LLMConfig{Model: DefaultModel},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultModel
	}
	return cfg, nil
}
