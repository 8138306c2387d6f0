// Package config loads tool configuration from a YAML file with sensible
// defaults for every field.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider names accepted in configuration.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
)

// Config is the on-disk configuration. Durations are expressed in
// milliseconds so the YAML stays plain integers.
type Config struct {
	// Provider selects the backend: "local" or "openai".
	Provider string `yaml:"provider"`

	// Model names the hosted model; ignored by the local provider.
	Model string `yaml:"model"`

	// DictionaryPath points the local provider at a newline-separated word
	// list.
	DictionaryPath string `yaml:"dictionaryPath"`

	// DebounceMs is the quiet interval after a text change before analysis
	// fires.
	DebounceMs int `yaml:"debounceMs"`

	// PostAcceptDelayMs is the short delay before the strict pass that
	// follows a full acceptance cycle.
	PostAcceptDelayMs int `yaml:"postAcceptDelayMs"`

	// RequestTimeoutMs bounds a single backend call. Zero means no deadline.
	RequestTimeoutMs int `yaml:"requestTimeoutMs"`

	// MaxSuggestions caps how many suggestions a single pass may surface.
	MaxSuggestions int `yaml:"maxSuggestions"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:          ProviderLocal,
		DictionaryPath:    "/usr/share/dict/words",
		DebounceMs:        1200,
		PostAcceptDelayMs: 150,
		RequestTimeoutMs:  30000,
		MaxSuggestions:    40,
	}
}

// Load reads configuration from path, layering it over the defaults. A
// missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderLocal, ProviderOpenAI:
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	if c.DebounceMs < 0 || c.PostAcceptDelayMs < 0 || c.RequestTimeoutMs < 0 {
		return fmt.Errorf("config: negative duration")
	}
	if c.MaxSuggestions < 0 {
		return fmt.Errorf("config: negative maxSuggestions")
	}
	return nil
}

// Debounce returns the debounce interval as a duration.
func (c Config) Debounce() time.Duration { return time.Duration(c.DebounceMs) * time.Millisecond }

// PostAcceptDelay returns the post-acceptance delay as a duration.
func (c Config) PostAcceptDelay() time.Duration {
	return time.Duration(c.PostAcceptDelayMs) * time.Millisecond
}

// RequestTimeout returns the backend call deadline as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}
