// Package config loads aptsbot configuration from YAML with environment
// overrides for secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all aptsbot configuration.
type Config struct {
	// LLM provider configuration
	LLM LLMConfig `yaml:"llm"`

	// Entity store configuration
	Store StoreConfig `yaml:"store"`

	// Interpretation engine settings
	Engine EngineConfig `yaml:"engine"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the NLP provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini (REST) or genai (SDK)
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// StoreConfig configures the SQLite entity store.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// EngineConfig configures the interpret/dispatch loop.
type EngineConfig struct {
	HistoryLimit  int    `yaml:"history_limit"`  // bounded turns per conversation
	ReplyLanguage string `yaml:"reply_language"` // language policy for confirmations
	Timeout       string `yaml:"timeout"`        // upper bound per provider/store call
}

// LoggingConfig configures categorized file logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			BaseURL:  "https://generativelanguage.googleapis.com/v1beta",
			Timeout:  "30s",
		},
		Store: StoreConfig{
			DatabasePath: filepath.Join(".aptsbot", "aptsbot.db"),
		},
		Engine: EngineConfig{
			HistoryLimit:  3,
			ReplyLanguage: "uk",
			Timeout:       "45s",
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads configuration from the given path. A missing file yields the
// defaults; a malformed file is an error. Environment overrides are applied
// last so secrets never have to live in the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("APTSBOT_GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("APTSBOT_DB_PATH"); v != "" {
		c.Store.DatabasePath = v
	}
}

func (c *Config) validate() error {
	if c.Engine.HistoryLimit <= 0 {
		return fmt.Errorf("engine.history_limit must be positive, got %d", c.Engine.HistoryLimit)
	}
	if _, err := c.EngineTimeout(); err != nil {
		return fmt.Errorf("engine.timeout: %w", err)
	}
	if _, err := c.LLMTimeout(); err != nil {
		return fmt.Errorf("llm.timeout: %w", err)
	}
	return nil
}

// LLMTimeout parses the provider call timeout.
func (c *Config) LLMTimeout() (time.Duration, error) {
	if c.LLM.Timeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(c.LLM.Timeout)
}

// EngineTimeout parses the per-utterance timeout.
func (c *Config) EngineTimeout() (time.Duration, error) {
	if c.Engine.Timeout == "" {
		return 45 * time.Second, nil
	}
	return time.ParseDuration(c.Engine.Timeout)
}
