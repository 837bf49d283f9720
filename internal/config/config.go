package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Provider    ProviderConfig    `yaml:"provider"`
	Extraction  ExtractionConfig  `yaml:"extraction"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Limits      LimitsConfig      `yaml:"limits"`
	Export      ExportConfig      `yaml:"export"`
}

type ProviderConfig struct {
	// Vendor selects the model backend: "gemini" or "openai".
	Vendor string `yaml:"vendor"`
	Model  string `yaml:"model"`
	// APIKey is optional here; the environment takes precedence.
	// Watch mode needs a key from one of the two, one-shot mode
	// can also take it from a flag.
	APIKey string `yaml:"api_key"`
}

type ExtractionConfig struct {
	// UserName, when set, replaces the generic "the user" reference in
	// extracted context data for watch-mode runs.
	UserName string `yaml:"user_name"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type LimitsConfig struct {
	CallTimeoutSeconds int `yaml:"call_timeout_seconds"`
	MaxAttempts        int `yaml:"max_attempts"`
}

type ExportConfig struct {
	Docx bool `yaml:"docx"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	if c.Provider.Vendor == "" {
		c.Provider.Vendor = "gemini"
	}
	switch c.Provider.Vendor {
	case "gemini":
		if c.Provider.Model == "" {
			c.Provider.Model = "gemini-2.5-flash"
		}
	case "openai":
		if c.Provider.Model == "" {
			c.Provider.Model = "gpt-4o-mini"
		}
	default:
		return fmt.Errorf("provider.vendor must be \"gemini\" or \"openai\", got %q", c.Provider.Vendor)
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Limits.CallTimeoutSeconds == 0 {
		c.Limits.CallTimeoutSeconds = 120
	}
	if c.Limits.MaxAttempts == 0 {
		c.Limits.MaxAttempts = 2
	}

	return nil
}

// ResolveAPIKey returns the credential for the configured vendor.
// Environment variables win over the config file so keys can stay
// out of version-controlled YAML. GEMINI_API is the legacy name.
func (c *Config) ResolveAPIKey() string {
	switch c.Provider.Vendor {
	case "gemini":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		if key := os.Getenv("GEMINI_API"); key != "" {
			return key
		}
	case "openai":
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return key
		}
	}
	return c.Provider.APIKey
}
