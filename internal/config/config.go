// Package config loads sowbench settings from defaults, an optional YAML
// file and SOWBENCH_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bashhh89/thecustom/internal/llm"
)

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite database file. ":memory:" keeps everything in RAM.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LLMEnabled turns the generation and conversation commands on.
	LLMEnabled    bool   `koanf:"llm_enabled"`
	LLMLogCalls   bool   `koanf:"llm_log_calls"`
	LLMProvider   string `koanf:"llm_provider"`
	LLMEndpoint   string `koanf:"llm_endpoint"`
	LLMModel      string `koanf:"llm_model"`
	LLMAPIKey     string `koanf:"llm_api_key"`
	LLMTimeoutMs  int    `koanf:"llm_timeout_ms"`
	LLMMaxRetries int    `koanf:"llm_max_retries"`

	// LLMGenerateTimeoutMs overrides LLMTimeoutMs for full SOW generation.
	LLMGenerateTimeoutMs int `koanf:"llm_generate_timeout_ms"`

	// MetricsTextfile, when set, receives a Prometheus text dump on exit.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

// New returns a Config holding the defaults.
func New() *Config {
	d := llm.DefaultConfig()
	return &Config{
		DBPath:               defaultDBPath(),
		LogLevel:             "warn",
		LLMEnabled:           d.Enabled,
		LLMLogCalls:          d.LogCalls,
		LLMProvider:          string(d.Provider),
		LLMEndpoint:          d.Endpoint,
		LLMModel:             d.Model,
		LLMTimeoutMs:         d.TimeoutMs,
		LLMMaxRetries:        d.MaxRetries,
		LLMGenerateTimeoutMs: d.Tasks[llm.TaskGenerate].TimeoutMs,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sowbench.db"
	}
	return filepath.Join(home, ".sowbench", "sowbench.db")
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if err := c.LLM().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LLM maps the flat settings onto the LLM client configuration.
func (c *Config) LLM() llm.LLMConfig {
	cfg := llm.DefaultConfig()
	cfg.Enabled = c.LLMEnabled
	cfg.LogCalls = c.LLMLogCalls
	cfg.Provider = llm.Provider(strings.ToLower(c.LLMProvider))
	cfg.Endpoint = c.LLMEndpoint
	cfg.Model = c.LLMModel
	cfg.APIKey = c.LLMAPIKey
	cfg.TimeoutMs = c.LLMTimeoutMs
	cfg.MaxRetries = c.LLMMaxRetries

	gen := cfg.Tasks[llm.TaskGenerate]
	gen.TimeoutMs = c.LLMGenerateTimeoutMs
	cfg.Tasks[llm.TaskGenerate] = gen
	return cfg
}
