package llm

import "fmt"

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskGenerate asks for a complete SOW as JSON.
	TaskGenerate TaskType = "generate"
	// TaskConverse asks for a plain-text conversational reply.
	TaskConverse TaskType = "converse"
)

// Provider selects the client implementation.
type Provider string

const (
	// ProviderOpenAI speaks the OpenAI chat completions protocol, which
	// OpenRouter and Ollama's /v1 endpoint both serve.
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Provider   Provider
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig targets a local Ollama server through its OpenAI-compatible
// endpoint.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    true,
		LogCalls:   true,
		Provider:   ProviderOpenAI,
		Endpoint:   "http://localhost:11434/v1",
		Model:      "llama3.2",
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskGenerate: {Temperature: 0.3, MaxTokens: 8192, TimeoutMs: 120000},
			TaskConverse: {Temperature: 0.7, MaxTokens: 1024, TimeoutMs: 30000},
		},
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// Validate reports configuration that cannot produce a working client.
func (c LLMConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Provider {
	case ProviderOpenAI:
		if c.Endpoint == "" {
			return fmt.Errorf("llm endpoint is required for provider %q", c.Provider)
		}
	case ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("llm api key is required for provider %q", c.Provider)
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("llm model is required")
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("llm timeout must be positive, got %d", c.TimeoutMs)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("llm max retries must not be negative, got %d", c.MaxRetries)
	}
	return nil
}
