package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Message is one turn of a chat-style prompt. Role is "user" or "assistant".
type Message struct {
	Role    string
	Content string
}

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	// Messages is the conversation so far, oldest first.
	Messages []Message
	// UserPrompt, when set, is sent as a final user turn.
	UserPrompt  string
	Temperature *float64 // nil uses task default
	MaxTokens   *int     // nil uses task default
}

func (r GenerateRequest) turns() []Message {
	out := make([]Message, 0, len(r.Messages)+1)
	for _, m := range r.Messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, m)
	}
	if r.UserPrompt != "" {
		out = append(out, Message{Role: "user", Content: r.UserPrompt})
	}
	return out
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the model endpoint is reachable.
	Available(ctx context.Context) bool
}

// backend performs a single provider call without retries.
type backend interface {
	complete(ctx context.Context, req GenerateRequest, params callParams) (text, model string, err error)
	ping(ctx context.Context) bool
}

type callParams struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// statusError is a non-2xx provider reply. Client errors other than rate
// limiting are not retried.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Code, e.Body)
}

func (e *statusError) retryable() bool {
	return e.Code == 429 || e.Code >= 500
}

// NewClient builds the client selected by cfg.Provider. A disabled config
// yields a client whose calls fail with ErrDisabled.
func NewClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	if observer == nil {
		observer = NoopObserver{}
	}
	if !cfg.Enabled {
		return disabledClient{}, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var b backend
	switch cfg.Provider {
	case ProviderGemini:
		gb, err := newGeminiBackend(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		b = gb
	default:
		b = newChatBackend(cfg)
	}
	return &retryingClient{cfg: cfg, backend: b, observer: observer}, nil
}

// retryingClient applies task parameters, timeouts and retries around a
// backend and reports every call to the observer.
type retryingClient struct {
	cfg      LLMConfig
	backend  backend
	observer Observer
}

func (c *retryingClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	taskCfg := c.cfg.Tasks[req.Task]
	params := callParams{Model: c.cfg.Model, Temperature: taskCfg.Temperature, MaxTokens: taskCfg.MaxTokens}
	if req.Temperature != nil {
		params.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		params.MaxTokens = *req.MaxTokens
	}

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 0
	for attempts < 1+c.cfg.MaxRetries {
		attempts++
		text, model, err := c.backend.complete(ctx, req, params)
		if err == nil && strings.TrimSpace(text) == "" {
			err = fmt.Errorf("%w: empty completion", ErrInvalidOutput)
		}
		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.report(req.Task, latency, attempts, nil)
			return &GenerateResponse{
				Text:      text,
				Model:     model,
				LatencyMs: latency,
			}, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout
		if ctx.Err() != nil {
			break
		}
		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			break
		}
	}

	err := classify(ctx, lastErr)
	c.report(req.Task, time.Since(start).Milliseconds(), attempts, err)
	return nil, err
}

func (c *retryingClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.backend.ping(ctx)
}

func (c *retryingClient) report(task TaskType, latencyMs int64, attempts int, err error) {
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      task,
		Provider:  c.cfg.Provider,
		Model:     c.cfg.Model,
		LatencyMs: latencyMs,
		Attempts:  attempts,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
}

func classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", ErrRetryExhausted, err)
	}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return err != nil && errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}

// disabledClient is used when no model is configured.
type disabledClient struct{}

func (disabledClient) Generate(context.Context, GenerateRequest) (*GenerateResponse, error) {
	return nil, ErrDisabled
}

func (disabledClient) Available(context.Context) bool { return false }
