package intelligence

import (
	"context"
	"fmt"

	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/llm"
	"github.com/bashhh89/thecustom/internal/pricing"
	"github.com/bashhh89/thecustom/internal/sanitize"
)

// DraftInput is everything the model sees when drafting a SOW.
type DraftInput struct {
	Catalog *pricing.Catalog
	Current *domain.SOWDocument
	History []*domain.Message
}

// SOWDrafter talks to the LLM on behalf of a SOW.
type SOWDrafter interface {
	// Draft asks for a complete SOW and returns it sanitized and reconciled
	// against in.Catalog.
	Draft(ctx context.Context, in DraftInput) (*sanitize.Generation, error)

	// Reply continues the requirements conversation in plain text.
	Reply(ctx context.Context, history []*domain.Message, message string) (string, error)
}

type sowDrafter struct {
	client llm.LLMClient
}

// NewSOWDrafter creates a SOWDrafter backed by an LLM client.
func NewSOWDrafter(client llm.LLMClient) SOWDrafter {
	return &sowDrafter{client: client}
}

func (d *sowDrafter) Draft(ctx context.Context, in DraftInput) (*sanitize.Generation, error) {
	req := llm.GenerateRequest{
		Task:         llm.TaskGenerate,
		SystemPrompt: GenerationSystemPrompt(in.Catalog, in.Current),
		Messages:     toLLMMessages(in.History),
	}
	if len(req.Messages) == 0 {
		req.UserPrompt = "Draft a SOW for the project described so far."
	}

	resp, err := d.client.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("llm sow generation failed: %w", err)
	}

	gen, err := sanitize.Sanitize(resp.Text, in.Catalog)
	if err != nil {
		return nil, fmt.Errorf("sanitizing sow generation: %w", err)
	}
	return gen, nil
}

func (d *sowDrafter) Reply(ctx context.Context, history []*domain.Message, message string) (string, error) {
	resp, err := d.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskConverse,
		SystemPrompt: conversationSystemPrompt,
		Messages:     toLLMMessages(history),
		UserPrompt:   message,
	})
	if err != nil {
		return "", fmt.Errorf("llm conversation failed: %w", err)
	}
	return resp.Text, nil
}

func toLLMMessages(history []*domain.Message) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		out = append(out, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}
