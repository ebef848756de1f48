package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// geminiBackend calls the Gemini API through the genai SDK.
type geminiBackend struct {
	client *genai.Client
}

func newGeminiBackend(ctx context.Context, cfg LLMConfig) (*geminiBackend, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &geminiBackend{client: client}, nil
}

func (b *geminiBackend) complete(ctx context.Context, req GenerateRequest, params callParams) (string, string, error) {
	var contents []*genai.Content
	for _, m := range req.turns() {
		role := genai.Role(genai.RoleUser)
		if m.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(params.Temperature)),
	}
	if params.MaxTokens > 0 {
		config.MaxOutputTokens = int32(params.MaxTokens)
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	resp, err := b.client.Models.GenerateContent(ctx, params.Model, contents, config)
	if err != nil {
		return "", "", fmt.Errorf("genai generate: %w", err)
	}
	model := resp.ModelVersion
	if model == "" {
		model = params.Model
	}
	return resp.Text(), model, nil
}

func (b *geminiBackend) ping(ctx context.Context) bool {
	_, err := b.client.Models.List(ctx, &genai.ListModelsConfig{PageSize: 1})
	return err == nil
}
