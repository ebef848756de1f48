package intelligence

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/llm"
	"github.com/bashhh89/thecustom/internal/pricing"
	"github.com/bashhh89/thecustom/internal/sanitize"
)

// mockLLMClient returns a fixed response and records the last request.
type mockLLMClient struct {
	response string
	err      error
	last     llm.GenerateRequest
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "llama3.2"}, nil
}

func (m *mockLLMClient) Available(_ context.Context) bool { return m.err == nil }

func testCatalog() *pricing.Catalog {
	return pricing.NewCatalog([]domain.RateCardEntry{
		{Name: "Project Manager", Rate: 100},
		{Name: "Tech - Specialist", Rate: 150},
	})
}

func TestSOWDrafter_Draft(t *testing.T) {
	client := &mockLLMClient{response: "```json\n" + `{
		"sowData": {
			"projectTitle": "Portal",
			"scopes": [{"scopeName": "Build", "roles": [{"name": "Tech - Specialist", "hours": 10, "rate": "Tech - Specialist"}]}]
		},
		"aiMessage": "Here is a first draft.",
		"architectsLog": ["Picked one scope"]
	}` + "\n```"}
	drafter := NewSOWDrafter(client)

	gen, err := drafter.Draft(context.Background(), DraftInput{
		Catalog: testCatalog(),
		History: []*domain.Message{
			{Role: domain.MessageUser, Content: "We need a customer portal"},
			{Role: domain.MessageAssistant, Content: "What is the deadline?"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Here is a first draft.", gen.AIMessage)
	assert.Equal(t, []string{"Picked one scope"}, gen.Log)
	assert.Equal(t, 1500.0, gen.SOWData.Scopes[0].Subtotal)

	assert.Equal(t, llm.TaskGenerate, client.last.Task)
	assert.Contains(t, client.last.SystemPrompt, "Project Manager: $100\nTech - Specialist: $150")
	assert.Equal(t, []llm.Message{
		{Role: "user", Content: "We need a customer portal"},
		{Role: "assistant", Content: "What is the deadline?"},
	}, client.last.Messages)
	assert.Empty(t, client.last.UserPrompt)
}

func TestSOWDrafter_DraftWithoutHistoryAddsPrompt(t *testing.T) {
	client := &mockLLMClient{response: `{"projectTitle": "X"}`}
	_, err := NewSOWDrafter(client).Draft(context.Background(), DraftInput{Catalog: testCatalog()})
	require.NoError(t, err)
	assert.NotEmpty(t, client.last.UserPrompt)
}

func TestSOWDrafter_DraftIncludesCurrentDocument(t *testing.T) {
	client := &mockLLMClient{response: `{"projectTitle": "X"}`}
	current := &domain.SOWDocument{ProjectTitle: "Old", Scopes: []domain.Scope{{ID: "scope-keep", ScopeName: "Build"}}}

	_, err := NewSOWDrafter(client).Draft(context.Background(), DraftInput{Catalog: testCatalog(), Current: current})
	require.NoError(t, err)
	assert.Contains(t, client.last.SystemPrompt, "CURRENT DRAFT")
	assert.Contains(t, client.last.SystemPrompt, "scope-keep")
}

func TestSOWDrafter_DraftErrors(t *testing.T) {
	_, err := NewSOWDrafter(&mockLLMClient{err: llm.ErrTimeout}).Draft(context.Background(), DraftInput{})
	assert.ErrorIs(t, err, llm.ErrTimeout)

	_, err = NewSOWDrafter(&mockLLMClient{response: "I cannot help with that."}).Draft(context.Background(), DraftInput{})
	assert.ErrorIs(t, err, sanitize.ErrMalformedResponse)
}

func TestSOWDrafter_Reply(t *testing.T) {
	client := &mockLLMClient{response: "Who is the audience?"}
	reply, err := NewSOWDrafter(client).Reply(context.Background(), nil, "We need a website")
	require.NoError(t, err)

	assert.Equal(t, "Who is the audience?", reply)
	assert.Equal(t, llm.TaskConverse, client.last.Task)
	assert.Equal(t, "We need a website", client.last.UserPrompt)
	assert.True(t, strings.Contains(client.last.SystemPrompt, "Do NOT produce JSON"))
}

func TestRateCardText_Empty(t *testing.T) {
	assert.Contains(t, RateCardText(nil), "empty")
}
