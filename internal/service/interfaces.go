package service

import (
	"context"

	"github.com/bashhh89/thecustom/internal/command"
	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/pricing"
	"github.com/bashhh89/thecustom/internal/repository"
)

// RateUpdate holds the optional changes to a rate card entry.
type RateUpdate struct {
	Name *string
	Rate *int
}

// ImportResult counts the rate card entries written by an import.
type ImportResult struct {
	Created int
	Updated int
}

type RateCardService interface {
	Create(ctx context.Context, name string, rate int) (*domain.RateCardEntry, error)
	// Get resolves ref as an id first and a name second.
	Get(ctx context.Context, ref string) (*domain.RateCardEntry, error)
	List(ctx context.Context) ([]*domain.RateCardEntry, error)
	Update(ctx context.Context, ref string, upd RateUpdate) (*domain.RateCardEntry, error)
	Delete(ctx context.Context, ref string) error
	// Import writes all entries atomically. Existing names are updated when
	// replace is set and rejected with ErrDuplicateRateName otherwise.
	Import(ctx context.Context, entries []domain.RateCardEntry, replace bool) (*ImportResult, error)
	Catalog(ctx context.Context) (*pricing.Catalog, error)
}

// EditResult is a persisted SOW together with the repairs the reconciler
// applied on the way in.
type EditResult struct {
	SOW     *domain.SOW
	Report  pricing.Report
	Repairs []string
}

type SOWService interface {
	Create(ctx context.Context, name string, doc *domain.SOWDocument) (*EditResult, error)
	// Get returns the SOW with its document reconciled against the current
	// rate card. Nothing is written.
	Get(ctx context.Context, id string) (*EditResult, error)
	List(ctx context.Context) ([]repository.SOWSummary, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	// SaveDocument replaces the document, filling pricing gaps.
	SaveDocument(ctx context.Context, id string, doc *domain.SOWDocument) (*EditResult, error)
	UpdateRoleHours(ctx context.Context, id string, ref pricing.RoleRef, hours float64) (*EditResult, error)
	UpdateRoleRate(ctx context.Context, id string, ref pricing.RoleRef, rate float64) (*EditResult, error)
	AssignRole(ctx context.Context, id string, ref pricing.RoleRef, name string) (*EditResult, error)
}

// RefineResult is the outcome of a slash command applied to a stored SOW.
type RefineResult struct {
	EditResult
	Command command.Result
}

type RefineService interface {
	Refine(ctx context.Context, sowID, input string) (*RefineResult, error)
}

// GenerateResult is a freshly generated and persisted SOW.
type GenerateResult struct {
	EditResult
	AIMessage string
	Log       []string
}

// ConverseResult holds the stored user and assistant turns.
type ConverseResult struct {
	User      *domain.Message
	Assistant *domain.Message
}

type GenerationService interface {
	// Generate drafts the SOW from the stored conversation. A non-empty
	// instruction is sent and stored as a final user message.
	Generate(ctx context.Context, sowID, instruction string) (*GenerateResult, error)
	Converse(ctx context.Context, sowID, message string) (*ConverseResult, error)
	History(ctx context.Context, sowID string) ([]*domain.Message, error)
	ResetConversation(ctx context.Context, sowID string) (int64, error)
}
