package repository

import (
	"context"
	"time"

	"github.com/bashhh89/thecustom/internal/domain"
)

// SOWSummary is the list view of a SOW, read without decoding its document.
type SOWSummary struct {
	ID         string
	Name       string
	GrandTotal float64
	UpdatedAt  time.Time
}

type SOWRepo interface {
	Create(ctx context.Context, s *domain.SOW) error
	GetByID(ctx context.Context, id string) (*domain.SOW, error)
	List(ctx context.Context) ([]SOWSummary, error)
	Update(ctx context.Context, s *domain.SOW) error
	Delete(ctx context.Context, id string) error
}

type RateCardRepo interface {
	Create(ctx context.Context, e *domain.RateCardEntry) error
	GetByID(ctx context.Context, id string) (*domain.RateCardEntry, error)
	GetByName(ctx context.Context, name string) (*domain.RateCardEntry, error)
	List(ctx context.Context) ([]*domain.RateCardEntry, error)
	ListRates(ctx context.Context) ([]domain.RateCardEntry, error)
	Update(ctx context.Context, e *domain.RateCardEntry) error
	Delete(ctx context.Context, id string) error
}

type MessageRepo interface {
	Append(ctx context.Context, m *domain.Message) error
	ListBySOW(ctx context.Context, sowID string) ([]*domain.Message, error)
	DeleteBySOW(ctx context.Context, sowID string) (int64, error)
}
