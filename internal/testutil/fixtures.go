package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bashhh89/thecustom/internal/domain"
)

var testNameCounter atomic.Int64

// SOW options
type SOWOption func(*domain.SOW)

func WithDocument(doc *domain.SOWDocument) SOWOption {
	return func(s *domain.SOW) {
		s.Data = doc
	}
}

func WithUpdatedAt(t time.Time) SOWOption {
	return func(s *domain.SOW) {
		s.UpdatedAt = t
	}
}

func NewTestSOW(name string, opts ...SOWOption) *domain.SOW {
	now := time.Now().UTC().Truncate(time.Second)
	s := &domain.SOW{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Document options
type DocumentOption func(*domain.SOWDocument)

func WithClient(name string) DocumentOption {
	return func(d *domain.SOWDocument) {
		d.ClientName = name
	}
}

// WithScope appends a scope holding the given roles. The subtotal is left
// for the reconciler.
func WithScope(id, name string, roles ...domain.Role) DocumentOption {
	return func(d *domain.SOWDocument) {
		if roles == nil {
			roles = []domain.Role{}
		}
		d.Scopes = append(d.Scopes, domain.Scope{
			ID:           id,
			ScopeName:    name,
			Deliverables: []string{},
			Assumptions:  []string{},
			Roles:        roles,
		})
	}
}

func NewTestDocument(title string, opts ...DocumentOption) *domain.SOWDocument {
	d := &domain.SOWDocument{
		ProjectTitle:    title,
		ClientName:      "Test Client",
		ProjectOverview: title + " overview",
		ProjectOutcomes: []string{},
		Scopes:          []domain.Scope{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewTestRole builds a role; pass nil rate or total to leave them missing.
func NewTestRole(name string, hours float64, rate, total *float64) domain.Role {
	return domain.Role{
		Name:        name,
		Description: name + " work",
		Hours:       domain.Float(hours),
		Rate:        rate,
		Total:       total,
	}
}

func NewTestRateCardEntry(name string, rate int) *domain.RateCardEntry {
	now := time.Now().UTC().Truncate(time.Second)
	if name == "" {
		name = fmt.Sprintf("Role %02d", testNameCounter.Add(1))
	}
	return &domain.RateCardEntry{
		ID:        uuid.New().String(),
		Name:      name,
		Rate:      rate,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestMessage(sowID string, role domain.MessageRole, content string) *domain.Message {
	return &domain.Message{
		ID:        uuid.New().String(),
		SOWID:     sowID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}
