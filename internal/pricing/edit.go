package pricing

import (
	"errors"
	"fmt"

	"github.com/bashhh89/thecustom/internal/domain"
)

var (
	ErrScopeNotFound = errors.New("scope not found")
	ErrRoleNotFound  = errors.New("role not found")
)

// RoleRef addresses a role by scope reference and position. Scope is matched
// against scope ids first and exact scope names second.
type RoleRef struct {
	Scope string
	Index int
}

// FindScope returns the index of the scope whose id equals ref, falling back
// to an exact scope name match. byName reports whether the fallback was used.
func FindScope(doc *domain.SOWDocument, ref string) (idx int, byName bool, ok bool) {
	if doc == nil || ref == "" {
		return -1, false, false
	}
	for i, s := range doc.Scopes {
		if s.ID == ref {
			return i, false, true
		}
	}
	for i, s := range doc.Scopes {
		if s.ScopeName == ref {
			return i, true, true
		}
	}
	return -1, false, false
}

// SetRoleHours sets a role's hours and recalculates the document.
func SetRoleHours(doc *domain.SOWDocument, ref RoleRef, hours float64, catalog *Catalog) (*domain.SOWDocument, Report, error) {
	return editRole(doc, ref, catalog, func(r *domain.Role) {
		r.Hours = domain.Float(hours)
	})
}

// SetRoleRate sets a role's hourly rate and recalculates the document. A zero
// rate is treated as missing and repaired from the catalog.
func SetRoleRate(doc *domain.SOWDocument, ref RoleRef, rate float64, catalog *Catalog) (*domain.SOWDocument, Report, error) {
	return editRole(doc, ref, catalog, func(r *domain.Role) {
		r.Rate = domain.Float(rate)
	})
}

// AssignRole renames a role to a rate card entry, takes that entry's rate and
// recalculates the document. Names that are not on the card get DefaultRate.
func AssignRole(doc *domain.SOWDocument, ref RoleRef, name string, catalog *Catalog) (*domain.SOWDocument, Report, error) {
	return editRole(doc, ref, catalog, func(r *domain.Role) {
		r.Name = name
		r.Rate = nil
		if rate, ok := catalog.Lookup(name); ok {
			r.Rate = domain.Float(rate)
		}
	})
}

func editRole(doc *domain.SOWDocument, ref RoleRef, catalog *Catalog, apply func(*domain.Role)) (*domain.SOWDocument, Report, error) {
	idx, _, ok := FindScope(doc, ref.Scope)
	if !ok {
		return nil, Report{}, fmt.Errorf("%w: %q", ErrScopeNotFound, ref.Scope)
	}
	if ref.Index < 0 || ref.Index >= len(doc.Scopes[idx].Roles) {
		return nil, Report{}, fmt.Errorf("%w: index %d in scope %q", ErrRoleNotFound, ref.Index, doc.Scopes[idx].ScopeName)
	}
	edited := doc.Clone()
	apply(&edited.Scopes[idx].Roles[ref.Index])
	out, report := RecalculateDocument(edited, catalog)
	return out, report, nil
}
