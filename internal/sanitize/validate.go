package sanitize

import (
	"fmt"
	"strings"

	"github.com/bashhh89/thecustom/internal/domain"
)

// RepairSchema returns a copy of doc with structural gaps filled: nil lists
// become empty, scopes get a unique id and blank names are reported. Numeric
// repairs are left to the pricing reconciler.
func RepairSchema(doc *domain.SOWDocument) (*domain.SOWDocument, []string) {
	out := doc.Clone()
	if out == nil {
		out = &domain.SOWDocument{}
	}
	var repairs []string

	if strings.TrimSpace(out.ProjectTitle) == "" {
		repairs = append(repairs, "projectTitle: missing")
	}
	if out.ProjectOutcomes == nil {
		out.ProjectOutcomes = []string{}
	}
	if out.Scopes == nil {
		out.Scopes = []domain.Scope{}
	}

	seen := make(map[string]bool, len(out.Scopes))
	for i := range out.Scopes {
		repairs = append(repairs, repairScope(&out.Scopes[i], fmt.Sprintf("scopes[%d]", i), seen)...)
	}
	return out, repairs
}

func repairScope(s *domain.Scope, path string, seen map[string]bool) []string {
	var repairs []string

	switch {
	case s.ID == "":
		s.ID = domain.NewScopeID()
		repairs = append(repairs, fmt.Sprintf("%s.id: assigned %s", path, s.ID))
	case seen[s.ID]:
		old := s.ID
		s.ID = domain.NewScopeID()
		repairs = append(repairs, fmt.Sprintf("%s.id: duplicate %q replaced with %s", path, old, s.ID))
	}
	seen[s.ID] = true

	if strings.TrimSpace(s.ScopeName) == "" {
		repairs = append(repairs, path+".scopeName: missing")
	}
	if s.Deliverables == nil {
		s.Deliverables = []string{}
	}
	if s.Assumptions == nil {
		s.Assumptions = []string{}
	}
	if s.Roles == nil {
		s.Roles = []domain.Role{}
	}
	for j, r := range s.Roles {
		if strings.TrimSpace(r.Name) == "" {
			repairs = append(repairs, fmt.Sprintf("%s.roles[%d].name: missing", path, j))
		}
	}
	return repairs
}
