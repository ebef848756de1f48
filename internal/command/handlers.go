package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/bashhh89/thecustom/internal/domain"
)

// EstimateRate prices a role added by /addRole until the reconciler resolves
// its real rate.
const EstimateRate = 120.0

var (
	addRolePattern   = regexp.MustCompile(`^to (\S+) (.+) (\d+)$`)
	setBudgetPattern = regexp.MustCompile(`^(\d+)$`)
)

func newScope(args string, doc *domain.SOWDocument) (Result, error) {
	name := strings.TrimSpace(args)
	if name == "" {
		return Result{}, fmt.Errorf("%w: scope name is required", ErrEmptyArgument)
	}
	scope := domain.Scope{
		ID:            domain.NewScopeID(),
		ScopeName:     name,
		ScopeOverview: fmt.Sprintf("This scope covers %s requirements and deliverables.", strings.ToLower(name)),
		Deliverables:  []string{name + " deliverable 1", name + " deliverable 2"},
		Assumptions: []string{
			"Client will provide necessary access for " + name,
			"All required resources are available",
		},
		Roles:    []domain.Role{},
		Subtotal: 0,
	}
	doc.Scopes = append(doc.Scopes, scope)
	return Result{
		Message: fmt.Sprintf("Added scope %q", name),
		ScopeID: scope.ID,
	}, nil
}

func addRole(args string, doc *domain.SOWDocument) (Result, error) {
	m := addRolePattern.FindStringSubmatch(args)
	if m == nil {
		return Result{}, fmt.Errorf("%w: use /addRole to <scope> <role> <hours>", ErrInvalidFormat)
	}
	hours, err := strconv.Atoi(m[3])
	if err != nil || hours <= 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidHours, m[3])
	}

	body := strings.TrimPrefix(args, "to ")
	body = body[:len(body)-len(m[3])-1]
	idx, roleName, byName, ok := resolveScope(doc, body)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrScopeNotFound, m[1])
	}

	scope := &doc.Scopes[idx]
	scope.Roles = append(scope.Roles, domain.Role{
		Name:        roleName,
		Description: fmt.Sprintf("%s responsibilities for %s", roleName, scope.ScopeName),
		Hours:       domain.Float(float64(hours)),
		Total:       domain.Float(float64(hours) * EstimateRate),
	})
	var subtotal float64
	for _, r := range scope.Roles {
		subtotal += domain.Float64FromPtrWithDefault(0, r.Total)
	}
	scope.Subtotal = subtotal

	return Result{
		Message:      fmt.Sprintf("Added %s (%d h) to %q", roleName, hours, scope.ScopeName),
		ScopeID:      scope.ID,
		NameFallback: byName,
	}, nil
}

// resolveScope splits "<scope> <role>" by matching the longest scope id that
// prefixes body, then the longest scope name. The remainder is the role name.
func resolveScope(doc *domain.SOWDocument, body string) (idx int, roleName string, byName bool, ok bool) {
	if i, role, found := longestPrefix(doc, body, func(s domain.Scope) string { return s.ID }); found {
		return i, role, false, true
	}
	if i, role, found := longestPrefix(doc, body, func(s domain.Scope) string { return s.ScopeName }); found {
		return i, role, true, true
	}
	return -1, "", false, false
}

func longestPrefix(doc *domain.SOWDocument, body string, key func(domain.Scope) string) (int, string, bool) {
	best, bestLen, role := -1, 0, ""
	for i, s := range doc.Scopes {
		k := key(s)
		if k == "" || len(k) <= bestLen || !strings.HasPrefix(body, k+" ") {
			continue
		}
		rest := strings.TrimSpace(body[len(k)+1:])
		if rest == "" {
			continue
		}
		best, bestLen, role = i, len(k), rest
	}
	return best, role, best >= 0
}

func setBudget(args string, doc *domain.SOWDocument) (Result, error) {
	m := setBudgetPattern.FindStringSubmatch(args)
	if m == nil {
		return Result{}, fmt.Errorf("%w: use /setBudget <amount>", ErrInvalidFormat)
	}
	budget, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || budget <= 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidBudget, m[1])
	}
	note := fmt.Sprintf("Target budget: $%s. This scope has been carefully crafted to deliver maximum value within the specified budget constraints while ensuring all critical objectives are met.", humanize.Comma(budget))
	doc.BudgetNote = &note
	return Result{Message: "Budget set to $" + humanize.Comma(budget)}, nil
}
