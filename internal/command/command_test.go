package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/pricing"
)

func TestInterpret_NewScope(t *testing.T) {
	doc := &domain.SOWDocument{ProjectTitle: "Site"}

	out, res, err := Interpret("/newScope Website Redesign", doc)
	require.NoError(t, err)

	require.Len(t, out.Scopes, 1)
	scope := out.Scopes[0]
	assert.Equal(t, "Website Redesign", scope.ScopeName)
	assert.Equal(t, []domain.Role{}, scope.Roles)
	assert.Equal(t, 0.0, scope.Subtotal)
	assert.True(t, strings.HasPrefix(scope.ID, "scope-"))
	assert.Equal(t, "This scope covers website redesign requirements and deliverables.", scope.ScopeOverview)
	assert.Equal(t, []string{"Website Redesign deliverable 1", "Website Redesign deliverable 2"}, scope.Deliverables)
	assert.Equal(t, []string{
		"Client will provide necessary access for Website Redesign",
		"All required resources are available",
	}, scope.Assumptions)

	assert.Equal(t, "/newScope", res.Command)
	assert.Equal(t, scope.ID, res.ScopeID)
	assert.Empty(t, doc.Scopes, "input untouched")
}

func TestInterpret_NewScopeUniqueIDs(t *testing.T) {
	doc, _, err := Interpret("/newScope A", nil)
	require.NoError(t, err)
	doc, _, err = Interpret("/newScope A", doc)
	require.NoError(t, err)

	assert.NotEqual(t, doc.Scopes[0].ID, doc.Scopes[1].ID)
}

func TestInterpret_NewScopeEmpty(t *testing.T) {
	for _, in := range []string{"/newScope", "/newScope   "} {
		_, _, err := Interpret(in, &domain.SOWDocument{})
		assert.ErrorIs(t, err, ErrEmptyArgument, in)
	}
}

func TestInterpret_AddRoleThenReconcile(t *testing.T) {
	doc, _, err := Interpret("/newScope Website Redesign", &domain.SOWDocument{})
	require.NoError(t, err)

	doc, res, err := Interpret("/addRole to Website Redesign Designer 40", doc)
	require.NoError(t, err)
	assert.True(t, res.NameFallback)

	role := doc.Scopes[0].Roles[0]
	assert.Equal(t, "Designer", role.Name)
	assert.Equal(t, "Designer responsibilities for Website Redesign", role.Description)
	assert.Nil(t, role.Rate)
	assert.Equal(t, 4800.0, *role.Total)
	assert.Equal(t, 4800.0, doc.Scopes[0].Subtotal)

	catalog := pricing.NewCatalog([]domain.RateCardEntry{{Name: "Designer", Rate: 80}})
	reconciled, _ := pricing.ReconcileDocument(doc, catalog)

	role = reconciled.Scopes[0].Roles[0]
	assert.Equal(t, 40.0, *role.Hours)
	assert.Equal(t, 80.0, *role.Rate)
	assert.Equal(t, 3200.0, *role.Total)
	assert.Equal(t, 3200.0, reconciled.Scopes[0].Subtotal)
}

func TestInterpret_AddRoleByID(t *testing.T) {
	doc := &domain.SOWDocument{Scopes: []domain.Scope{
		{ID: "scope-1", ScopeName: "Build", Roles: []domain.Role{{Name: "Designer", Total: domain.Float(500)}}},
		{ID: "scope-2", ScopeName: "Build"},
	}}

	out, res, err := Interpret("/addRole to scope-2 Tech - Specialist 10", doc)
	require.NoError(t, err)

	assert.False(t, res.NameFallback)
	assert.Equal(t, "scope-2", res.ScopeID)
	assert.Empty(t, out.Scopes[0].Roles[1:])
	require.Len(t, out.Scopes[1].Roles, 1)
	assert.Equal(t, "Tech - Specialist", out.Scopes[1].Roles[0].Name)
	assert.Equal(t, 1200.0, out.Scopes[1].Subtotal)
}

func TestInterpret_AddRoleKeepsExistingTotals(t *testing.T) {
	doc := &domain.SOWDocument{Scopes: []domain.Scope{
		{ID: "scope-1", ScopeName: "Build", Roles: []domain.Role{{Name: "Designer", Total: domain.Float(500)}}},
	}}

	out, _, err := Interpret("/addRole to scope-1 Tester 2", doc)
	require.NoError(t, err)
	assert.Equal(t, 740.0, out.Scopes[0].Subtotal)
}

func TestInterpret_AddRoleLongestNameWins(t *testing.T) {
	doc := &domain.SOWDocument{Scopes: []domain.Scope{
		{ID: "scope-1", ScopeName: "Web"},
		{ID: "scope-2", ScopeName: "Web App"},
	}}

	out, _, err := Interpret("/addRole to Web App Designer 5", doc)
	require.NoError(t, err)

	assert.Empty(t, out.Scopes[0].Roles)
	require.Len(t, out.Scopes[1].Roles, 1)
	assert.Equal(t, "Designer", out.Scopes[1].Roles[0].Name)
}

func TestInterpret_AddRoleErrors(t *testing.T) {
	doc := &domain.SOWDocument{Scopes: []domain.Scope{{ID: "scope-1", ScopeName: "Build"}}}

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"no arguments", "/addRole", ErrInvalidFormat},
		{"missing to", "/addRole scope-1 Designer 10", ErrInvalidFormat},
		{"missing hours", "/addRole to scope-1 Designer", ErrInvalidFormat},
		{"fractional hours", "/addRole to scope-1 Designer 1.5", ErrInvalidFormat},
		{"zero hours", "/addRole to scope-1 Designer 0", ErrInvalidHours},
		{"unknown scope", "/addRole to scope-9 Designer 10", ErrScopeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Interpret(tt.input, doc)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInterpret_SetBudget(t *testing.T) {
	out, res, err := Interpret("/setBudget 25000", &domain.SOWDocument{})
	require.NoError(t, err)

	require.NotNil(t, out.BudgetNote)
	assert.Contains(t, *out.BudgetNote, "25,000")
	assert.True(t, strings.HasPrefix(*out.BudgetNote, "Target budget: $25,000."))
	assert.Equal(t, "Budget set to $25,000", res.Message)
}

func TestInterpret_SetBudgetErrors(t *testing.T) {
	_, _, err := Interpret("/setBudget lots", &domain.SOWDocument{})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, _, err = Interpret("/setBudget 0", &domain.SOWDocument{})
	assert.ErrorIs(t, err, ErrInvalidBudget)
}

func TestInterpret_UnknownCommand(t *testing.T) {
	for _, in := range []string{"/frobnicate", "/newScopeX A", "hello"} {
		_, _, err := Interpret(in, &domain.SOWDocument{})
		assert.ErrorIs(t, err, ErrUnknownCommand, in)
	}
}

func TestCommands_ListsGrammar(t *testing.T) {
	specs := Commands()
	require.Len(t, specs, 3)
	for _, s := range specs {
		_, ok := handlers[s.Name]
		assert.True(t, ok, s.Name)
	}
}
