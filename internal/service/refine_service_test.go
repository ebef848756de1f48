package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhh89/thecustom/internal/command"
	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/repository"
	"github.com/bashhh89/thecustom/internal/testutil"
)

func TestRefineService_NewScopeThenAddRole(t *testing.T) {
	h := newHarness(t)
	h.seedRates(t, testutil.NewTestRateCardEntry("Designer", 80))
	sow := h.seedSOW(t, "X", testutil.NewTestDocument("X"))
	obs := &recordingObserver{}
	svc := NewRefineService(h.rates, h.uow, h.locks, obs)
	ctx := context.Background()

	res, err := svc.Refine(ctx, sow.ID, "/newScope Website Redesign")
	require.NoError(t, err)
	require.Len(t, res.SOW.Data.Scopes, 1)
	scopeID := res.Command.ScopeID
	assert.Equal(t, scopeID, res.SOW.Data.Scopes[0].ID)

	res, err = svc.Refine(ctx, sow.ID, "/addRole to "+scopeID+" Designer 40")
	require.NoError(t, err)
	assert.Equal(t, "/addRole", res.Command.Command)
	assert.Equal(t, 1, res.Report.CatalogRates)

	stored := h.stored(t, sow.ID).Data.Scopes[0]
	require.Len(t, stored.Roles, 1)
	assert.Equal(t, 80.0, *stored.Roles[0].Rate)
	assert.Equal(t, 3200.0, *stored.Roles[0].Total)
	assert.Equal(t, 3200.0, stored.Subtotal)

	ev := obs.last()
	assert.Equal(t, "/addRole", ev.Fields[FieldCommand])
	assert.Equal(t, 3200.0, ev.Fields[FieldGrandTotal])
}

func TestRefineService_UnknownRoleGetsFallbackRate(t *testing.T) {
	h := newHarness(t)
	sow := h.seedSOW(t, "X", testutil.NewTestDocument("X", testutil.WithScope("scope-1", "Build")))
	svc := NewRefineService(h.rates, h.uow, h.locks)

	res, err := svc.Refine(context.Background(), sow.ID, "/addRole to Build Wizard 3")
	require.NoError(t, err)
	assert.True(t, res.Command.NameFallback)
	assert.Equal(t, 1, res.Report.FallbackRates)
	assert.Equal(t, 300.0, res.SOW.Data.GrandTotal())
}

func TestRefineService_InvalidCommandLeavesDocument(t *testing.T) {
	h := newHarness(t)
	doc := testutil.NewTestDocument("X", testutil.WithScope("scope-1", "Build",
		testutil.NewTestRole("Dev", 2, domain.Float(100), domain.Float(200))))
	sow := h.seedSOW(t, "X", doc)
	obs := &recordingObserver{}
	svc := NewRefineService(h.rates, h.uow, h.locks, obs)
	ctx := context.Background()

	_, err := svc.Refine(ctx, sow.ID, "/addRole to nowhere Dev 3")
	assert.ErrorIs(t, err, command.ErrScopeNotFound)
	assert.Equal(t, "/addRole", obs.last().Fields[FieldCommand])
	assert.False(t, obs.last().Success)

	_, err = svc.Refine(ctx, sow.ID, "/explode")
	assert.ErrorIs(t, err, command.ErrUnknownCommand)
	assert.Equal(t, "unknown", obs.last().Fields[FieldCommand])

	_, err = svc.Refine(ctx, "missing", "/newScope A")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stored := h.stored(t, sow.ID)
	assert.Len(t, stored.Data.Scopes, 1)
	assert.Len(t, stored.Data.Scopes[0].Roles, 1)
	assert.True(t, sow.UpdatedAt.Equal(stored.UpdatedAt), "no write on failure")
}

func TestRefineService_SetBudget(t *testing.T) {
	h := newHarness(t)
	sow := h.seedSOW(t, "X", testutil.NewTestDocument("X"))
	svc := NewRefineService(h.rates, h.uow, h.locks)

	res, err := svc.Refine(context.Background(), sow.ID, "/setBudget 12000")
	require.NoError(t, err)
	assert.Equal(t, "Budget set to $12,000", res.Command.Message)

	stored := h.stored(t, sow.ID)
	require.NotNil(t, stored.Data.BudgetNote)
	assert.Contains(t, *stored.Data.BudgetNote, "$12,000")
}
