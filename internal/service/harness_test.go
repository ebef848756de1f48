package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bashhh89/thecustom/internal/db"
	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/repository"
	"github.com/bashhh89/thecustom/internal/testutil"
)

type harness struct {
	db       *sql.DB
	sows     *repository.SQLiteSOWRepo
	rates    *repository.SQLiteRateCardRepo
	messages *repository.SQLiteMessageRepo
	uow      db.UnitOfWork
	locks    *DocLocks
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &harness{
		db:       database,
		sows:     repository.NewSQLiteSOWRepo(database),
		rates:    repository.NewSQLiteRateCardRepo(database),
		messages: repository.NewSQLiteMessageRepo(database),
		uow:      testutil.NewTestUoW(database),
		locks:    NewDocLocks(),
	}
}

func (h *harness) seedRates(t *testing.T, entries ...*domain.RateCardEntry) {
	t.Helper()
	for _, e := range entries {
		require.NoError(t, h.rates.Create(context.Background(), e))
	}
}

func (h *harness) seedSOW(t *testing.T, name string, doc *domain.SOWDocument) *domain.SOW {
	t.Helper()
	sow := testutil.NewTestSOW(name, testutil.WithDocument(doc))
	require.NoError(t, h.sows.Create(context.Background(), sow))
	return sow
}

func (h *harness) stored(t *testing.T, id string) *domain.SOW {
	t.Helper()
	sow, err := h.sows.GetByID(context.Background(), id)
	require.NoError(t, err)
	return sow
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	return o.events[len(o.events)-1]
}
