package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/testutil"
)

func TestSOWRepo_CreateAndGetByID(t *testing.T) {
	repo := NewSQLiteSOWRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	doc := testutil.NewTestDocument("Portal",
		testutil.WithScope("scope-1", "Build",
			testutil.NewTestRole("Designer", 10, domain.Float(80), domain.Float(800))))
	doc.Scopes[0].Subtotal = 800
	sow := testutil.NewTestSOW("Portal SOW", testutil.WithDocument(doc))
	require.NoError(t, repo.Create(ctx, sow))

	fetched, err := repo.GetByID(ctx, sow.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portal SOW", fetched.Name)
	assert.True(t, sow.CreatedAt.Equal(fetched.CreatedAt))
	require.NotNil(t, fetched.Data)
	want, err := json.Marshal(doc)
	require.NoError(t, err)
	got, err := json.Marshal(fetched.Data)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestSOWRepo_NilDocument(t *testing.T) {
	repo := NewSQLiteSOWRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	sow := testutil.NewTestSOW(domain.DefaultSOWName)
	require.NoError(t, repo.Create(ctx, sow))

	fetched, err := repo.GetByID(ctx, sow.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.Data)
}

func TestSOWRepo_PreservesUnknownDocumentKeys(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSOWRepo(database)
	ctx := context.Background()

	_, err := database.Exec(`INSERT INTO sows (id, name, data, created_at, updated_at)
		VALUES ('s1', 'Raw', '{"projectTitle":"X","scopes":[{"id":"scope-1","scopeName":"A","roles":[],"pinned":true}],"brand":{"color":"red"}}',
		'2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	fetched.Name = "Renamed"
	fetched.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, fetched))

	var data string
	require.NoError(t, database.QueryRow(`SELECT data FROM sows WHERE id = 's1'`).Scan(&data))
	assert.Contains(t, data, `"brand":{"color":"red"}`)
	assert.Contains(t, data, `"pinned":true`)
}

func TestSOWRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteSOWRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSOWRepo_ListOrdersByUpdatedAtWithTotals(t *testing.T) {
	repo := NewSQLiteSOWRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	older := testutil.NewTestSOW("Older", testutil.WithUpdatedAt(time.Now().UTC().Add(-time.Hour)))
	doc := testutil.NewTestDocument("Newer", testutil.WithScope("scope-1", "A"))
	doc.Scopes[0].Subtotal = 1250
	newer := testutil.NewTestSOW("Newer", testutil.WithDocument(doc))
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, 1250.0, list[0].GrandTotal)
	assert.Equal(t, older.ID, list[1].ID)
	assert.Equal(t, 0.0, list[1].GrandTotal)
}

func TestSOWRepo_UpdateAndDelete_NotFound(t *testing.T) {
	repo := NewSQLiteSOWRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	assert.ErrorIs(t, repo.Update(ctx, testutil.NewTestSOW("ghost")), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "ghost"), ErrNotFound)
}

func TestSOWRepo_DeleteCascadesMessages(t *testing.T) {
	database := testutil.NewTestDB(t)
	sows := NewSQLiteSOWRepo(database)
	messages := NewSQLiteMessageRepo(database)
	ctx := context.Background()

	sow := testutil.NewTestSOW("Doomed")
	require.NoError(t, sows.Create(ctx, sow))
	require.NoError(t, messages.Append(ctx, testutil.NewTestMessage(sow.ID, domain.MessageUser, "hi")))

	require.NoError(t, sows.Delete(ctx, sow.ID))

	list, err := messages.ListBySOW(ctx, sow.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
