package db

import (
	"database/sql"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhh89/thecustom/internal/domain"
)

// An early schema stored sows without grand_total and scopes without ids.
func TestMigrate_UpgradeFromLegacySchema(t *testing.T) {
	db, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE sows (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		data       TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	require.NoError(t, err)

	legacy := `{"projectTitle":"Old","scopes":[{"scopeName":"A","roles":[]},{"id":"scope-keep","scopeName":"B","roles":[]}],"theme":"dark"}`
	_, err = db.Exec(`INSERT INTO sows (id, name, data, created_at, updated_at)
		VALUES ('s1', 'Legacy', ?, '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`, legacy)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sows (id, name, data, created_at, updated_at)
		VALUES ('s2', 'Broken', 'not json', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db), "second run is a no-op")

	var total float64
	require.NoError(t, db.QueryRow(`SELECT grand_total FROM sows WHERE id = 's1'`).Scan(&total))
	assert.Equal(t, 0.0, total)

	var data string
	require.NoError(t, db.QueryRow(`SELECT data FROM sows WHERE id = 's1'`).Scan(&data))
	var doc domain.SOWDocument
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	require.Len(t, doc.Scopes, 2)
	assert.True(t, strings.HasPrefix(doc.Scopes[0].ID, "scope-"))
	assert.Equal(t, "scope-keep", doc.Scopes[1].ID)
	assert.Contains(t, data, `"theme":"dark"`)

	require.NoError(t, db.QueryRow(`SELECT data FROM sows WHERE id = 's2'`).Scan(&data))
	assert.Equal(t, "not json", data)
}
