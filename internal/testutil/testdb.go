package testutil

import (
	"database/sql"
	"testing"

	"github.com/bashhh89/thecustom/internal/db"
)

// NewTestDB opens a migrated in-memory database that lives as long as t.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})
	return conn
}

func NewTestUoW(conn *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(conn)
}
