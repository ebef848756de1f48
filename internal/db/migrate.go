package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bashhh89/thecustom/internal/domain"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillScopeIDs(db); err != nil {
		return fmt.Errorf("backfilling scope ids: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sows (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		data       TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS rate_card_items (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		rate       INTEGER NOT NULL CHECK(rate > 0),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id         TEXT PRIMARY KEY,
		sow_id     TEXT NOT NULL REFERENCES sows(id) ON DELETE CASCADE,
		role       TEXT NOT NULL CHECK(role IN ('user','assistant')),
		content    TEXT NOT NULL,
		seq        INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_messages_sow ON messages(sow_id, seq)`,
	`CREATE INDEX IF NOT EXISTS idx_sows_updated ON sows(updated_at)`,

	`ALTER TABLE sows ADD COLUMN grand_total REAL NOT NULL DEFAULT 0`,
}

// migrateBackfillScopeIDs gives every stored scope a stable id. Documents
// written before scope ids were assigned at creation only had names.
func migrateBackfillScopeIDs(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `SELECT id, data FROM sows WHERE data IS NOT NULL AND data != ''`)
	if err != nil {
		return fmt.Errorf("listing sows: %w", err)
	}
	pending := make(map[string]string)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			rows.Close()
			return fmt.Errorf("scanning sow: %w", err)
		}
		var doc domain.SOWDocument
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			// Unreadable documents are left for the application to report.
			continue
		}
		if !assignMissingScopeIDs(&doc) {
			continue
		}
		encoded, err := json.Marshal(doc)
		if err != nil {
			rows.Close()
			return fmt.Errorf("encoding sow %s: %w", id, err)
		}
		pending[id] = string(encoded)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating sows: %w", err)
	}
	rows.Close()

	for id, data := range pending {
		if _, err := db.ExecContext(ctx, `UPDATE sows SET data = ? WHERE id = ?`, data, id); err != nil {
			return fmt.Errorf("updating sow %s: %w", id, err)
		}
	}
	return nil
}

func assignMissingScopeIDs(doc *domain.SOWDocument) bool {
	changed := false
	for i := range doc.Scopes {
		if doc.Scopes[i].ID == "" {
			doc.Scopes[i].ID = domain.NewScopeID()
			changed = true
		}
	}
	return changed
}
