package repository

import (
	"context"
	"fmt"

	"github.com/bashhh89/thecustom/internal/db"
	"github.com/bashhh89/thecustom/internal/domain"
)

// SQLiteMessageRepo stores the drafting conversation of each SOW. Messages
// are ordered by a per-SOW sequence number assigned on append.
type SQLiteMessageRepo struct {
	db db.DBTX
}

func NewSQLiteMessageRepo(conn db.DBTX) *SQLiteMessageRepo {
	return &SQLiteMessageRepo{db: conn}
}

func (r *SQLiteMessageRepo) Append(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO messages (id, sow_id, role, content, seq, created_at)
		SELECT ?, ?, ?, ?, COALESCE(MAX(seq), 0) + 1, ? FROM messages WHERE sow_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.SOWID, string(m.Role), m.Content, formatTime(m.CreatedAt), m.SOWID)
	if err != nil {
		return fmt.Errorf("appending message: %w", err)
	}
	return nil
}

func (r *SQLiteMessageRepo) ListBySOW(ctx context.Context, sowID string) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sow_id, role, content, created_at FROM messages WHERE sow_id = ? ORDER BY seq`, sowID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var out []*domain.Message
	for rows.Next() {
		var m domain.Message
		var role, createdAt string
		if err := rows.Scan(&m.ID, &m.SOWID, &role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Role = domain.MessageRole(role)
		if m.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return out, nil
}

func (r *SQLiteMessageRepo) DeleteBySOW(ctx context.Context, sowID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE sow_id = ?`, sowID)
	if err != nil {
		return 0, fmt.Errorf("deleting messages: %w", err)
	}
	return res.RowsAffected()
}
