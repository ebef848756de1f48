package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bashhh89/thecustom/internal/db"
	"github.com/bashhh89/thecustom/internal/domain"
)

// SQLiteSOWRepo stores SOWs with their document serialized as JSON text.
type SQLiteSOWRepo struct {
	db db.DBTX
}

func NewSQLiteSOWRepo(conn db.DBTX) *SQLiteSOWRepo {
	return &SQLiteSOWRepo{db: conn}
}

func (r *SQLiteSOWRepo) Create(ctx context.Context, s *domain.SOW) error {
	data, total, err := encodeDocument(s.Data)
	if err != nil {
		return err
	}
	query := `INSERT INTO sows (id, name, data, grand_total, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		data,
		total,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting sow: %w", err)
	}
	return nil
}

func (r *SQLiteSOWRepo) GetByID(ctx context.Context, id string) (*domain.SOW, error) {
	query := `SELECT id, name, data, created_at, updated_at FROM sows WHERE id = ?`
	s, err := scanSOW(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sow %s: %w", id, ErrNotFound)
	}
	return s, err
}

func (r *SQLiteSOWRepo) List(ctx context.Context) ([]SOWSummary, error) {
	query := `SELECT id, name, grand_total, updated_at FROM sows ORDER BY updated_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing sows: %w", err)
	}
	defer rows.Close()

	var out []SOWSummary
	for rows.Next() {
		var s SOWSummary
		var updatedAt string
		if err := rows.Scan(&s.ID, &s.Name, &s.GrandTotal, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning sow row: %w", err)
		}
		if s.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sows: %w", err)
	}
	return out, nil
}

func (r *SQLiteSOWRepo) Update(ctx context.Context, s *domain.SOW) error {
	data, total, err := encodeDocument(s.Data)
	if err != nil {
		return err
	}
	query := `UPDATE sows SET name = ?, data = ?, grand_total = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, s.Name, data, total, formatTime(s.UpdatedAt), s.ID)
	if err != nil {
		return fmt.Errorf("updating sow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating sow: %w", err)
	}
	return requireAffected(n, "sow", s.ID)
}

func (r *SQLiteSOWRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sows WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting sow: %w", err)
	}
	return requireAffected(n, "sow", id)
}

func encodeDocument(doc *domain.SOWDocument) (any, float64, error) {
	if doc == nil {
		return nil, 0, nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, 0, fmt.Errorf("encoding sow document: %w", err)
	}
	return string(b), doc.GrandTotal(), nil
}

func scanSOW(row rowScanner) (*domain.SOW, error) {
	var s domain.SOW
	var data sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&s.ID, &s.Name, &data, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning sow: %w", err)
	}

	var err error
	if s.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	if data.Valid && data.String != "" {
		var doc domain.SOWDocument
		if err := json.Unmarshal([]byte(data.String), &doc); err != nil {
			return nil, fmt.Errorf("decoding sow %s document: %w", s.ID, err)
		}
		s.Data = &doc
	}
	return &s, nil
}
