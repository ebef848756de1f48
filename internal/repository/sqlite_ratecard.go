package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bashhh89/thecustom/internal/db"
	"github.com/bashhh89/thecustom/internal/domain"
)

// SQLiteRateCardRepo implements RateCardRepo and pricing.RateProvider.
type SQLiteRateCardRepo struct {
	db db.DBTX
}

func NewSQLiteRateCardRepo(conn db.DBTX) *SQLiteRateCardRepo {
	return &SQLiteRateCardRepo{db: conn}
}

const rateCardColumns = `id, name, rate, created_at, updated_at`

func (r *SQLiteRateCardRepo) Create(ctx context.Context, e *domain.RateCardEntry) error {
	query := `INSERT INTO rate_card_items (` + rateCardColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Name, e.Rate, formatTime(e.CreatedAt), formatTime(e.UpdatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("rate card item %q: %w", e.Name, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inserting rate card item: %w", err)
	}
	return nil
}

func (r *SQLiteRateCardRepo) GetByID(ctx context.Context, id string) (*domain.RateCardEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+rateCardColumns+` FROM rate_card_items WHERE id = ?`, id)
	e, err := scanRateCardEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rate card item %s: %w", id, ErrNotFound)
	}
	return e, err
}

func (r *SQLiteRateCardRepo) GetByName(ctx context.Context, name string) (*domain.RateCardEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+rateCardColumns+` FROM rate_card_items WHERE name = ?`, name)
	e, err := scanRateCardEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rate card item %q: %w", name, ErrNotFound)
	}
	return e, err
}

func (r *SQLiteRateCardRepo) List(ctx context.Context) ([]*domain.RateCardEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+rateCardColumns+` FROM rate_card_items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing rate card: %w", err)
	}
	defer rows.Close()

	var out []*domain.RateCardEntry
	for rows.Next() {
		e, err := scanRateCardEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rate card: %w", err)
	}
	return out, nil
}

// ListRates returns the whole rate card by value.
func (r *SQLiteRateCardRepo) ListRates(ctx context.Context) ([]domain.RateCardEntry, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RateCardEntry, len(entries))
	for i, e := range entries {
		out[i] = *e
	}
	return out, nil
}

func (r *SQLiteRateCardRepo) Update(ctx context.Context, e *domain.RateCardEntry) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rate_card_items SET name = ?, rate = ?, updated_at = ? WHERE id = ?`,
		e.Name, e.Rate, formatTime(e.UpdatedAt), e.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("rate card item %q: %w", e.Name, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("updating rate card item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating rate card item: %w", err)
	}
	return requireAffected(n, "rate card item", e.ID)
}

func (r *SQLiteRateCardRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rate_card_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting rate card item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting rate card item: %w", err)
	}
	return requireAffected(n, "rate card item", id)
}

func scanRateCardEntry(row rowScanner) (*domain.RateCardEntry, error) {
	var e domain.RateCardEntry
	var createdAt, updatedAt string
	if err := row.Scan(&e.ID, &e.Name, &e.Rate, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning rate card item: %w", err)
	}
	var err error
	if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
