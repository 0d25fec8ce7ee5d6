// Package sleeves provides a PostgreSQL-backed repository for sleeve stock
// records and the count arithmetic behind the inventory ledger.
package sleeves

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skvault/sleevekeeper/internal/common"
	"github.com/skvault/sleevekeeper/internal/dbx"
	"github.com/skvault/sleevekeeper/internal/server/models"
)

// PostgresRepository implements sleeve storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new sleeve row and returns it with the assigned id.
func (r *PostgresRepository) Create(ctx context.Context, sleeve *models.Sleeve) (*models.Sleeve, error) {
	query := `
		INSERT INTO sleeves (user_id, name, type, manufacturer, pack_size, remaining_count, image_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		sleeve.UserID, sleeve.Name, sleeve.Type, sleeve.Manufacturer,
		sleeve.PackSize, sleeve.RemainingCount, sleeve.ImageName).Scan(&sleeve.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sleeve, nil
}

// GetByID returns the sleeve with the given id if it belongs to userID,
// or common.ErrorNotFound otherwise.
func (r *PostgresRepository) GetByID(ctx context.Context, userID, id int64) (*models.Sleeve, error) {
	query := `
		SELECT id, user_id, name, type, manufacturer, pack_size, remaining_count, image_name
		FROM sleeves
		WHERE id = $1 AND user_id = $2
	`
	s := &models.Sleeve{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&s.ID, &s.UserID, &s.Name, &s.Type, &s.Manufacturer,
		&s.PackSize, &s.RemainingCount, &s.ImageName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// Update replaces the sleeve's mutable fields. The row is matched by id and
// owner; common.ErrorNotFound is returned when no row matches.
func (r *PostgresRepository) Update(ctx context.Context, sleeve *models.Sleeve) error {
	query := `
		UPDATE sleeves
		SET name = $1, type = $2, manufacturer = $3, pack_size = $4, remaining_count = $5, image_name = $6
		WHERE id = $7 AND user_id = $8
	`
	res, err := r.db.ExecContext(ctx, query,
		sleeve.Name, sleeve.Type, sleeve.Manufacturer,
		sleeve.PackSize, sleeve.RemainingCount, sleeve.ImageName,
		sleeve.ID, sleeve.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// List returns the caller's sleeves, optionally narrowed by kind and
// ordered per opts.Sort (default: newest first).
func (r *PostgresRepository) List(ctx context.Context, userID int64, opts ListOptions) ([]*models.Sleeve, error) {
	query := `
		SELECT id, user_id, name, type, manufacturer, pack_size, remaining_count, image_name
		FROM sleeves
		WHERE user_id = $1
	`
	switch opts.Kind {
	case KindInner:
		query += ` AND type = '` + models.TypeInner + `'`
	case KindOuter:
		query += ` AND type <> '` + models.TypeInner + `'`
	}
	switch opts.Sort {
	case SortRemainingAsc:
		query += ` ORDER BY remaining_count ASC, id DESC`
	case SortRemainingDesc:
		query += ` ORDER BY remaining_count DESC, id DESC`
	default:
		query += ` ORDER BY id DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select sleeves: %w", err)
	}
	defer rows.Close()

	var result []*models.Sleeve
	for rows.Next() {
		var s models.Sleeve
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Name, &s.Type, &s.Manufacturer,
			&s.PackSize, &s.RemainingCount, &s.ImageName,
		); err != nil {
			return nil, err
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AddPack bulk-replenishes stock: remaining_count += pack_size * packs.
// The pack_size > 0 guard lives in the WHERE clause, so a zero pack size or
// an unknown/foreign id affects no rows and is not an error.
func (r *PostgresRepository) AddPack(ctx context.Context, userID, id int64, packs int) error {
	if packs <= 0 {
		return nil
	}
	query := `
		UPDATE sleeves
		SET remaining_count = remaining_count + pack_size * $1
		WHERE id = $2 AND user_id = $3 AND pack_size > 0
	`
	if _, err := r.db.ExecContext(ctx, query, packs, id, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Debit decrements remaining_count by amount. The availability check is part
// of the UPDATE's WHERE clause: the row lock taken by the write serializes
// concurrent debits, so two debits can never both observe the same stale
// count and drive it negative. Zero rows affected on an existing row means
// insufficient stock.
func (r *PostgresRepository) Debit(ctx context.Context, userID, id int64, amount int) error {
	query := `
		UPDATE sleeves
		SET remaining_count = remaining_count - $1
		WHERE id = $2 AND user_id = $3 AND remaining_count >= $1
	`
	res, err := r.db.ExecContext(ctx, query, amount, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorInsufficientStock
	}
	return nil
}

// Credit increments remaining_count by amount, with no upper bound.
func (r *PostgresRepository) Credit(ctx context.Context, userID, id int64, amount int) error {
	query := `
		UPDATE sleeves
		SET remaining_count = remaining_count + $1
		WHERE id = $2 AND user_id = $3
	`
	res, err := r.db.ExecContext(ctx, query, amount, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes the sleeve row.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM sleeves WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
