// Package decks provides a PostgreSQL-backed repository for deck rows and
// the joined presentation projection used for listing.
package decks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skvault/sleevekeeper/internal/common"
	"github.com/skvault/sleevekeeper/internal/dbx"
	"github.com/skvault/sleevekeeper/internal/server/models"
)

// PostgresRepository implements deck storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new deck row and returns it with the assigned id.
func (r *PostgresRepository) Create(ctx context.Context, deck *models.Deck) (*models.Deck, error) {
	query := `
		INSERT INTO decks (user_id, name, inner_sleeve_id, inner_count, outer_sleeve_id, outer_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		deck.UserID, deck.Name,
		deck.InnerSleeveID, deck.InnerCount,
		deck.OuterSleeveID, deck.OuterCount).Scan(&deck.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return deck, nil
}

// GetByID returns the deck with the given id if it belongs to userID,
// or common.ErrorNotFound otherwise.
func (r *PostgresRepository) GetByID(ctx context.Context, userID, id int64) (*models.Deck, error) {
	query := `
		SELECT id, user_id, name, inner_sleeve_id, inner_count, outer_sleeve_id, outer_count
		FROM decks
		WHERE id = $1 AND user_id = $2
	`
	d := &models.Deck{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&d.ID, &d.UserID, &d.Name,
		&d.InnerSleeveID, &d.InnerCount,
		&d.OuterSleeveID, &d.OuterCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

// Delete removes the deck row.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM decks WHERE id = $1 AND user_id = $2`

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

// DetachSleeve nulls out inner and outer references to sleeveID on the
// caller's decks. Count fields are deliberately left untouched: a detached
// slot keeps documenting what the deck consumed, and deleting the deck later
// restores nothing for it.
func (r *PostgresRepository) DetachSleeve(ctx context.Context, userID, sleeveID int64) error {
	queryInner := `
		UPDATE decks SET inner_sleeve_id = NULL
		WHERE user_id = $1 AND inner_sleeve_id = $2
	`
	if _, err := r.db.ExecContext(ctx, queryInner, userID, sleeveID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	queryOuter := `
		UPDATE decks SET outer_sleeve_id = NULL
		WHERE user_id = $1 AND outer_sleeve_id = $2
	`
	if _, err := r.db.ExecContext(ctx, queryOuter, userID, sleeveID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns the caller's decks newest first, with each referenced
// sleeve's name and image joined in. The projection is re-derived on every
// read; nothing is stored denormalized.
func (r *PostgresRepository) List(ctx context.Context, userID int64, filter Filter) ([]*models.DeckView, error) {
	query := `
		SELECT d.id, d.user_id, d.name,
		       d.inner_sleeve_id, d.inner_count, COALESCE(si.name, ''), COALESCE(si.image_name, ''),
		       d.outer_sleeve_id, d.outer_count, COALESCE(so.name, ''), COALESCE(so.image_name, '')
		FROM decks d
		LEFT JOIN sleeves si ON si.id = d.inner_sleeve_id
		LEFT JOIN sleeves so ON so.id = d.outer_sleeve_id
		WHERE d.user_id = $1
	`
	args := []any{userID}
	if filter.InnerSleeveID != nil {
		args = append(args, *filter.InnerSleeveID)
		query += fmt.Sprintf(` AND d.inner_sleeve_id = $%d`, len(args))
	}
	if filter.OuterSleeveID != nil {
		args = append(args, *filter.OuterSleeveID)
		query += fmt.Sprintf(` AND d.outer_sleeve_id = $%d`, len(args))
	}
	query += ` ORDER BY d.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select decks: %w", err)
	}
	defer rows.Close()

	var result []*models.DeckView
	for rows.Next() {
		var v models.DeckView
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.Name,
			&v.InnerSleeveID, &v.InnerCount, &v.InnerSleeveName, &v.InnerSleeveImage,
			&v.OuterSleeveID, &v.OuterCount, &v.OuterSleeveName, &v.OuterSleeveImage,
		); err != nil {
			return nil, err
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
