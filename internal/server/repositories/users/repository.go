package users

import (
	"context"

	"github.com/skvault/sleevekeeper/internal/server/models"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Delete removes the user row. Owned sleeves and decks are removed by
	// the schema's ON DELETE CASCADE.
	Delete(ctx context.Context, id int64) error
}
