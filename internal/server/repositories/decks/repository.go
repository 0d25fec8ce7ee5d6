package decks

import (
	"context"

	"github.com/skvault/sleevekeeper/internal/server/models"
)

// Filter optionally narrows List results to decks referencing the given
// sleeve ids in the inner and/or outer slot.
type Filter struct {
	InnerSleeveID *int64
	OuterSleeveID *int64
}

// Repository defines persistence operations for decks. Every method is
// scoped to the owning user.
type Repository interface {
	Create(ctx context.Context, deck *models.Deck) (*models.Deck, error)
	GetByID(ctx context.Context, userID, id int64) (*models.Deck, error)
	Delete(ctx context.Context, userID, id int64) error

	// DetachSleeve nulls out every deck slot referencing sleeveID for the
	// given user, leaving the deck rows and their count fields intact.
	DetachSleeve(ctx context.Context, userID, sleeveID int64) error

	// List returns the caller's decks joined with the referenced sleeves'
	// display names and images, newest first.
	List(ctx context.Context, userID int64, filter Filter) ([]*models.DeckView, error)
}
