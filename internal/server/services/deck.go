package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/skvault/sleevekeeper/internal/common"
	"github.com/skvault/sleevekeeper/internal/dbx"
	"github.com/skvault/sleevekeeper/internal/server/models"
	"github.com/skvault/sleevekeeper/internal/server/repositories/decks"
	"github.com/skvault/sleevekeeper/internal/server/repositories/repomanager"
)

// ComposeDeckParams carries the caller-supplied fields for composing a deck.
// Both slots are independently optional; a slot's count is only consumed
// when its sleeve reference is set and the count is positive.
type ComposeDeckParams struct {
	Name string

	InnerSleeveID *int64
	InnerCount    int

	OuterSleeveID *int64
	OuterCount    int
}

// DeckService is the deck composer: composing a deck debits the stock
// ledger for the chosen slots, deleting a deck credits it back, and either
// happens atomically with the deck row write or not at all.
type DeckService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewDeckService constructs a DeckService.
func NewDeckService(db *sql.DB, m repomanager.RepositoryManager) *DeckService {
	return &DeckService{db: db, repomanager: m}
}

func validateComposeParams(p *ComposeDeckParams) error {
	if strings.TrimSpace(p.Name) == "" {
		return common.NewValidationError("name", "must not be empty")
	}
	if p.InnerCount < 0 {
		return common.NewValidationError("inner_count", "must not be negative")
	}
	if p.OuterCount < 0 {
		return common.NewValidationError("outer_count", "must not be negative")
	}
	if p.InnerSleeveID == nil && p.InnerCount > 0 {
		return common.NewValidationError("inner_count", "requires an inner sleeve")
	}
	if p.OuterSleeveID == nil && p.OuterCount > 0 {
		return common.NewValidationError("outer_count", "requires an outer sleeve")
	}
	return nil
}

// ComposeDeck verifies stock for every requested slot, debits the ledger,
// and inserts the deck row, all inside one transaction. If either slot
// lacks stock, neither slot is debited and the error names the offending
// sleeve and its current remaining count. A storage failure after the
// debits rolls them back.
func (s *DeckService) ComposeDeck(ctx context.Context, userID int64, params ComposeDeckParams) (*models.Deck, error) {
	if err := validateComposeParams(&params); err != nil {
		return nil, err
	}

	var deck *models.Deck
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		sleeveRepo := s.repomanager.Sleeves(tx)

		// Verify every slot before touching any count: an insufficient
		// outer slot must not leave a debited inner slot behind. The
		// conditional debit below re-checks under the row lock, so this
		// pass exists to fail fast with both slots untouched.
		for _, slot := range []struct {
			id    *int64
			count int
			field string
		}{
			{params.InnerSleeveID, params.InnerCount, "inner_sleeve_id"},
			{params.OuterSleeveID, params.OuterCount, "outer_sleeve_id"},
		} {
			if slot.id == nil {
				continue
			}
			sleeve, err := sleeveRepo.GetByID(ctx, userID, *slot.id)
			if err != nil {
				return err
			}
			if slot.count > 0 && sleeve.RemainingCount < slot.count {
				return &common.InsufficientStockError{
					SleeveID:   sleeve.ID,
					SleeveName: sleeve.Name,
					Requested:  slot.count,
					Available:  sleeve.RemainingCount,
				}
			}
		}

		if params.InnerSleeveID != nil && params.InnerCount > 0 {
			if err := debitSleeve(ctx, sleeveRepo, userID, *params.InnerSleeveID, params.InnerCount); err != nil {
				return err
			}
		}
		if params.OuterSleeveID != nil && params.OuterCount > 0 {
			if err := debitSleeve(ctx, sleeveRepo, userID, *params.OuterSleeveID, params.OuterCount); err != nil {
				return err
			}
		}

		d := &models.Deck{
			UserID:        userID,
			Name:          params.Name,
			InnerSleeveID: params.InnerSleeveID,
			InnerCount:    params.InnerCount,
			OuterSleeveID: params.OuterSleeveID,
			OuterCount:    params.OuterCount,
		}
		created, err := s.repomanager.Decks(tx).Create(ctx, d)
		if err != nil {
			return err
		}
		deck = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// DeleteDeck restores the stock each still-attached slot consumed and
// deletes the deck row, as one transaction. A slot whose sleeve reference
// was nulled by an earlier sleeve deletion restores nothing: that stock
// left circulation with the sleeve.
func (s *DeckService) DeleteDeck(ctx context.Context, userID, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		deckRepo := s.repomanager.Decks(tx)
		deck, err := deckRepo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}

		sleeveRepo := s.repomanager.Sleeves(tx)
		if deck.InnerSleeveID != nil && deck.InnerCount > 0 {
			if err := sleeveRepo.Credit(ctx, userID, *deck.InnerSleeveID, deck.InnerCount); err != nil {
				return err
			}
		}
		if deck.OuterSleeveID != nil && deck.OuterCount > 0 {
			if err := sleeveRepo.Credit(ctx, userID, *deck.OuterSleeveID, deck.OuterCount); err != nil {
				return err
			}
		}

		return deckRepo.Delete(ctx, userID, id)
	})
}

// ListDecks returns the caller's decks as presentation rows, optionally
// narrowed to those referencing the given sleeve ids.
func (s *DeckService) ListDecks(ctx context.Context, userID int64, filter decks.Filter) ([]*models.DeckView, error) {
	return s.repomanager.Decks(s.db).List(ctx, userID, filter)
}
