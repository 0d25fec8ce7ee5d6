package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/skvault/sleevekeeper/internal/common"
	"github.com/skvault/sleevekeeper/internal/dbx"
	"github.com/skvault/sleevekeeper/internal/server/config"
	"github.com/skvault/sleevekeeper/internal/server/models"
	"github.com/skvault/sleevekeeper/internal/server/repositories/repomanager"
	"github.com/skvault/sleevekeeper/internal/server/repositories/sleeves"
)

// SleeveParams carries the caller-supplied fields for creating or editing a
// sleeve. ImageName is a stored filename produced by the upload helper; an
// empty value on edit keeps the existing image.
type SleeveParams struct {
	Name           string
	Type           string
	Manufacturer   string
	PackSize       int
	RemainingCount int
	ImageName      string
}

// StockService is the stock ledger: it owns sleeve records and the
// arithmetic of incrementing and decrementing remaining counts, and it
// enforces non-negativity on every mutation.
type StockService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	strictPackSize bool
}

// NewStockService constructs a StockService using repositories and server config.
func NewStockService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *StockService {
	return &StockService{
		db:             db,
		repomanager:    m,
		strictPackSize: cfg.StrictPackSize,
	}
}

func (s *StockService) validateParams(p *SleeveParams) error {
	if strings.TrimSpace(p.Name) == "" {
		return common.NewValidationError("name", "must not be empty")
	}
	if strings.TrimSpace(p.Type) == "" {
		return common.NewValidationError("type", "must not be empty")
	}
	if p.RemainingCount < 0 {
		return common.NewValidationError("remaining_count", "must not be negative")
	}
	if s.strictPackSize {
		if p.PackSize < 1 {
			return common.NewValidationError("pack_size", "must be at least 1")
		}
	} else if p.PackSize < 0 {
		return common.NewValidationError("pack_size", "must not be negative")
	}
	return nil
}

// CreateSleeve validates params and persists a new sleeve for userID.
func (s *StockService) CreateSleeve(ctx context.Context, userID int64, params SleeveParams) (*models.Sleeve, error) {
	if err := s.validateParams(&params); err != nil {
		return nil, err
	}

	sleeve := &models.Sleeve{
		UserID:         userID,
		Name:           params.Name,
		Type:           params.Type,
		Manufacturer:   params.Manufacturer,
		PackSize:       params.PackSize,
		RemainingCount: params.RemainingCount,
		ImageName:      params.ImageName,
	}
	repo := s.repomanager.Sleeves(s.db)
	created, err := repo.Create(ctx, sleeve)
	if err != nil {
		return nil, fmt.Errorf("error creating sleeve: %w", err)
	}
	return created, nil
}

// GetSleeve returns the sleeve if it belongs to userID.
func (s *StockService) GetSleeve(ctx context.Context, userID, id int64) (*models.Sleeve, error) {
	return s.repomanager.Sleeves(s.db).GetByID(ctx, userID, id)
}

// EditSleeve replaces the sleeve's mutable fields. The stored image is only
// replaced when params.ImageName is non-empty; otherwise the existing
// reference is retained. Returns the previous image name so the caller can
// clean up a replaced image, best effort.
func (s *StockService) EditSleeve(ctx context.Context, userID, id int64, params SleeveParams) (prevImage string, err error) {
	if err := s.validateParams(&params); err != nil {
		return "", err
	}

	repo := s.repomanager.Sleeves(s.db)
	sleeve, err := repo.GetByID(ctx, userID, id)
	if err != nil {
		return "", err
	}

	prevImage = sleeve.ImageName
	sleeve.Name = params.Name
	sleeve.Type = params.Type
	sleeve.Manufacturer = params.Manufacturer
	sleeve.PackSize = params.PackSize
	sleeve.RemainingCount = params.RemainingCount
	if params.ImageName != "" {
		sleeve.ImageName = params.ImageName
	} else {
		prevImage = ""
	}

	if err := repo.Update(ctx, sleeve); err != nil {
		return "", err
	}
	return prevImage, nil
}

// AddPack bulk-replenishes stock by packs whole packs. A sleeve with pack
// size zero, an unknown id, or a non-positive packs value makes this a
// silent no-op, never an error.
func (s *StockService) AddPack(ctx context.Context, userID, id int64, packs int) error {
	return s.repomanager.Sleeves(s.db).AddPack(ctx, userID, id, packs)
}

// Debit decreases the sleeve's remaining count by amount inside its own
// transaction. When stock is insufficient the returned error names the
// sleeve and its current available count, and nothing is written.
func (s *StockService) Debit(ctx context.Context, userID, id int64, amount int) error {
	if amount <= 0 {
		return common.NewValidationError("amount", "must be positive")
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return debitSleeve(ctx, s.repomanager.Sleeves(tx), userID, id, amount)
	})
}

// Credit increases the sleeve's remaining count by amount. No upper bound.
func (s *StockService) Credit(ctx context.Context, userID, id int64, amount int) error {
	if amount <= 0 {
		return common.NewValidationError("amount", "must be positive")
	}
	return s.repomanager.Sleeves(s.db).Credit(ctx, userID, id, amount)
}

// DeleteSleeve detaches the sleeve from every deck slot referencing it and
// deletes the row, as one transaction. Decks keep their rows and count
// fields; the stock those slots consumed is gone for good. The deleted
// sleeve is returned so the caller can remove its stored image, best effort.
func (s *StockService) DeleteSleeve(ctx context.Context, userID, id int64) (*models.Sleeve, error) {
	var deleted *models.Sleeve
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		sleeveRepo := s.repomanager.Sleeves(tx)
		sleeve, err := sleeveRepo.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		// Detach before delete so no deck row ever points at a missing sleeve.
		if err := s.repomanager.Decks(tx).DetachSleeve(ctx, userID, id); err != nil {
			return err
		}
		if err := sleeveRepo.Delete(ctx, userID, id); err != nil {
			return err
		}
		deleted = sleeve
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// ListSleeves returns the caller's sleeves per opts.
func (s *StockService) ListSleeves(ctx context.Context, userID int64, opts sleeves.ListOptions) ([]*models.Sleeve, error) {
	return s.repomanager.Sleeves(s.db).List(ctx, userID, opts)
}

// debitSleeve runs a repository debit and converts a bare insufficient-stock
// failure into the typed error naming the sleeve and its available count.
// Must run inside the same transaction as the debit so the re-read is
// consistent with the failed write.
func debitSleeve(ctx context.Context, repo sleeves.Repository, userID, id int64, amount int) error {
	err := repo.Debit(ctx, userID, id, amount)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorInsufficientStock) {
		return err
	}
	sleeve, getErr := repo.GetByID(ctx, userID, id)
	if getErr != nil {
		// Row is gone: the debit failed because the sleeve does not exist.
		return getErr
	}
	return &common.InsufficientStockError{
		SleeveID:   sleeve.ID,
		SleeveName: sleeve.Name,
		Requested:  amount,
		Available:  sleeve.RemainingCount,
	}
}
