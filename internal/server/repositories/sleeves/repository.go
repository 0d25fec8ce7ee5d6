package sleeves

import (
	"context"

	"github.com/skvault/sleevekeeper/internal/server/models"
)

// SortOrder controls the ordering of List results.
type SortOrder int

const (
	// SortNewestFirst orders by creation, newest first. This is the default.
	SortNewestFirst SortOrder = iota
	// SortRemainingAsc orders by remaining count, lowest stock first.
	SortRemainingAsc
	// SortRemainingDesc orders by remaining count, highest stock first.
	SortRemainingDesc
)

// Kind narrows List results by the sleeve's type tag.
type Kind int

const (
	// KindAny returns every sleeve.
	KindAny Kind = iota
	// KindInner returns only sleeves tagged as inner.
	KindInner
	// KindOuter returns every sleeve not tagged as inner.
	KindOuter
)

// ListOptions bundle the optional narrowing and ordering of a List call.
type ListOptions struct {
	Sort SortOrder
	Kind Kind
}

// Repository defines persistence operations for sleeve stock. Every method
// is scoped to the owning user: rows belonging to other users are invisible.
//
// Debit is the single point where the non-negativity invariant is enforced:
// implementations must perform the availability check and the decrement as
// one atomic write so concurrent debits against the same sleeve can never
// interleave into a negative remaining count.
type Repository interface {
	Create(ctx context.Context, sleeve *models.Sleeve) (*models.Sleeve, error)
	GetByID(ctx context.Context, userID, id int64) (*models.Sleeve, error)
	Update(ctx context.Context, sleeve *models.Sleeve) error
	List(ctx context.Context, userID int64, opts ListOptions) ([]*models.Sleeve, error)

	// AddPack increases remaining count by packSize*packs. It is a silent
	// no-op when the sleeve's pack size is zero or the sleeve does not
	// exist under the caller's ownership.
	AddPack(ctx context.Context, userID, id int64, packs int) error

	// Debit decreases remaining count by amount, failing with
	// common.ErrorInsufficientStock when the result would go negative.
	Debit(ctx context.Context, userID, id int64, amount int) error

	// Credit increases remaining count by amount, unconditionally.
	Credit(ctx context.Context, userID, id int64, amount int) error

	// Delete removes the sleeve row only. Detaching deck references is the
	// caller's responsibility and must happen first, in the same transaction.
	Delete(ctx context.Context, userID, id int64) error
}
