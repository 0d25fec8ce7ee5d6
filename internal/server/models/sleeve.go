package models

import "time"

// TypeInner is the distinguished type tag marking a sleeve as usable in a
// deck's inner slot. Any other tag means the sleeve is an outer ("over")
// sleeve. The tag is otherwise free-form.
const TypeInner = "inner"

// Sleeve is a stock-keeping unit: a card-protector product tracked by its
// remaining count. RemainingCount never goes below zero; every mutation
// enforces that, not only creation.
type Sleeve struct {
	ID           int64
	UserID       int64
	Name         string
	Type         string
	Manufacturer string
	// PackSize is the number of units added per pack. Zero disables
	// pack replenishment for this sleeve.
	PackSize       int
	RemainingCount int
	// ImageName is the sanitized stored filename of an optional product
	// photo, or empty. The raw bytes live in object storage.
	ImageName string
	CreatedAt time.Time
}

// IsInner reports whether the sleeve can fill a deck's inner slot.
func (s *Sleeve) IsInner() bool {
	return s.Type == TypeInner
}
