package models

import "time"

// Deck is a named composition referencing up to one inner and one outer
// sleeve together with the quantities consumed from each. A slot's sleeve
// reference becomes nil when the referenced sleeve is deleted; the count is
// kept so the row still documents what the deck consumed.
type Deck struct {
	ID     int64
	UserID int64
	Name   string

	InnerSleeveID *int64
	InnerCount    int

	OuterSleeveID *int64
	OuterCount    int

	CreatedAt time.Time
}

// DeckView is the read-only presentation projection of a deck: the deck row
// joined with the referenced sleeves' display names and images. It is
// re-derived per read, never stored.
type DeckView struct {
	Deck

	InnerSleeveName  string
	InnerSleeveImage string

	OuterSleeveName  string
	OuterSleeveImage string
}
