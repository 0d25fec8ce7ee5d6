// Package models defines server-side data models persisted in the database.
package models

import "time"

// User owns every sleeve and deck row; all core operations are scoped to
// a single user id supplied by the auth layer.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
