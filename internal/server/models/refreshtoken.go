package models

import "time"

// RefreshToken is a server-stored, rotating token paired with a short-lived
// JWT access token.
type RefreshToken struct {
	UserID  int64
	Token   string
	Expires time.Time
}
