package domain

import "time"

// RefreshToken is a persisted long-lived credential exchanged for new
// access tokens. Rotated on every refresh.
type RefreshToken struct {
	ID        int64
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}
