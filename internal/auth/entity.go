// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// RefreshToken is the persisted form of an issued refresh token. Only the
// SHA-256 of the token is stored. ExpiresAt is tracked independently of the
// token's own exp claim and both must hold for the token to be accepted.
type RefreshToken struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
