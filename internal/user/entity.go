// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/booking-api/internal/core"
)

// User emails are compared exactly as stored; no case folding is applied.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         *string   `db:"name"`
	Role         core.Role `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}
