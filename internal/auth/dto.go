// AngelaMos | 2026
// dto.go

package auth

import (
	"log/slog"
	"time"

	"github.com/carterperez-dev/booking-api/internal/core"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

// LogValue keeps the password out of logs.
func (r LoginRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", r.Email),
		slog.String("password", "[REDACTED]"),
	)
}

type RegisterRequest struct {
	Email    string  `json:"email"    validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Name     *string `json:"name"     validate:"omitempty,min=1,max=100"`
}

func (r RegisterRequest) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("email", r.Email),
		slog.String("password", "[REDACTED]"),
	}
	if r.Name != nil {
		attrs = append(attrs, slog.String("name", *r.Name))
	}
	return slog.GroupValue(attrs...)
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Role      core.Role `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
