// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/booking-api/internal/config"
	"github.com/carterperez-dev/booking-api/internal/core"
	"github.com/carterperez-dev/booking-api/internal/middleware"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Identity is the subject both token classes are minted for.
type Identity struct {
	UserID string
	Email  string
	Role   core.Role
}

// JWTManager signs access and refresh tokens with two unrelated HMAC keys, so
// a token of one class never verifies as the other.
type JWTManager struct {
	accessKey  jwk.Key
	refreshKey jwk.Key
	config     config.JWTConfig
	now        func() time.Time
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("jwt secrets must be set")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, fmt.Errorf("access and refresh secrets must differ")
	}

	accessKey, err := jwk.Import([]byte(cfg.AccessSecret))
	if err != nil {
		return nil, fmt.Errorf("import access key: %w", err)
	}

	refreshKey, err := jwk.Import([]byte(cfg.RefreshSecret))
	if err != nil {
		return nil, fmt.Errorf("import refresh key: %w", err)
	}

	return &JWTManager{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		config:     cfg,
		now:        time.Now,
	}, nil
}

func (m *JWTManager) RefreshTokenTTL() time.Duration {
	return m.config.RefreshTokenExpire
}

func (m *JWTManager) CreateAccessToken(id Identity) (string, error) {
	return m.sign(id, tokenTypeAccess, m.config.AccessTokenExpire, m.accessKey)
}

// CreateRefreshToken mints a refresh token carrying a fresh jti, so two tokens
// issued for the same user in the same second still differ.
func (m *JWTManager) CreateRefreshToken(id Identity) (string, error) {
	return m.sign(id, tokenTypeRefresh, m.config.RefreshTokenExpire, m.refreshKey)
}

func (m *JWTManager) sign(
	id Identity,
	tokenType string,
	ttl time.Duration,
	key jwk.Key,
) (string, error) {
	now := m.now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(id.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(ttl)).
		Claim("email", id.Email).
		Claim("role", id.Role.String()).
		Claim("type", tokenType).
		Build()
	if err != nil {
		return "", fmt.Errorf("build %s token: %w", tokenType, err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), key))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}

	return string(signed), nil
}

func (m *JWTManager) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	id, err := m.verify(tokenString, tokenTypeAccess, m.accessKey)
	if err != nil {
		return nil, err
	}

	return &middleware.AccessTokenClaims{
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
	}, nil
}

func (m *JWTManager) VerifyRefreshToken(tokenString string) (*Identity, error) {
	return m.verify(tokenString, tokenTypeRefresh, m.refreshKey)
}

func (m *JWTManager) verify(
	tokenString, wantType string,
	key jwk.Key,
) (*Identity, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), key),
		jwt.WithValidate(false),
	)
	if err != nil {
		return nil, fmt.Errorf("verify %s token: %w", wantType, core.ErrTokenInvalid)
	}

	exp, ok := token.Expiration()
	if !ok {
		return nil, fmt.Errorf(
			"verify %s token: missing exp: %w",
			wantType,
			core.ErrTokenInvalid,
		)
	}
	if !m.now().Before(exp) {
		return nil, fmt.Errorf("verify %s token: %w", wantType, core.ErrTokenExpired)
	}

	if err := jwt.Validate(
		token,
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	); err != nil {
		return nil, fmt.Errorf("verify %s token: %w", wantType, core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil || tokenType != wantType {
		return nil, fmt.Errorf(
			"verify %s token: wrong token type: %w",
			wantType,
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify %s token: missing subject: %w",
			wantType,
			core.ErrTokenInvalid,
		)
	}

	var roleStr string
	if err := token.Get("role", &roleStr); err != nil {
		return nil, fmt.Errorf(
			"verify %s token: missing role claim: %w",
			wantType,
			core.ErrTokenInvalid,
		)
	}
	role, err := core.ParseRole(roleStr)
	if err != nil {
		return nil, fmt.Errorf(
			"verify %s token: unknown role: %w",
			wantType,
			core.ErrTokenInvalid,
		)
	}

	var email string
	//nolint:errcheck // email is informational only
	_ = token.Get("email", &email)

	return &Identity{
		UserID: subject,
		Email:  email,
		Role:   role,
	}, nil
}
