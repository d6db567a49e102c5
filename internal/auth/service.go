// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/booking-api/internal/core"
	"github.com/carterperez-dev/booking-api/internal/metrics"
)

const tracerName = "booking-api/auth"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID           string
	Email        string
	Name         *string
	PasswordHash string
	Role         core.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *UserInfo) identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(
		ctx context.Context,
		email, passwordHash string,
		name *string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// TokenIssuer is satisfied by *JWTManager.
type TokenIssuer interface {
	CreateAccessToken(id Identity) (string, error)
	CreateRefreshToken(id Identity) (string, error)
	VerifyRefreshToken(token string) (*Identity, error)
	RefreshTokenTTL() time.Duration
}

type Service struct {
	repo         Repository
	tokens       TokenIssuer
	userProvider UserProvider
	now          func() time.Time
}

func NewService(
	repo Repository,
	tokens TokenIssuer,
	userProvider UserProvider,
) *Service {
	return &Service{
		repo:         repo,
		tokens:       tokens,
		userProvider: userProvider,
		now:          time.Now,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (resp *AuthResponse, err error) {
	defer func() { metrics.AuthEvent("register", err) }()

	exists, err := s.userProvider.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, req.Email, passwordHash, req.Name)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.createAuthResponse(ctx, user)
}

// Login answers ErrInvalidCredentials for both an unknown email and a wrong
// password, and spends the same hashing work on either path.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (resp *AuthResponse, err error) {
	defer func() { metrics.AuthEvent("login", err) }()

	user, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // equalizes timing with the known-user path
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if upErr := s.userProvider.UpdatePassword(ctx, user.ID, newHash); upErr != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", upErr,
			)
		}
	}

	return s.createAuthResponse(ctx, user)
}

// Refresh rotates a refresh token. The presented token must verify, must
// still have a stored row, and that row must be unexpired. The stored row is
// swapped in one conditional update, so replaying the same token after a
// successful rotation, or racing two rotations, fails for all but one caller.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (pair *TokenPair, err error) {
	ctx, span := core.StartSpan(ctx, tracerName, "auth.refresh")
	defer span.End()
	defer func() {
		metrics.AuthEvent("refresh", err)
		core.SetSpanError(ctx, err)
	}()

	claimed, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", claimed.UserID))

	oldHash := core.HashToken(refreshToken)

	stored, err := s.repo.FindByHash(ctx, oldHash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if stored.UserID != claimed.UserID {
		return nil, fmt.Errorf("refresh: subject mismatch: %w", core.ErrTokenInvalid)
	}

	if stored.IsExpired(s.now()) {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.userProvider.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: user gone: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	id := user.identity()

	newRefresh, err := s.tokens.CreateRefreshToken(id)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	expiresAt := s.now().Add(s.tokens.RefreshTokenTTL())
	if err := s.repo.Rotate(ctx, oldHash, core.HashToken(newRefresh), expiresAt); err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	access, err := s.tokens.CreateAccessToken(id)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

// Logout deletes the caller's refresh token row. Unknown tokens, tokens of
// other users and an empty token are all silently accepted.
func (s *Service) Logout(
	ctx context.Context,
	userID, refreshToken string,
) (err error) {
	defer func() { metrics.AuthEvent("logout", err) }()

	if refreshToken == "" {
		return nil
	}

	if err := s.repo.DeleteByHashForUser(
		ctx,
		core.HashToken(refreshToken),
		userID,
	); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge expired tokens: %w", err)
	}
	metrics.RefreshTokensPurgedTotal.Add(float64(n))
	return n, nil
}

// RunPurge calls PurgeExpired every interval until ctx is done.
func (s *Service) RunPurge(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "refresh token purge failed", "error", err)
				continue
			}
			if n > 0 {
				slog.InfoContext(ctx, "purged expired refresh tokens", "count", n)
			}
		}
	}
}

func (s *Service) createAuthResponse(
	ctx context.Context,
	user *UserInfo,
) (*AuthResponse, error) {
	id := user.identity()

	accessToken, err := s.tokens.CreateAccessToken(id)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshToken, err := s.tokens.CreateRefreshToken(id)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	stored := &RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: core.HashToken(refreshToken),
		ExpiresAt: s.now().Add(s.tokens.RefreshTokenTTL()),
	}

	if err := s.repo.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResponse{
		User:         toUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
