// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/booking-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Rotate(
		ctx context.Context,
		oldHash, newHash string,
		expiresAt time.Time,
	) error
	DeleteByHashForUser(ctx context.Context, tokenHash, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, token *RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
	).Scan(&token.CreatedAt, &token.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}

	return nil
}

func (r *repository) FindByHash(
	ctx context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at, updated_at
		FROM refresh_tokens
		WHERE token_hash = $1`

	var token RefreshToken
	err := r.db.GetContext(ctx, &token, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	return &token, nil
}

// Rotate swaps the stored hash only if oldHash is still present and unexpired.
// Of two concurrent rotations of the same token exactly one matches a row; the
// other gets ErrTokenRevoked.
func (r *repository) Rotate(
	ctx context.Context,
	oldHash, newHash string,
	expiresAt time.Time,
) error {
	query := `
		UPDATE refresh_tokens
		SET token_hash = $2, expires_at = $3, updated_at = NOW()
		WHERE token_hash = $1 AND expires_at > NOW()`

	result, err := r.db.ExecContext(ctx, query, oldHash, newHash, expiresAt)
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("rotate refresh token: %w", core.ErrTokenRevoked)
	}

	return nil
}

// DeleteByHashForUser is idempotent; deleting nothing is not an error.
func (r *repository) DeleteByHashForUser(
	ctx context.Context,
	tokenHash, userID string,
) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE token_hash = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, tokenHash, userID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	return nil
}

func (r *repository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE expires_at <= NOW()`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	return rows, nil
}
