// AngelaMos | 2026
// repository_test.go

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/booking-api/internal/core"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "pgx"), mock
}

func TestRepositoryCreate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	now := time.Now()
	token := &RefreshToken{
		ID:        "t-1",
		UserID:    "u-1",
		TokenHash: "hash",
		ExpiresAt: now.Add(time.Hour),
	}

	mock.ExpectQuery("INSERT INTO refresh_tokens").
		WithArgs("t-1", "u-1", "hash", token.ExpiresAt).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), token))
	assert.Equal(t, now, token.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryFindByHashNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM refresh_tokens WHERE token_hash").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByHash(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryRotate(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{name: "winner", rows: 1},
		{name: "already rotated", rows: 0, wantErr: core.ErrTokenRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewRepository(db)

			mock.ExpectExec(`UPDATE refresh_tokens\s+SET token_hash = \$2`).
				WithArgs("old", "new", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			err := repo.Rotate(context.Background(), "old", "new", time.Now().Add(time.Hour))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepositoryDeleteByHashForUserIsIdempotent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec("DELETE FROM refresh_tokens").
		WithArgs("hash", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteByHashForUser(context.Background(), "hash", "u-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteExpired(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec("DELETE FROM refresh_tokens").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mock.ExpectExec("DELETE FROM refresh_tokens").
		WillReturnError(errors.New("connection reset"))

	_, err = repo.DeleteExpired(context.Background())
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
