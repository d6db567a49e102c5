// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/booking-api/internal/core"
)

var userCols = []string{
	"id", "email", "password_hash", "name", "role", "created_at", "updated_at",
}

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "pgx"), mock
}

func TestRepositoryCreateDuplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &User{
		ID:    "u-1",
		Email: "a@example.com",
		Role:  core.RoleClient,
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("A@Example.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "A@Example.com", "hash", nil, "ADMIN", now, now))

	u, err := repo.GetByEmail(context.Background(), "A@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "A@Example.com", u.Email)
	assert.Nil(t, u.Name)
	assert.Equal(t, core.RoleAdmin, u.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryList(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE TRUE AND role = \\$1").
		WithArgs(core.RoleClient).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(core.RoleClient, 20, 0).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-1", "a@example.com", "hash", "Ann", "CLIENT", now, now))

	users, total, err := repo.List(context.Background(), ListUsersParams{Role: core.RoleClient})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	require.NotNil(t, users[0].Name)
	assert.Equal(t, "Ann", *users[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDMalformedIsNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
