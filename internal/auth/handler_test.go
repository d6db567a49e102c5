// AngelaMos | 2026
// handler_test.go

package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/booking-api/internal/core"
	"github.com/carterperez-dev/booking-api/internal/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *core.ErrorBody `json:"error"`
}

func newTestRouter(t *testing.T) (http.Handler, serviceFixture) {
	t.Helper()
	f := newServiceFixture(t)
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, middleware.Authenticator(f.tokens), nil)
	return r, f
}

func do(
	t *testing.T,
	h http.Handler,
	method, path string,
	body any,
	token string,
) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHandlerRegisterTwice(t *testing.T) {
	h, f := newTestRouter(t)
	body := map[string]string{"email": "a@example.com", "password": "password123"}

	rec, env := do(t, h, http.MethodPost, "/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "a@example.com", resp.User.Email)
	assert.Equal(t, core.RoleClient, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	rec, env = do(t, h, http.MethodPost, "/auth/register", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "User already exists", env.Error.Message)
	assert.Equal(t, 1, f.users.creates)
}

func TestHandlerRegisterValidation(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := do(t, h, http.MethodPost, "/auth/register",
		map[string]string{"email": "not-an-email", "password": "short"}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, core.CodeValidation, env.Error.Code)
	assert.NotNil(t, env.Error.Details)
}

func TestHandlerLoginEnumerationSafe(t *testing.T) {
	h, _ := newTestRouter(t)
	do(t, h, http.MethodPost, "/auth/register",
		map[string]string{"email": "a@example.com", "password": "password123"}, "")

	recWrong, envWrong := do(t, h, http.MethodPost, "/auth/login",
		map[string]string{"email": "a@example.com", "password": "wrong-password"}, "")
	recUnknown, envUnknown := do(t, h, http.MethodPost, "/auth/login",
		map[string]string{"email": "b@example.com", "password": "password123"}, "")

	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, envWrong.Error, envUnknown.Error)

	rec, _ := do(t, h, http.MethodPost, "/auth/login",
		map[string]string{"email": "a@example.com", "password": "password123"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerRefreshReplay(t *testing.T) {
	h, _ := newTestRouter(t)
	_, env := do(t, h, http.MethodPost, "/auth/register",
		map[string]string{"email": "a@example.com", "password": "password123"}, "")
	var reg AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &reg))

	body := map[string]string{"refreshToken": reg.RefreshToken}

	rec, env := do(t, h, http.MethodPost, "/auth/refresh", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pair TokenPair
	require.NoError(t, json.Unmarshal(env.Data, &pair))
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, reg.RefreshToken, pair.RefreshToken)

	rec, _ = do(t, h, http.MethodPost, "/auth/refresh", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/auth/refresh",
		map[string]string{"refreshToken": "garbage"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerMeAndLogout(t *testing.T) {
	h, f := newTestRouter(t)
	_, env := do(t, h, http.MethodPost, "/auth/register",
		map[string]string{"email": "a@example.com", "password": "password123"}, "")
	var reg AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &reg))

	rec, _ := do(t, h, http.MethodGet, "/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = do(t, h, http.MethodGet, "/auth/me", nil, reg.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		User UserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, reg.User.ID, me.User.ID)

	rec, _ = do(t, h, http.MethodPost, "/auth/logout", nil, reg.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.repo.count())

	rec, _ = do(t, h, http.MethodPost, "/auth/logout",
		map[string]string{"refreshToken": reg.RefreshToken}, reg.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, f.repo.count())
}

func TestHandlerLogoutAlwaysSucceeds(t *testing.T) {
	h, f := newTestRouter(t)
	_, env := do(t, h, http.MethodPost, "/auth/register",
		map[string]string{"email": "a@example.com", "password": "password123"}, "")
	var reg AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &reg))

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", bytes.NewBufferString("{not json"))
		req.Header.Set("Authorization", "Bearer "+reg.AccessToken)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, f.repo.count())
	})

	t.Run("store failure", func(t *testing.T) {
		f.repo.mu.Lock()
		f.repo.deleteErr = errors.New("connection reset")
		f.repo.mu.Unlock()

		rec, env := do(t, h, http.MethodPost, "/auth/logout",
			map[string]string{"refreshToken": reg.RefreshToken}, reg.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)
	})
}
