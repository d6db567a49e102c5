// AngelaMos | 2026
// handler_test.go

package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/booking-api/internal/catalog"
	"github.com/carterperez-dev/booking-api/internal/core"
	"github.com/carterperez-dev/booking-api/internal/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *core.ErrorBody `json:"error"`
}

type claimsVerifier map[string]*middleware.AccessTokenClaims

func (c claimsVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	if claims, ok := c[token]; ok {
		return claims, nil
	}
	return nil, core.ErrTokenInvalid
}

func newTestRouter(t *testing.T) (http.Handler, *serviceFixture) {
	t.Helper()
	f := newServiceFixture(t)
	verifier := claimsVerifier{
		"token-a":     {UserID: clientA.UserID, Role: core.RoleClient},
		"token-b":     {UserID: clientB.UserID, Role: core.RoleClient},
		"token-admin": {UserID: admin.UserID, Role: core.RoleAdmin},
	}

	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, middleware.Authenticator(verifier), nil)
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

func createBody(serviceID string, start time.Time) map[string]any {
	return map[string]any{
		"serviceId": serviceID,
		"startsAt":  start.Format(time.RFC3339),
	}
}

func TestCreateBookingHTTP(t *testing.T) {
	h, f := newTestRouter(t)

	rec, env := do(t, h, http.MethodPost, "/bookings", createBody("haircut", at(10, 0)), "token-a")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "haircut", created.Service.ID)
	assert.Equal(t, "Haircut", created.Service.Name)
	assert.Equal(t, StatusPending, created.Status)
	assert.True(t, created.EndsAt.Equal(at(10, 30)))

	_, err := f.svc.UpdateStatus(context.Background(), admin, created.ID, StatusConfirmed)
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       any
		token      string
		wantStatus int
		wantCode   string
	}{
		{"overlap", createBody("haircut", at(10, 15)), "token-b", http.StatusConflict, core.CodeConflict},
		{"adjacent", createBody("haircut", at(10, 30)), "token-b", http.StatusCreated, ""},
		{"unknown service", createBody("nope", at(13, 0)), "token-b", http.StatusNotFound, core.CodeNotFound},
		{"inactive service", createBody("retired", at(13, 0)), "token-b", http.StatusBadRequest, core.CodeValidation},
		{"past on unknown service", createBody("nope", at(7, 0)), "token-b", http.StatusBadRequest, core.CodeValidation},
		{"missing service id", map[string]any{"startsAt": at(13, 0).Format(time.RFC3339)}, "token-b", http.StatusBadRequest, core.CodeValidation},
		{"bad date", map[string]any{"serviceId": "haircut", "startsAt": "tomorrow"}, "token-b", http.StatusBadRequest, core.CodeValidation},
		{"anonymous", createBody("haircut", at(15, 0)), "", http.StatusUnauthorized, core.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPost, "/bookings", tt.body, tt.token)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantCode, env.Error.Code)
			}
		})
	}
}

func TestListBookingsHTTPSelfScoping(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, tc := range []struct {
		token string
		start time.Time
	}{
		{"token-a", at(10, 0)},
		{"token-b", at(11, 0)},
		{"token-b", at(12, 0)},
	} {
		rec, _ := do(t, h, http.MethodPost, "/bookings", createBody("haircut", tc.start), tc.token)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := do(t, h, http.MethodGet, "/bookings?userId="+clientB.UserID, nil, "token-a")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, clientA.UserID, list[0].UserID)

	rec, env = do(t, h, http.MethodGet, "/bookings?userId="+clientB.UserID, nil, "token-admin")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 2)
	assert.True(t, list[0].StartsAt.After(list[1].StartsAt))

	rec, _ = do(t, h, http.MethodGet, "/bookings?status=DONE", nil, "token-admin")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/bookings?dateFrom=yesterday", nil, "token-admin")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusHTTP(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := do(t, h, http.MethodPost, "/bookings", createBody("haircut", at(10, 0)), "token-a")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	path := "/bookings/" + created.ID + "/status"

	tests := []struct {
		name       string
		path       string
		status     string
		token      string
		wantStatus int
	}{
		{"stranger", path, "CANCELED", "token-b", http.StatusForbidden},
		{"unknown status", path, "DONE", "token-a", http.StatusBadRequest},
		{"skip to completed", path, "COMPLETED", "token-a", http.StatusBadRequest},
		{"owner cancels", path, "CANCELED", "token-a", http.StatusOK},
		{"canceled is terminal", path, "CONFIRMED", "token-admin", http.StatusBadRequest},
		{"missing booking", "/bookings/nope/status", "CONFIRMED", "token-admin", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := do(t, h, http.MethodPut, tt.path, map[string]string{"status": tt.status}, tt.token)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	rec, env = do(t, h, http.MethodGet, "/bookings/"+created.ID, nil, "token-a")
	require.Equal(t, http.StatusOK, rec.Code)
	var got BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, StatusCanceled, got.Status)

	rec, env = do(t, h, http.MethodPut, path, map[string]string{"status": "CONFIRMED"}, "token-a")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, core.CodeInvalidState, env.Error.Code)
}

// Ids that are not uuids reach Postgres and fail to parse there; the API
// still answers as if the row did not exist.
func TestMalformedIDsThroughSQLAreNotFound(t *testing.T) {
	verifier := claimsVerifier{
		"token-a": {UserID: clientA.UserID, Role: core.RoleClient},
	}
	malformed := &pgconn.PgError{Code: "22P02"}

	t.Run("create with unknown service id", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT (.+) FROM services WHERE id = \\$1").
			WithArgs("nope").
			WillReturnError(malformed)

		services := catalog.NewCatalog(catalog.NewRepository(db), nil)
		svc := NewService(newFakeRepo(nil), services)
		svc.now = func() time.Time { return at(8, 0) }

		r := chi.NewRouter()
		NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(verifier), nil)

		rec, env := do(t, r, http.MethodPost, "/bookings", createBody("nope", at(10, 0)), "token-a")
		assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
		require.NotNil(t, env.Error)
		assert.Equal(t, core.CodeNotFound, env.Error.Code)
		assert.Equal(t, "service not found", env.Error.Message)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get booking", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("FROM").WillReturnError(malformed)

		svc := NewService(NewRepository(db), &fakeCatalog{})

		r := chi.NewRouter()
		NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(verifier), nil)

		rec, env := do(t, r, http.MethodGet, "/bookings/nope", nil, "token-a")
		assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
		require.NotNil(t, env.Error)
		assert.Equal(t, core.CodeNotFound, env.Error.Code)
	})
}
