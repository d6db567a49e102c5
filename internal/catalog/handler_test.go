// AngelaMos | 2026
// handler_test.go

package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/booking-api/internal/core"
	"github.com/carterperez-dev/booking-api/internal/middleware"
)

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

func newTestRouter(t *testing.T) (chi.Router, *Catalog) {
	t.Helper()
	c := NewCatalog(newFakeRepo(), &fakeCache{})
	verifier := claimsVerifier{
		"client": {UserID: "c-1", Role: core.RoleClient},
		"admin":  {UserID: "a-1", Role: core.RoleAdmin},
	}

	r := chi.NewRouter()
	NewHandler(c).RegisterRoutes(r, middleware.Authenticator(verifier))
	return r, c
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestServiceRoutesAuthorization(t *testing.T) {
	r, c := newTestRouter(t)
	svc, err := c.Create(context.Background(), CreateServiceRequest{Name: "Haircut", DurationMin: 30})
	require.NoError(t, err)

	body := `{"name":"Beard Trim","durationMin":15,"priceCents":1500}`

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       string
		wantStatus int
	}{
		{"public list", http.MethodGet, "/services", "", "", http.StatusOK},
		{"public get", http.MethodGet, "/services/" + svc.ID, "", "", http.StatusOK},
		{"get missing", http.MethodGet, "/services/nope", "", "", http.StatusNotFound},
		{"create anonymous", http.MethodPost, "/services", "", body, http.StatusUnauthorized},
		{"create as client", http.MethodPost, "/services", "client", body, http.StatusForbidden},
		{"create as admin", http.MethodPost, "/services", "admin", body, http.StatusCreated},
		{"update as client", http.MethodPut, "/services/" + svc.ID, "client", `{"priceCents":100}`, http.StatusForbidden},
		{"update as admin", http.MethodPut, "/services/" + svc.ID, "admin", `{"priceCents":100}`, http.StatusOK},
		{"update missing", http.MethodPut, "/services/nope", "admin", `{"priceCents":100}`, http.StatusNotFound},
		{"delete as client", http.MethodDelete, "/services/" + svc.ID, "client", "", http.StatusForbidden},
		{"delete missing", http.MethodDelete, "/services/nope", "admin", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateServiceValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"zero duration", `{"name":"x","durationMin":0,"priceCents":0}`},
		{"negative price", `{"name":"x","durationMin":10,"priceCents":-1}`},
		{"missing name", `{"durationMin":10,"priceCents":0}`},
		{"malformed", `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/services", "admin", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestDeleteDeactivates(t *testing.T) {
	r, c := newTestRouter(t)
	svc, err := c.Create(context.Background(), CreateServiceRequest{Name: "Haircut", DurationMin: 30})
	require.NoError(t, err)

	rec := do(r, http.MethodDelete, "/services/"+svc.ID, "admin", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(r, http.MethodGet, "/services", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Data []Service `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list.Data)

	rec = do(r, http.MethodGet, "/services/"+svc.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Data Service `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Data.Active)
}
