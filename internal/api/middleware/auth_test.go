package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string, role domain.Role, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protectedHandler() http.Handler {
	auth := NewAuthenticator(testSecret, logger.NewNop())
	return auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := GetUserID(r.Context())
		role, _ := GetRole(r.Context())
		w.Header().Set("X-User", string(role))
		if userID == 42 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuth(t *testing.T) {
	valid := signToken(t, testSecret, "42", domain.RoleManager, time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid token", header: "Bearer " + valid, status: http.StatusNoContent},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, status: http.StatusUnauthorized},
		{
			name:   "wrong secret",
			header: "Bearer " + signToken(t, "other", "42", domain.RoleManager, time.Now().Add(time.Hour)),
			status: http.StatusUnauthorized,
		},
		{
			name:   "expired",
			header: "Bearer " + signToken(t, testSecret, "42", domain.RoleManager, time.Now().Add(-time.Hour)),
			status: http.StatusUnauthorized,
		},
		{
			name:   "non numeric subject",
			header: "Bearer " + signToken(t, testSecret, "alice", domain.RoleManager, time.Now().Add(time.Hour)),
			status: http.StatusUnauthorized,
		},
		{
			name:   "unknown role",
			header: "Bearer " + signToken(t, testSecret, "42", "root", time.Now().Add(time.Hour)),
			status: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()

			protectedHandler().ServeHTTP(resp, req)

			assert.Equal(t, tt.status, resp.Code)
		})
	}
}

func TestAuth_PutsRoleInContext(t *testing.T) {
	token := signToken(t, testSecret, "42", domain.RoleAdmin, time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()

	protectedHandler().ServeHTTP(resp, req)

	assert.Equal(t, "admin", resp.Header().Get("X-User"))
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(domain.RoleManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPatch, "/", nil)
	req = req.WithContext(WithUser(req.Context(), 1, domain.RoleCustomer))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	req = req.WithContext(WithUser(req.Context(), 1, domain.RoleManager))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPatch, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
