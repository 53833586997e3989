package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/ekomart/ekomart-backend/pkg/auth"
	"github.com/ekomart/ekomart-backend/pkg/config"
	"github.com/ekomart/ekomart-backend/pkg/enums"
)

type fakeSessionChecker struct {
	ok  bool
	err error
}

func (f fakeSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return f.ok, f.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "ekomart-test",
		ExpirationMinutes: 30,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, role enums.UserRole) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, userID
}

func TestAuthSeedsPrincipal(t *testing.T) {
	cfg := testJWTConfig()
	token, userID := mintToken(t, cfg, enums.UserRoleCustomer)

	var got Principal
	var seeded bool
	handler := Auth(cfg, fakeSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, seeded = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !seeded {
		t.Fatal("principal was not seeded")
	}
	if got.UserID != userID {
		t.Fatalf("user id = %s, want %s", got.UserID, userID)
	}
	if got.Role != enums.UserRoleCustomer {
		t.Fatalf("role = %s", got.Role)
	}
	if got.SessionID == "" {
		t.Fatal("session id missing")
	}
}

func TestAuthMissingCredentials(t *testing.T) {
	handler := Auth(testJWTConfig(), fakeSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRevokedSession(t *testing.T) {
	cfg := testJWTConfig()
	token, _ := mintToken(t, cfg, enums.UserRoleCustomer)

	handler := Auth(cfg, fakeSessionChecker{ok: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRoleForbidsCustomer(t *testing.T) {
	handler := RequireRole(enums.UserRoleAdmin, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	ctx := WithPrincipal(req.Context(), Principal{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestOptionalAuthAnonymousPassesThrough(t *testing.T) {
	var called bool
	handler := OptionalAuth(testJWTConfig(), fakeSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := PrincipalFromContext(r.Context()); ok {
			t.Fatal("anonymous request must not carry a principal")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders/track", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("handler was not called")
	}
}
