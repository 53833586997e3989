package auth

import (
	"testing"
	"time"

	"github.com/ekomart/ekomart-backend/pkg/config"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "ekomart-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s got %s", userID, claims.UserID)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("expected a session id (jti)")
	}
}

func TestMintRejectsInvalidRole(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRole("superuser"),
	}); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signed, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}
	other := testJWTConfig()
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}
