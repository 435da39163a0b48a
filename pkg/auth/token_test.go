package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hangrmap/hangrmap-backend/pkg/config"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "hangrmap-test",
		ExpirationMinutes: 15,
	}
}

func testPayload() AccessTokenPayload {
	return AccessTokenPayload{
		UserID:    uuid.New(),
		CompanyID: uuid.New(),
		Role:      enums.UserRoleAdmin,
		JTI:       "session-1",
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	payload := testPayload()
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != payload.UserID || claims.CompanyID != payload.CompanyID {
		t.Fatalf("expected ids round-tripped, got %+v", claims)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("expected role preserved, got %q", claims.Role)
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected jti carried, got %q", claims.ID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %q, got %q", cfg.Issuer, claims.Issuer)
	}
	wantExpiry := now.Add(15 * time.Minute)
	if got := claims.ExpiresAt.Time; got.Unix() != wantExpiry.Unix() {
		t.Fatalf("expected expiry %s, got %s", wantExpiry, got)
	}
}

func TestMintAccessToken_GeneratesJTIWhenBlank(t *testing.T) {
	payload := testPayload()
	payload.JTI = "  "
	token, err := MintAccessToken(testJWTConfig(), time.Now().UTC(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	claims, err := ParseAccessToken(testJWTConfig(), token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.ID == "" {
		t.Fatalf("expected generated jti")
	}
}

func TestMintAccessToken_Validation(t *testing.T) {
	now := time.Now().UTC()

	cfg := testJWTConfig()
	cfg.Secret = ""
	if _, err := MintAccessToken(cfg, now, testPayload()); err == nil {
		t.Fatalf("expected error for missing secret")
	}

	cfg = testJWTConfig()
	cfg.Issuer = ""
	if _, err := MintAccessToken(cfg, now, testPayload()); err == nil {
		t.Fatalf("expected error for missing issuer")
	}

	cfg = testJWTConfig()
	cfg.ExpirationMinutes = 0
	if _, err := MintAccessToken(cfg, now, testPayload()); err == nil {
		t.Fatalf("expected error for non-positive expiration")
	}

	payload := testPayload()
	payload.Role = enums.UserRole("owner")
	if _, err := MintAccessToken(testJWTConfig(), now, payload); err == nil {
		t.Fatalf("expected error for invalid role")
	}

	payload = testPayload()
	payload.CompanyID = uuid.Nil
	if _, err := MintAccessToken(testJWTConfig(), now, payload); err == nil {
		t.Fatalf("expected error for nil company id")
	}
}

func TestParseAccessToken_RejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	issuedAt := time.Now().UTC().Add(-time.Hour)

	token, err := MintAccessToken(cfg, issuedAt, testPayload())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatalf("expected expired token rejected")
	}
}

func TestParseAccessTokenAllowExpired(t *testing.T) {
	cfg := testJWTConfig()
	issuedAt := time.Now().UTC().Add(-time.Hour)
	payload := testPayload()

	token, err := MintAccessToken(cfg, issuedAt, payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("expected expired token parsed for refresh, got %v", err)
	}
	if claims.ID != payload.JTI {
		t.Fatalf("expected jti readable from expired token, got %q", claims.ID)
	}

	other := cfg
	other.Secret = "other-secret"
	if _, err := ParseAccessTokenAllowExpired(other, token); err == nil {
		t.Fatalf("expected signature still verified")
	}
}
