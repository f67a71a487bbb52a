package auth

import (
	"testing"
	"time"

	"github.com/dkeye/momentsync/internal/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "momentsync",
		Expiration: time.Hour,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()

	token, err := NewToken(cfg, "alice")
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username alice, got %q", claims.Username)
	}
	if claims.Issuer != "momentsync" {
		t.Errorf("expected issuer momentsync, got %q", claims.Issuer)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewToken(testJWTConfig(), "alice")
	if err != nil {
		t.Fatal(err)
	}

	other := testJWTConfig()
	other.Secret = "different"
	if _, err := ParseToken(other, token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken(testJWTConfig(), "not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
