// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/carterperez-dev/bazaar-api/internal/config"
	"github.com/carterperez-dev/bazaar-api/internal/core"
)

func newTestJWTManager(t *testing.T, cfg config.JWTConfig) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	cfg.PrivateKeyPath = filepath.Join(dir, "private.pem")
	cfg.PublicKeyPath = filepath.Join(dir, "public.pem")

	if err := GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath); err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	m, err := NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "bazaar-api-test",
		Audience:           "bazaar-test",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestJWTManager(t, testJWTConfig())
	ctx := context.Background()

	token, err := m.CreateAccessToken("user-123", "admin")
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	claims, err := m.VerifyAccessToken(ctx, token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}

	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, want user-123", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenExpire = -time.Minute
	m := newTestJWTManager(t, cfg)

	token, err := m.CreateAccessToken("user-123", "user")
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	_, err = m.VerifyAccessToken(context.Background(), token)
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Errorf("expired token: got %v, want core.ErrTokenExpired", err)
	}
}

func TestAccessTokenWrongKey(t *testing.T) {
	m1 := newTestJWTManager(t, testJWTConfig())
	m2 := newTestJWTManager(t, testJWTConfig())

	token, err := m1.CreateAccessToken("user-123", "user")
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	_, err = m2.VerifyAccessToken(context.Background(), token)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("foreign signature: got %v, want core.ErrTokenInvalid", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestJWTManager(t, testJWTConfig())

	token, err := m.CreateRefreshToken("user-456")
	if err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}

	userID, err := m.VerifyRefreshToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyRefreshToken: %v", err)
	}
	if userID != "user-456" {
		t.Errorf("userID = %q, want user-456", userID)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	m := newTestJWTManager(t, testJWTConfig())
	ctx := context.Background()

	access, err := m.CreateAccessToken("user-123", "user")
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	refresh, err := m.CreateRefreshToken("user-123")
	if err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}

	if _, err := m.VerifyRefreshToken(ctx, access); !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("access token on refresh path: got %v, want core.ErrTokenInvalid", err)
	}
	if _, err := m.VerifyAccessToken(ctx, refresh); !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("refresh token on access path: got %v, want core.ErrTokenInvalid", err)
	}
}
