// AngelaMos | 2026
// challenge_test.go

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/carterperez-dev/bazaar-api/internal/config"
	"github.com/carterperez-dev/bazaar-api/internal/core"
)

func testChallengeConfig(expire time.Duration) config.ChallengeConfig {
	return config.ChallengeConfig{
		Expire:            expire,
		ActivationSecret:  "test-activation-secret",
		EmailUpdateSecret: "test-email-update-secret",
		ForgotSecret:      "test-forgot-secret",
		DeleteSecret:      "test-delete-secret",
		AdminEmailSecret:  "test-admin-email-secret",
	}
}

func TestChallengeRoundTrip(t *testing.T) {
	m := NewChallengeManager(testChallengeConfig(5 * time.Minute))

	payload := map[string]string{
		"name":  "Ada Lovelace",
		"email": "ada@example.com",
	}

	token, err := m.Create(PurposeActivation, payload, "123456")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := m.Redeem(PurposeActivation, token, "123456")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}

	if got["name"] != payload["name"] || got["email"] != payload["email"] {
		t.Errorf("payload mismatch: got %v, want %v", got, payload)
	}
}

func TestChallengeWrongCode(t *testing.T) {
	m := NewChallengeManager(testChallengeConfig(5 * time.Minute))

	token, err := m.Create(PurposeForgot, map[string]string{"user_id": "u1"}, "123456")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = m.Redeem(PurposeForgot, token, "654321")
	if !errors.Is(err, core.ErrCodeMismatch) {
		t.Errorf("wrong code: got %v, want core.ErrCodeMismatch", err)
	}
}

func TestChallengeWrongPurpose(t *testing.T) {
	m := NewChallengeManager(testChallengeConfig(5 * time.Minute))

	token, err := m.Create(PurposeDelete, map[string]string{"user_id": "u1"}, "123456")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Signed with a different secret, so verification itself fails.
	_, err = m.Redeem(PurposeEmailUpdate, token, "123456")
	if !errors.Is(err, ErrChallengeInvalid) {
		t.Errorf("wrong purpose: got %v, want ErrChallengeInvalid", err)
	}
}

func TestChallengeTampered(t *testing.T) {
	m := NewChallengeManager(testChallengeConfig(5 * time.Minute))

	token, err := m.Create(PurposeActivation, map[string]string{"email": "a@b.c"}, "123456")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"

	_, err = m.Redeem(PurposeActivation, tampered, "123456")
	if !errors.Is(err, ErrChallengeInvalid) {
		t.Errorf("tampered token: got %v, want ErrChallengeInvalid", err)
	}
}

func TestChallengeExpired(t *testing.T) {
	m := NewChallengeManager(testChallengeConfig(-time.Minute))

	token, err := m.Create(PurposeActivation, map[string]string{"email": "a@b.c"}, "123456")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = m.Redeem(PurposeActivation, token, "123456")
	if !errors.Is(err, ErrChallengeInvalid) {
		t.Errorf("expired token: got %v, want ErrChallengeInvalid", err)
	}
}

func TestChallengeUnknownPurpose(t *testing.T) {
	m := NewChallengeManager(testChallengeConfig(5 * time.Minute))

	if _, err := m.Create(Purpose("bogus"), nil, "123456"); err == nil {
		t.Error("Create with unknown purpose should fail")
	}
	if _, err := m.Redeem(Purpose("bogus"), "token", "123456"); err == nil {
		t.Error("Redeem with unknown purpose should fail")
	}
}
