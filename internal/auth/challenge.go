// AngelaMos | 2026
// challenge.go

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/bazaar-api/internal/config"
	"github.com/carterperez-dev/bazaar-api/internal/core"
)

// Purpose scopes a challenge token to one flow. Each purpose signs
// with its own secret, so a token minted for one flow can never be
// redeemed in another.
type Purpose string

const (
	PurposeActivation  Purpose = "activation"
	PurposeEmailUpdate Purpose = "email_update"
	PurposeForgot      Purpose = "forgot_password"
	PurposeDelete      Purpose = "delete_account"
	PurposeAdminEmail  Purpose = "admin_email"
)

// ErrChallengeInvalid covers expired, malformed, and wrong-purpose
// challenge tokens. A wrong one-time code on an otherwise valid token
// is core.ErrCodeMismatch instead.
var ErrChallengeInvalid = errors.New("challenge token expired or invalid")

// ChallengeManager mints and redeems short-lived OTP challenge
// tokens. The pending state (payload plus the expected code) travels
// inside the signed token, so verification needs no storage.
type ChallengeManager struct {
	secrets map[Purpose][]byte
	expire  time.Duration
}

func NewChallengeManager(cfg config.ChallengeConfig) *ChallengeManager {
	return &ChallengeManager{
		secrets: map[Purpose][]byte{
			PurposeActivation:  []byte(cfg.ActivationSecret),
			PurposeEmailUpdate: []byte(cfg.EmailUpdateSecret),
			PurposeForgot:      []byte(cfg.ForgotSecret),
			PurposeDelete:      []byte(cfg.DeleteSecret),
			PurposeAdminEmail:  []byte(cfg.AdminEmailSecret),
		},
		expire: cfg.Expire,
	}
}

// Create signs a challenge token binding payload and code to purpose.
func (m *ChallengeManager) Create(
	purpose Purpose,
	payload map[string]string,
	code string,
) (string, error) {
	secret, ok := m.secrets[purpose]
	if !ok {
		return "", fmt.Errorf("create challenge: unknown purpose %q", purpose)
	}

	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		IssuedAt(now).
		Expiration(now.Add(m.expire)).
		Claim("purpose", string(purpose)).
		Claim("payload", payload).
		Claim("code", code).
		Build()
	if err != nil {
		return "", fmt.Errorf("build challenge: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), secret))
	if err != nil {
		return "", fmt.Errorf("sign challenge: %w", err)
	}

	return string(signed), nil
}

// Redeem verifies the token against the purpose secret and compares
// the supplied one-time code. It returns the embedded payload on
// success, ErrChallengeInvalid for bad tokens, and
// core.ErrCodeMismatch for a wrong code.
func (m *ChallengeManager) Redeem(
	purpose Purpose,
	tokenString, code string,
) (map[string]string, error) {
	secret, ok := m.secrets[purpose]
	if !ok {
		return nil, fmt.Errorf("redeem challenge: unknown purpose %q", purpose)
	}

	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), secret),
		jwt.WithValidate(true),
		jwt.WithTypedClaim("payload", map[string]string{}),
	)
	if err != nil {
		return nil, fmt.Errorf("redeem challenge: %w", ErrChallengeInvalid)
	}

	var tokenPurpose string
	if err := token.Get("purpose", &tokenPurpose); err != nil ||
		tokenPurpose != string(purpose) {
		return nil, fmt.Errorf(
			"redeem challenge: purpose mismatch: %w",
			ErrChallengeInvalid,
		)
	}

	var expected string
	if err := token.Get("code", &expected); err != nil || expected == "" {
		return nil, fmt.Errorf(
			"redeem challenge: missing code claim: %w",
			ErrChallengeInvalid,
		)
	}

	if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) != 1 {
		return nil, fmt.Errorf("redeem challenge: %w", core.ErrCodeMismatch)
	}

	var payload map[string]string
	if err := token.Get("payload", &payload); err != nil {
		return nil, fmt.Errorf(
			"redeem challenge: missing payload claim: %w",
			ErrChallengeInvalid,
		)
	}

	return payload, nil
}
