// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/bazaar-api/internal/config"
	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrAccountBlocked     = errors.New("account is blocked")
)

type Service struct {
	users      UserProvider
	jwt        *JWTManager
	challenges *ChallengeManager
	sessions   *SessionStore
	mail       mailer.Sender
	jwtConfig  config.JWTConfig
}

func NewService(
	users UserProvider,
	jwtManager *JWTManager,
	challenges *ChallengeManager,
	sessions *SessionStore,
	mail mailer.Sender,
	jwtConfig config.JWTConfig,
) *Service {
	return &Service{
		users:      users,
		jwt:        jwtManager,
		challenges: challenges,
		sessions:   sessions,
		mail:       mail,
		jwtConfig:  jwtConfig,
	}
}

// Register starts the activation challenge. No account row exists
// until the emailed code is redeemed, so an abandoned registration
// leaves nothing behind.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*ChallengeResponse, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	code, err := core.GenerateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	token, err := s.challenges.Create(PurposeActivation, map[string]string{
		"name":     req.Name,
		"email":    req.Email,
		"password": req.Password,
	}, code)
	if err != nil {
		return nil, fmt.Errorf("create challenge: %w", err)
	}

	err = s.mail.Send(
		ctx,
		req.Email,
		"Activate your account",
		mailer.TemplateActivationOTP,
		map[string]any{"Name": req.Name, "Code": code},
	)
	if err != nil {
		return nil, fmt.Errorf("send activation mail: %w", err)
	}

	return &ChallengeResponse{Token: token}, nil
}

// Verify redeems the activation challenge and provisions the account.
func (s *Service) Verify(
	ctx context.Context,
	req VerificationRequest,
) (*AuthResponse, string, error) {
	payload, err := s.challenges.Redeem(PurposeActivation, req.Token, req.Code)
	if err != nil {
		return nil, "", err
	}

	passwordHash, err := core.HashPassword(payload["password"])
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, CreateUserParams{
		Name:         payload["name"],
		Email:        payload["email"],
		PasswordHash: passwordHash,
		IsVerified:   true,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, "", ErrEmailExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, "", ErrInvalidCredentials
	}

	if user.IsBlocked {
		return nil, "", ErrAccountBlocked
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.users.UpdatePassword(ctx, user.ID, newHash)
	}

	return s.issueTokens(ctx, user)
}

// SocialAuth signs in a provider-verified identity, provisioning the
// account on first sight. Social accounts get an unguessable local
// password since they authenticate upstream.
func (s *Service) SocialAuth(
	ctx context.Context,
	req SocialAuthRequest,
) (*AuthResponse, string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	if user == nil {
		password, genErr := core.GenerateSecureToken(32)
		if genErr != nil {
			return nil, "", fmt.Errorf("generate password: %w", genErr)
		}

		passwordHash, hashErr := core.HashPassword(password)
		if hashErr != nil {
			return nil, "", fmt.Errorf("hash password: %w", hashErr)
		}

		user, err = s.users.Create(ctx, CreateUserParams{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: passwordHash,
			Avatar:       req.Avatar,
			IsVerified:   true,
		})
		if err != nil {
			return nil, "", fmt.Errorf("create user: %w", err)
		}
	}

	if user.IsBlocked {
		return nil, "", ErrAccountBlocked
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh cookie for fresh tokens. The
// token signature alone is not enough: the session cache entry must
// still exist, which is what logout and block removal revoke.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*AuthResponse, string, error) {
	userID, err := s.jwt.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, "", err
	}

	user, ok, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("get session: %w", err)
	}
	if !ok {
		return nil, "", fmt.Errorf("refresh: session not found: %w", core.ErrTokenRevoked)
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) Logout(ctx context.Context, userID string) {
	s.sessions.Delete(ctx, userID)
}

// ForgotPassword starts the password reset challenge. The replacement
// password travels inside the signed challenge token and only lands
// in the account once the emailed code is redeemed.
func (s *Service) ForgotPassword(
	ctx context.Context,
	req ForgotPasswordRequest,
) (*ChallengeResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("account")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	code, err := core.GenerateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	token, err := s.challenges.Create(PurposeForgot, map[string]string{
		"user_id":  user.ID,
		"password": req.NewPassword,
	}, code)
	if err != nil {
		return nil, fmt.Errorf("create challenge: %w", err)
	}

	err = s.mail.Send(
		ctx,
		user.Email,
		"Reset your password",
		mailer.TemplateForgotPassword,
		map[string]any{"Name": user.Name, "Code": code},
	)
	if err != nil {
		return nil, fmt.Errorf("send reset mail: %w", err)
	}

	return &ChallengeResponse{Token: token}, nil
}

// ConfirmChangedPassword redeems the reset challenge, installs the
// new password hash and revokes the live session so every device has
// to sign in again.
func (s *Service) ConfirmChangedPassword(
	ctx context.Context,
	req ConfirmPasswordRequest,
) error {
	payload, err := s.challenges.Redeem(PurposeForgot, req.Token, req.Code)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, payload["user_id"])
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	passwordHash, err := core.HashPassword(payload["password"])
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.sessions.Delete(ctx, user.ID)

	err = s.mail.Send(
		ctx,
		user.Email,
		"Your password was changed",
		mailer.TemplateUpdatePassword,
		map[string]any{"Name": user.Name},
	)
	if err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}

	return nil
}

func (s *Service) issueTokens(
	ctx context.Context,
	user *UserInfo,
) (*AuthResponse, string, error) {
	accessToken, err := s.jwt.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("create access token: %w", err)
	}

	refreshToken, err := s.jwt.CreateRefreshToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("create refresh token: %w", err)
	}

	s.sessions.Set(ctx, user)

	expire := s.jwtConfig.AccessTokenExpire

	return &AuthResponse{
		User: toUserResponse(user),
		Tokens: TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   int(expire / time.Second),
			ExpiresAt:   time.Now().Add(expire),
		},
	}, refreshToken, nil
}
