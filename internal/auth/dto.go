// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type VerificationRequest struct {
	Token string `json:"token" validate:"required"`
	Code  string `json:"code"  validate:"required,len=6,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type SocialAuthRequest struct {
	Name   string        `json:"name"   validate:"required,min=1,max=100"`
	Email  string        `json:"email"  validate:"required,email,max=255"`
	Avatar storage.Image `json:"avatar"`
}

type ForgotPasswordRequest struct {
	Email       string `json:"email"        validate:"required,email,max=255"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

type ConfirmPasswordRequest struct {
	Token string `json:"token" validate:"required"`
	Code  string `json:"code"  validate:"required,len=6,numeric"`
}

// ChallengeResponse hands the signed challenge token back to the
// client, which must return it together with the emailed code.
type ChallengeResponse struct {
	Token string `json:"token"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type UserResponse struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone,omitempty"`
	Gender     string        `json:"gender,omitempty"`
	Role       string        `json:"role"`
	IsVerified bool          `json:"is_verified"`
	Love       []string      `json:"love"`
	Avatar     storage.Image `json:"avatar"`
	CreatedAt  time.Time     `json:"created_at"`
}

type AuthResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Gender:     u.Gender,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		Love:       u.Love,
		Avatar:     u.Avatar,
		CreatedAt:  u.CreatedAt,
	}
}
