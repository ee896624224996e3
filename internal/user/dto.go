// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

type UpdateMeRequest struct {
	Name   *string `json:"name,omitempty"   validate:"omitempty,min=1,max=100"`
	Phone  *string `json:"phone,omitempty"  validate:"omitempty,max=30"`
	Gender *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128"`
}

type UpdateEmailRequest struct {
	NewEmail string `json:"new_email" validate:"required,email,max=255"`
}

type ConfirmEmailRequest struct {
	Token string `json:"token" validate:"required"`
	Code  string `json:"code"  validate:"required,len=6,numeric"`
}

type ConfirmDeleteRequest struct {
	Token string `json:"token" validate:"required"`
	Code  string `json:"code"  validate:"required,len=6,numeric"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin master"`
}

type ChallengeResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone,omitempty"`
	Gender     string        `json:"gender,omitempty"`
	Role       string        `json:"role"`
	IsVerified bool          `json:"is_verified"`
	IsBlocked  bool          `json:"is_blocked"`
	BlockCount int           `json:"block_count"`
	Love       []string      `json:"love"`
	Avatar     storage.Image `json:"avatar"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Gender:     u.Gender,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		IsBlocked:  u.IsBlocked,
		BlockCount: u.BlockCount,
		Love:       u.Love,
		Avatar:     u.Avatar.Val,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
