// AngelaMos | 2026
// session.go

package auth

import (
	"context"
	"time"

	"github.com/carterperez-dev/bazaar-api/internal/cache"
	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

// UserInfo is the account record as the auth layer and the session
// cache see it. PasswordHash never leaves the process.
type UserInfo struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Phone        string        `json:"phone,omitempty"`
	Gender       string        `json:"gender,omitempty"`
	Role         string        `json:"role"`
	IsVerified   bool          `json:"is_verified"`
	IsBlocked    bool          `json:"is_blocked"`
	BlockCount   int           `json:"block_count"`
	Love         []string      `json:"love"`
	Avatar       storage.Image `json:"avatar"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// UserProvider is the account store the auth service depends on.
// The user package implements it over Postgres.
type UserProvider interface {
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, params CreateUserParams) (*UserInfo, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// CreateUserParams carries everything needed to provision a verified
// account at redemption time.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	Avatar       storage.Image
	IsVerified   bool
}

// SessionStore caches the serialized account under its user ID. A
// refresh is only honored while this entry exists, so deleting it is
// how a logout or a block takes effect before the refresh cookie
// expires.
type SessionStore struct {
	store *cache.Store[UserInfo]
}

func NewSessionStore(c *cache.Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{
		store: cache.NewStore(c, cache.WithTTL[UserInfo](ttl)),
	}
}

func sessionKey(userID string) string {
	return "session:" + userID
}

func (s *SessionStore) Get(
	ctx context.Context,
	userID string,
) (*UserInfo, bool, error) {
	return s.store.GetOne(ctx, sessionKey(userID))
}

// Set writes through. Failures are logged, not surfaced, so a cache
// outage degrades to a forced re-login rather than a hard error.
func (s *SessionStore) Set(ctx context.Context, user *UserInfo) {
	s.store.WriteThrough(ctx, sessionKey(user.ID), user)
}

func (s *SessionStore) Delete(ctx context.Context, userID string) {
	s.store.Invalidate(ctx, sessionKey(userID))
}
