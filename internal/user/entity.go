// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/lib/pq"

	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

type User struct {
	ID           string                         `db:"id"`
	Name         string                         `db:"name"`
	Email        string                         `db:"email"`
	PasswordHash string                         `db:"password_hash"`
	Phone        string                         `db:"phone"`
	Gender       string                         `db:"gender"`
	Role         string                         `db:"role"`
	IsVerified   bool                           `db:"is_verified"`
	IsBlocked    bool                           `db:"is_blocked"`
	BlockCount   int                            `db:"block_count"`
	Love         pq.StringArray                 `db:"love"`
	Avatar       core.JSONColumn[storage.Image] `db:"avatar"`
	CreatedAt    time.Time                      `db:"created_at"`
	UpdatedAt    time.Time                      `db:"updated_at"`
}

func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleMaster
}
