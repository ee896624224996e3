// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

const userColumns = `id, name, email, password_hash, phone, gender, role,
	is_verified, is_blocked, block_count, love, avatar,
	created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id string, avatar storage.Image) error
	UpdateRole(ctx context.Context, id, role string) error
	SetBlocked(ctx context.Context, id string, blocked bool) error
	Delete(ctx context.Context, id string) error
	AddLove(ctx context.Context, id, productID string) ([]string, error)
	RemoveLove(ctx context.Context, id, productID string) ([]string, error)
	List(
		ctx context.Context,
		viewerRole string,
		params ListUsersParams,
	) ([]User, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, phone, gender,
		                   role, is_verified, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Gender,
		user.Role,
		user.IsVerified,
		user.Avatar,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE id = $1`,
		userColumns,
	)

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE email = $1`,
		userColumns,
	)

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

func (r *repository) UpdateProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, phone = $3, gender = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Name,
		user.Phone,
		user.Gender,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

func (r *repository) UpdateEmail(ctx context.Context, id, email string) error {
	query := `
		UPDATE users
		SET email = $2, updated_at = NOW()
		WHERE id = $1`

	if err := r.execOne(ctx, "update email", query, id, email); err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update email: %w", core.ErrDuplicateKey)
		}
		return err
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

func (r *repository) UpdateAvatar(
	ctx context.Context,
	id string,
	avatar storage.Image,
) error {
	query := `
		UPDATE users
		SET avatar = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(
		ctx,
		"update avatar",
		query,
		id,
		core.NewJSONColumn(avatar),
	)
}

func (r *repository) UpdateRole(ctx context.Context, id, role string) error {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update role", query, id, role)
}

// SetBlocked flips the block flag. Every new block bumps block_count,
// unblocking leaves the count alone.
func (r *repository) SetBlocked(
	ctx context.Context,
	id string,
	blocked bool,
) error {
	query := `
		UPDATE users
		SET is_blocked = $2,
		    block_count = block_count + CASE WHEN $2 THEN 1 ELSE 0 END,
		    updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "set blocked", query, id, blocked)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

// AddLove appends productID to the love set. The guard in the WHERE
// clause makes the add atomic: zero rows means the product was
// already loved.
func (r *repository) AddLove(
	ctx context.Context,
	id, productID string,
) ([]string, error) {
	query := `
		UPDATE users
		SET love = array_append(love, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(love))
		RETURNING love`

	var love pq.StringArray
	err := r.db.GetContext(ctx, &love, query, id, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("add love: %w", core.ErrDuplicateKey)
	}
	if err != nil {
		return nil, fmt.Errorf("add love: %w", err)
	}

	return love, nil
}

func (r *repository) RemoveLove(
	ctx context.Context,
	id, productID string,
) ([]string, error) {
	query := `
		UPDATE users
		SET love = array_remove(love, $2), updated_at = NOW()
		WHERE id = $1 AND $2 = ANY(love)
		RETURNING love`

	var love pq.StringArray
	err := r.db.GetContext(ctx, &love, query, id, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("remove love: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("remove love: %w", err)
	}

	return love, nil
}

// List applies the visibility rules for staff browsing accounts: a
// master sees everyone, an admin never sees masters and only sees
// fellow admins when explicitly searching.
func (r *repository) List(
	ctx context.Context,
	viewerRole string,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if viewerRole != RoleMaster {
		conditions = append(conditions, fmt.Sprintf("role <> $%d", argIdx))
		args = append(args, RoleMaster)
		argIdx++

		if params.Search == "" {
			conditions = append(conditions, fmt.Sprintf("role <> $%d", argIdx))
			args = append(args, RoleAdmin)
			argIdx++
		}
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
