// AngelaMos | 2026
// repository.go

package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/bazaar-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	List(ctx context.Context) ([]Notification, error)
	MarkRead(ctx context.Context, id string) (*Notification, error)
	MarkAllRead(ctx context.Context) error
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	notification *Notification,
) error {
	query := `
		INSERT INTO notifications (id, title, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, notification, query,
		notification.ID,
		notification.Title,
		notification.Message,
		notification.Status,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func (r *repository) List(ctx context.Context) ([]Notification, error) {
	query := `
		SELECT id, title, message, status, created_at, updated_at
		FROM notifications
		ORDER BY created_at DESC`

	var notifications []Notification
	if err := r.db.SelectContext(ctx, &notifications, query); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}

func (r *repository) MarkRead(
	ctx context.Context,
	id string,
) (*Notification, error) {
	query := `
		UPDATE notifications
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, message, status, created_at, updated_at`

	var notification Notification
	err := r.db.GetContext(ctx, &notification, query, id, StatusRead)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mark notification read: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}

	return &notification, nil
}

func (r *repository) MarkAllRead(ctx context.Context) error {
	query := `
		UPDATE notifications
		SET status = $1, updated_at = NOW()
		WHERE status = $2`

	_, err := r.db.ExecContext(ctx, query, StatusRead, StatusUnread)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}

	return nil
}

// DeleteReadBefore purges read notifications older than cutoff and
// reports how many went.
func (r *repository) DeleteReadBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	query := `
		DELETE FROM notifications
		WHERE status = $1 AND created_at < $2`

	result, err := r.db.ExecContext(ctx, query, StatusRead, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete read notifications: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete read notifications: %w", err)
	}

	return rows, nil
}
