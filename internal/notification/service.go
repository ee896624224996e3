// AngelaMos | 2026
// service.go

package notification

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Notify records a staff notification. Other services call this after
// events worth surfacing on the dashboard.
func (s *Service) Notify(ctx context.Context, title, message string) error {
	notification := &Notification{
		ID:      uuid.New().String(),
		Title:   title,
		Message: message,
		Status:  StatusUnread,
	}

	return s.repo.Create(ctx, notification)
}

func (s *Service) List(ctx context.Context) ([]Notification, error) {
	return s.repo.List(ctx)
}

func (s *Service) MarkRead(
	ctx context.Context,
	id string,
) (*Notification, error) {
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}
