// AngelaMos | 2026
// sweeper.go

package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/carterperez-dev/bazaar-api/internal/config"
)

// Sweeper periodically purges read notifications older than the
// retention window. A failed sweep is logged and retried on the next
// tick; it never takes the process down.
type Sweeper struct {
	repo      Repository
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger
	done      chan struct{}
}

func NewSweeper(
	repo Repository,
	cfg config.SweepConfig,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		repo:      repo,
		interval:  cfg.Interval,
		retention: cfg.Retention,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start runs the sweep loop until ctx is canceled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

// Wait blocks until the loop has exited after cancellation.
func (s *Sweeper) Wait() {
	<-s.done
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)

	deleted, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("notification sweep failed", "error", err)
		return
	}

	if deleted > 0 {
		s.logger.Info("notification sweep completed", "deleted", deleted)
	}
}
