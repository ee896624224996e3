// AngelaMos | 2026
// sweeper_test.go

package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/carterperez-dev/bazaar-api/internal/config"
)

type fakeRepository struct {
	Repository

	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (f *fakeRepository) DeleteReadBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.err != nil {
		return 0, f.err
	}
	return 2, nil
}

func (f *fakeRepository) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweeperPurgesOnTick(t *testing.T) {
	repo := &fakeRepository{}
	sweeper := NewSweeper(repo, config.SweepConfig{
		Interval:  5 * time.Millisecond,
		Retention: 7 * 24 * time.Hour,
	}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)

	deadline := time.After(2 * time.Second)
	for repo.calls() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper never ticked")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	sweeper.Wait()

	repo.mu.Lock()
	cutoff := repo.cutoffs[0]
	repo.mu.Unlock()

	wantAround := time.Now().Add(-7 * 24 * time.Hour)
	if diff := cutoff.Sub(wantAround); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff %v not near retention boundary %v", cutoff, wantAround)
	}
}

func TestSweeperSurvivesRepositoryError(t *testing.T) {
	repo := &fakeRepository{err: errors.New("db down")}
	sweeper := NewSweeper(repo, config.SweepConfig{
		Interval:  5 * time.Millisecond,
		Retention: time.Hour,
	}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)

	deadline := time.After(2 * time.Second)
	for repo.calls() < 3 {
		select {
		case <-deadline:
			t.Fatal("sweeper stopped ticking after an error")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	sweeper.Wait()
}

func TestSweeperWaitReturnsAfterCancel(t *testing.T) {
	repo := &fakeRepository{}
	sweeper := NewSweeper(repo, config.SweepConfig{
		Interval:  time.Hour,
		Retention: time.Hour,
	}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		sweeper.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}
