package player

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/tapcard/story-engine/internal/repositories/story"
	apperrors "github.com/tapcard/story-engine/pkg/errors"
	"github.com/tapcard/story-engine/pkg/logger"
)

// Recorder is the effect boundary for view accounting, kept small so the
// session state machine can be tested with a fake.
type Recorder interface {
	Record(storyID string)
}

const (
	accountantPoolSize = 4
	accountantTimeout  = 5 * time.Second
)

// Accountant performs view-count increments on a worker pool. Accounting is
// advisory: failures are logged, never retried, never surfaced.
type Accountant struct {
	repo    story.Repository
	logger  logger.Logger
	pool    *ants.Pool
	timeout time.Duration
}

func NewAccountant(repo story.Repository, log logger.Logger) (*Accountant, error) {
	pool, err := ants.NewPool(accountantPoolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create accountant pool: %w", err)
	}

	return &Accountant{
		repo:    repo,
		logger:  log,
		pool:    pool,
		timeout: accountantTimeout,
	}, nil
}

var _ Recorder = (*Accountant)(nil)

// Record fires a best-effort increment for the story. Never blocks the
// caller; a saturated pool drops the view instead of stalling playback.
func (a *Accountant) Record(storyID string) {
	err := a.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		if err := a.repo.IncrementViews(ctx, storyID); err != nil {
			if apperrors.IsNotFound(err) {
				// Story deleted mid-session; nothing worth alerting on.
				a.logger.Debug("View for a story that no longer exists", "story_id", storyID)
				return
			}
			a.logger.Warn("Failed to record story view", "story_id", storyID, "error", err)
		}
	})
	if err != nil {
		a.logger.Warn("View accounting task dropped", "story_id", storyID, "error", err)
	}
}

// Close releases the worker pool. Pending tasks are abandoned.
func (a *Accountant) Close() {
	a.pool.Release()
}
