// Package cleaner removes expired story rows so the feed query and the
// storage bill stay small.
package cleaner

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/tapcard/story-engine/internal/repositories/story"
	"github.com/tapcard/story-engine/pkg/logger"
	"github.com/tapcard/story-engine/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	StoryRepo story.Repository
	Logger    logger.Logger
}

type Cleaner struct {
	StoryRepo story.Repository
	Logger    logger.Logger
}

func New(opts Opts) *Cleaner {
	return &Cleaner{
		StoryRepo: opts.StoryRepo,
		Logger:    opts.Logger,
	}
}

// Schedule sets up a daily job that deletes expired stories at 3:00 AM.
func (c *Cleaner) Schedule(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)), // At 3:00 AM
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				c.Logger.Info("Context cancelled, stopping story cleanup job")
				return
			}

			c.Logger.Info("Starting scheduled story cleanup job")

			cleanupCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			var rowsDeleted int64
			err := retry.Do(cleanupCtx, c.Logger, "delete expired stories", func() error {
				var err error
				rowsDeleted, err = c.StoryRepo.DeleteExpired(cleanupCtx)
				return err
			}, retry.DefaultConfig())
			if err != nil {
				c.Logger.Error("Failed to delete expired stories", "error", err)
				return
			}

			c.Logger.Info("Story cleanup completed successfully", "rows_deleted", rowsDeleted)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule story cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		c.Logger.Info("Stopping story cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			c.Logger.Error("Failed to shut down cleanup scheduler", "error", err)
		}
	}()

	return nil
}
