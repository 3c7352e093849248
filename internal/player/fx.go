package player

import (
	"context"

	"github.com/tapcard/story-engine/internal/repositories/story"
	"github.com/tapcard/story-engine/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	func(lc fx.Lifecycle, repo story.Repository, log logger.Logger) (*Accountant, error) {
		acc, err := NewAccountant(repo, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				acc.Close()
				return nil
			},
		})
		return acc, nil
	},
)
