package app

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/tapcard/story-engine/internal/cleaner"
	_ "github.com/tapcard/story-engine/internal/migrations"
	"github.com/tapcard/story-engine/internal/player"
	repositories "github.com/tapcard/story-engine/internal/repositories/fx"
	"github.com/tapcard/story-engine/internal/server"
	"github.com/tapcard/story-engine/pkg/config"
	"github.com/tapcard/story-engine/pkg/logger"
	"github.com/tapcard/story-engine/pkg/pgx"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		cleaner.New,
		server.New,
	),
	repositories.Module,
	player.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

// migrate applies pending goose migrations before the rest of the graph
// starts serving.
func migrate(c *config.Config) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", c.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	return goose.Up(db, filepath.Join(wd, "internal", "migrations"))
}

func run(lc fx.Lifecycle, log logger.Logger, cl *cleaner.Cleaner, _ *server.Server) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := cl.Schedule(ctx); err != nil {
				log.Error("Failed to schedule story cleanup", "error", err)
				return err
			}
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
