// Package server exposes the small HTTP surface around the playback
// engine: the story feed for a card, the advisory view endpoint and the
// reply deep link.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tapcard/story-engine/internal/player"
	"github.com/tapcard/story-engine/internal/ratelimit"
	"github.com/tapcard/story-engine/internal/repositories/story"
	"github.com/tapcard/story-engine/pkg/config"
	"github.com/tapcard/story-engine/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In
	LC fx.Lifecycle

	Config     *config.Config
	Logger     logger.Logger
	StoryRepo  story.Repository
	Accountant *player.Accountant
}

type Server struct {
	cfg        *config.Config
	logger     logger.Logger
	storyRepo  story.Repository
	accountant *player.Accountant
	limiter    ratelimit.Limiter
}

// New builds the router and hooks the http server into the fx lifecycle.
func New(opts Opts) *Server {
	s := &Server{
		cfg:        opts.Config,
		logger:     opts.Logger,
		storyRepo:  opts.StoryRepo,
		accountant: opts.Accountant,
		limiter:    ratelimit.NewInMemoryLimiter(1, 2*time.Second, 5),
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				s.logger.Info("Starting http server", "addr", httpServer.Addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.logger.Error("Http server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	})

	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/cards/{cardID}/stories", s.handleCardStories)
		r.Get("/cards/{cardID}/reply-link", s.handleReplyLink)
		r.Post("/stories/{storyID}/view", s.handleStoryView)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}
