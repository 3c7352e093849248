package story

import (
	"context"

	"github.com/tapcard/story-engine/internal/domain"
	apperrors "github.com/tapcard/story-engine/pkg/errors"
)

var ErrNotFound = apperrors.Wrap(apperrors.ErrNotFound, "story not found")

//go:generate go run go.uber.org/mock/mockgen -source=story.go -destination=mocks/mock.go

// Repository is the narrow persistence contract the playback engine needs:
// one filtered read and one advisory counter write. DeleteExpired serves the
// housekeeping job, not the engine.
type Repository interface {
	ListActiveByCard(ctx context.Context, cardID string, limit int) ([]domain.StoryItem, error)
	IncrementViews(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
