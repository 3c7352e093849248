package story

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tapcard/story-engine/internal/domain"
	"github.com/tapcard/story-engine/internal/repository"
	apperrors "github.com/tapcard/story-engine/pkg/errors"
	"github.com/tapcard/story-engine/pkg/logger"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger,
	}
}

var _ Repository = (*PgxRepository)(nil)

var storyColumns = []string{
	"id", "card_id", "content_type", "image_url", "video_url",
	"text_content", "text_background_color", "is_active", "view_count",
	"created_at", "expires_at",
}

func scanStory(row pgx.Row) (*domain.StoryItem, error) {
	var (
		item        domain.StoryItem
		contentType string
	)
	err := row.Scan(
		&item.ID,
		&item.CardID,
		&contentType,
		&item.ImageURL,
		&item.VideoURL,
		&item.TextContent,
		&item.TextBackgroundColor,
		&item.IsActive,
		&item.ViewCount,
		&item.CreatedAt,
		&item.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	item.ContentType, err = domain.ParseContentType(contentType)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse story row")
	}
	return &item, nil
}

// ListActiveByCard returns the playable stories for a card: active,
// not yet expired, newest first, capped at limit.
func (r *PgxRepository) ListActiveByCard(ctx context.Context, cardID string, limit int) ([]domain.StoryItem, error) {
	query, args, err := repository.SqBuilder.
		Select(storyColumns...).
		From("stories").
		Where(sq.Eq{"card_id": cardID, "is_active": true}).
		Where(sq.Expr("expires_at > now()")).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, repository.ErrBadQuery
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories for card %s: %w", cardID, err)
	}
	defer rows.Close()

	var items []domain.StoryItem
	for rows.Next() {
		item, err := scanStory(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan story row")
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating story rows")
	}

	return items, nil
}

// IncrementViews bumps the server-authoritative view counter. The update is
// a single atomic statement, concurrent scans may increment freely.
func (r *PgxRepository) IncrementViews(ctx context.Context, id string) error {
	query, args, err := repository.SqBuilder.
		Update("stories").
		Set("view_count", sq.Expr("view_count + 1")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repository.ErrBadQuery
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to increment views for story %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgxRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query, args, err := repository.SqBuilder.
		Delete("stories").
		Where(sq.Expr("expires_at <= now()")).
		ToSql()
	if err != nil {
		return 0, repository.ErrBadQuery
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired stories")
	}
	return tag.RowsAffected(), nil
}
