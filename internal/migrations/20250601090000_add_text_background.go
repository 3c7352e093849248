package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddTextBackground, downAddTextBackground)
}

func upAddTextBackground(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	ALTER TABLE stories ADD COLUMN text_background_color VARCHAR NOT NULL DEFAULT '';
	CREATE INDEX stories_card_feed_idx ON stories (card_id, created_at DESC) WHERE is_active;
	`)
	if err != nil {
		return err
	}
	return nil
}

func downAddTextBackground(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP INDEX stories_card_feed_idx;
	ALTER TABLE stories DROP COLUMN text_background_color;
	`)
	if err != nil {
		return err
	}
	return nil
}
