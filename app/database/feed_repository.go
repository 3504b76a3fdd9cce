package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// FeedRepository handles feed rows. Methods take an explicit Querier so they
// run inside whatever transaction scope the caller controls.
type FeedRepository struct{}

func (FeedRepository) GetByID(ctx context.Context, q Querier, id int64) (*Feed, error) {
	var feed Feed
	err := q.GetContext(ctx, &feed, `SELECT * FROM feeds WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	return &feed, nil
}

// GetByFeedLink looks a feed up by its canonical fetch URL, the identity key
// for deduplication.
func (FeedRepository) GetByFeedLink(ctx context.Context, q Querier, feedLink string) (*Feed, error) {
	var feed Feed
	err := q.GetContext(ctx, &feed, `SELECT * FROM feeds WHERE feed_link = $1`, feedLink)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed by link: %w", err)
	}
	return &feed, nil
}

func (FeedRepository) List(ctx context.Context, q Querier) ([]Feed, error) {
	var feeds []Feed
	if err := q.SelectContext(ctx, &feeds, `SELECT * FROM feeds ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	return feeds, nil
}

// Insert stores a new feed. When another writer already owns the feed_link no
// row is written and 0 is returned so the caller can re-read the winner; the
// unique constraint, not the preceding existence check, is what makes
// concurrent creation safe.
func (FeedRepository) Insert(ctx context.Context, q Querier, feed Feed) (int64, error) {
	var id int64
	err := q.QueryRowxContext(ctx, `
		INSERT INTO feeds (title, site_link, feed_link)
		VALUES ($1, $2, $3)
		ON CONFLICT (feed_link) DO NOTHING
		RETURNING id
	`, feed.Title, feed.SiteLink, feed.FeedLink).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert feed: %w", err)
	}
	return id, nil
}
