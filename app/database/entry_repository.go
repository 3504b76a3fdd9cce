package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// EntryRepository handles stored entries.
type EntryRepository struct{}

func (EntryRepository) GetByID(ctx context.Context, q Querier, id int64) (*Entry, error) {
	var entry Entry
	err := q.GetContext(ctx, &entry, `SELECT * FROM entries WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return &entry, nil
}

// ListByFeed returns a feed's entries in insertion order, which preserves the
// source document order of the original parse.
func (EntryRepository) ListByFeed(ctx context.Context, q Querier, feedID int64) ([]Entry, error) {
	var entries []Entry
	err := q.SelectContext(ctx, &entries, `SELECT * FROM entries WHERE feed_id = $1 ORDER BY id`, feedID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// InsertBatch stores all entries for one feed in a single statement.
func (EntryRepository) InsertBatch(ctx context.Context, q Querier, feedID int64, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := lo.Map(entries, func(e Entry, _ int) Entry {
		e.FeedID = feedID
		return e
	})

	_, err := q.NamedExecContext(ctx, `
		INSERT INTO entries (feed_id, title, link, summary, content, published)
		VALUES (:feed_id, :title, :link, :summary, :content, :published)
	`, rows)
	if err != nil {
		return fmt.Errorf("failed to insert entries: %w", err)
	}
	return nil
}
