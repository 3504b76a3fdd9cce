package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// UserEntryRepository handles per-user read markers.
type UserEntryRepository struct{}

func (UserEntryRepository) GetByID(ctx context.Context, q Querier, id int64) (*UserEntry, error) {
	var ue UserEntry
	err := q.GetContext(ctx, &ue, `SELECT * FROM user_entries WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user entry: %w", err)
	}
	return &ue, nil
}

func (UserEntryRepository) ListBySubscription(ctx context.Context, q Querier, subscriptionID int64) ([]UserEntry, error) {
	var ues []UserEntry
	err := q.SelectContext(ctx, &ues, `SELECT * FROM user_entries WHERE subscription_id = $1 ORDER BY id`, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user entries: %w", err)
	}
	return ues, nil
}

// InsertBatch creates one unread marker per entry for a fresh subscription.
func (UserEntryRepository) InsertBatch(ctx context.Context, q Querier, userID, subscriptionID int64, entryIDs []int64) error {
	if len(entryIDs) == 0 {
		return nil
	}

	rows := lo.Map(entryIDs, func(entryID int64, _ int) UserEntry {
		return UserEntry{
			UserID:         userID,
			SubscriptionID: subscriptionID,
			EntryID:        entryID,
		}
	})

	_, err := q.NamedExecContext(ctx, `
		INSERT INTO user_entries (user_id, subscription_id, entry_id, read)
		VALUES (:user_id, :subscription_id, :entry_id, :read)
	`, rows)
	if err != nil {
		return fmt.Errorf("failed to insert user entries: %w", err)
	}
	return nil
}

// MarkRead flips the read flag on the marker matching both id and userID.
// Matching on both keeps one user from mutating another's read state; a
// mismatch is a plain no-match, not an error.
func (UserEntryRepository) MarkRead(ctx context.Context, q Querier, id, userID int64) (*UserEntry, error) {
	var ue UserEntry
	err := q.QueryRowxContext(ctx, `
		UPDATE user_entries
		SET read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, subscription_id, entry_id, read
	`, id, userID).StructScan(&ue)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark user entry read: %w", err)
	}
	return &ue, nil
}
