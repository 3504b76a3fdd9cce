package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SubscriptionRepository handles user-to-feed subscriptions.
type SubscriptionRepository struct{}

func (SubscriptionRepository) GetByID(ctx context.Context, q Querier, id int64) (*Subscription, error) {
	var sub Subscription
	err := q.GetContext(ctx, &sub, `SELECT * FROM subscriptions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

func (SubscriptionRepository) GetByUserAndFeed(ctx context.Context, q Querier, userID, feedID int64) (*Subscription, error) {
	var sub Subscription
	err := q.GetContext(ctx, &sub, `SELECT * FROM subscriptions WHERE user_id = $1 AND feed_id = $2`, userID, feedID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription by user and feed: %w", err)
	}
	return &sub, nil
}

func (SubscriptionRepository) List(ctx context.Context, q Querier) ([]Subscription, error) {
	var subs []Subscription
	if err := q.SelectContext(ctx, &subs, `SELECT * FROM subscriptions ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

// Insert creates a subscription, returning 0 when the (user_id, feed_id) pair
// already exists so the caller can re-read the existing row.
func (SubscriptionRepository) Insert(ctx context.Context, q Querier, userID, feedID int64, categoryID *int64) (int64, error) {
	var id int64
	err := q.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (user_id, feed_id, category_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, feed_id) DO NOTHING
		RETURNING id
	`, userID, feedID, categoryID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert subscription: %w", err)
	}
	return id, nil
}

func (SubscriptionRepository) Delete(ctx context.Context, q Querier, id int64) (bool, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}
	return affected > 0, nil
}
