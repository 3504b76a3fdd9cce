package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CategoryRepository handles user-owned categories.
type CategoryRepository struct{}

func (CategoryRepository) GetByID(ctx context.Context, q Querier, id int64) (*Category, error) {
	var category Category
	err := q.GetContext(ctx, &category, `SELECT * FROM categories WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (CategoryRepository) List(ctx context.Context, q Querier) ([]Category, error) {
	var categories []Category
	if err := q.SelectContext(ctx, &categories, `SELECT * FROM categories ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetOrCreate resolves the category named name for userID, creating it on
// first use. The (user_id, name) unique constraint settles concurrent
// creation; the loser of the race re-reads the winner's row.
func (CategoryRepository) GetOrCreate(ctx context.Context, q Querier, userID int64, name string) (int64, error) {
	var id int64
	err := q.QueryRowxContext(ctx, `
		INSERT INTO categories (user_id, name)
		VALUES ($1, $2)
		ON CONFLICT (user_id, name) DO NOTHING
		RETURNING id
	`, userID, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to insert category: %w", err)
	}

	err = q.GetContext(ctx, &id, `SELECT id FROM categories WHERE user_id = $1 AND name = $2`, userID, name)
	if err != nil {
		return 0, fmt.Errorf("failed to get category: %w", err)
	}
	return id, nil
}
