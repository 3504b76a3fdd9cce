package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UserRepository handles user rows.
type UserRepository struct{}

func (UserRepository) GetByID(ctx context.Context, q Querier, id int64) (*User, error) {
	var user User
	err := q.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (UserRepository) GetByEmail(ctx context.Context, q Querier, email string) (*User, error) {
	var user User
	err := q.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (UserRepository) List(ctx context.Context, q Querier) ([]User, error) {
	var users []User
	if err := q.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Insert creates a user, returning 0 when the email is already taken.
func (UserRepository) Insert(ctx context.Context, q Querier, email string) (int64, error) {
	var id int64
	err := q.QueryRowxContext(ctx, `
		INSERT INTO users (email)
		VALUES ($1)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`, email).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}
