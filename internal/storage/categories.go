package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"traveleo/internal/core"
)

// CreateCategories inserts names for the user with a single multi-row INSERT.
// Callers run it inside the signup transaction.
func (q *Queries) CreateCategories(ctx context.Context, userID int64, names []string, createdAt time.Time) error {
	if len(names) == 0 {
		return nil
	}

	insert := sq.Insert("categories").Columns("user_id", "name", "created_at")
	for _, name := range names {
		insert = insert.Values(userID, name, createdAt.UTC())
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build category insert: %w", err)
	}

	if _, err := q.exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert categories: %w", err)
	}
	return nil
}

// CreateCategory inserts one category. A name the user already has yields
// ErrDuplicate.
func (q *Queries) CreateCategory(ctx context.Context, userID int64, name string, createdAt time.Time) (core.Category, error) {
	createdAt = createdAt.UTC()
	id, err := q.insertReturningID(ctx, `INSERT INTO categories (user_id, name, created_at)
VALUES (?, ?, ?)
RETURNING id`, userID, name, createdAt)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return core.Category{ID: id, UserID: userID, Name: name, CreatedAt: createdAt}, nil
}

// ListCategories returns the user's categories ordered by name.
func (q *Queries) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	categories := []core.Category{}
	err := q.selectAll(ctx, &categories, `SELECT id, user_id, name, created_at FROM categories
WHERE user_id = ?
ORDER BY name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns an owned category.
func (q *Queries) GetCategory(ctx context.Context, userID, categoryID int64) (core.Category, error) {
	var c core.Category
	err := q.get(ctx, &c, `SELECT id, user_id, name, created_at FROM categories WHERE id = ? AND user_id = ?`, categoryID, userID)
	return c, err
}
