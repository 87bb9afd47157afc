package storage

import (
	"context"
	"fmt"
	"time"

	"traveleo/internal/core"
)

type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

const createUser = `INSERT INTO users (name, email, password, created_at)
VALUES (?, ?, ?, ?)
RETURNING id`

// CreateUser inserts a user. A taken email yields ErrDuplicate.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (core.User, error) {
	createdAt := arg.CreatedAt.UTC()
	id, err := q.insertReturningID(ctx, createUser, arg.Name, arg.Email, arg.PasswordHash, createdAt)
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	return core.User{
		ID:           id,
		Name:         arg.Name,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		CreatedAt:    createdAt,
	}, nil
}

const userColumns = `id, name, email, password, created_at`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	var u core.User
	err := q.get(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return u, err
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	var u core.User
	err := q.get(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return u, err
}

// ListUsers returns every user without password digests.
func (q *Queries) ListUsers(ctx context.Context) ([]core.User, error) {
	users := []core.User{}
	if err := q.selectAll(ctx, &users, `SELECT id, name, email, created_at FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
