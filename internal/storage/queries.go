package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Queries runs statements against a pool or a transaction. Statements are
// written with ? placeholders and rebound for the active driver.
type Queries struct {
	db sqlx.ExtContext
}

func New(db sqlx.ExtContext) *Queries {
	return &Queries{db: db}
}

func (q *Queries) get(ctx context.Context, dest any, query string, args ...any) error {
	err := sqlx.GetContext(ctx, q.db, dest, q.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (q *Queries) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, q.db, dest, q.db.Rebind(query), args...)
}

func (q *Queries) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := q.db.ExecContext(ctx, q.db.Rebind(query), args...)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected()
}

// insertReturningID runs an INSERT ... RETURNING id.
func (q *Queries) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := q.db.QueryRowxContext(ctx, q.db.Rebind(query), args...).Scan(&id); err != nil {
		return 0, mapError(err)
	}
	return id, nil
}
