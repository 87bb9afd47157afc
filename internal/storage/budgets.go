package storage

import (
	"context"
	"fmt"
	"time"

	"traveleo/internal/core"
)

type BudgetParams struct {
	UserID      int64
	TripID      int64
	TotalBudget core.Money
	CreatedAt   time.Time
}

const budgetColumns = `id, user_id, trip_id, total_budget_cents, created_at`

// CreateBudget inserts the budget of a new trip. A second budget for the same
// trip yields ErrDuplicate.
func (q *Queries) CreateBudget(ctx context.Context, arg BudgetParams) (core.Budget, error) {
	createdAt := arg.CreatedAt.UTC()
	id, err := q.insertReturningID(ctx, `INSERT INTO budgets (user_id, trip_id, total_budget_cents, created_at)
VALUES (?, ?, ?, ?)
RETURNING id`, arg.UserID, arg.TripID, arg.TotalBudget, createdAt)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	return core.Budget{
		ID:          id,
		UserID:      arg.UserID,
		TripID:      arg.TripID,
		TotalBudget: arg.TotalBudget,
		CreatedAt:   createdAt,
	}, nil
}

// UpsertBudget sets the trip's budget, overwriting any existing amount. The
// unique trip_id constraint guarantees one row per trip.
func (q *Queries) UpsertBudget(ctx context.Context, arg BudgetParams) (core.Budget, error) {
	_, err := q.exec(ctx, `INSERT INTO budgets (user_id, trip_id, total_budget_cents, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (trip_id) DO UPDATE SET total_budget_cents = EXCLUDED.total_budget_cents`,
		arg.UserID, arg.TripID, arg.TotalBudget, arg.CreatedAt.UTC())
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}
	return q.GetBudget(ctx, arg.UserID, arg.TripID)
}

func (q *Queries) GetBudget(ctx context.Context, userID, tripID int64) (core.Budget, error) {
	var b core.Budget
	err := q.get(ctx, &b, `SELECT `+budgetColumns+` FROM budgets WHERE trip_id = ? AND user_id = ?`, tripID, userID)
	return b, err
}

func (q *Queries) DeleteBudgetForTrip(ctx context.Context, userID, tripID int64) (int64, error) {
	n, err := q.exec(ctx, `DELETE FROM budgets WHERE trip_id = ? AND user_id = ?`, tripID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete budget: %w", err)
	}
	return n, nil
}
