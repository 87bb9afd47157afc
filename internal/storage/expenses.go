package storage

import (
	"context"
	"fmt"
	"time"

	"traveleo/internal/core"
)

type CreateExpenseParams struct {
	UserID      int64
	TripID      int64
	CategoryID  int64
	Amount      core.Money
	Description *string
	ExpenseDate core.Date
	CreatedAt   time.Time
}

const createExpense = `INSERT INTO expenses (user_id, trip_id, category_id, amount_cents, description, expense_date, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id`

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (core.Expense, error) {
	createdAt := arg.CreatedAt.UTC()
	id, err := q.insertReturningID(ctx, createExpense,
		arg.UserID, arg.TripID, arg.CategoryID, arg.Amount, arg.Description, arg.ExpenseDate, createdAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return core.Expense{
		ID:          id,
		UserID:      arg.UserID,
		TripID:      arg.TripID,
		CategoryID:  arg.CategoryID,
		Amount:      arg.Amount,
		Description: arg.Description,
		ExpenseDate: arg.ExpenseDate,
		CreatedAt:   createdAt,
	}, nil
}

// ListExpensesForTrip returns the trip's expenses with category names, most
// recent expense date first.
func (q *Queries) ListExpensesForTrip(ctx context.Context, userID, tripID int64) ([]core.ExpenseLine, error) {
	lines := []core.ExpenseLine{}
	err := q.selectAll(ctx, &lines, `SELECT e.id, e.amount_cents, e.description, e.expense_date, c.name AS category
FROM expenses e
JOIN categories c ON c.id = e.category_id
WHERE e.trip_id = ? AND e.user_id = ?
ORDER BY e.expense_date DESC, e.id DESC`, tripID, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return lines, nil
}

func (q *Queries) DeleteExpensesForTrip(ctx context.Context, userID, tripID int64) (int64, error) {
	n, err := q.exec(ctx, `DELETE FROM expenses WHERE trip_id = ? AND user_id = ?`, tripID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete expenses: %w", err)
	}
	return n, nil
}

// TotalSpent sums the trip's expenses; zero when there are none.
func (q *Queries) TotalSpent(ctx context.Context, userID, tripID int64) (core.Money, error) {
	var total core.Money
	err := q.get(ctx, &total, `SELECT CAST(COALESCE(SUM(amount_cents), 0) AS BIGINT)
FROM expenses
WHERE trip_id = ? AND user_id = ?`, tripID, userID)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}

// SpendByCategory aggregates the trip's expenses per category name, highest
// spend first.
func (q *Queries) SpendByCategory(ctx context.Context, userID, tripID int64) ([]core.CategorySpend, error) {
	rows := []core.CategorySpend{}
	err := q.selectAll(ctx, &rows, `SELECT c.name AS category, CAST(SUM(e.amount_cents) AS BIGINT) AS total_spent
FROM expenses e
JOIN categories c ON c.id = e.category_id
WHERE e.trip_id = ? AND e.user_id = ?
GROUP BY c.name
ORDER BY total_spent DESC, c.name`, tripID, userID)
	if err != nil {
		return nil, fmt.Errorf("spend by category: %w", err)
	}
	return rows, nil
}
