package storage

import (
	"context"
	"fmt"
	"time"

	"traveleo/internal/core"
)

type CreateTripParams struct {
	UserID      int64
	Title       string
	Destination *string
	StartDate   core.Date
	EndDate     core.Date
	CreatedAt   time.Time
}

const createTrip = `INSERT INTO trips (user_id, title, destination, start_date, end_date, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id`

func (q *Queries) CreateTrip(ctx context.Context, arg CreateTripParams) (core.Trip, error) {
	createdAt := arg.CreatedAt.UTC()
	id, err := q.insertReturningID(ctx, createTrip,
		arg.UserID, arg.Title, arg.Destination, arg.StartDate, arg.EndDate, createdAt)
	if err != nil {
		return core.Trip{}, fmt.Errorf("insert trip: %w", err)
	}
	return core.Trip{
		ID:          id,
		UserID:      arg.UserID,
		Title:       arg.Title,
		Destination: arg.Destination,
		StartDate:   arg.StartDate,
		EndDate:     arg.EndDate,
		CreatedAt:   createdAt,
	}, nil
}

const tripWithBudgetColumns = `t.id, t.user_id, t.title, t.destination, t.start_date, t.end_date, t.created_at,
b.total_budget_cents`

// ListTrips returns the user's trips, newest first, with their budgets.
func (q *Queries) ListTrips(ctx context.Context, userID int64) ([]core.TripWithBudget, error) {
	trips := []core.TripWithBudget{}
	err := q.selectAll(ctx, &trips, `SELECT `+tripWithBudgetColumns+`
FROM trips t
LEFT JOIN budgets b ON b.trip_id = t.id
WHERE t.user_id = ?
ORDER BY t.created_at DESC, t.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}

// GetTrip returns one owned trip. TotalBudget is nil when no budget exists.
func (q *Queries) GetTrip(ctx context.Context, userID, tripID int64) (core.TripWithBudget, error) {
	var trip core.TripWithBudget
	err := q.get(ctx, &trip, `SELECT `+tripWithBudgetColumns+`
FROM trips t
LEFT JOIN budgets b ON b.trip_id = t.id
WHERE t.id = ? AND t.user_id = ?`, tripID, userID)
	return trip, err
}

func (q *Queries) TripExists(ctx context.Context, userID, tripID int64) (bool, error) {
	var n int
	if err := q.get(ctx, &n, `SELECT COUNT(*) FROM trips WHERE id = ? AND user_id = ?`, tripID, userID); err != nil {
		return false, fmt.Errorf("check trip: %w", err)
	}
	return n > 0, nil
}

// DeleteTrip deletes the trip row only and reports how many rows went away.
func (q *Queries) DeleteTrip(ctx context.Context, userID, tripID int64) (int64, error) {
	n, err := q.exec(ctx, `DELETE FROM trips WHERE id = ? AND user_id = ?`, tripID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete trip: %w", err)
	}
	return n, nil
}

// UpcomingTrip is a trip joined with its owner, used for reminder mails.
type UpcomingTrip struct {
	TripID      int64     `db:"trip_id"`
	Title       string    `db:"title"`
	Destination *string   `db:"destination"`
	StartDate   core.Date `db:"start_date"`
	EndDate     core.Date `db:"end_date"`
	UserName    string    `db:"user_name"`
	Email       string    `db:"email"`
}

// TripsStartingBetween returns trips of all users whose start date falls in
// [from, to], soonest first.
func (q *Queries) TripsStartingBetween(ctx context.Context, from, to core.Date) ([]UpcomingTrip, error) {
	trips := []UpcomingTrip{}
	err := q.selectAll(ctx, &trips, `SELECT t.id AS trip_id, t.title, t.destination, t.start_date, t.end_date,
u.name AS user_name, u.email
FROM trips t
JOIN users u ON u.id = t.user_id
WHERE t.start_date >= ? AND t.start_date <= ?
ORDER BY t.start_date, t.id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list upcoming trips: %w", err)
	}
	return trips, nil
}
