package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"traveleo/internal/core"
	applog "traveleo/internal/log"
	"traveleo/internal/storage"
)

// TripService creates trips together with their budget and deletes them
// with everything that hangs off them.
type TripService struct {
	store *storage.Store
	now   func() time.Time
}

func NewTripService(store *storage.Store) *TripService {
	return &TripService{store: store, now: time.Now}
}

// CreateTripWithBudget inserts the trip and its budget atomically.
func (s *TripService) CreateTripWithBudget(ctx context.Context, userID int64, in core.NewTrip) (core.TripWithBudget, error) {
	if err := in.Validate(); err != nil {
		return core.TripWithBudget{}, core.Validation(err)
	}

	now := s.now()
	var created core.TripWithBudget
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		trip, err := q.CreateTrip(ctx, storage.CreateTripParams{
			UserID:      userID,
			Title:       in.Title,
			Destination: in.Destination,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			CreatedAt:   now,
		})
		if err != nil {
			return err
		}
		budget, err := q.CreateBudget(ctx, storage.BudgetParams{
			UserID:      userID,
			TripID:      trip.ID,
			TotalBudget: in.TotalBudget,
			CreatedAt:   now,
		})
		if err != nil {
			return err
		}
		created = core.TripWithBudget{Trip: trip, TotalBudget: &budget.TotalBudget}
		return nil
	})
	if err != nil {
		return core.TripWithBudget{}, fmt.Errorf("create trip: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentTrip).InfoContext(ctx, "Trip created",
		applog.FieldUserID, userID,
		applog.FieldTripID, created.ID)
	return created, nil
}

func (s *TripService) ListTrips(ctx context.Context, userID int64) ([]core.TripWithBudget, error) {
	return s.store.ListTrips(ctx, userID)
}

func (s *TripService) GetTrip(ctx context.Context, userID, tripID int64) (core.TripWithBudget, error) {
	trip, err := s.store.GetTrip(ctx, userID, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		return core.TripWithBudget{}, core.NotFound(core.MsgTripNotFound)
	}
	if err != nil {
		return core.TripWithBudget{}, fmt.Errorf("get trip: %w", err)
	}
	return trip, nil
}

// DeleteTrip removes the trip's expenses, then its budget, then the trip. If
// the trip is missing or belongs to someone else nothing is deleted.
func (s *TripService) DeleteTrip(ctx context.Context, userID, tripID int64) error {
	var expenses int64
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		var err error
		if expenses, err = q.DeleteExpensesForTrip(ctx, userID, tripID); err != nil {
			return err
		}
		if _, err := q.DeleteBudgetForTrip(ctx, userID, tripID); err != nil {
			return err
		}
		n, err := q.DeleteTrip(ctx, userID, tripID)
		if err != nil {
			return err
		}
		if n == 0 {
			return core.NotFound(core.MsgTripNotFound)
		}
		return nil
	})
	if core.KindOf(err) == core.KindNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentTrip).InfoContext(ctx, "Trip deleted",
		applog.FieldUserID, userID,
		applog.FieldTripID, tripID,
		"expenses_deleted", expenses)
	return nil
}
