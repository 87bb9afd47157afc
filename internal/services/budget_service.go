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

type BudgetService struct {
	store *storage.Store
	now   func() time.Time
}

func NewBudgetService(store *storage.Store) *BudgetService {
	return &BudgetService{store: store, now: time.Now}
}

// SetBudget creates or overwrites the budget of an owned trip.
func (s *BudgetService) SetBudget(ctx context.Context, userID, tripID int64, total core.Money) (core.Budget, error) {
	if !total.Positive() {
		return core.Budget{}, core.Validation(core.ErrInvalidBudget)
	}

	exists, err := s.store.TripExists(ctx, userID, tripID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("set budget: %w", err)
	}
	if !exists {
		return core.Budget{}, core.NotFound(core.MsgTripNotFound)
	}

	budget, err := s.store.UpsertBudget(ctx, storage.BudgetParams{
		UserID:      userID,
		TripID:      tripID,
		TotalBudget: total,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return core.Budget{}, fmt.Errorf("set budget: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentBudget).InfoContext(ctx, "Budget set",
		applog.FieldTripID, tripID,
		applog.FieldAmount, total.Cents)
	return budget, nil
}

// GetBudgetWithSpend compares the budget against the sum of the trip's
// expenses.
func (s *BudgetService) GetBudgetWithSpend(ctx context.Context, userID, tripID int64) (core.BudgetStatus, error) {
	budget, err := s.store.GetBudget(ctx, userID, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		return core.BudgetStatus{}, core.NotFound(core.MsgBudgetNotSet)
	}
	if err != nil {
		return core.BudgetStatus{}, fmt.Errorf("get budget: %w", err)
	}

	spent, err := s.store.TotalSpent(ctx, userID, tripID)
	if err != nil {
		return core.BudgetStatus{}, fmt.Errorf("get budget: %w", err)
	}
	return core.NewBudgetStatus(budget.TotalBudget, spent), nil
}
