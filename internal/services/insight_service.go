package services

import (
	"context"
	"errors"
	"fmt"

	"traveleo/internal/core"
	applog "traveleo/internal/log"
	"traveleo/internal/storage"
)

type InsightService struct {
	store *storage.Store
}

func NewInsightService(store *storage.Store) *InsightService {
	return &InsightService{store: store}
}

// ComputeInsights summarizes spend per category against the trip budget.
func (s *InsightService) ComputeInsights(ctx context.Context, userID, tripID int64) (core.TripInsights, error) {
	budget, err := s.store.GetBudget(ctx, userID, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		return core.TripInsights{}, core.NotFound(core.MsgBudgetNotSet)
	}
	if err != nil {
		return core.TripInsights{}, fmt.Errorf("insights: %w", err)
	}

	breakdown, err := s.store.SpendByCategory(ctx, userID, tripID)
	if err != nil {
		return core.TripInsights{}, fmt.Errorf("insights: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentInsight).DebugContext(ctx, "Computed insights",
		applog.FieldTripID, tripID,
		"categories", len(breakdown))
	return core.ComputeInsights(budget.TotalBudget, breakdown), nil
}
