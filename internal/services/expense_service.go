package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"traveleo/internal/amqp"
	"traveleo/internal/core"
	applog "traveleo/internal/log"
	"traveleo/internal/storage"
)

// EventPublisher announces committed expenses. The AMQP client implements it.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, e amqp.ExpenseCreated) error
}

// ExpenseService records expenses and, when a publisher is configured,
// announces them after commit.
type ExpenseService struct {
	store     *storage.Store
	publisher EventPublisher
	now       func() time.Time
}

// NewExpenseService accepts a nil publisher.
func NewExpenseService(store *storage.Store, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher, now: time.Now}
}

// AddExpense inserts an expense against a trip and a category the user owns.
func (s *ExpenseService) AddExpense(ctx context.Context, userID int64, in core.NewExpense) (core.Expense, error) {
	if err := in.Validate(); err != nil {
		return core.Expense{}, core.Validation(err)
	}

	var (
		expense  core.Expense
		trip     core.TripWithBudget
		category core.Category
	)
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		var err error
		if trip, err = q.GetTrip(ctx, userID, in.TripID); err != nil {
			return err
		}
		if category, err = q.GetCategory(ctx, userID, in.CategoryID); err != nil {
			return err
		}
		expense, err = q.CreateExpense(ctx, storage.CreateExpenseParams{
			UserID:      userID,
			TripID:      in.TripID,
			CategoryID:  in.CategoryID,
			Amount:      in.Amount,
			Description: in.Description,
			ExpenseDate: in.ExpenseDate,
			CreatedAt:   s.now(),
		})
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		return core.Expense{}, core.NotFound(core.MsgTripOrCategory)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentExpense).InfoContext(ctx, "Expense added",
		applog.FieldExpenseID, expense.ID,
		applog.FieldTripID, expense.TripID,
		applog.FieldCategoryID, expense.CategoryID,
		applog.FieldAmount, expense.Amount.Cents)

	s.publishCreated(ctx, expense, trip.Title, category.Name)
	return expense, nil
}

func (s *ExpenseService) publishCreated(ctx context.Context, e core.Expense, tripTitle, category string) {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentExpense)
	if s.publisher == nil {
		logger.DebugContext(ctx, "No event publisher, skipping expense event", applog.FieldExpenseID, e.ID)
		return
	}

	event := amqp.ExpenseCreated{
		ExpenseID:   e.ID,
		UserID:      e.UserID,
		TripID:      e.TripID,
		TripTitle:   tripTitle,
		Category:    category,
		AmountCents: e.Amount.Cents,
		ExpenseDate: e.ExpenseDate.String(),
	}
	if e.Description != nil {
		event.Description = *e.Description
	}

	// The expense is committed; a publish failure must not fail the request.
	if err := s.publisher.PublishExpenseCreated(ctx, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish expense event",
			applog.FieldExpenseID, e.ID,
			applog.FieldError, err)
	}
}

// ListExpensesForTrip returns the trip's expenses, newest expense date first.
func (s *ExpenseService) ListExpensesForTrip(ctx context.Context, userID, tripID int64) ([]core.ExpenseLine, error) {
	return s.store.ListExpensesForTrip(ctx, userID, tripID)
}
