package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"traveleo/internal/core"
	applog "traveleo/internal/log"
	"traveleo/internal/notify"
	"traveleo/internal/storage"
)

// ReminderService mails trip owners about trips that start soon.
type ReminderService struct {
	store    *storage.Store
	notifier *notify.Notifier
	now      func() time.Time
}

func NewReminderService(store *storage.Store, notifier *notify.Notifier) *ReminderService {
	return &ReminderService{store: store, notifier: notifier, now: time.Now}
}

// SendUpcoming sends one reminder per trip starting between today and
// today+withinDays inclusive. It keeps going after a failed send and returns
// the number sent together with the joined errors.
func (s *ReminderService) SendUpcoming(ctx context.Context, withinDays int) (int, error) {
	if withinDays < 0 {
		return 0, core.Validation(errors.New("within must not be negative"))
	}

	now := s.now().UTC()
	today := core.NewDate(now.Year(), int(now.Month()), now.Day())
	trips, err := s.store.TripsStartingBetween(ctx, today, today.AddDays(withinDays))
	if err != nil {
		return 0, err
	}

	logger := applog.FromContext(ctx).WithComponent(applog.ComponentMail)
	var (
		sent int
		errs []error
	)
	for _, t := range trips {
		summary := notify.TripSummary{Title: t.Title, StartDate: t.StartDate.String()}
		if t.Destination != nil {
			summary.Destination = *t.Destination
		}
		if err := s.notifier.SendTripReminder(ctx, t.Email, t.UserName, summary); err != nil {
			logger.ErrorContext(ctx, "Trip reminder failed", applog.FieldTripID, t.TripID, applog.FieldError, err)
			errs = append(errs, fmt.Errorf("trip %d: %w", t.TripID, err))
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}
