package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	applog "traveleo/internal/log"
)

const backgroundTimeout = 30 * time.Second

// Notifier sends the application's mails. Passcode mails are delivered
// synchronously so failures reach the caller; welcome mails are sent in the
// background through the async mailer and failures are only logged.
type Notifier struct {
	mailer Mailer
	async  Mailer
	logger *applog.Logger
	wg     sync.WaitGroup
}

// NewNotifier builds a notifier. A nil async mailer makes background mails go
// through mailer on their own goroutine.
func NewNotifier(mailer, async Mailer, logger *applog.Logger) *Notifier {
	if async == nil {
		async = mailer
	}
	return &Notifier{
		mailer: mailer,
		async:  async,
		logger: logger.WithComponent(applog.ComponentMail),
	}
}

// SendLoginOTP delivers the passcode mail and returns any delivery error.
func (n *Notifier) SendLoginOTP(ctx context.Context, to, name, code string, ttl time.Duration) error {
	msg, err := LoginOTPMessage(to, name, code, ttl)
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

// SendWelcome queues the welcome mail without blocking the caller. The
// request context may be cancelled before delivery, so only its values are
// kept.
func (n *Notifier) SendWelcome(ctx context.Context, to, name string) {
	n.background(ctx, "welcome", func(ctx context.Context) error {
		msg, err := WelcomeMessage(to, name)
		if err != nil {
			return err
		}
		return n.async.Send(ctx, msg)
	})
}

// SendTripReminder delivers a reminder through the async mailer.
func (n *Notifier) SendTripReminder(ctx context.Context, to, name string, trip TripSummary) error {
	msg, err := TripReminderMessage(to, name, trip)
	if err != nil {
		return err
	}
	if err := n.async.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reminder mail: %w", err)
	}
	return nil
}

func (n *Notifier) background(ctx context.Context, kind string, fn func(context.Context) error) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			n.logger.ErrorContext(ctx, "Background mail failed",
				applog.FieldMailKind, kind,
				applog.FieldError, err)
			return
		}
		n.logger.DebugContext(ctx, "Background mail sent", applog.FieldMailKind, kind)
	}()
}

// Wait blocks until background sends have finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
