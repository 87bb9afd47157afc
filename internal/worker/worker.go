// Package worker handles messages consumed from the notifications queue.
package worker

import (
	"context"
	"fmt"

	"traveleo/internal/amqp"
	"traveleo/internal/core"
	applog "traveleo/internal/log"
	"traveleo/internal/notify"
	"traveleo/internal/sheets"
)

// Worker delivers queued mails and mirrors created expenses into a sheet.
type Worker struct {
	mailer notify.Mailer
	sheets sheets.ExpenseWriter
}

// New returns a Worker. writer may be nil, in which case expense events are
// acknowledged without being mirrored.
func New(mailer notify.Mailer, writer sheets.ExpenseWriter) *Worker {
	return &Worker{mailer: mailer, sheets: writer}
}

// Handle processes one envelope. A returned error makes the consumer requeue
// the message once.
func (w *Worker) Handle(ctx context.Context, env *amqp.Envelope) error {
	switch env.Type {
	case amqp.TypeMail:
		return w.handleMail(ctx, env.Mail)
	case amqp.TypeExpenseCreated:
		return w.handleExpenseCreated(ctx, env.Expense)
	default:
		return fmt.Errorf("unknown message type %q", env.Type)
	}
}

func (w *Worker) handleMail(ctx context.Context, m *amqp.MailPayload) error {
	if m == nil {
		return fmt.Errorf("mail envelope without payload")
	}
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentWorker)

	err := w.mailer.Send(ctx, notify.Message{To: m.To, Subject: m.Subject, HTML: m.HTML})
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	logger.InfoContext(ctx, "Delivered queued mail", applog.FieldEmail, m.To, "subject", m.Subject)
	return nil
}

func (w *Worker) handleExpenseCreated(ctx context.Context, e *amqp.ExpenseCreated) error {
	if e == nil {
		return fmt.Errorf("expense envelope without payload")
	}
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentWorker).With(
		applog.FieldExpenseID, e.ExpenseID,
		applog.FieldUserID, e.UserID,
		applog.FieldTripID, e.TripID)

	if w.sheets == nil {
		logger.DebugContext(ctx, "No sheet configured, skipping expense mirror")
		return nil
	}

	ref, err := w.sheets.Append(ctx, sheets.ExpenseRow{
		ExpenseID:   e.ExpenseID,
		UserID:      e.UserID,
		Date:        e.ExpenseDate,
		Trip:        e.TripTitle,
		Category:    e.Category,
		Amount:      core.Money{Cents: e.AmountCents},
		Description: e.Description,
	})
	if err != nil {
		return fmt.Errorf("mirror expense %d: %w", e.ExpenseID, err)
	}

	logger.InfoContext(ctx, "Mirrored expense to sheet", "row_ref", ref)
	return nil
}
