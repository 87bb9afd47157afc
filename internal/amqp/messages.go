package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message types carried in the envelope.
const (
	TypeMail           = "mail"
	TypeExpenseCreated = "expense.created"
)

// Envelope wraps every message published to the notifications queue. Exactly
// one payload field is set, matching Type.
type Envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Mail      *MailPayload    `json:"mail,omitempty"`
	Expense   *ExpenseCreated `json:"expense,omitempty"`
}

type MailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// ExpenseCreated describes a committed expense for downstream mirrors.
type ExpenseCreated struct {
	ExpenseID   int64  `json:"expense_id"`
	UserID      int64  `json:"user_id"`
	TripID      int64  `json:"trip_id"`
	TripTitle   string `json:"trip_title"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description,omitempty"`
	ExpenseDate string `json:"expense_date"`
}

func newEnvelope(typ string) *Envelope {
	return &Envelope{
		ID:        uuid.NewString(),
		Type:      typ,
		Timestamp: time.Now().UTC(),
	}
}

func NewMailEnvelope(to, subject, html string) *Envelope {
	env := newEnvelope(TypeMail)
	env.Mail = &MailPayload{To: to, Subject: subject, HTML: html}
	return env
}

func NewExpenseCreatedEnvelope(e ExpenseCreated) *Envelope {
	env := newEnvelope(TypeExpenseCreated)
	env.Expense = &e
	return env
}

// ToJSON converts the message to JSON bytes
func (e *Envelope) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EnvelopeFromJSON decodes and validates an envelope.
func EnvelopeFromJSON(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

func (e *Envelope) validate() error {
	switch e.Type {
	case TypeMail:
		if e.Mail == nil || e.Mail.To == "" {
			return errors.New("mail envelope without recipient")
		}
	case TypeExpenseCreated:
		if e.Expense == nil || e.Expense.ExpenseID == 0 {
			return errors.New("expense envelope without expense")
		}
	default:
		return fmt.Errorf("unknown message type %q", e.Type)
	}
	return nil
}
