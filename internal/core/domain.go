package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultCategories are created for every user at signup, in this order.
var DefaultCategories = []string{
	"Food",
	"Travel",
	"Stay",
	"Transport",
	"Shopping",
	"Entertainment",
	"Miscellaneous",
}

const (
	StatusWithinBudget = "WITHIN BUDGET"
	StatusOverBudget   = "OVER BUDGET"
)

type (
	User struct {
		ID           int64     `json:"id" db:"id"`
		Name         string    `json:"name" db:"name"`
		Email        string    `json:"email" db:"email"`
		PasswordHash string    `json:"-" db:"password"`
		CreatedAt    time.Time `json:"created_at" db:"created_at"`
	}

	OneTimePasscode struct {
		ID        int64     `db:"id"`
		UserID    int64     `db:"user_id"`
		Code      string    `db:"code"`
		ExpiresAt time.Time `db:"expires_at"`
	}

	Trip struct {
		ID          int64     `json:"id" db:"id"`
		UserID      int64     `json:"user_id" db:"user_id"`
		Title       string    `json:"title" db:"title"`
		Destination *string   `json:"destination" db:"destination"`
		StartDate   Date      `json:"start_date" db:"start_date"`
		EndDate     Date      `json:"end_date" db:"end_date"`
		CreatedAt   time.Time `json:"created_at" db:"created_at"`
	}

	// TripWithBudget is a trip left-joined with its budget; TotalBudget is
	// nil when no budget row exists.
	TripWithBudget struct {
		Trip
		TotalBudget *Money `json:"total_budget" db:"total_budget_cents"`
	}

	Budget struct {
		ID          int64     `json:"id" db:"id"`
		UserID      int64     `json:"user_id" db:"user_id"`
		TripID      int64     `json:"trip_id" db:"trip_id"`
		TotalBudget Money     `json:"total_budget" db:"total_budget_cents"`
		CreatedAt   time.Time `json:"created_at" db:"created_at"`
	}

	Category struct {
		ID        int64     `json:"id" db:"id"`
		UserID    int64     `json:"-" db:"user_id"`
		Name      string    `json:"name" db:"name"`
		CreatedAt time.Time `json:"created_at" db:"created_at"`
	}

	Expense struct {
		ID          int64     `json:"id" db:"id"`
		UserID      int64     `json:"user_id" db:"user_id"`
		TripID      int64     `json:"trip_id" db:"trip_id"`
		CategoryID  int64     `json:"category_id" db:"category_id"`
		Amount      Money     `json:"amount" db:"amount_cents"`
		Description *string   `json:"description" db:"description"`
		ExpenseDate Date      `json:"expense_date" db:"expense_date"`
		CreatedAt   time.Time `json:"created_at" db:"created_at"`
	}

	// ExpenseLine is an expense joined with its category name.
	ExpenseLine struct {
		ID          int64   `json:"id" db:"id"`
		Amount      Money   `json:"amount" db:"amount_cents"`
		Description *string `json:"description" db:"description"`
		ExpenseDate Date    `json:"expense_date" db:"expense_date"`
		Category    string  `json:"category" db:"category"`
	}
)

// Inputs accepted by the services. Each carries its own Validate step.
type (
	Signup struct {
		Name     string
		Email    string
		Password string
	}

	NewTrip struct {
		Title       string
		Destination *string
		StartDate   Date
		EndDate     Date
		TotalBudget Money
	}

	NewExpense struct {
		TripID      int64
		CategoryID  int64
		Amount      Money
		Description *string
		ExpenseDate Date
	}
)

var (
	ErrEmptyName        = errors.New("name is required")
	ErrEmptyEmail       = errors.New("email is required")
	ErrInvalidEmail     = errors.New("email is invalid")
	ErrShortPassword    = errors.New("password must be at least 6 characters")
	ErrEmptyTitle       = errors.New("title is required")
	ErrMissingStartDate = errors.New("start_date is required")
	ErrMissingEndDate   = errors.New("end_date is required")
	ErrDateRange        = errors.New("end_date must be on or after start_date")
	ErrInvalidBudget    = errors.New("total_budget must be a positive number")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrMissingTrip      = errors.New("trip_id is required")
	ErrMissingCategory  = errors.New("category_id is required")
	ErrMissingDate      = errors.New("expense_date is required")
	ErrEmptyCategory    = errors.New("category name is required")
)

const (
	maxNameLength        = 100
	maxTitleLength       = 200
	maxDescriptionLength = 500
)

func (s Signup) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(s.Name) > maxNameLength {
		return errors.New("name too long (max 100 characters)")
	}
	email := strings.TrimSpace(s.Email)
	if email == "" {
		return ErrEmptyEmail
	}
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		return ErrInvalidEmail
	}
	if len(s.Password) < 6 {
		return ErrShortPassword
	}
	return nil
}

func (t NewTrip) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(t.Title) > maxTitleLength {
		return errors.New("title too long (max 200 characters)")
	}
	if t.StartDate.IsZero() {
		return ErrMissingStartDate
	}
	if t.EndDate.IsZero() {
		return ErrMissingEndDate
	}
	if t.EndDate.Before(t.StartDate.Time) {
		return ErrDateRange
	}
	if !t.TotalBudget.Positive() {
		return ErrInvalidBudget
	}
	return nil
}

func (e NewExpense) Validate() error {
	if e.TripID <= 0 {
		return ErrMissingTrip
	}
	if e.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if !e.Amount.Positive() {
		return ErrInvalidAmount
	}
	if e.Description != nil && utf8.RuneCountInString(*e.Description) > maxDescriptionLength {
		return errors.New("description too long (max 500 characters)")
	}
	if e.ExpenseDate.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// ValidateCategoryName trims and checks a user supplied category name.
func ValidateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyCategory
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", errors.New("category name too long (max 100 characters)")
	}
	return name, nil
}

// NormalizeEmail lowercases and trims an address before lookup or insert.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
