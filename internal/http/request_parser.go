package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"traveleo/internal/core"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads exactly one JSON object into dst. Unknown fields and
// mistyped values are rejected as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return core.Validation(describeDecodeError(err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return core.Validation(errors.New("request body must contain a single JSON object"))
	}
	return nil
}

func describeDecodeError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return errors.New("request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("request body is not valid JSON")
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Errorf("invalid value for field %q", typeErr.Field)
		}
		return errors.New("request body has the wrong shape")
	case errors.As(err, &maxErr):
		return errors.New("request body too large")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return fmt.Errorf("unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
	default:
		return err
	}
}

// Request bodies. Each maps onto a core input and validates there.
type (
	signupRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	verifyOTPRequest struct {
		UserID int64  `json:"userId"`
		OTP    string `json:"otp"`
	}

	resendOTPRequest struct {
		UserID int64 `json:"userId"`
	}

	createTripRequest struct {
		Title       string     `json:"title"`
		Destination *string    `json:"destination"`
		StartDate   core.Date  `json:"start_date"`
		EndDate     core.Date  `json:"end_date"`
		TotalBudget core.Money `json:"total_budget"`
	}

	setBudgetRequest struct {
		TotalBudget core.Money `json:"total_budget"`
	}

	createCategoryRequest struct {
		Name string `json:"name"`
	}

	createExpenseRequest struct {
		TripID      int64      `json:"trip_id"`
		CategoryID  int64      `json:"category_id"`
		Amount      core.Money `json:"amount"`
		Description *string    `json:"description"`
		ExpenseDate core.Date  `json:"expense_date"`
	}
)

func (r verifyOTPRequest) Validate() error {
	if r.UserID <= 0 {
		return errors.New("userId is required")
	}
	if strings.TrimSpace(r.OTP) == "" {
		return errors.New("otp is required")
	}
	return nil
}

func (r resendOTPRequest) Validate() error {
	if r.UserID <= 0 {
		return errors.New("userId is required")
	}
	return nil
}

func (r loginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

func (r createTripRequest) toNewTrip() core.NewTrip {
	t := core.NewTrip{
		Title:       strings.TrimSpace(r.Title),
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		TotalBudget: r.TotalBudget,
	}
	if r.Destination != nil {
		if d := strings.TrimSpace(*r.Destination); d != "" {
			t.Destination = &d
		}
	}
	return t
}

func (r createExpenseRequest) toNewExpense() core.NewExpense {
	e := core.NewExpense{
		TripID:      r.TripID,
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		ExpenseDate: r.ExpenseDate,
	}
	if r.Description != nil {
		if d := strings.TrimSpace(*r.Description); d != "" {
			e.Description = &d
		}
	}
	return e
}
