package sheets

import (
	"context"
	"errors"
	"strings"

	"traveleo/internal/core"
)

// ExpenseRow is one expense as mirrored into a spreadsheet.
type ExpenseRow struct {
	ExpenseID   int64
	UserID      int64
	Date        string
	Trip        string
	Category    string
	Amount      core.Money
	Description string
}

// Header is the first row of the mirror sheet, in column order.
var Header = []any{"Expense ID", "Date", "Trip", "Category", "Amount", "Description", "User ID"}

// ExpenseWriter appends mirrored expenses.
type ExpenseWriter interface {
	Append(ctx context.Context, row ExpenseRow) (rowRef string, err error)
}

var (
	ErrMissingExpenseID = errors.New("expense id is required")
	ErrMissingDate      = errors.New("expense date is required")
)

func (r ExpenseRow) Validate() error {
	if r.ExpenseID <= 0 {
		return ErrMissingExpenseID
	}
	if strings.TrimSpace(r.Date) == "" {
		return ErrMissingDate
	}
	return nil
}

// Values returns the row cells in Header order. The amount is written as a
// plain decimal so the sheet treats it as a number.
func (r ExpenseRow) Values() []any {
	return []any{r.ExpenseID, r.Date, r.Trip, r.Category, r.Amount.String(), r.Description, r.UserID}
}
