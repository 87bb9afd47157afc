// Package core provides money parsing and handling utilities.
//
// Amounts are kept as integer cents everywhere below the HTTP boundary and
// exposed as decimal numbers with two fractional digits.
package core

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(1 << 53)
)

// Money is an amount in the smallest currency unit.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal string to Money, rounding half away from
// zero on the third fractional digit. A decimal comma is accepted.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234
//	ParseAmount("12,34")  -> 1234
//	ParseAmount("12.345") -> 1235
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return FromDecimal(d)
}

// FromDecimal rounds d to cents.
func FromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Mul(hundred).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Positive reports whether the amount is strictly greater than zero.
func (m Money) Positive() bool {
	return m.Cents > 0
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// String formats the amount with exactly two decimals, e.g. "7500.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts both JSON numbers and numeric strings. A comma is
// rejected.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	// "10,000" must not read as 10.00.
	if bytes.ContainsRune(data, ',') {
		return ErrInvalidAmount
	}
	parsed, err := ParseAmount(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan implements sql.Scanner. Integer columns hold cents; SUM over a
// BIGINT column comes back as NUMERIC text from postgres.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Money{}
	case int64:
		*m = Money{Cents: v}
	case float64:
		*m = Money{Cents: decimal.NewFromFloat(v).Round(0).IntPart()}
	case []byte:
		return m.scanText(string(v))
	case string:
		return m.scanText(v)
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
	return nil
}

func (m *Money) scanText(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = Money{Cents: d.Round(0).IntPart()}
	return nil
}

// Value implements driver.Valuer, storing cents.
func (m Money) Value() (driver.Value, error) {
	return m.Cents, nil
}
