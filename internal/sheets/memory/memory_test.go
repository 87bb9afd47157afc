package memory

import (
	"context"
	"testing"

	"traveleo/internal/core"
	"traveleo/internal/sheets"
)

func TestStoreAppend(t *testing.T) {
	s := New()
	ctx := context.Background()

	row := sheets.ExpenseRow{ExpenseID: 7, Date: "2025-01-02", Trip: "Goa Trip", Category: "Food", Amount: core.Money{Cents: 250000}}
	ref, err := s.Append(ctx, row)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("ref = %q", ref)
	}

	ref, err = s.Append(ctx, row)
	if err != nil || ref != "mem:1" {
		t.Fatalf("duplicate append = %q, %v", ref, err)
	}
	if got := len(s.Rows()); got != 1 {
		t.Fatalf("rows = %d", got)
	}

	if _, err := s.Append(ctx, sheets.ExpenseRow{Date: "2025-01-02"}); err == nil {
		t.Fatal("expected error for missing expense id")
	}
}
