package memory

import (
	"context"
	"fmt"
	"sync"

	"traveleo/internal/sheets"
)

// Store is an in-memory ExpenseWriter. Appending the same expense twice
// keeps the first row, mirroring how a redelivered event must not duplicate.
type Store struct {
	mu   sync.Mutex
	rows []sheets.ExpenseRow
	seen map[int64]int
}

func New() *Store {
	return &Store{seen: make(map[int64]int)}
}

// Append stores the row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, row sheets.ExpenseRow) (string, error) {
	if err := row.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.seen[row.ExpenseID]; ok {
		return fmt.Sprintf("mem:%d", idx+1), nil
	}
	s.rows = append(s.rows, row)
	s.seen[row.ExpenseID] = len(s.rows) - 1
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of the stored rows in append order.
func (s *Store) Rows() []sheets.ExpenseRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.ExpenseRow(nil), s.rows...)
}
