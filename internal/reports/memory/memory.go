package memory

import (
	"context"
	"fmt"
	"sync"

	ports "gradeview/internal/reports"
)

// Export is one recorded payout batch.
type Export struct {
	Year  int
	Month int
	Rows  []ports.PayoutRow
}

// Store keeps exported payout batches in memory. Used in development and
// tests when no spreadsheet is configured.
type Store struct {
	mu      sync.Mutex
	exports []Export
}

func New() *Store {
	return &Store{}
}

// AppendPayouts records the batch and returns a synthetic reference.
func (s *Store) AppendPayouts(_ context.Context, year, month int, rows []ports.PayoutRow) (string, error) {
	if month < 1 || month > 12 {
		return "", fmt.Errorf("invalid month: %d", month)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports = append(s.exports, Export{
		Year:  year,
		Month: month,
		Rows:  append([]ports.PayoutRow(nil), rows...),
	})
	return fmt.Sprintf("mem:%d", len(s.exports)), nil
}

// Exports returns a copy of all recorded batches.
func (s *Store) Exports() []Export {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Export(nil), s.exports...)
}
