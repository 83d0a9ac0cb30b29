package analytics

import (
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year, month, want int
	}{
		{2024, 2, 29}, // leap year
		{2025, 2, 28},
		{2000, 2, 29}, // divisible by 400
		{1900, 2, 28}, // divisible by 100, not 400
		{2025, 1, 31},
		{2025, 4, 30},
		{2025, 12, 31},
	}
	for _, tc := range cases {
		if got := DaysInMonth(tc.year, tc.month); got != tc.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}

// February 2024 starts on a Thursday: 3 leading blanks, 29 days, 32 cells.
func TestMonthGridLeapFebruary(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	cells := MonthGrid(2024, 2, nil, today)
	if len(cells) != 32 {
		t.Fatalf("expected 32 cells, got %d", len(cells))
	}
	for i := 0; i < 3; i++ {
		if cells[i].Day != 0 || cells[i].Count != 0 || cells[i].IsFuture {
			t.Errorf("cell %d should be zero-valued padding: %+v", i, cells[i])
		}
	}
	if cells[3].Day != 1 || cells[31].Day != 29 {
		t.Fatalf("day cells misaligned: first=%+v last=%+v", cells[3], cells[31])
	}
}

func TestMonthGridLengthAndBlanksRange(t *testing.T) {
	today := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	for month := 1; month <= 12; month++ {
		cells := MonthGrid(2025, month, nil, today)
		days := DaysInMonth(2025, month)
		blanks := len(cells) - days
		if blanks < 0 || blanks > 6 {
			t.Errorf("month %d: leading blanks %d out of range", month, blanks)
		}
		for i := 0; i < blanks; i++ {
			if cells[i].Day != 0 {
				t.Errorf("month %d: cell %d should be padding", month, i)
			}
		}
	}
}

// A count on a not-yet-elapsed day of the current month is masked to zero,
// while elapsed days keep their real counts.
func TestMonthGridFutureMasking(t *testing.T) {
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	byDay := map[int]Bucket{
		10: {Count: 2},
		15: {Count: 4},
	}
	cells := MonthGrid(2025, 6, byDay, today)

	// June 2025 starts on a Sunday: 6 leading blanks.
	blanks := len(cells) - 30
	if blanks != 6 {
		t.Fatalf("expected 6 leading blanks, got %d", blanks)
	}
	day10 := cells[blanks+9]
	day15 := cells[blanks+14]
	if day10.IsFuture || day10.Count != 2 {
		t.Errorf("June 10 should keep its count: %+v", day10)
	}
	if !day15.IsFuture || day15.Count != 0 {
		t.Errorf("June 15 should be masked: %+v", day15)
	}
}

func TestMonthGridPastMonthHasNoFutureCells(t *testing.T) {
	today := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	for _, cell := range MonthGrid(2025, 6, map[int]Bucket{30: {Count: 1}}, today) {
		if cell.IsFuture {
			t.Fatalf("past month produced future cell: %+v", cell)
		}
	}
}
