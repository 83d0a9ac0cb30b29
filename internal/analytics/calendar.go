package analytics

import "time"

// CalendarCell is one slot of a week-aligned month grid. Day 0 marks a
// leading alignment padding cell; Count and IsFuture are always zero
// values for padding.
type CalendarCell struct {
	Day      int
	Count    int
	IsFuture bool
}

// DaysInMonth returns the number of days in the given month. Day zero of
// the following month is the last day of this one, which handles all
// month lengths and leap years without a table.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthGrid lays out one month as a flat, Monday-first sequence of cells:
// leading padding for alignment, then one cell per day 1..daysInMonth.
// Grouping into week rows of 7 is the renderer's concern.
//
// today is caller-supplied rather than read from a clock, so the layout
// is pure and testable. Days of the current month after today are marked
// future and their counts forced to zero, so no data appears to exist
// for days that have not elapsed yet.
func MonthGrid(year, month int, byDay map[int]Bucket, today time.Time) []CalendarCell {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// time.Weekday is Sunday-first; shift so Monday is 0.
	leadingBlanks := (int(first.Weekday()) + 6) % 7
	days := DaysInMonth(year, month)

	cells := make([]CalendarCell, 0, leadingBlanks+days)
	for i := 0; i < leadingBlanks; i++ {
		cells = append(cells, CalendarCell{})
	}

	currentMonth := today.Year() == year && int(today.Month()) == month
	for day := 1; day <= days; day++ {
		cell := CalendarCell{Day: day, Count: byDay[day].Count}
		if currentMonth && day > today.Day() {
			cell.IsFuture = true
			cell.Count = 0
		}
		cells = append(cells, cell)
	}
	return cells
}
