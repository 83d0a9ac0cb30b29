package services

import (
	"testing"
	"time"

	"gradeview/internal/core"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 12, 0, 0, 0, time.UTC)
}

func TestDailyChecker(t *testing.T) {
	checker := DailyChecker{}

	tests := []struct {
		name          string
		lastExecution time.Time
		now           time.Time
		expected      bool
	}{
		{"never executed", time.Time{}, date(2025, 6, 10), true},
		{"executed yesterday", date(2025, 6, 9), date(2025, 6, 10), true},
		{"executed today", date(2025, 6, 10), date(2025, 6, 10), false},
		{"executed last month", date(2025, 5, 10), date(2025, 6, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastExecution, tt.now, core.Date{})
			if got != tt.expected {
				t.Errorf("IsDue() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWeeklyChecker(t *testing.T) {
	checker := WeeklyChecker{}

	tests := []struct {
		name          string
		lastExecution time.Time
		now           time.Time
		expected      bool
	}{
		{"never executed", time.Time{}, date(2025, 6, 10), true},
		{"executed 3 days ago", date(2025, 6, 7), date(2025, 6, 10), false},
		{"executed exactly 7 days ago", date(2025, 6, 3), date(2025, 6, 10), true},
		{"executed 10 days ago", date(2025, 5, 31), date(2025, 6, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastExecution, tt.now, core.Date{})
			if got != tt.expected {
				t.Errorf("IsDue() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMonthlyChecker(t *testing.T) {
	checker := MonthlyChecker{}

	tests := []struct {
		name          string
		lastExecution time.Time
		now           time.Time
		startDate     core.Date
		expected      bool
	}{
		{
			name:      "never executed",
			now:       date(2025, 6, 10),
			startDate: core.NewDate(2025, 1, 15),
			expected:  true,
		},
		{
			name:          "already executed this month",
			lastExecution: date(2025, 6, 2),
			now:           date(2025, 6, 20),
			startDate:     core.NewDate(2025, 1, 15),
			expected:      false,
		},
		{
			name:          "new month, target day reached",
			lastExecution: date(2025, 5, 15),
			now:           date(2025, 6, 15),
			startDate:     core.NewDate(2025, 1, 15),
			expected:      true,
		},
		{
			name:          "new month, target day not reached",
			lastExecution: date(2025, 5, 15),
			now:           date(2025, 6, 10),
			startDate:     core.NewDate(2025, 1, 15),
			expected:      false,
		},
		{
			name:          "target day 31 clamped in short month",
			lastExecution: date(2025, 5, 31),
			now:           date(2025, 6, 30),
			startDate:     core.NewDate(2025, 1, 31),
			expected:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastExecution, tt.now, tt.startDate)
			if got != tt.expected {
				t.Errorf("IsDue() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestYearlyChecker(t *testing.T) {
	checker := YearlyChecker{}

	tests := []struct {
		name          string
		lastExecution time.Time
		now           time.Time
		startDate     core.Date
		expected      bool
	}{
		{
			name:      "never executed",
			now:       date(2025, 6, 10),
			startDate: core.NewDate(2024, 3, 1),
			expected:  true,
		},
		{
			name:          "already executed this year",
			lastExecution: date(2025, 3, 1),
			now:           date(2025, 6, 10),
			startDate:     core.NewDate(2024, 3, 1),
			expected:      false,
		},
		{
			name:          "new year, before target month",
			lastExecution: date(2024, 3, 1),
			now:           date(2025, 2, 10),
			startDate:     core.NewDate(2024, 3, 1),
			expected:      false,
		},
		{
			name:          "new year, target month and day reached",
			lastExecution: date(2024, 3, 1),
			now:           date(2025, 3, 1),
			startDate:     core.NewDate(2024, 3, 1),
			expected:      true,
		},
		{
			name:          "new year, past target month",
			lastExecution: date(2024, 3, 1),
			now:           date(2025, 7, 1),
			startDate:     core.NewDate(2024, 3, 1),
			expected:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastExecution, tt.now, tt.startDate)
			if got != tt.expected {
				t.Errorf("IsDue() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetDuenessChecker(t *testing.T) {
	for _, freq := range []core.Frequency{core.Daily, core.Weekly, core.Monthly, core.Yearly} {
		if _, err := GetDuenessChecker(freq); err != nil {
			t.Errorf("GetDuenessChecker(%s) error = %v", freq, err)
		}
	}

	if _, err := GetDuenessChecker("fortnightly"); err == nil {
		t.Error("GetDuenessChecker should fail for unknown frequency")
	}
}

func TestRegisterDuenessChecker(t *testing.T) {
	type alwaysDue struct{ DailyChecker }

	RegisterDuenessChecker("custom", alwaysDue{})
	defer delete(duenessStrategies, "custom")

	if _, err := GetDuenessChecker("custom"); err != nil {
		t.Errorf("GetDuenessChecker(custom) error = %v after registration", err)
	}
}
