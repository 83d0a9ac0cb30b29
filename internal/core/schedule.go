package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

type (
	Frequency string

	// ReportSchedule describes a recurring payout-report export.
	ReportSchedule struct {
		ID            int64
		Name          string
		Every         Frequency
		StartDate     Date
		LastExecution time.Time
		Active        bool
	}
)

func (s ReportSchedule) Validate() error {
	if err := s.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}

	switch s.Every {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return errors.New("invalid frequency")
	}

	if len(strings.TrimSpace(s.Name)) == 0 {
		return errors.New("empty schedule name")
	}
	if len(s.Name) > 200 {
		return errors.New("schedule name too long (max 200 characters)")
	}

	return nil
}
