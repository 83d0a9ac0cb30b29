package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusPending   OrderStatus = "pending"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

const (
	GradeExport  Grade = "Export"
	GradeLocal   Grade = "Local"
	GradeReject  Grade = "Reject"
	GradeUnknown Grade = "Unknown"
)

type (
	OrderStatus string

	// Grade is the quality classification assigned by the image grader.
	Grade string

	Date struct {
		time.Time
	}

	Money struct {
		Centavos int64
	}

	// Order is a marketplace purchase of graded fish.
	Order struct {
		ID         int64
		Date       Date
		Amount     Money
		Status     OrderStatus
		SellerID   string
		SellerName string
		FishType   string
	}

	// Post is a community post by a buyer or seller.
	Post struct {
		ID       int64
		Date     Date
		Author   string
		Category string
	}

	// Scan is one grading run from the image-grading service.
	Scan struct {
		ID       int64
		Date     Date
		FishType string
		Score    float64
		Grade    Grade
	}
)

var (
	ErrInvalidDay      = errors.New("invalid day")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidScore    = errors.New("score out of range")
	ErrEmptySeller     = errors.New("empty seller")
	ErrEmptyFishType   = errors.New("empty fish type")
	ErrEmptyAuthor     = errors.New("empty author")
	ErrEmptyCategory   = errors.New("empty category")
)

// GradeFromScore maps a grader confidence score to a quality grade.
// Thresholds match the grading service: 0.9 for Export, 0.8 for Local.
func GradeFromScore(score float64) Grade {
	switch {
	case score >= 0.9:
		return GradeExport
	case score >= 0.8:
		return GradeLocal
	default:
		return GradeReject
	}
}

func (s OrderStatus) Validate() error {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return nil
	}
	return ErrInvalidStatus
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (m Money) Validate() error {
	if m.Centavos <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (o Order) Validate() error {
	if err := o.Date.Validate(); err != nil {
		return err
	}
	if err := o.Amount.Validate(); err != nil {
		return err
	}
	if err := o.Status.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(o.SellerID) == "" {
		return ErrEmptySeller
	}
	if strings.TrimSpace(o.FishType) == "" {
		return ErrEmptyFishType
	}
	return nil
}

func (p Post) Validate() error {
	if err := p.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(p.Author)) == 0 {
		return ErrEmptyAuthor
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (sc Scan) Validate() error {
	if err := sc.Date.Validate(); err != nil {
		return err
	}
	if sc.Score < 0 || sc.Score > 1 {
		return ErrInvalidScore
	}
	if strings.TrimSpace(sc.FishType) == "" {
		return ErrEmptyFishType
	}
	return nil
}
