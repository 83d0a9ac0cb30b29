package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gradeview/internal/core"
)

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current period. With monthOptional, a missing month means "whole
// year" and is returned as 0. Invalid values are rejected rather than
// silently corrected. Returns ok=false after writing the error response.
func parseYearMonth(w http.ResponseWriter, r *http.Request, monthOptional bool) (year, month int, ok bool) {
	now := time.Now()
	year = now.Year()
	if monthOptional {
		month = 0
	} else {
		month = int(now.Month())
	}

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 2000 || y > 2100 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return 0, 0, false
		}
		year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "invalid month: must be between 1 and 12")
			return 0, 0, false
		}
		month = m
	}

	return year, month, true
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: parsedTime}, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// isValidationError reports whether the error comes from domain validation
// rather than infrastructure, so handlers can map it to a 422.
func isValidationError(err error) bool {
	for _, domainErr := range []error{
		core.ErrInvalidDay,
		core.ErrInvalidMonth,
		core.ErrInvalidAmount,
		core.ErrInvalidStatus,
		core.ErrInvalidScore,
		core.ErrEmptySeller,
		core.ErrEmptyFishType,
		core.ErrEmptyAuthor,
		core.ErrEmptyCategory,
	} {
		if errors.Is(err, domainErr) {
			return true
		}
	}
	return strings.Contains(err.Error(), "date cannot be zero")
}
