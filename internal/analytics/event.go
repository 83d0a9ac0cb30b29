// Package analytics turns raw lists of timestamped marketplace records
// (orders, posts, scans) into bucketed aggregates, calendar grids, and
// pixel-space chart geometry.
//
// Every function in this package is pure: no clock reads, no I/O, no
// shared state. Callers own the record lists and trigger recomputation
// by calling again with new input.
package analytics

import (
	"strings"
	"time"
)

// RawRecord is an unvalidated record as received from a backend list
// endpoint. Only the timestamp is interpreted here; dimensions pass
// through untouched for the aggregation stage to read.
type RawRecord struct {
	Timestamp  string
	Dimensions map[string]any
}

// Event is a normalized temporal event: a parsed instant plus the
// record's dimension bag.
type Event struct {
	Time       time.Time
	Dimensions map[string]any
}

// timestampLayouts are the formats upstream records are known to carry.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// scanIDLayout matches timestamps embedded in grading-scan IDs,
// e.g. "scan_20260130_123456_789012".
const scanIDLayout = "20060102_150405"

// ParseTimestamp parses a record timestamp in any accepted form.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "scan_"); ok {
		// Drop the microsecond suffix; seconds are enough for bucketing.
		if i := strings.LastIndex(rest, "_"); i == len(scanIDLayout) {
			rest = rest[:i]
		}
		return time.Parse(scanIDLayout, rest)
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Normalize filters raw records into events, preserving relative order.
// A record whose timestamp fails parsing is dropped: this is a
// data-quality tolerance, not a reported error.
func Normalize(records []RawRecord) []Event {
	events := make([]Event, 0, len(records))
	for _, r := range records {
		t, err := ParseTimestamp(r.Timestamp)
		if err != nil {
			continue
		}
		events = append(events, Event{Time: t, Dimensions: r.Dimensions})
	}
	return events
}

// String returns the named dimension as a string, or "" when absent or
// not string-valued.
func (e Event) String(key string) string {
	if s, ok := e.Dimensions[key].(string); ok {
		return s
	}
	return ""
}

// Number returns the named dimension as a float64. Integer-typed values
// are widened; anything else yields 0.
func (e Event) Number(key string) float64 {
	switch v := e.Dimensions[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
