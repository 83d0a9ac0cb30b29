package analytics

import "sort"

// RankedEntry is one labeled value in a distribution.
type RankedEntry struct {
	Label string
	Value float64
}

// TopN stable-sorts entries descending by value and truncates to the
// first n. Entries with equal values keep their original relative order.
func TopN(entries []RankedEntry, n int) []RankedEntry {
	ranked := make([]RankedEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	if n < 0 {
		n = 0
	}
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// TruncateLabel shortens a label to at most maxLen characters, appending
// an ellipsis when cut. Counts runes, not bytes, so multibyte seller
// names truncate cleanly.
func TruncateLabel(label string, maxLen int) string {
	if maxLen <= 0 {
		return label
	}
	runes := []rune(label)
	if len(runes) <= maxLen {
		return label
	}
	return string(runes[:maxLen]) + "…"
}
