package analytics

// IntensityLevel is an ordinal heat classification of a value relative to
// the maximum observed in the current view. Color choice stays with the
// renderer.
type IntensityLevel string

const (
	IntensityNone IntensityLevel = "none"
	IntensityLow  IntensityLevel = "low"
	IntensityMid  IntensityLevel = "mid-high"
	IntensityHigh IntensityLevel = "high"
)

// Level classifies value against max (floored at 1): above 70% is high,
// above 40% mid-high, any positive value low, zero none.
func Level(value, max float64) IntensityLevel {
	if max < 1 {
		max = 1
	}
	var intensity float64
	if value > 0 {
		intensity = value / max
	}
	switch {
	case intensity > 0.7:
		return IntensityHigh
	case intensity > 0.4:
		return IntensityMid
	case intensity > 0:
		return IntensityLow
	default:
		return IntensityNone
	}
}
