package analytics

import "testing"

func TestLevel(t *testing.T) {
	cases := []struct {
		name       string
		value, max float64
		want       IntensityLevel
	}{
		{"zero is none", 0, 10, IntensityNone},
		{"just above zero is low", 1, 10, IntensityLow},
		{"forty percent is still low", 4, 10, IntensityLow},
		{"above forty percent is mid", 5, 10, IntensityMid},
		{"seventy percent is still mid", 7, 10, IntensityMid},
		{"above seventy percent is high", 8, 10, IntensityHigh},
		{"max value is high", 10, 10, IntensityHigh},
		{"zero max floors to one", 3, 0, IntensityHigh},
		{"zero value with zero max", 0, 0, IntensityNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Level(tc.value, tc.max); got != tc.want {
				t.Fatalf("Level(%v, %v) = %v, want %v", tc.value, tc.max, got, tc.want)
			}
		})
	}
}
