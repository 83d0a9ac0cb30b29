// Package core provides the marketplace domain types shared by the
// analytics engine, storage, and transport layers.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between centavos and peso representations.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCentavos converts a decimal string to centavos with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//   ParseDecimalToCentavos("12.34") -> 1234, nil
//   ParseDecimalToCentavos("12,34") -> 1234, nil
//   ParseDecimalToCentavos("12.345") -> 1234, nil (rounds down)
//   ParseDecimalToCentavos("12.346") -> 1235, nil (rounds up)
func ParseDecimalToCentavos(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	// Split into integer and fractional part
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	// Convert integer part - check for overflow
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCentavos int64 = 0
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCentavos = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCentavos += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracCentavos++
				}
			}
		}
	}
	centavos := iv*100 + fracCentavos
	if centavos <= 0 {
		return 0, ErrInvalidAmount
	}
	return centavos, nil
}

// Pesos returns the peso value as a float64 for display purposes.
// Use centavos for calculations to avoid floating-point precision issues.
func (m Money) Pesos() float64 {
	return float64(m.Centavos) / 100.0
}
