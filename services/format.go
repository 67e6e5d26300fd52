package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonNumericPattern = regexp.MustCompile(`[^0-9,.\-]`)

// ParseEuropeanNumber parses a string in European decimal notation
// ("." thousands separator, "," decimal separator) into a float64.
// Returns NaN for empty or unparseable input — callers must treat
// non-finite results as invalid rather than coerce them to 0.
func ParseEuropeanNumber(input string) float64 {
	cleaned := nonNumericPattern.ReplaceAllString(strings.TrimSpace(input), "")
	if cleaned == "" || cleaned == "-" {
		return math.NaN()
	}

	if strings.Contains(cleaned, ",") {
		// Comma is the decimal separator; dots are thousands separators.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
		// A second comma makes the input ambiguous — reject it.
		if strings.Contains(cleaned, ",") {
			return math.NaN()
		}
	} else if strings.Count(cleaned, ".") > 1 {
		// Multiple dots without a comma: only the last segment is decimal.
		last := strings.LastIndex(cleaned, ".")
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// FormatNumber formats a float64 using dot-as-thousands/comma-as-decimal
// convention with the given fraction digit bounds. Returns "-" for
// non-finite input.
func FormatNumber(value float64, minFractionDigits, maxFractionDigits int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	if maxFractionDigits < minFractionDigits {
		maxFractionDigits = minFractionDigits
	}

	negative := value < 0
	if negative {
		value = -value
	}

	raw := strconv.FormatFloat(value, 'f', maxFractionDigits, 64)

	intPart := raw
	decPart := ""
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		intPart = raw[:i]
		decPart = raw[i+1:]
	}

	// Trim trailing zeros down to the minimum fraction digits.
	for len(decPart) > minFractionDigits && strings.HasSuffix(decPart, "0") {
		decPart = decPart[:len(decPart)-1]
	}

	result := applyThousandsGrouping(intPart)
	if len(decPart) > 0 {
		result += "," + decPart
	}
	if negative {
		result = "-" + result
	}
	return result
}

// FormatCurrency formats a number in European notation with exactly two
// decimal places and a trailing euro sign, e.g. "1.234,56 €".
func FormatCurrency(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	return FormatNumber(value, 2, 2) + " €"
}

// FormatCurrencyString formats a raw string amount as currency. Blank or
// dash placeholders stay "-"; anything unparseable stays "-" as well.
func FormatCurrencyString(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || trimmed == "-" {
		return "-"
	}
	return FormatCurrency(ParseEuropeanNumber(trimmed))
}

// applyThousandsGrouping inserts dots into an integer string, grouping
// digits in threes from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "." + result
		remaining = remaining[:len(remaining)-3]
	}
	if len(remaining) > 0 {
		result = remaining + "." + result
	}

	return result
}

// Round2 rounds to two decimal places, the precision used for all stored
// monetary values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatPercentage renders an amount as a whole-number percentage of a
// base, e.g. "25%". A non-positive base yields "0%".
func FormatPercentage(amount, base float64) string {
	if base <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(amount/base*100)))
}
