// Package format holds the display masks applied to raw API fields before
// they reach a screen. The rules are deliberately conservative: values that
// don't match the expected shape pass through untouched.
package format

import (
	"fmt"
	"strings"
)

// Phone strips every non-digit and applies the Brazilian mobile mask
// (XX) XXXXX-XXXX when exactly 11 digits remain. Any other digit count is
// returned as the bare digit string — short landlines and foreign numbers
// are displayed as-is rather than guessed at.
func Phone(raw string) string {
	digits := stripNonDigits(raw)
	if len(digits) != 11 {
		return digits
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:7], digits[7:])
}

// BirthDate converts an ISO date-time ("2001-03-07T00:00:00...") to
// DD/MM/YYYY. Values without the date-time separator are returned verbatim;
// the API already sends those pre-formatted.
func BirthDate(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "T") {
		return raw
	}
	datePart, _, _ := strings.Cut(raw, "T")
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		return raw
	}
	year, month, day := parts[0], parts[1], parts[2]
	return fmt.Sprintf("%s/%s/%s", pad2(day), pad2(month), year)
}

// Price renders a value as Brazilian currency, e.g. "R$ 150,00".
func Price(value float64) string {
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", value), ".", ",", 1)
}

// CEP drops the dash from a postal code before it is sent to the address
// lookup service.
func CEP(raw string) string {
	return strings.ReplaceAll(raw, "-", "")
}

// HouseNumber substitutes the "not informed" sentinel for a missing value.
func HouseNumber(raw, sentinel string) string {
	if strings.TrimSpace(raw) == "" {
		return sentinel
	}
	return raw
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
