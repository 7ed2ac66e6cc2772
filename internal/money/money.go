// Package money represents XAF amounts as int64 minor units.
//
// The CFA franc has no subunits, so one minor unit is one franc. Monetary
// values never pass through float64.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// separators tolerated in user input: plain space, no-break space,
// narrow no-break space.
const separators = " \u00a0\u202f"

// Parse converts a user-entered amount string into minor units.
// Grouping separators are stripped first. Fractions and negative values are
// rejected: XAF has no subunits and no flow in the wallet accepts a
// negative amount.
func Parse(s string) (int64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(separators, r) {
			return -1
		}

		return r
	}, s)

	if cleaned == "" {
		return 0, fmt.Errorf("empty input: %w", ErrInvalidAmount)
	}

	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q: %w", r, ErrInvalidAmount)
		}
	}

	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", cleaned, ErrInvalidAmount)
	}

	return n, nil
}

// FormatXAF renders minor units the way the wallet UI does: French digit
// grouping with no-break spaces and the FCFA suffix, e.g. "20 000 FCFA".
func FormatXAF(minor int64) string {
	return groupDigits(minor) + "\u00a0FCFA"
}

// groupDigits inserts a no-break space every three digits from the right.
func groupDigits(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder

	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}

	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString("\u00a0")
		}

		b.WriteString(s[i : i+3])
	}

	return sign + b.String()
}
