// Package phone validates and normalizes Chadian phone numbers, which act
// as wallet account identifiers across the platform.
package phone

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidNumber = errors.New("invalid phone number")

// CountryPrefix is the international dialing prefix for Chad.
const CountryPrefix = "+235"

// Normalize canonicalizes raw to "+235XXXXXXXX".
//
// Accepted forms: "+235 90 00 00 00", "00235...", "235..." and bare local
// 8-digit numbers. Spaces, dots and dashes are tolerated anywhere. Chadian
// mobile numbers have 8 digits starting with 6, 7 or 9.
func Normalize(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '.', '-', '(', ')':
			return -1
		default:
			return r
		}
	}, raw)

	if cleaned == "" {
		return "", fmt.Errorf("empty input: %w", ErrInvalidNumber)
	}

	switch {
	case strings.HasPrefix(cleaned, "+235"):
		cleaned = cleaned[len("+235"):]
	case strings.HasPrefix(cleaned, "00235"):
		cleaned = cleaned[len("00235"):]
	case strings.HasPrefix(cleaned, "235") && len(cleaned) == 11:
		cleaned = cleaned[len("235"):]
	}

	if len(cleaned) != 8 {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidNumber)
	}

	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%q: %w", raw, ErrInvalidNumber)
		}
	}

	switch cleaned[0] {
	case '6', '7', '9':
	default:
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidNumber)
	}

	return CountryPrefix + cleaned, nil
}

// Valid reports whether raw is an acceptable wallet identifier.
func Valid(raw string) bool {
	_, err := Normalize(raw)

	return err == nil
}
