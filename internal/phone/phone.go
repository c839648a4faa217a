// Package phone validates and normalizes phone numbers collected as free text.
package phone

import "strings"

// IsValid reports whether s contains a plausible phone number: after
// stripping every non-digit character, exactly 10 or 11 digits remain.
func IsValid(s string) bool {
	n := len(digits(s))
	return n == 10 || n == 11
}

// Normalize converts a validated phone number to the +7XXXXXXXXXX form.
// The first matching rule wins: a leading 8 in an 11-digit number is
// replaced with +7, a leading 7 is prefixed with +, and a 10-digit
// number starting with 9 is prefixed with +7. When no rule matches, the
// original input is returned unchanged.
func Normalize(s string) string {
	d := digits(s)

	switch {
	case len(d) == 11 && strings.HasPrefix(d, "8"):
		return "+7" + d[1:]
	case len(d) == 11 && strings.HasPrefix(d, "7"):
		return "+" + d
	case len(d) == 10 && strings.HasPrefix(d, "9"):
		return "+7" + d
	}

	return s
}

func digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
