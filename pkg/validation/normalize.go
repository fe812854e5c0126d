package validation

import "strings"

// DigitsOnly strips every non-digit rune and caps the result at max runes.
// A max of zero means unbounded.
func DigitsOnly(max int) func(string) string {
	return func(raw string) string {
		var b strings.Builder
		b.Grow(len(raw))
		for _, r := range raw {
			if r < '0' || r > '9' {
				continue
			}
			b.WriteRune(r)
			if max > 0 && b.Len() == max {
				break
			}
		}
		return b.String()
	}
}

// LettersOnly keeps ASCII letters and spaces, dropping everything else.
func LettersOnly(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// UpperAlnum uppercases the input, keeps A-Z and 0-9, and caps the result at
// max runes. Used for PAN and GST identifiers.
func UpperAlnum(max int) func(string) string {
	return func(raw string) string {
		var b strings.Builder
		b.Grow(len(raw))
		for _, r := range strings.ToUpper(raw) {
			switch {
			case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
				b.WriteRune(r)
			default:
				continue
			}
			if max > 0 && b.Len() == max {
				break
			}
		}
		return b.String()
	}
}
