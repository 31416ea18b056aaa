package googlebooks

import "strings"

// CleanISBN strips hyphens and whitespace from an ISBN-like identifier.
func CleanISBN(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == '-':
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidISBN reports whether a cleaned identifier is a well-formed ISBN-10
// (9 digits followed by a digit or 'X') or ISBN-13 (13 digits).
func ValidISBN(isbn string) bool {
	switch len(isbn) {
	case 10:
		for i := 0; i < 9; i++ {
			if isbn[i] < '0' || isbn[i] > '9' {
				return false
			}
		}
		last := isbn[9]
		return last == 'X' || (last >= '0' && last <= '9')
	case 13:
		for i := 0; i < 13; i++ {
			if isbn[i] < '0' || isbn[i] > '9' {
				return false
			}
		}
		return true
	}
	return false
}
