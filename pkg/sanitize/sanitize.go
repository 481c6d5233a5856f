package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sanitize removes every rune that is not a letter, a number or whitespace.
// Permitted runes keep their original order, including whitespace runs.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range s {
		if Allowed(r) {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// Allowed reports whether r survives Sanitize.
// utf8.RuneError (the decoding of invalid bytes) is never allowed.
func Allowed(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r) || IsSpace(r)
}

// IsSpace reports whether r is whitespace: the Zs category, the ASCII
// controls \t \n \v \f \r, U+2028, U+2029 and U+FEFF. Unlike
// unicode.IsSpace it excludes U+0085.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// Truncate returns s cut to at most max runes.
// A max of zero or less disables the bound.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}

	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// Field sanitizes s and then applies the rune bound.
func Field(s string, max int) string {
	return Truncate(Sanitize(s), max)
}
