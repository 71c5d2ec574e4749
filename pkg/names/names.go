// Package names normalizes person names the way the registry stores them:
// surnames fully upper-cased, first names capitalized.
package names

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Surname returns s upper-cased.
func Surname(s string) string {
	return strings.ToUpper(s)
}

// FirstName capitalizes s: first rune upper-cased, the rest lower-cased.
func FirstName(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
