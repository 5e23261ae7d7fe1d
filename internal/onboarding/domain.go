package onboarding

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DomainFromEmail returns the part of the email after its single "@", which
// serves as the organization's natural key. Returns "" when the string has
// zero or more than one "@"; callers must check before creating anything.
func DomainFromEmail(email string) string {
	if strings.Count(email, "@") != 1 {
		return ""
	}
	return email[strings.IndexByte(email, '@')+1:]
}

// SplitFullName splits at the first whitespace boundary. Everything after it
// becomes the last name verbatim, embedded spaces included, so "Mary Jane
// Watson" keeps "Jane Watson" intact.
func SplitFullName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	i := strings.IndexFunc(full, unicode.IsSpace)
	if i < 0 {
		return full, ""
	}
	_, width := utf8.DecodeRuneInString(full[i:])
	return full[:i], full[i+width:]
}
