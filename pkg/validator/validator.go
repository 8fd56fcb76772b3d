package validator

import (
	"net/url"
	"regexp"
	"strings"
)

// Leaf string and URL checks used by the validation engine.
// These are deliberately free of any domain knowledge - they only answer
// "is this string shaped correctly", never "is this pack valid".

// identifierPattern is the full set of characters allowed in a pack
// identifier: a-z, A-Z, 0-9, underscore, dot, comma, apostrophe, whitespace
// and hyphen. The whole string must match, not just a substring.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_.,'\s-]+$`)

// emailPattern is a pragmatic email shape check: one @, no whitespace,
// a dotted domain. Deliverability is not our problem.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CheckIdentifier verifies that a string uses only the allowed identifier
// characters and never contains "..". Consecutive dots are rejected even
// though '.' itself is allowed, because identifiers end up in asset paths.
func CheckIdentifier(s string) error {
	if !identifierPattern.MatchString(s) {
		return ErrInvalidCharacters
	}
	if strings.Contains(s, "..") {
		return ErrDoubleDot
	}
	return nil
}

// ValidateWebsiteURL checks that a string parses as an absolute URL with an
// http or https scheme. Returns ErrMalformedURL if it does not parse at all,
// ErrSchemeNotHTTP if it parses but uses another scheme.
// This is a syntactic check only - the URL is never fetched.
func ValidateWebsiteURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ErrMalformedURL
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return ErrMalformedURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrSchemeNotHTTP
	}
	return nil
}

// ValidateURLInDomain checks that a URL's host equals the expected domain
// exactly. Case-sensitive string equality, no subdomain matching - the
// receiving app compares hosts the same way.
func ValidateURLInDomain(raw, domain string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ErrMalformedURL
	}
	if parsed.Host != domain {
		return ErrWrongDomain
	}
	return nil
}

// ValidateEmail checks that a string looks like an email address.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
