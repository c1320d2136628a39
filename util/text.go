package util

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	spaceRun = regexp.MustCompile(`[ ]{2,}`)
	digits   = regexp.MustCompile(`[\d-]`)
	mailRe   = regexp.MustCompile(`(?i)\A(?:[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(?:\.[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*@(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z0-9](?:[a-z0-9-]*[a-z0-9])?)\z`)
)

// CollapseSpaces replaces runs of two or more spaces with one.
func CollapseSpaces(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}

// Capitalize upper-cases the first rune.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// StripDigits removes digits and dashes.
func StripDigits(s string) string {
	return digits.ReplaceAllString(s, "")
}

func IsValidEmail(s string) bool {
	return s != "" && mailRe.MatchString(s)
}

// IsValidURL accepts absolute http and https URLs.
func IsValidURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
