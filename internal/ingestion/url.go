// Package ingestion validates user-supplied profile and reference URLs and normalizes scraped text.
package ingestion

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidURL is returned when a URL is malformed or lacks the expected path segment
var ErrInvalidURL = errors.New("invalid URL")

// profileURLPattern accepts X/Twitter profile links with exactly one path segment.
var profileURLPattern = regexp.MustCompile(`^https?://(www\.)?(twitter|x)\.com/[A-Za-z0-9_]+/?$`)

var validate = validator.New()

// IsProfileURL reports whether s is a canonical X/Twitter profile URL.
func IsProfileURL(s string) bool {
	return profileURLPattern.MatchString(s)
}

// IsReferenceURL reports whether s is acceptable as a reference URL.
// A blank value is acceptable: the field is optional and blank entries are
// dropped before fetching.
func IsReferenceURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	if err := validate.Var(s, "url"); err != nil {
		return false
	}
	parsed, err := url.Parse(s)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

// ReferenceTargets returns the reference URLs that should actually be fetched:
// blank and malformed entries are removed, order is kept.
func ReferenceTargets(urls []string) []string {
	targets := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || !IsReferenceURL(u) {
			continue
		}
		targets = append(targets, u)
	}
	return targets
}

// UsernameFromURL returns the first non-empty path segment of a profile URL.
func UsernameFromURL(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidURL, rawURL, err)
	}
	for _, segment := range strings.Split(parsed.Path, "/") {
		if segment != "" {
			return segment, nil
		}
	}
	return "", fmt.Errorf("%w: %s has no path segment", ErrInvalidURL, rawURL)
}

// Hostname returns the host of rawURL without a leading "www.", or "" when it cannot be parsed.
func Hostname(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
