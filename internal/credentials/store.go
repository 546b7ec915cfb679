// Package credentials stores the single API key used by the crawl client.
package credentials

import (
	"context"
	"errors"
	"strings"
)

// StorageKey is the stable name the credential is stored under in every backend.
const StorageKey = "firecrawl_api_key"

// ErrBlankKey is returned when Set is called with an empty or whitespace-only key
var ErrBlankKey = errors.New("API key must not be blank")

// Store reads and writes the crawl API key. Get reports ok=false when no key
// has been set; err is reserved for backend failures.
type Store interface {
	Get(ctx context.Context) (key string, ok bool, err error)
	Set(ctx context.Context, key string) error
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrBlankKey
	}
	return key, nil
}

// Mask hides all but the last four characters of key for display.
func Mask(key string) string {
	r := []rune(key)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}
