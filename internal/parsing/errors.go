package parsing

import "fmt"

// ParseAnomaly records a field rule that failed unexpectedly while reading scraped text.
// The field falls back to its default value; the anomaly is only logged.
type ParseAnomaly struct {
	Field string
	Cause error
}

func (e *ParseAnomaly) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse anomaly in %s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("parse anomaly in %s", e.Field)
}

func (e *ParseAnomaly) Unwrap() error {
	return e.Cause
}
