// Package types provides type definitions for structured data used throughout the profile2pdf system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Record labels attached to crawl records. Profile crawls produce the first
// four, reference crawls the last three.
const (
	LabelProfileMeta   = "profile_meta"
	LabelProfileHeader = "profile_header"
	LabelProfileStats  = "profile_stats"
	LabelPost          = "tweets"
	LabelTitle         = "title"
	LabelBody          = "body"
	LabelMetaKeywords  = "meta_keywords"
)

// RawRecord is one labeled chunk of content returned for a crawled page
type RawRecord struct {
	Name      string `json:"name"` // Source label, one of the Label* constants
	Data      string `json:"data"`
	SourceURL string `json:"sourceURL,omitempty"`
}

// CrawlResult is the outcome of a single crawl call.
// Success is false when the provider reported or caused a failure; Error then holds its message.
type CrawlResult struct {
	Success bool        `json:"success"`
	Records []RawRecord `json:"records,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// FindRecord returns the first record with the given label.
func FindRecord(records []RawRecord, label string) (RawRecord, bool) {
	for _, rec := range records {
		if rec.Name == label {
			return rec, true
		}
	}
	return RawRecord{}, false
}

// FilterRecords returns every record with the given label, in order.
func FilterRecords(records []RawRecord, label string) []RawRecord {
	var out []RawRecord
	for _, rec := range records {
		if rec.Name == label {
			out = append(out, rec)
		}
	}
	return out
}
