// Package types provides type definitions for structured data used throughout the profile2pdf system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// DateUnknown is the date recorded for a post whose text carries no recognizable date.
const DateUnknown = "unknown"

// RecentPost is a single post scraped from a profile timeline
type RecentPost struct {
	Text string `json:"text"` // At most 200 characters
	Date string `json:"date"` // Raw date text as displayed, or DateUnknown
}

// ProfileRecord is the structured view of a social profile page
type ProfileRecord struct {
	Username       string       `json:"username"`
	DisplayName    string       `json:"displayName"`
	Bio            string       `json:"bio"`
	JoinDate       string       `json:"joinDate"`
	Location       string       `json:"location"`
	Website        string       `json:"website"`
	TweetCount     int          `json:"tweetCount"`
	FollowersCount int          `json:"followersCount"`
	FollowingCount int          `json:"followingCount"`
	Skills         []string     `json:"skills"`      // Deduplicated, at most 15
	RecentPosts    []RecentPost `json:"recentPosts"` // At most 10, in source order
}

// PostTexts returns the text of every recent post.
func (p *ProfileRecord) PostTexts() []string {
	texts := make([]string, 0, len(p.RecentPosts))
	for _, post := range p.RecentPosts {
		texts = append(texts, post.Text)
	}
	return texts
}

// ReferenceRecord is the structured view of a supplementary site (portfolio, code hosting page)
type ReferenceRecord struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`   // Defaults to URL
	Content         string   `json:"content"` // At most 5000 characters
	Keywords        []string `json:"keywords"`
	ExtractedSkills []string `json:"extractedSkills"`
	LastScraped     string   `json:"lastScraped"` // RFC3339
}

// AggregatedFetchResult is the combined output of one profile fetch.
// References whose scrape failed are absent, never present as error entries.
type AggregatedFetchResult struct {
	Profile    ProfileRecord     `json:"profile"`
	References []ReferenceRecord `json:"references"`
	Synthetic  bool              `json:"synthetic"` // Profile came from the mock generator
}
