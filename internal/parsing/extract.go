// Package parsing turns labeled crawl records into profile and reference records.
package parsing

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/profile2pdf/internal/ingestion"
	"github.com/jonathan/profile2pdf/internal/observability"
	"github.com/jonathan/profile2pdf/internal/skills"
	"github.com/jonathan/profile2pdf/internal/types"
)

const (
	// MaxPostLength is the number of characters kept from each post
	MaxPostLength = 200
	// MaxPosts is the number of posts kept per profile
	MaxPosts = 10
	// MaxReferenceContent is the number of characters kept from a reference body
	MaxReferenceContent = 5000
	// ContentUnavailable replaces the body of a reference page that had none
	ContentUnavailable = "Content could not be retrieved from this page."
)

// Extractor reads profile and reference records out of crawl output.
// Rule anomalies are logged and never fail an extraction.
type Extractor struct {
	logger observability.Logger
}

// NewExtractor creates an Extractor. A nil logger discards anomalies.
func NewExtractor(logger observability.Logger) *Extractor {
	if logger == nil {
		logger = observability.NewNop()
	}
	return &Extractor{logger: logger}
}

// ExtractProfile builds a ProfileRecord from the records of a profile crawl.
// The only error is ingestion.ErrInvalidURL when profileURL has no path segment.
func (e *Extractor) ExtractProfile(records []types.RawRecord, profileURL string) (*types.ProfileRecord, error) {
	username, err := ingestion.UsernameFromURL(profileURL)
	if err != nil {
		return nil, err
	}

	profile := &types.ProfileRecord{
		Username:    username,
		DisplayName: username,
		RecentPosts: []types.RecentPost{},
	}

	if header, ok := types.FindRecord(records, types.LabelProfileHeader); ok && header.Data != "" {
		fields := make(map[string]string, len(headerRules))
		for _, rule := range headerRules {
			fields[rule.Field] = e.runString(rule, header.Data, profileURL).OrDefault("")
		}
		if fields["displayName"] != "" {
			profile.DisplayName = fields["displayName"]
		}
		profile.Bio = fields["bio"]
		profile.Location = fields["location"]
		profile.Website = fields["website"]
		profile.JoinDate = fields["joinDate"]
	}

	if stats, ok := types.FindRecord(records, types.LabelProfileStats); ok && stats.Data != "" {
		counts := make(map[string]int, len(statsRules))
		for _, rule := range statsRules {
			out, anomaly := applyRule(rule, stats.Data)
			e.logAnomaly(anomaly, profileURL)
			counts[rule.Field] = out.OrDefault(0)
		}
		profile.FollowersCount = counts["followersCount"]
		profile.FollowingCount = counts["followingCount"]
		profile.TweetCount = counts["tweetCount"]
	}

	for _, rec := range types.FilterRecords(records, types.LabelPost) {
		text := strings.TrimSpace(rec.Data)
		if text == "" {
			continue
		}
		profile.RecentPosts = append(profile.RecentPosts, types.RecentPost{
			Text: ingestion.Truncate(text, MaxPostLength),
			Date: e.runString(postDateRule, text, profileURL).OrDefault(types.DateUnknown),
		})
		if len(profile.RecentPosts) == MaxPosts {
			break
		}
	}

	profile.Skills = skills.Infer(profile.Bio, profile.PostTexts())
	return profile, nil
}

// ExtractReference builds a ReferenceRecord from the records of a reference crawl.
// now is recorded as the scrape time.
func (e *Extractor) ExtractReference(records []types.RawRecord, refURL string, now time.Time) *types.ReferenceRecord {
	ref := &types.ReferenceRecord{
		URL:         refURL,
		Title:       refURL,
		Content:     ContentUnavailable,
		Keywords:    []string{},
		LastScraped: now.UTC().Format(time.RFC3339),
	}

	if title, ok := types.FindRecord(records, types.LabelTitle); ok {
		if t := strings.TrimSpace(title.Data); t != "" {
			ref.Title = t
		}
	}

	var bodies []string
	for _, rec := range types.FilterRecords(records, types.LabelBody) {
		if text := ingestion.CleanText(rec.Data); text != "" {
			bodies = append(bodies, text)
		}
	}
	if len(bodies) > 0 {
		ref.Content = ingestion.Truncate(strings.Join(bodies, "\n\n"), MaxReferenceContent)
	}

	if kw, ok := types.FindRecord(records, types.LabelMetaKeywords); ok {
		for _, k := range strings.Split(kw.Data, ",") {
			if k = strings.TrimSpace(k); k != "" {
				ref.Keywords = append(ref.Keywords, k)
			}
		}
	}

	if len(bodies) > 0 {
		ref.ExtractedSkills = skills.Merge(skills.MatchVocabulary(ref.Content))
	} else {
		ref.ExtractedSkills = []string{}
	}
	return ref
}

func (e *Extractor) runString(rule Rule[string], text, sourceURL string) Optional[string] {
	out, anomaly := applyRule(rule, text)
	e.logAnomaly(anomaly, sourceURL)
	return out
}

func (e *Extractor) logAnomaly(anomaly error, sourceURL string) {
	if anomaly == nil {
		return
	}
	e.logger.Warn("field rule failed, using default",
		zap.String("url", sourceURL),
		zap.Error(anomaly))
}
