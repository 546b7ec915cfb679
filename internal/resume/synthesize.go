// Package resume synthesizes an editable résumé from an aggregated profile and applies user edits to it.
package resume

import (
	"fmt"

	"github.com/jonathan/profile2pdf/internal/skills"
	"github.com/jonathan/profile2pdf/internal/types"
)

const (
	// NotSet marks a personal info field the profile did not provide
	NotSet = "Not set"
	// DefaultContact is used because profiles never expose an email address
	DefaultContact = "example@email.com"
	// DefaultLanguage seeds the languages section
	DefaultLanguage = "Japanese"
)

// PlaceholderSkills is used when the profile yielded no skills.
var PlaceholderSkills = []string{"Skill 1", "Skill 2", "Skill 3"}

// Placeholder entries invite the user to replace them with real history.
var (
	PlaceholderWork = types.WorkExperience{
		Title:       "Estimated job title",
		Company:     "Estimated company",
		Period:      "Estimated period",
		Description: "Generated from the profile and recent posts. Edit this entry to match your actual experience.",
	}
	PlaceholderEducation = types.Education{
		School: "Estimated school",
		Degree: "Estimated degree",
		Period: "Estimated period",
	}
)

// Synthesizer maps profiles to résumé records.
type Synthesizer struct {
	Language string // Seeds the languages section, DefaultLanguage when empty
	Contact  string // Contact placeholder, DefaultContact when empty
}

// Synthesize builds the initial résumé for profile. It has no side effects.
func (s Synthesizer) Synthesize(profile *types.ProfileRecord) *types.ResumeRecord {
	language := s.Language
	if language == "" {
		language = DefaultLanguage
	}
	contact := s.Contact
	if contact == "" {
		contact = DefaultContact
	}

	resumeSkills := skills.Merge(profile.Skills)
	if len(resumeSkills) == 0 {
		resumeSkills = append([]string(nil), PlaceholderSkills...)
	}

	return &types.ResumeRecord{
		PersonalInfo: types.PersonalInfo{
			Name:     profile.DisplayName,
			Location: orNotSet(profile.Location),
			Website:  orNotSet(profile.Website),
			Contact:  contact,
		},
		Summary:        Summary(profile),
		WorkExperience: []types.WorkExperience{PlaceholderWork},
		Skills:         resumeSkills,
		Education:      []types.Education{PlaceholderEducation},
		Languages:      []string{language},
	}
}

// Summary returns the one-sentence summary generated for profile.
func Summary(profile *types.ProfileRecord) string {
	bio := profile.Bio
	if bio == "" {
		bio = "professional"
	}
	joined := profile.JoinDate
	if joined == "" {
		joined = "an unknown date"
	}
	return fmt.Sprintf("%s is a %s with %d followers, active on X since %s.",
		profile.DisplayName, bio, profile.FollowersCount, joined)
}

func orNotSet(s string) string {
	if s == "" {
		return NotSet
	}
	return s
}
