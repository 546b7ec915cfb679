// Package types provides type definitions for structured data used throughout the profile2pdf system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "slices"

// PersonalInfo holds the header block of a resume
type PersonalInfo struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Contact  string `json:"contact"`
}

// WorkExperience is one entry of the work history section
type WorkExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// Education is one entry of the education section
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Period string `json:"period"`
}

// ResumeRecord is the editable resume document synthesized from profile data
type ResumeRecord struct {
	PersonalInfo   PersonalInfo     `json:"personalInfo"`
	Summary        string           `json:"summary"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Skills         []string         `json:"skills"`
	Education      []Education      `json:"education"`
	Languages      []string         `json:"languages"`
}

// Clone returns a deep copy of the record. Edits are applied to clones so
// that a record handed out earlier never changes underneath its holder.
func (r *ResumeRecord) Clone() *ResumeRecord {
	if r == nil {
		return nil
	}
	return &ResumeRecord{
		PersonalInfo:   r.PersonalInfo,
		Summary:        r.Summary,
		WorkExperience: slices.Clone(r.WorkExperience),
		Skills:         slices.Clone(r.Skills),
		Education:      slices.Clone(r.Education),
		Languages:      slices.Clone(r.Languages),
	}
}
