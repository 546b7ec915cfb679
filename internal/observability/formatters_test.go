package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/profile2pdf/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := &types.ProfileRecord{
		Username:       "alice",
		DisplayName:    "Alice",
		Bio:            "Backend engineer",
		Location:       "Tokyo",
		FollowersCount: 1200,
		Skills:         []string{"Go", "Docker"},
		RecentPosts: []types.RecentPost{
			{Text: "Shipping a new release", Date: "3時間前"},
		},
	}

	p.PrintProfile(profile, false)
	output := buf.String()

	assert.Contains(t, output, "PROFILE")
	assert.NotContains(t, output, "generated sample data")
	assert.Contains(t, output, "@alice (Alice)")
	assert.Contains(t, output, "Tokyo")
	assert.Contains(t, output, "Followers: 1200")
	assert.Contains(t, output, "Go, Docker")
	assert.Contains(t, output, "3時間前")
}

func TestPrintProfile_Synthetic(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfile(&types.ProfileRecord{Username: "bob", DisplayName: "Bob"}, true)

	assert.Contains(t, buf.String(), "generated sample data")
}

func TestPrintProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfile(nil, false)

	assert.Empty(t, buf.String())
}

func TestPrintReferences(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	refs := make([]types.ReferenceRecord, 7)
	for i := range refs {
		refs[i] = types.ReferenceRecord{
			URL:             "https://github.com/alice",
			Title:           "alice (Alice) · GitHub",
			ExtractedSkills: []string{"Go"},
		}
	}

	p.PrintReferences(refs)
	output := buf.String()

	assert.Contains(t, output, "Fetched 7 reference sites")
	assert.Contains(t, output, "[Go]")
	assert.Contains(t, output, "... and 2 more references")
}

func TestPrintReferences_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReferences(nil)
	assert.Empty(t, buf.String())
}

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resume := &types.ResumeRecord{
		PersonalInfo: types.PersonalInfo{Name: "Alice", Location: "Tokyo", Website: "Not set", Contact: "example@email.com"},
		Summary:      "Alice is a professional.",
		WorkExperience: []types.WorkExperience{
			{Title: "Engineer", Company: "Acme", Period: "2020 - present"},
		},
		Education: []types.Education{{School: "University", Degree: "BSc", Period: "2016 - 2020"}},
		Skills:    []string{"Go"},
		Languages: []string{"Japanese"},
	}

	p.PrintResume(resume)
	output := buf.String()

	assert.Contains(t, output, "RÉSUMÉ")
	assert.Contains(t, output, "Engineer, Acme (2020 - present)")
	assert.Contains(t, output, "University, BSc")
	assert.Contains(t, output, "Languages: Japanese")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("あ", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPrintFetchResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFetchResult(&types.AggregatedFetchResult{
		Profile:   types.ProfileRecord{Username: "carol", DisplayName: "Carol"},
		Synthetic: true,
	})

	assert.Contains(t, buf.String(), "could not be fetched")
	assert.Contains(t, buf.String(), "@carol")
}
