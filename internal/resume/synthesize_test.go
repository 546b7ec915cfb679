package resume

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile2pdf/internal/skills"
	"github.com/jonathan/profile2pdf/internal/types"
)

func sampleProfile() *types.ProfileRecord {
	return &types.ProfileRecord{
		Username:       "alice",
		DisplayName:    "Alice",
		Bio:            "frontend engineer",
		JoinDate:       "2015-04-01",
		Location:       "Tokyo",
		Website:        "https://alice.dev",
		FollowersCount: 1200,
		Skills:         []string{"React", "TypeScript"},
	}
}

func TestSynthesize(t *testing.T) {
	r := Synthesizer{}.Synthesize(sampleProfile())

	assert.Equal(t, types.PersonalInfo{
		Name:     "Alice",
		Location: "Tokyo",
		Website:  "https://alice.dev",
		Contact:  DefaultContact,
	}, r.PersonalInfo)
	assert.Equal(t, "Alice is a frontend engineer with 1200 followers, active on X since 2015-04-01.", r.Summary)
	assert.Equal(t, []types.WorkExperience{PlaceholderWork}, r.WorkExperience)
	assert.Equal(t, []types.Education{PlaceholderEducation}, r.Education)
	assert.Equal(t, []string{"React", "TypeScript"}, r.Skills)
	assert.Equal(t, []string{DefaultLanguage}, r.Languages)
}

func TestSynthesize_Defaults(t *testing.T) {
	profile := &types.ProfileRecord{Username: "bob", DisplayName: "bob"}
	r := Synthesizer{Language: "English", Contact: "bob@example.org"}.Synthesize(profile)

	assert.Equal(t, NotSet, r.PersonalInfo.Location)
	assert.Equal(t, NotSet, r.PersonalInfo.Website)
	assert.Equal(t, "bob@example.org", r.PersonalInfo.Contact)
	assert.Contains(t, r.Summary, "bob is a professional")
	assert.Equal(t, PlaceholderSkills, r.Skills)
	assert.Equal(t, []string{"English"}, r.Languages)
}

func TestSynthesize_SkillsCapped(t *testing.T) {
	profile := sampleProfile()
	profile.Skills = nil
	for i := 0; i < 20; i++ {
		profile.Skills = append(profile.Skills, fmt.Sprintf("skill-%d", i))
	}

	r := Synthesizer{}.Synthesize(profile)
	assert.Len(t, r.Skills, skills.MaxSkills)
	assert.Equal(t, "skill-0", r.Skills[0])
}

func TestSynthesize_DoesNotAliasProfile(t *testing.T) {
	profile := sampleProfile()
	r := Synthesizer{}.Synthesize(profile)

	r.Skills[0] = "Changed"
	assert.Equal(t, "React", profile.Skills[0])

	empty := Synthesizer{}.Synthesize(&types.ProfileRecord{DisplayName: "x"})
	empty.Skills[0] = "Changed"
	assert.Equal(t, "Skill 1", PlaceholderSkills[0])
}

func TestSynthesize_ShapeForAnyProfile(t *testing.T) {
	profiles := []*types.ProfileRecord{
		{},
		{DisplayName: "山田太郎", Bio: "エンジニア"},
		sampleProfile(),
	}
	for _, p := range profiles {
		r := Synthesizer{}.Synthesize(p)
		require.Len(t, r.WorkExperience, 1)
		require.Len(t, r.Education, 1)
		assert.NotEmpty(t, r.Summary)
		assert.Contains(t, r.Summary, p.DisplayName)
	}
}
