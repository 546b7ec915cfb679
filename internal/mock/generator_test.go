package mock

import (
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile2pdf/internal/ingestion"
	"github.com/jonathan/profile2pdf/internal/skills"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestGenerator(seed uint64) *Generator {
	return New(WithSeed(seed), WithClock(func() time.Time { return fixedNow }))
}

func TestProfile_Shape(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			profile, err := newTestGenerator(seed).Profile("https://x.com/alice")
			require.NoError(t, err)

			assert.Equal(t, "alice", profile.Username)
			assert.Equal(t, "Alice", profile.DisplayName)
			assert.Contains(t, profile.Bio, "alice")
			assert.Contains(t, cities, profile.Location)
			if profile.Website != "" {
				assert.Equal(t, "https://alice.com", profile.Website)
			}

			joined, err := time.Parse("2006-01-02", profile.JoinDate)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, joined.Year(), 2006)
			assert.LessOrEqual(t, joined.Year(), 2021)
			assert.LessOrEqual(t, joined.Day(), 28)

			assert.GreaterOrEqual(t, profile.TweetCount, 0)
			assert.Less(t, profile.TweetCount, 10000)
			assert.Less(t, profile.FollowersCount, 5000)
			assert.Less(t, profile.FollowingCount, 1000)

			assert.GreaterOrEqual(t, len(profile.Skills), 5)
			assert.LessOrEqual(t, len(profile.Skills), 10)
			for _, s := range profile.Skills {
				assert.True(t, slices.Contains(skills.Vocabulary, s), "unexpected skill %s", s)
			}
			assert.Len(t, profile.Skills, len(skills.Merge(profile.Skills)), "skills must be distinct")

			assert.GreaterOrEqual(t, len(profile.RecentPosts), 5)
			assert.LessOrEqual(t, len(profile.RecentPosts), 8)
			for _, post := range profile.RecentPosts {
				assert.NotEmpty(t, post.Text)
				date, err := time.Parse("2006/1/2", post.Date)
				require.NoError(t, err)
				assert.False(t, date.After(fixedNow))
				assert.True(t, date.After(fixedNow.AddDate(0, 0, -91)))
			}
		})
	}
}

func TestProfile_DisplayNameCasing(t *testing.T) {
	tests := []struct {
		username string
		want     string
	}{
		{"alice", "Alice"},
		{"BOB", "Bob"},
		{"mcDonald_99", "Mcdonald_99"},
		{"1alice", "1alice"},
		{"_alice", "_alice"},
		{"a", "A"},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			profile, err := newTestGenerator(1).Profile("https://twitter.com/" + tt.username)
			require.NoError(t, err)
			assert.Equal(t, tt.want, profile.DisplayName)
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Élodie", capitalize("éLODIE"))
}

func TestProfile_InvalidURL(t *testing.T) {
	_, err := newTestGenerator(1).Profile("https://x.com/")
	assert.ErrorIs(t, err, ingestion.ErrInvalidURL)
}

func TestProfile_SameSeedSameData(t *testing.T) {
	a, err := newTestGenerator(42).Profile("https://x.com/alice")
	require.NoError(t, err)
	b, err := newTestGenerator(42).Profile("https://x.com/alice")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReference(t *testing.T) {
	ref := newTestGenerator(7).Reference("https://www.github.com/alice")

	assert.Equal(t, "https://www.github.com/alice", ref.URL)
	assert.Equal(t, "github.com", ref.Title)
	assert.NotEmpty(t, ref.Content)
	assert.Equal(t, []string{"portfolio", "projects", "engineering"}, ref.Keywords)
	assert.Len(t, ref.ExtractedSkills, 5)
	assert.Equal(t, "2025-06-01T12:00:00Z", ref.LastScraped)
}

func TestReference_UnparsableURL(t *testing.T) {
	ref := newTestGenerator(7).Reference("::not a url")
	assert.Equal(t, "::not a url", ref.Title)
}

func TestGenerator_ConcurrentUse(t *testing.T) {
	g := newTestGenerator(3)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Profile("https://x.com/alice")
			assert.NoError(t, err)
			g.Reference("https://alice.dev")
		}()
	}
	wg.Wait()
}
