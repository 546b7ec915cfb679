// Package mock generates plausible sample profile and reference data when real scraping is unavailable.
package mock

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/profile2pdf/internal/ingestion"
	"github.com/jonathan/profile2pdf/internal/skills"
	"github.com/jonathan/profile2pdf/internal/types"
)

const (
	minSkills = 5
	maxSkills = 10
	minPosts  = 5
	maxPosts  = 8
	// postWindowDays bounds how far back generated post dates go
	postWindowDays = 90
	// referenceSkills is the number of skills sampled for a generated reference
	referenceSkills = 5
)

// Generator produces sample records. It never touches the network and is
// safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithSeed makes the generated data reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithClock sets the time source used for post dates and scrape timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator seeded from the current time unless WithSeed is given.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Profile generates a sample profile for profileURL. The username is derived
// the same way the extractor derives it; ingestion.ErrInvalidURL is returned
// when the URL has no path segment.
func (g *Generator) Profile(profileURL string) (*types.ProfileRecord, error) {
	username, err := ingestion.UsernameFromURL(profileURL)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	website := ""
	if g.rng.Float64() > 0.5 {
		website = fmt.Sprintf("https://%s.com", username)
	}

	return &types.ProfileRecord{
		Username:       username,
		DisplayName:    capitalize(username),
		Bio:            fmt.Sprintf("This is a sample bio for %s. The real profile could not be fetched, so it was generated.", username),
		JoinDate:       g.joinDate(),
		Location:       pick(g.rng, cities),
		Website:        website,
		TweetCount:     g.rng.IntN(10000),
		FollowersCount: g.rng.IntN(5000),
		FollowingCount: g.rng.IntN(1000),
		Skills:         g.sampleSkills(minSkills + g.rng.IntN(maxSkills-minSkills+1)),
		RecentPosts:    g.posts(),
	}, nil
}

// Reference generates a sample reference record for refURL. It never fails.
func (g *Generator) Reference(refURL string) *types.ReferenceRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	title := ingestion.Hostname(refURL)
	if title == "" {
		title = refURL
	}

	return &types.ReferenceRecord{
		URL:             refURL,
		Title:           title,
		Content:         fmt.Sprintf("Sample content for %s. The page could not be fetched, so this text was generated.", refURL),
		Keywords:        []string{"portfolio", "projects", "engineering"},
		ExtractedSkills: g.sampleSkills(referenceSkills),
		LastScraped:     g.now().UTC().Format(time.RFC3339),
	}
}

// joinDate picks a date between 2006 and 2021. Days stop at 28 so every month is valid.
func (g *Generator) joinDate() string {
	year := 2006 + g.rng.IntN(16)
	month := 1 + g.rng.IntN(12)
	day := 1 + g.rng.IntN(28)
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func (g *Generator) sampleSkills(n int) []string {
	perm := g.rng.Perm(len(skills.Vocabulary))
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, skills.Vocabulary[i])
	}
	return out
}

func (g *Generator) posts() []types.RecentPost {
	count := minPosts + g.rng.IntN(maxPosts-minPosts+1)
	now := g.now()
	posts := make([]types.RecentPost, 0, count)
	for i := 0; i < count; i++ {
		tmpl := pick(g.rng, postTemplates)
		date := now.AddDate(0, 0, -g.rng.IntN(postWindowDays))
		posts = append(posts, types.RecentPost{
			Text: tmpl(g.rng),
			Date: date.Format("2006/1/2"),
		})
	}
	return posts
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

// capitalize upper-cases the first character of name and lower-cases the rest.
func capitalize(name string) string {
	first, size := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError {
		return name
	}
	return cases.Upper(language.Und).String(string(first)) + cases.Lower(language.Und).String(name[size:])
}
