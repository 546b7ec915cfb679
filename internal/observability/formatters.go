// Package observability provides structured logging and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/profile2pdf/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// shorten cuts s to at most n runes, marking the cut with "...".
func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfile outputs a human-readable summary of a profile record.
func (p *Printer) PrintProfile(profile *types.ProfileRecord, synthetic bool) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User:      @%s (%s)\n", profile.Username, profile.DisplayName))
	if profile.Bio != "" {
		sb.WriteString(fmt.Sprintf("Bio:       %s\n", profile.Bio))
	}
	if profile.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:  %s\n", profile.Location))
	}
	if profile.Website != "" {
		sb.WriteString(fmt.Sprintf("Website:   %s\n", profile.Website))
	}
	sb.WriteString(fmt.Sprintf("Posts: %d  Followers: %d  Following: %d\n",
		profile.TweetCount, profile.FollowersCount, profile.FollowingCount))

	if len(profile.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkills: %s\n", strings.Join(profile.Skills, ", ")))
	}

	if len(profile.RecentPosts) > 0 {
		sb.WriteString("\nRecent posts:\n")
		count := min(len(profile.RecentPosts), 3)
		for i := 0; i < count; i++ {
			post := profile.RecentPosts[i]
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", post.Date, shorten(post.Text, 40)))
		}
		if len(profile.RecentPosts) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.RecentPosts)-3))
		}
	}

	title := "PROFILE"
	if synthetic {
		title = "PROFILE (generated sample data)"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReferences outputs the fetched reference sites with their extracted skills.
func (p *Printer) PrintReferences(refs []types.ReferenceRecord) {
	if len(refs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Fetched %d reference sites:\n\n", len(refs)))

	count := min(len(refs), maxItemsToShow)
	for i := 0; i < count; i++ {
		ref := refs[i]
		sb.WriteString(fmt.Sprintf("• %s\n", ref.Title))
		sb.WriteString(fmt.Sprintf("  %s\n", ref.URL))
		if len(ref.ExtractedSkills) > 0 {
			sb.WriteString(fmt.Sprintf("  [%s]\n", strings.Join(ref.ExtractedSkills, ", ")))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(refs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more references", len(refs)-maxItemsToShow))
	}

	p.printBox("REFERENCES", sb.String())
}

// PrintResume outputs the synthesized résumé record.
func (p *Printer) PrintResume(resume *types.ResumeRecord) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	info := resume.PersonalInfo
	sb.WriteString(fmt.Sprintf("Name:      %s\n", info.Name))
	sb.WriteString(fmt.Sprintf("Location:  %s\n", info.Location))
	sb.WriteString(fmt.Sprintf("Website:   %s\n", info.Website))
	sb.WriteString(fmt.Sprintf("Contact:   %s\n", info.Contact))
	sb.WriteString("\n")
	sb.WriteString(resume.Summary + "\n")

	if len(resume.WorkExperience) > 0 {
		sb.WriteString("\nExperience:\n")
		for _, w := range resume.WorkExperience {
			sb.WriteString(fmt.Sprintf("  • %s, %s (%s)\n", w.Title, w.Company, w.Period))
		}
	}
	if len(resume.Education) > 0 {
		sb.WriteString("\nEducation:\n")
		for _, e := range resume.Education {
			sb.WriteString(fmt.Sprintf("  • %s, %s (%s)\n", e.School, e.Degree, e.Period))
		}
	}
	if len(resume.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkills: %s\n", strings.Join(resume.Skills, ", ")))
	}
	if len(resume.Languages) > 0 {
		sb.WriteString(fmt.Sprintf("Languages: %s\n", strings.Join(resume.Languages, ", ")))
	}

	p.printBox("RÉSUMÉ", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFetchResult outputs the profile and references of an aggregated fetch.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFetchResult(result *types.AggregatedFetchResult) {
	if result == nil {
		return
	}
	if result.Synthetic {
		fmt.Fprintf(p.out, "⚠ profile could not be fetched, showing generated sample data\n")
	}
	p.PrintProfile(&result.Profile, result.Synthetic)
	p.PrintReferences(result.References)
}
