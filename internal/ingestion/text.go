package ingestion

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	innerSpacePattern = regexp.MustCompile(`[ \t\x{3000}]+`)
	blankRunPattern   = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes scraped page text: CRLF line endings become LF, runs of
// spaces inside a line collapse to one, Markdown headings and bullets keep
// their markers, and at most one blank line separates paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := strings.Join(lines, "\n")
	result = blankRunPattern.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	// Headings and bullets lose their indentation but keep the marker
	if strings.HasPrefix(trimmed, "#") || isBulletLine(trimmed) {
		return trimmed
	}
	return innerSpacePattern.ReplaceAllString(trimmed, " ")
}

func isBulletLine(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") ||
		strings.HasPrefix(line, "• ") || strings.HasPrefix(line, "· ")
}

// Truncate returns at most limit runes of s.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
