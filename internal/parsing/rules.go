package parsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Rule extracts one field from a block of scraped text.
type Rule[T any] struct {
	Field   string
	Extract func(text string) Optional[T]
}

// captureRule returns the trimmed first capture group of pattern.
func captureRule(field, pattern string) Rule[string] {
	re := regexp.MustCompile(pattern)
	return Rule[string]{
		Field: field,
		Extract: func(text string) Optional[string] {
			m := re.FindStringSubmatch(text)
			if m == nil {
				return None[string]()
			}
			v := strings.TrimSpace(m[1])
			if v == "" {
				return None[string]()
			}
			return Some(v)
		},
	}
}

// countRule reads a displayed counter such as "1,234 Followers".
func countRule(field, pattern string) Rule[int] {
	re := regexp.MustCompile(pattern)
	return Rule[int]{
		Field: field,
		Extract: func(text string) Optional[int] {
			m := re.FindStringSubmatch(text)
			if m == nil {
				return None[int]()
			}
			return Some(parseCount(m[1]))
		},
	}
}

// parseCount strips thousands separators (both ',' and '.') and parses the
// remaining digits. Anything unparseable counts as 0.
func parseCount(s string) int {
	cleaned := strings.NewReplacer(",", "", ".", "").Replace(s)
	n, err := strconv.Atoi(cleaned)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Header fields. Labels are matched in the order the header renders them,
// each capture runs until the next known label or the end of the text.
var headerRules = []Rule[string]{
	captureRule("displayName", `@([a-zA-Z0-9_]+)`),
	captureRule("bio", `(?s)Bio:(.*?)(?:Location:|Website:|Joined:|$)`),
	captureRule("location", `(?s)Location:(.*?)(?:Website:|Joined:|$)`),
	captureRule("website", `(?s)Website:(.*?)(?:Joined:|$)`),
	captureRule("joinDate", `(?s)Joined:(.*)$`),
}

var statsRules = []Rule[int]{
	countRule("followersCount", `([0-9,.]+)\s*(?:フォロワー|Followers)`),
	countRule("followingCount", `([0-9,.]+)\s*(?:フォロー中|Following)`),
	countRule("tweetCount", `([0-9,.]+)\s*(?:ポスト|posts|Posts)`),
}

const monthName = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?`

// postDatePattern finds the first date-like fragment of a post: full date,
// month/day, hours ago or minutes ago, in Japanese or English.
var postDatePattern = regexp.MustCompile(
	`([0-9]{4}年[0-9]{1,2}月[0-9]{1,2}日` +
		`|[0-9]{1,2}月[0-9]{1,2}日` +
		`|[0-9]{1,2}時間前` +
		`|[0-9]{1,2}分前` +
		`|\b` + monthName + ` [0-9]{1,2}, [0-9]{4}` +
		`|\b` + monthName + ` [0-9]{1,2}\b` +
		`|\b[0-9]{1,2} hours? ago` +
		`|\b[0-9]{1,2} minutes? ago)`)

var postDateRule = captureRule("recentPosts.date", postDatePattern.String())

// applyRule runs a rule and converts a panic inside it into a ParseAnomaly.
func applyRule[T any](rule Rule[T], text string) (out Optional[T], anomaly error) {
	defer func() {
		if r := recover(); r != nil {
			out = None[T]()
			anomaly = &ParseAnomaly{Field: rule.Field, Cause: fmt.Errorf("%v", r)}
		}
	}()
	return rule.Extract(text), nil
}
