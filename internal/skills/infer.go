// Package skills infers a skill list from free text by vocabulary and hashtag matching.
package skills

import (
	"regexp"
	"strings"
)

// MaxSkills caps every skill list produced by this package
const MaxSkills = 15

// Vocabulary is the fixed list of recognized skills, in match order.
var Vocabulary = []string{
	"JavaScript", "TypeScript", "React", "Vue.js", "Angular", "Node.js",
	"PHP", "Python", "Ruby", "Java", "C#", "Swift",
	"HTML", "CSS", "Sass", "UI/UX", "Figma", "Adobe XD",
	"SQL", "MongoDB", "Firebase", "AWS", "Azure", "GCP",
	"Docker", "Kubernetes", "CI/CD", "Git", "Agile", "Scrum",
	"プロジェクト管理", "マーケティング", "セールス", "カスタマーサポート",
	"データ分析", "機械学習", "AI", "ブロックチェーン",
	"SEO", "SEM", "コンテンツマーケティング", "SNSマーケティング",
}

var (
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	// techTagPattern keeps only hashtags about tech, development, design or marketing
	techTagPattern = regexp.MustCompile(`(?i)tech|dev|エンジニア|プログラミング|開発|デザイン|マーケティング`)
)

// Infer returns the skills found in a bio and a set of post texts:
// vocabulary matches in vocabulary order, then qualifying hashtags,
// deduplicated and capped at MaxSkills.
func Infer(bio string, posts []string) []string {
	text := bio + " " + strings.Join(posts, " ")
	return Merge(MatchVocabulary(text), Hashtags(text))
}

// MatchVocabulary returns every vocabulary term contained in text, ignoring case.
func MatchVocabulary(text string) []string {
	lower := strings.ToLower(text)
	var matches []string
	for _, term := range Vocabulary {
		if strings.Contains(lower, strings.ToLower(term)) {
			matches = append(matches, term)
		}
	}
	return matches
}

// Hashtags returns the tags in text (without '#') that pass the tech keyword filter.
func Hashtags(text string) []string {
	var tags []string
	for _, m := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		if techTagPattern.MatchString(m[1]) {
			tags = append(tags, m[1])
		}
	}
	return tags
}

// Merge concatenates lists, drops blanks and duplicates (first occurrence wins)
// and truncates the result to MaxSkills.
func Merge(lists ...[]string) []string {
	seen := make(map[string]bool)
	merged := make([]string, 0, MaxSkills)
	for _, list := range lists {
		for _, skill := range list {
			if skill == "" || seen[skill] {
				continue
			}
			seen[skill] = true
			merged = append(merged, skill)
			if len(merged) == MaxSkills {
				return merged
			}
		}
	}
	return merged
}
