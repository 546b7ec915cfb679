package crawling

import (
	"net/url"
	"strings"
)

// Platform represents a known reference site platform.
type Platform string

const (
	// PlatformGitHub is github.com profile and repository pages
	PlatformGitHub Platform = "github"
	// PlatformGitLab is gitlab.com profile pages
	PlatformGitLab Platform = "gitlab"
	// PlatformQiita is the Qiita technical blog
	PlatformQiita Platform = "qiita"
	// PlatformZenn is the Zenn technical blog
	PlatformZenn Platform = "zenn"
	// PlatformNote is note.com
	PlatformNote Platform = "note"
	// PlatformMedium is medium.com and its custom domains
	PlatformMedium Platform = "medium"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the reference platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case host == "github.com" || strings.HasSuffix(host, ".github.com"):
		return PlatformGitHub
	case host == "gitlab.com" || strings.HasSuffix(host, ".gitlab.com"):
		return PlatformGitLab
	case host == "qiita.com" || strings.HasSuffix(host, ".qiita.com"):
		return PlatformQiita
	case host == "zenn.dev":
		return PlatformZenn
	case host == "note.com":
		return PlatformNote
	case host == "medium.com" || strings.HasSuffix(host, ".medium.com"):
		return PlatformMedium
	}
	return PlatformUnknown
}

// DefaultTextSelectors returns standard selectors for general web content.
func DefaultTextSelectors() []string {
	return []string{
		"main",
		"article",
		".content",
		"#content",
		".main-content",
		"#main-content",
	}
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGitHub:
		return []string{
			"article.markdown-body",      // Profile or repository README
			".js-profile-editable-area", // Profile sidebar
			"[itemprop='text']",
			"main",
		}
	case PlatformGitLab:
		return []string{
			".user-profile",
			".profile-header",
			".md",
			"main",
		}
	case PlatformQiita:
		return []string{
			".it-MdContent",
			"article",
			"main",
		}
	case PlatformZenn:
		return []string{
			".znc",
			"article",
			"main",
		}
	case PlatformNote:
		return []string{
			".note-common-styles__textnote-body",
			"article",
			"main",
		}
	case PlatformMedium:
		return []string{
			"article",
			"section",
			"main",
		}
	default:
		return DefaultTextSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		// Social and share buttons
		".social-share",
		".share-buttons",
		".social-links",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",

		// Sign-up prompts
		".signup-prompt",
		"[role='dialog']",
	}

	switch platform {
	case PlatformGitHub:
		return append(common,
			".js-header-wrapper",
			".footer",
			"#repos-sticky-header",
			".js-yearly-contributions",
		)
	case PlatformGitLab:
		return append(common,
			".super-sidebar",
			".user-calendar",
		)
	case PlatformQiita, PlatformZenn, PlatformNote:
		return append(common,
			"aside",
			"[class*='Comment']",
			"[class*='Recommend']",
		)
	case PlatformMedium:
		return append(common,
			"aside",
			".metabar",
		)
	default:
		return common
	}
}
