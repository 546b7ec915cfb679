package crawling

import "github.com/jonathan/profile2pdf/internal/types"

// ExtractorType selects how an extractor turns matched elements into record data.
type ExtractorType string

const (
	// TypeText uses the visible text of the matched elements
	TypeText ExtractorType = "text"
	// TypeMeta renders matched <meta> tags as "name: content" lines
	TypeMeta ExtractorType = "meta"
	// TypeAttribute uses one attribute of the first matched element
	TypeAttribute ExtractorType = "attribute"
	// TypeMainText uses the platform-aware main text of the page; Selector is ignored
	TypeMainText ExtractorType = "main_text"
)

// Format names accepted by the provider.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Extractor describes one labeled record to produce from every crawled page.
type Extractor struct {
	Name      string        `json:"name"`
	Selector  string        `json:"selector"`
	Type      ExtractorType `json:"type"`
	Attribute string        `json:"attribute,omitempty"` // For TypeAttribute
	Multiple  bool          `json:"multiple,omitempty"`  // One record per matched element
}

// Options configures a single crawl.
type Options struct {
	Limit      int         `json:"limit"`
	Formats    []string    `json:"formats"`
	Extractors []Extractor `json:"extractors"`
}

// ProfileOptions returns the crawl options for an X/Twitter profile page:
// the profile page plus enough linked pages to collect recent posts.
func ProfileOptions() Options {
	return Options{
		Limit:   10,
		Formats: []string{FormatMarkdown, FormatHTML},
		Extractors: []Extractor{
			{Name: types.LabelProfileMeta, Selector: "head meta", Type: TypeMeta},
			{Name: types.LabelProfileHeader, Selector: `[data-testid="UserName"], [data-testid="UserDescription"], [data-testid="UserProfileHeader"]`, Type: TypeText},
			{Name: types.LabelProfileStats, Selector: `[data-testid="UserProfileStats"]`, Type: TypeText},
			{Name: types.LabelPost, Selector: `[data-testid="tweet"]`, Type: TypeText, Multiple: true},
		},
	}
}

// ReferenceOptions returns the crawl options for a portfolio or code hosting page.
func ReferenceOptions() Options {
	return Options{
		Limit:   5,
		Formats: []string{FormatHTML, FormatMarkdown},
		Extractors: []Extractor{
			{Name: types.LabelTitle, Selector: "title", Type: TypeText},
			{Name: types.LabelBody, Type: TypeMainText},
			{Name: types.LabelMetaKeywords, Selector: `meta[name="keywords"]`, Type: TypeAttribute, Attribute: "content"},
		},
	}
}
