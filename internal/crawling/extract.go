package crawling

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/profile2pdf/internal/types"
)

// Page is one crawled page as returned by the provider.
type Page struct {
	URL      string
	HTML     string
	Markdown string
	Title    string // From provider metadata
}

// ExtractRecords applies every extractor to every page, in page order.
// Empty matches produce no record.
func ExtractRecords(pages []Page, extractors []Extractor) ([]types.RawRecord, error) {
	var records []types.RawRecord
	for _, page := range pages {
		pageRecords, err := extractPage(page, extractors)
		if err != nil {
			return nil, err
		}
		records = append(records, pageRecords...)
	}
	return records, nil
}

func extractPage(page Page, extractors []Extractor) ([]types.RawRecord, error) {
	if strings.TrimSpace(page.HTML) == "" {
		return markdownRecords(page, extractors), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, &ExtractionError{
			Message: fmt.Sprintf("failed to parse HTML of %s", page.URL),
			Cause:   err,
		}
	}

	var records []types.RawRecord
	add := func(name, data string) {
		data = strings.TrimSpace(data)
		if data != "" {
			records = append(records, types.RawRecord{Name: name, Data: data, SourceURL: page.URL})
		}
	}

	for _, ex := range extractors {
		switch ex.Type {
		case TypeMeta:
			add(ex.Name, metaText(doc.Find(ex.Selector)))
		case TypeAttribute:
			value, _ := doc.Find(ex.Selector).First().Attr(ex.Attribute)
			add(ex.Name, value)
		case TypeMainText:
			platform := DetectPlatform(page.URL)
			text, err := ExtractMainText(page.HTML, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
			if err != nil {
				return nil, &ExtractionError{Message: "failed to extract main text", Cause: err}
			}
			if text == "" {
				text = page.Markdown
			}
			add(ex.Name, text)
		default:
			sel := doc.Find(ex.Selector)
			if ex.Multiple {
				sel.Each(func(_ int, s *goquery.Selection) {
					add(ex.Name, selectionText(s))
				})
				continue
			}
			var parts []string
			sel.Each(func(_ int, s *goquery.Selection) {
				if t := selectionText(s); t != "" {
					parts = append(parts, t)
				}
			})
			add(ex.Name, strings.Join(parts, "\n"))
		}
	}
	return records, nil
}

// markdownRecords covers pages the provider returned without HTML: the
// markdown stands in for the main text and the metadata title for <title>.
func markdownRecords(page Page, extractors []Extractor) []types.RawRecord {
	var records []types.RawRecord
	for _, ex := range extractors {
		var data string
		switch {
		case ex.Type == TypeMainText:
			data = page.Markdown
		case ex.Name == types.LabelTitle:
			data = page.Title
		}
		if data = strings.TrimSpace(data); data != "" {
			records = append(records, types.RawRecord{Name: ex.Name, Data: data, SourceURL: page.URL})
		}
	}
	return records
}

// selectionText joins the text nodes under s with single spaces, so that
// adjacent inline elements do not run together.
func selectionText(s *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			switch goquery.NodeName(c) {
			case "#text":
				parts = append(parts, c.Text())
			case "script", "style", "noscript":
			default:
				walk(c)
			}
		})
	}
	walk(s)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// metaText renders <meta> tags as "name: content" lines.
func metaText(sel *goquery.Selection) string {
	var lines []string
	sel.Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok || strings.TrimSpace(content) == "" {
			return
		}
		name := s.AttrOr("name", s.AttrOr("property", ""))
		if name == "" {
			return
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, strings.TrimSpace(content)))
	})
	return strings.Join(lines, "\n")
}

// ExtractMainText parses HTML and returns the main body text.
// It removes noise elements using noiseSelectors, then finds content using contentSelectors.
// If no content selectors match, it falls back to the body element.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Remove common unwanted elements (nav, footer, scripts, ads, etc.)
	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()

	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}

	// Fallback to body if no selector matched
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	return cleanWhitespace(mainContent.Text()), nil
}

// cleanWhitespace trims every line and drops blank ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
