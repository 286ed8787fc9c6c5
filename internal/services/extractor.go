package services

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Preview is what the confirmation view shows about the link destination.
type Preview struct {
	Title       string
	Description string
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractPreview reads the page title and description, preferring Open Graph
// tags over <title> and the plain description meta.
func (e *Extractor) ExtractPreview(html string) (Preview, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Preview{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := metaContent(doc, `meta[property="og:title"]`)
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	desc := metaContent(doc, `meta[property="og:description"]`)
	if desc == "" {
		desc = metaContent(doc, `meta[name="description"]`)
	}

	return Preview{
		Title:       collapseWhitespace(title),
		Description: e.TruncateText(collapseWhitespace(desc), 200),
	}, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

// TruncateText truncates text to a maximum length
func (e *Extractor) TruncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}

	// Try to truncate at a word boundary
	truncated := text[:maxLength]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLength/2 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
