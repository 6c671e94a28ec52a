package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seodiff/seodiff/internal/model"
)

// Extractor reads SEO fields from page markup.
// The zero value is not usable; create one with NewExtractor.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses markup and returns the page's SEO field record.
// It never returns an error: markup that cannot be parsed yields a
// record with ExtractionFailed set and all fields empty, so callers
// always have a comparable value for every page.
func (e *Extractor) Extract(markup string) model.FieldRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return model.FieldRecord{ExtractionFailed: true}
	}

	return model.FieldRecord{
		Title:              text(doc, "title"),
		Description:        metaContent(doc, `meta[name="description"]`),
		Keywords:           metaContent(doc, `meta[name="keywords"]`),
		H1:                 text(doc, "h1"),
		H2:                 text(doc, "h2"),
		Canonical:          attr(doc, `link[rel="canonical"]`, "href"),
		Robots:             metaContent(doc, `meta[name="robots"]`),
		OGTitle:            metaContent(doc, `meta[property="og:title"]`),
		OGDescription:      metaContent(doc, `meta[property="og:description"]`),
		OGImage:            metaContent(doc, `meta[property="og:image"]`),
		TwitterCard:        metaContent(doc, `meta[name="twitter:card"]`),
		TwitterTitle:       metaContent(doc, `meta[name="twitter:title"]`),
		TwitterDescription: metaContent(doc, `meta[name="twitter:description"]`),
	}
}

// text returns the trimmed text of the first element matching selector.
func text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// metaContent returns the trimmed content attribute of the first
// element matching selector.
func metaContent(doc *goquery.Document, selector string) string {
	return attr(doc, selector, "content")
}

// attr returns the trimmed value of the named attribute on the first
// element matching selector, or "" when absent.
func attr(doc *goquery.Document, selector, name string) string {
	v, _ := doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}
