package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Link is one anchor from the page, absolutized against the page URL.
type Link struct {
	Href string
	Text string
}

// Options controls how much distillation FromHTML performs.
type Options struct {
	// Readable runs the readability content extractor and uses the
	// distilled article text instead of the raw DOM text.
	Readable bool
	// IncludeMarkdown renders the cleaned page as markdown as well.
	IncludeMarkdown bool
	// MaxTextChars caps Text at this many runes. Zero or negative means
	// no cap.
	MaxTextChars int
}

// Content is the distilled page: cleaned visible text plus every usable
// link. Links always come from the full document so navigation anchors
// survive even in readable mode.
type Content struct {
	Title    string
	Text     string
	Links    []Link
	Markdown string
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// FromHTML distills raw page HTML into analyzable content.
func FromHTML(html, baseURL string, opts Options) (*Content, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	content := &Content{
		Title: collapseWhitespace(doc.Find("title").First().Text()),
		Links: collectLinks(doc, baseURL),
	}

	if opts.Readable {
		if article, ok := readableArticle(html, baseURL); ok {
			content.Text = collapseWhitespace(article.TextContent)
			if title := collapseWhitespace(article.Title); title != "" {
				content.Title = title
			}
		}
	}
	if content.Text == "" {
		content.Text = visibleText(doc)
	}
	content.Text = Truncate(content.Text, opts.MaxTextChars)

	if opts.IncludeMarkdown {
		content.Markdown = Markdown(html)
	}
	return content, nil
}

func readableArticle(html, baseURL string) (readability.Article, bool) {
	pageURL, err := url.Parse(baseURL)
	if err != nil {
		return readability.Article{}, false
	}
	article, err := readability.NewParser().Parse(strings.NewReader(html), pageURL)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		return readability.Article{}, false
	}
	return article, true
}

// visibleText drops non-content elements and collapses the rest into one
// whitespace-normalized string.
func visibleText(doc *goquery.Document) string {
	clone := doc.Clone()
	clone.Find("script, style, nav, footer, aside, noscript").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})
	return collapseWhitespace(clone.Text())
}

// collectLinks returns every http(s) anchor, absolutized and deduplicated
// in document order.
func collectLinks(doc *goquery.Document, baseURL string) []Link {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]bool)
	var links []Link
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") {
			return
		}
		parsed, err := url.Parse(href)
		if err != nil {
			return
		}
		if base != nil {
			parsed = base.ResolveReference(parsed)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return
		}
		abs := parsed.String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, Link{Href: abs, Text: collapseWhitespace(s.Text())})
	})
	return links
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Truncate caps a string at max runes without splitting a multibyte
// character. Non-positive max means no cap.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
