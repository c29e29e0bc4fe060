package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// contentSelectors are tried in order when no heading leads to a snippet.
var contentSelectors = []string{
	"article",
	"main",
	"div.post-content",
	"div.entry-content",
	"div.article-body",
	"div.content",
}

// Snippet pulls a short passage relevant to the given keywords. Headings
// win: the first h1-h3 that mentions a keyword contributes the text of the
// next few paragraphs. Otherwise the usual content containers are scanned
// for keyword mentions. Empty keyword sets never match.
func Snippet(doc *goquery.Document, keywords []string, maxRunes int) string {
	if doc == nil || len(keywords) == 0 {
		return ""
	}

	nodes := doc.Find("h1, h2, h3, p, div")
	for i := 0; i < nodes.Length(); i++ {
		node := nodes.Eq(i)
		name := goquery.NodeName(node)
		if name != "h1" && name != "h2" && name != "h3" {
			continue
		}
		if !anyKeywordIn(strings.ToLower(node.Text()), keywords) {
			continue
		}
		if passage := followingPassage(nodes, i, 3); passage != "" {
			return Truncate(passage, maxRunes)
		}
	}

	for _, selector := range contentSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}
		text := collapseWhitespace(container.Text())
		if anyKeywordIn(strings.ToLower(text), keywords) {
			return Truncate(text, maxRunes)
		}
	}
	return ""
}

// SnippetFromHTML is Snippet over unparsed HTML.
func SnippetFromHTML(html string, keywords []string, maxRunes int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return Snippet(doc, keywords, maxRunes)
}

// followingPassage joins the text of the next limit p/div nodes after
// position start. Empty nodes still consume the limit.
func followingPassage(nodes *goquery.Selection, start, limit int) string {
	var texts []string
	taken := 0
	for j := start + 1; j < nodes.Length() && taken < limit; j++ {
		node := nodes.Eq(j)
		name := goquery.NodeName(node)
		if name != "p" && name != "div" {
			continue
		}
		taken++
		if text := collapseWhitespace(node.Text()); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, " ")
}

func anyKeywordIn(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
