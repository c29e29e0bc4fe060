package extract

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var (
	mainSelectors = []string{"main", `[role="main"]`, "#content", "#main"}

	boilerplateTags = "script, style, noscript, nav, header, footer, aside, form, iframe, svg, button, input"

	// Elements whose class or id carries one of these fragments are
	// chrome, not content.
	boilerplateHints = []string{
		"cookie", "consent", "banner", "navbar", "menu-", "sidebar",
		"pagination", "share", "signup", "signin", "login",
		"advert", "promo", "modal", "popup", "breadcrumb",
	}

	imageLineRe = regexp.MustCompile(`!\[[^\]]*\]\([^\)]+\)`)
	blankRunsRe = regexp.MustCompile(`\n{3,}`)
	mdConverter = md.NewConverter("", true, nil)
)

// Markdown renders page HTML as markdown, scoped to the main content
// region when one exists and stripped of navigation chrome.
func Markdown(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var region *goquery.Selection
	for _, selector := range mainSelectors {
		if doc.Find(selector).Length() > 0 {
			region = doc.Find(selector).First()
			break
		}
	}
	if region == nil {
		region = doc.Find("body")
	}

	region.Find(boilerplateTags).Each(func(_ int, s *goquery.Selection) { s.Remove() })
	region.Find("[class], [id]").Each(func(_ int, s *goquery.Selection) {
		marker := strings.ToLower(s.AttrOr("class", "") + " " + s.AttrOr("id", ""))
		for _, hint := range boilerplateHints {
			if strings.Contains(marker, hint) {
				s.Remove()
				break
			}
		}
	})

	body, err := region.Html()
	if err != nil {
		return ""
	}
	out, err := mdConverter.ConvertString(body)
	if err != nil {
		return ""
	}
	return tidyMarkdown(out)
}

// tidyMarkdown drops image-only lines and collapses blank runs.
func tidyMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			kept = append(kept, line)
			continue
		}
		if imageLineRe.MatchString(line) && strings.TrimSpace(imageLineRe.ReplaceAllString(line, "")) == "" {
			continue
		}
		kept = append(kept, line)
	}
	out := blankRunsRe.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")
	return strings.TrimSpace(out)
}
