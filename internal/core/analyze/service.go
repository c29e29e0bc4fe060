package analyze

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/SuryaYadav707/Article-Analyzer/internal/core/classify"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/extract"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/fetch"
	"github.com/SuryaYadav707/Article-Analyzer/internal/logger"
)

// LabelClassifier resolves one classification request to labels.
type LabelClassifier interface {
	Classify(ctx context.Context, req classify.Request) classify.Outcome
}

// Config bounds how much page material feeds each stage.
type Config struct {
	// MaxTextChars caps the extracted text kept on the result.
	MaxTextChars int
	// MaxPromptChars caps the text handed to the classifier.
	MaxPromptChars int
	// SnippetMaxChars caps each per-category snippet.
	SnippetMaxChars int
	// MaxCategoryLinks caps links attached to one category.
	MaxCategoryLinks int
	// Readable prefers readability-distilled text over raw DOM text.
	Readable bool
	// IncludeMarkdown additionally renders the page as markdown.
	IncludeMarkdown bool
}

func (c Config) withDefaults() Config {
	if c.MaxTextChars <= 0 {
		c.MaxTextChars = 10000
	}
	if c.MaxPromptChars <= 0 {
		c.MaxPromptChars = 3000
	}
	if c.SnippetMaxChars <= 0 {
		c.SnippetMaxChars = 500
	}
	if c.MaxCategoryLinks <= 0 {
		c.MaxCategoryLinks = 5
	}
	return c
}

// Analyzer turns one fetched page into a categorized result. Two
// classifications run per page, categories and site type; both degrade to
// heuristics rather than fail, so Analyze always produces a result.
type Analyzer struct {
	log        *logger.Logger
	classifier LabelClassifier
	cfg        Config
}

func NewAnalyzer(classifier LabelClassifier, cfg Config, log *logger.Logger) *Analyzer {
	if log == nil {
		log = logger.New("Analyzer")
	}
	return &Analyzer{log: log, classifier: classifier, cfg: cfg.withDefaults()}
}

// Analyze categorizes a fetched page. The result URL is the final
// post-redirect address the page reported.
func (a *Analyzer) Analyze(ctx context.Context, page *fetch.Page) *Result {
	content, err := extract.FromHTML(page.HTML, page.URL, extract.Options{
		Readable:        a.cfg.Readable,
		IncludeMarkdown: a.cfg.IncludeMarkdown,
		MaxTextChars:    a.cfg.MaxTextChars,
	})
	if err != nil {
		a.log.LogErrorf("extract %s: %v", page.URL, err)
		return ErrorResult(page.URL, "content extraction failed: "+err.Error())
	}

	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if docErr != nil {
		doc = nil
	}

	promptText := extract.Truncate(content.Text, a.cfg.MaxPromptChars)
	links := make([]classify.Link, len(content.Links))
	for i, l := range content.Links {
		links[i] = classify.Link{Href: l.Href, Text: l.Text}
	}

	categories := a.classifier.Classify(ctx, classify.Request{
		Kind:    classify.KindCategory,
		Text:    promptText,
		PageURL: page.URL,
		Links:   links,
	})
	a.log.LogInfof("categories for %s via %s after %d attempts: %v",
		page.URL, categories.Source, categories.Attempts, categories.Labels)

	siteType := a.classifier.Classify(ctx, classify.Request{
		Kind:    classify.KindSiteType,
		Text:    promptText,
		PageURL: page.URL,
	})
	a.log.LogInfof("site type for %s via %s after %d attempts: %q",
		page.URL, siteType.Source, siteType.Attempts, siteType.Label())

	return &Result{
		URL:       page.URL,
		SiteType:  siteTypeOrUnknown(siteType.Label()),
		Extracted: content.Text,
		Content:   a.buildSections(doc, categories.Labels, content.Links, page.URL),
	}
}

// buildSections walks the canonical category order and keeps every
// category the classifier named or that owns at least one matching link.
// An empty set collapses to a bare Other section so content is never
// empty.
func (a *Analyzer) buildSections(doc *goquery.Document, labels []string, links []extract.Link, pageURL string) []Section {
	labeled := make(map[string]bool, len(labels))
	for _, label := range labels {
		labeled[label] = true
	}

	var sections []Section
	for _, category := range classify.Categories {
		keywords := classify.CategoryKeywords[category]
		categoryLinks := associateLinks(keywords, links, pageURL, a.cfg.MaxCategoryLinks)
		if !labeled[category] && len(categoryLinks) == 0 {
			continue
		}
		sections = append(sections, Section{
			Category: category,
			Links:    categoryLinks,
			Text:     extract.Snippet(doc, keywords, a.cfg.SnippetMaxChars),
		})
	}

	if len(sections) == 0 {
		sections = []Section{{Category: classify.CategoryOther, Links: []string{}}}
	}
	return sections
}

// associateLinks picks same-domain links whose address or anchor text
// mentions a category keyword, deduplicated in page order and capped.
func associateLinks(keywords []string, links []extract.Link, pageURL string, max int) []string {
	if len(keywords) == 0 || len(links) == 0 {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, link := range links {
		u, err := url.Parse(link.Href)
		if err != nil || u.Host != base.Host {
			continue
		}
		haystack := strings.ToLower(link.Href) + " " + strings.ToLower(link.Text)
		if !containsAny(haystack, keywords) {
			continue
		}
		if seen[link.Href] {
			continue
		}
		seen[link.Href] = true
		out = append(out, link.Href)
		if len(out) == max {
			break
		}
	}
	return out
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

func siteTypeOrUnknown(label string) string {
	if label == "" {
		return classify.SiteTypeUnknown
	}
	return label
}
