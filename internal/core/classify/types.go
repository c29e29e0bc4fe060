package classify

import "strings"

// Kind selects which classification a request asks for.
type Kind string

const (
	KindCategory Kind = "category"
	KindSiteType Kind = "site_type"
)

// Source records which path produced an outcome.
type Source string

const (
	SourceAI        Source = "ai"
	SourceHeuristic Source = "heuristic"
)

// Link is one anchor from the analyzed page. Href and anchor text carry the
// heuristic signal.
type Link struct {
	Href string
	Text string
}

// Request is a single classification ask. Text is already capped by the
// caller; PageURL and Links feed the heuristic fallback.
type Request struct {
	Kind    Kind
	Text    string
	PageURL string
	Links   []Link
}

// Outcome is what a classification always resolves to. Source is Heuristic
// only when every AI attempt failed or produced unusable output. Attempts
// counts AI calls actually made; zero means the call budget wait was
// aborted before the first call.
type Outcome struct {
	Labels   []string
	Source   Source
	Attempts int
}

// Label returns the single label of a one-label outcome, or "".
func (o Outcome) Label() string {
	if len(o.Labels) == 0 {
		return ""
	}
	return o.Labels[0]
}

// CategoryOther is the catch-all section every page resolves to when
// nothing else matches.
const CategoryOther = "Other"

// Categories is the closed section vocabulary, in canonical order. Section
// output follows this order so identical inputs serialize identically.
var Categories = []string{
	"About Us",
	"Products & Services",
	"Leadership/Team",
	"Blog/News/Press Release",
	"Contact/Support",
	"Privacy/Legal",
	"Careers/Jobs",
	CategoryOther,
}

// CategoryKeywords drives link association and the heuristic fallback.
// "Other" matches nothing by construction.
var CategoryKeywords = map[string][]string{
	"About Us":                {"about us", "our story", "who we are"},
	"Products & Services":     {"product", "service", "solution"},
	"Leadership/Team":         {"our team", "leadership", "ceo", "founder"},
	"Blog/News/Press Release": {"blog", "news", "press"},
	"Contact/Support":         {"contact", "support", "help", "reach"},
	"Privacy/Legal":           {"privacy", "terms", "policy"},
	"Careers/Jobs":            {"career", "job", "hiring"},
	CategoryOther:             {},
}

// SiteTypes is the closed site vocabulary, in canonical order.
var SiteTypes = []string{
	"educational",
	"medical/health",
	"research/academic",
	"news",
	"blog",
	"e-commerce",
	"government",
	"social media",
	"forum",
	"portfolio",
	"non-profit",
}

// SiteTypeUnknown is the default when neither the AI nor the heuristic
// produced a label. Not an error.
const SiteTypeUnknown = "unknown"

// CanonicalCategory resolves a label case-insensitively against the closed
// category set, returning the canonical spelling.
func CanonicalCategory(s string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if strings.ToLower(c) == needle {
			return c, true
		}
	}
	return "", false
}

// CanonicalSiteType resolves a label case-insensitively against the closed
// site-type set, returning the canonical spelling.
func CanonicalSiteType(s string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, t := range SiteTypes {
		if strings.ToLower(t) == needle {
			return t, true
		}
	}
	return "", false
}
