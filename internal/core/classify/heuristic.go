package classify

import (
	"net/url"
	"strings"
)

// HeuristicCategories is the deterministic fallback for category
// classification: keyword matching over the page text and the links' href +
// anchor text. Pure function; resolves to at least "Other".
func HeuristicCategories(text string, links []Link) []string {
	lowText := strings.ToLower(text)

	var labels []string
	for _, category := range Categories {
		keywords := CategoryKeywords[category]
		if len(keywords) == 0 {
			continue
		}
		if matchesAny(lowText, keywords) || anyLinkMatches(links, keywords) {
			labels = append(labels, category)
		}
	}
	if len(labels) == 0 {
		labels = []string{CategoryOther}
	}
	return labels
}

func matchesAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

func anyLinkMatches(links []Link, keywords []string) bool {
	for _, link := range links {
		haystack := strings.ToLower(link.Href) + " " + strings.ToLower(link.Text)
		if matchesAny(haystack, keywords) {
			return true
		}
	}
	return false
}

// Hosts that identify research publishing without any content signal.
var academicHosts = []string{
	"arxiv.org", "doi.org", "pubmed.ncbi.nlm.nih.gov",
	"scholar.google.com", "researchgate.net", "academia.edu",
	"biorxiv.org", "medrxiv.org", "ssrn.com", "jstor.org",
}

// siteTypeKeywords scores content signals per site type. Two hits are
// required to claim a type; a single stray keyword is too weak.
var siteTypeKeywords = map[string][]string{
	"educational":       {"course", "curriculum", "students", "learning", "tuition", "university", "lesson"},
	"medical/health":    {"health", "symptoms", "treatment", "medical", "patient", "clinic", "wellness"},
	"research/academic": {"research", "journal", "doi", "abstract", "peer-reviewed", "citation"},
	"news":              {"breaking news", "headlines", "latest news", "newsroom", "journalism", "reporter"},
	"blog":              {"blog", "posted by", "read more", "comments", "archive"},
	"e-commerce":        {"add to cart", "checkout", "free shipping", "buy now", "shop", "in stock"},
	"government":        {"ministry", "federal", "public services", "official government", "legislation"},
	"social media":      {"follow us", "followers", "trending", "share this", "likes"},
	"forum":             {"forum", "thread", "replies", "topics", "join the discussion"},
	"portfolio":         {"portfolio", "my work", "case study", "resume", "freelance"},
	"non-profit":        {"donate", "volunteer", "charity", "nonprofit", "non-profit", "our mission"},
}

// HeuristicSiteType is the deterministic fallback for site-type
// classification. Host rules decide outright; otherwise keyword scoring
// over host + text picks the best-supported type. Returns "" when no type
// has enough signal, which the analyzer maps to the unknown default.
func HeuristicSiteType(pageURL, text string) string {
	host := ""
	if u, err := url.Parse(pageURL); err == nil {
		host = strings.ToLower(u.Hostname())
	}

	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".mil") {
		return "government"
	}
	if strings.HasSuffix(host, ".edu") {
		return "educational"
	}
	for _, academic := range academicHosts {
		if host == academic || strings.HasSuffix(host, "."+academic) {
			return "research/academic"
		}
	}

	haystack := host + " " + strings.ToLower(text)
	best := ""
	bestScore := 0
	for _, siteType := range SiteTypes {
		score := 0
		for _, kw := range siteTypeKeywords[siteType] {
			if strings.Contains(haystack, kw) {
				score++
			}
		}
		if score > bestScore {
			best = siteType
			bestScore = score
		}
	}
	if bestScore < 2 {
		return ""
	}
	return best
}
