package discover

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly"

	"github.com/SuryaYadav707/Article-Analyzer/internal/logger"
)

// Options bounds one discovery crawl.
type Options struct {
	// Depth is how many link hops from the seed are followed. Minimum 1.
	Depth int
	// Limit caps discovered URLs. Zero means unlimited.
	Limit int
	// IncludeSubdomains also accepts links on sibling subdomains.
	IncludeSubdomains bool
	// Patterns restricts kept URLs to matching paths, glob style
	// ("/blog/*"). Empty keeps everything.
	Patterns []string
}

// Service walks a site from a seed URL and collects same-domain pages,
// turning one seed into a batch worth of URLs.
type Service struct {
	log *logger.Logger
}

func New() *Service {
	return &Service{log: logger.New("Discover")}
}

// Discover crawls from the seed and returns unique URLs in discovery
// order, the seed itself first.
func (s *Service) Discover(seed string, opts Options) ([]string, error) {
	cleaned := cleanSeed(seed)
	domain := hostOf(cleaned)
	if domain == "" {
		return nil, fmt.Errorf("invalid seed URL %q", seed)
	}
	depth := opts.Depth
	if depth < 1 {
		depth = 1
	}
	s.log.LogInfof("discover start seed=%s depth=%d limit=%d", cleaned, depth, opts.Limit)

	var mu sync.Mutex
	seen := map[string]struct{}{}
	var found []string
	keep := func(link string) (added, full bool) {
		mu.Lock()
		defer mu.Unlock()
		if opts.Limit > 0 && len(found) >= opts.Limit {
			return false, true
		}
		if _, ok := seen[link]; ok {
			return false, false
		}
		seen[link] = struct{}{}
		found = append(found, link)
		return true, opts.Limit > 0 && len(found) >= opts.Limit
	}
	if added, _ := keep(normalizeLink(cleaned)); !added {
		return found, nil
	}

	c := colly.NewCollector(colly.MaxDepth(depth), colly.Async(true))
	c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 4, RandomDelay: 500 * time.Millisecond})

	c.OnRequest(func(r *colly.Request) {
		mu.Lock()
		full := opts.Limit > 0 && len(found) >= opts.Limit
		mu.Unlock()
		if full {
			r.Abort()
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		s.log.LogWarnf("discover fetch %s failed: %v", r.Request.URL, err)
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := normalizeLink(e.Request.AbsoluteURL(e.Attr("href")))
		if link == "" {
			return
		}
		if !domainsMatch(hostOf(link), domain, opts.IncludeSubdomains) {
			return
		}
		if !matchesPattern(link, opts.Patterns) {
			return
		}
		added, full := keep(link)
		if added && !full && e.Request.Depth < depth {
			_ = e.Request.Visit(link)
		}
	})

	if err := c.Visit(cleaned); err != nil {
		return nil, fmt.Errorf("visit seed: %w", err)
	}
	c.Wait()

	s.log.LogSuccessf("discover done seed=%s urls=%d", cleaned, len(found))
	return found, nil
}

// cleanSeed defaults bare hostnames to https.
func cleanSeed(u string) string {
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return "https://" + u
	}
	return u
}

func hostOf(u string) string {
	p, err := url.Parse(u)
	if err != nil {
		return ""
	}
	return p.Hostname()
}

// normalizeLink drops fragments and the bare trailing slash so the same
// page never counts twice.
func normalizeLink(u string) string {
	p, err := url.Parse(u)
	if err != nil || p.Host == "" {
		return ""
	}
	if p.Scheme != "http" && p.Scheme != "https" {
		return ""
	}
	p.Fragment = ""
	if p.Path == "/" {
		p.Path = ""
	}
	return p.String()
}

func domainsMatch(a, b string, includeSubdomains bool) bool {
	if a == b {
		return true
	}
	a = strings.TrimPrefix(a, "www.")
	b = strings.TrimPrefix(b, "www.")
	if a == b {
		return true
	}
	if includeSubdomains && (strings.HasSuffix(a, "."+b) || strings.HasSuffix(b, "."+a)) {
		return true
	}
	return false
}

// matchesPattern accepts a URL when its path matches any glob pattern, or
// sits under a trailing-star prefix.
func matchesPattern(u string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	path := parsed.Path
	if path == "" {
		path = "/"
	}
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
		if strings.HasSuffix(pattern, "*") {
			prefix := strings.TrimSuffix(pattern, "*")
			if path == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}
	return false
}
