package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/SuryaYadav707/Article-Analyzer/internal/logger"
)

// maxBodyBytes caps how much of a response body is read. Pages larger
// than this are truncated, not rejected.
const maxBodyBytes = 10 << 20

// HTTPEngine fetches pages with a plain HTTP client. Faster than the
// browser engine but blind to JavaScript-rendered content.
type HTTPEngine struct {
	log    *logger.Logger
	cfg    Config
	client *http.Client
}

func NewHTTPEngine(cfg Config, log *logger.Logger) *HTTPEngine {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.New("HTTPEngine")
	}
	return &HTTPEngine{
		log: log,
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (e *HTTPEngine) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	profile := profileFor(strategyModernBrowser)
	userAgent := profile.UserAgent
	if e.cfg.UserAgent != "" {
		userAgent = e.cfg.UserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	for key, value := range profile.headers() {
		// The transport negotiates encodings itself so it can also
		// decode them.
		if key == "Accept-Encoding" {
			continue
		}
		req.Header.Set(key, value)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	html := string(body)
	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return &Page{
		URL:        finalURL,
		HTML:       html,
		Title:      htmlTitle(html),
		StatusCode: resp.StatusCode,
	}, nil
}

func (e *HTTPEngine) Close() error { return nil }

var titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

func htmlTitle(html string) string {
	m := titleRe.FindStringSubmatch(html)
	if len(m) < 2 {
		return ""
	}
	title := strings.TrimSpace(m[1])
	replacer := strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", `"`,
		"&#39;", "'",
	)
	return replacer.Replace(title)
}
