package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/SuryaYadav707/Article-Analyzer/internal/logger"
)

// Page is one fetched document. URL is the final address after redirects,
// which can differ from the requested one.
type Page struct {
	URL        string
	HTML       string
	Title      string
	StatusCode int
}

// Engine retrieves pages. Implementations must be safe for concurrent use.
type Engine interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
	Close() error
}

// Engine kinds accepted by NewEngine.
const (
	EngineBrowser = "browser"
	EngineHTTP    = "http"
)

// Config tunes both engine kinds. Zero values pick sensible defaults.
type Config struct {
	// Timeout bounds one navigation or HTTP request.
	Timeout time.Duration
	// SettleDelay is the post-navigation wait for dynamic content.
	// Browser engine only.
	SettleDelay time.Duration
	// MaxPages caps concurrently open browser pages.
	MaxPages int
	// UserAgent overrides the header profile user agent when set.
	UserAgent string
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = 0
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 2
	}
	return c
}

// NewEngine builds the engine for the given kind.
func NewEngine(kind string, cfg Config, log *logger.Logger) (Engine, error) {
	switch kind {
	case EngineBrowser, "":
		return NewBrowserEngine(cfg, log)
	case EngineHTTP:
		return NewHTTPEngine(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown fetch engine %q", kind)
	}
}

// ValidateURL rejects anything that is not an absolute http(s) URL with a
// host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", rawURL)
	}
	return nil
}
