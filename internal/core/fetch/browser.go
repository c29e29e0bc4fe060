package fetch

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/sync/semaphore"

	"github.com/SuryaYadav707/Article-Analyzer/internal/logger"
)

// BrowserEngine renders pages in headless Chromium. The browser is
// launched once; each fetch gets its own context and page so identities
// never leak between requests. A semaphore caps open pages.
type BrowserEngine struct {
	log     *logger.Logger
	cfg     Config
	pw      *playwright.Playwright
	browser playwright.Browser
	slots   *semaphore.Weighted
}

func NewBrowserEngine(cfg Config, log *logger.Logger) (*BrowserEngine, error) {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.New("BrowserEngine")
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("playwright run: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-blink-features=AutomationControlled",
			"--no-first-run",
			"--disable-default-apps",
			"--disable-extensions",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	return &BrowserEngine{
		log:     log,
		cfg:     cfg,
		pw:      pw,
		browser: browser,
		slots:   semaphore.NewWeighted(int64(cfg.MaxPages)),
	}, nil
}

// Fetch navigates to the URL, rotating header strategies when a page looks
// bot-blocked.
func (e *BrowserEngine) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	if err := e.slots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.slots.Release(1)

	strategies := allStrategies()
	var lastErr error
	for i, strategy := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := e.fetchWithProfile(rawURL, profileFor(strategy))
		if err == nil && !looksBlocked(page) {
			return page, nil
		}
		if err != nil {
			lastErr = err
			e.log.LogWarnf("fetch %s with %s failed: %v", rawURL, strategy, err)
		} else {
			lastErr = fmt.Errorf("bot protection challenge detected")
			e.log.LogWarnf("fetch %s with %s hit a bot challenge", rawURL, strategy)
		}

		if i < len(strategies)-1 {
			if err := sleepCtx(ctx, time.Duration(2000+rand.Intn(2000))*time.Millisecond); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("all header strategies exhausted: %w", lastErr)
}

func (e *BrowserEngine) fetchWithProfile(rawURL string, profile headerProfile) (*Page, error) {
	userAgent := profile.UserAgent
	if e.cfg.UserAgent != "" {
		userAgent = e.cfg.UserAgent
	}

	bctx, err := e.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:        playwright.String(userAgent),
		ExtraHttpHeaders: profile.headers(),
	})
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	defer bctx.Close()

	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}

	timeout := playwright.Float(float64(e.cfg.Timeout.Milliseconds()))
	resp, navErr := page.Goto(rawURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeout,
	})
	if navErr != nil {
		// Some pages never fire domcontentloaded cleanly; try the full
		// load event before giving up.
		resp, navErr = page.Goto(rawURL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
			Timeout:   timeout,
		})
		if navErr != nil {
			return nil, fmt.Errorf("goto failed: %w", navErr)
		}
	}

	if e.cfg.SettleDelay > 0 {
		page.WaitForTimeout(float64(e.cfg.SettleDelay.Milliseconds()))
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("read page content: %w", err)
	}
	title, _ := page.Title()

	status := 0
	if resp != nil {
		status = resp.Status()
	}
	return &Page{URL: page.URL(), HTML: html, Title: title, StatusCode: status}, nil
}

func (e *BrowserEngine) Close() error {
	var firstErr error
	if e.browser != nil {
		if err := e.browser.Close(); err != nil {
			firstErr = err
		}
	}
	if e.pw != nil {
		if err := e.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// looksBlocked detects challenge interstitials served instead of content.
func looksBlocked(page *Page) bool {
	if page == nil {
		return false
	}
	title := page.Title
	if strings.Contains(title, "Just a moment") ||
		strings.Contains(title, "Checking your browser") ||
		strings.Contains(title, "Attention Required") {
		return true
	}
	if page.StatusCode == 403 || page.StatusCode == 503 {
		if strings.Contains(page.HTML, "Cloudflare") && strings.Contains(page.HTML, "Ray ID") {
			return true
		}
		if strings.Contains(page.HTML, "cf-challenge") {
			return true
		}
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
