package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SuryaYadav707/Article-Analyzer/internal/core/analyze"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/fetch"
)

// stubFetcher serves canned pages and records every request.
type stubFetcher struct {
	mu      sync.Mutex
	fail    map[string]error
	calls   []string
	onFetch func(url string)
}

func (f *stubFetcher) Fetch(ctx context.Context, rawURL string) (*fetch.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, rawURL)
	f.mu.Unlock()
	if f.onFetch != nil {
		f.onFetch(rawURL)
	}
	if err, ok := f.fail[rawURL]; ok {
		return nil, err
	}
	return &fetch.Page{URL: rawURL, HTML: "<html><body>ok</body></html>", StatusCode: 200}, nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// stubAnalyzer echoes the page URL into a minimal success result.
type stubAnalyzer struct {
	mu    sync.Mutex
	calls int
}

func (a *stubAnalyzer) Analyze(ctx context.Context, page *fetch.Page) *analyze.Result {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	return &analyze.Result{
		URL:      page.URL,
		SiteType: "unknown",
		Content:  []analyze.Section{{Category: "Other"}},
	}
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestRunPreservesInputOrder(t *testing.T) {
	urls := []string{
		"https://a.test/",
		"https://b.test/",
		"https://c.test/",
		"https://d.test/",
	}
	fetcher := &stubFetcher{}
	runner := NewRunner(fetcher, &stubAnalyzer{}, Config{Workers: 3}, nil, WithSleep(noSleep))

	results := runner.Run(context.Background(), urls)

	if len(results) != len(urls) {
		t.Fatalf("results = %d, want %d", len(results), len(urls))
	}
	for i, url := range urls {
		if results[i] == nil {
			t.Fatalf("results[%d] is nil", i)
		}
		if results[i].URL != url {
			t.Errorf("results[%d].URL = %q, want %q", i, results[i].URL, url)
		}
	}
}

func TestRunContinuesPastFetchFailure(t *testing.T) {
	urls := []string{"https://a.test/", "https://b.test/", "https://c.test/"}
	fetcher := &stubFetcher{fail: map[string]error{
		"https://b.test/": errors.New("connection refused"),
	}}
	runner := NewRunner(fetcher, &stubAnalyzer{}, Config{}, nil, WithSleep(noSleep))

	results := runner.Run(context.Background(), urls)

	if results[0].Failed() || results[2].Failed() {
		t.Errorf("healthy URLs failed: %+v, %+v", results[0], results[2])
	}
	if !results[1].Failed() {
		t.Fatal("results[1].Failed() = false, want true")
	}
	if !strings.Contains(*results[1].Errors, "connection refused") {
		t.Errorf("results[1].Errors = %q, missing cause", *results[1].Errors)
	}
	if results[1].URL != "https://b.test/" {
		t.Errorf("failed result URL = %q, want input URL", results[1].URL)
	}
	if fetcher.callCount() != 3 {
		t.Errorf("fetch calls = %d, want 3", fetcher.callCount())
	}
}

func TestRunRejectsInvalidURLWithoutFetching(t *testing.T) {
	urls := []string{"https://a.test/", "not a url at all"}
	fetcher := &stubFetcher{}
	runner := NewRunner(fetcher, &stubAnalyzer{}, Config{}, nil, WithSleep(noSleep))

	results := runner.Run(context.Background(), urls)

	if !results[1].Failed() {
		t.Fatal("invalid URL did not fail")
	}
	if *results[1].Errors != "Invalid URL" {
		t.Errorf("results[1].Errors = %q, want %q", *results[1].Errors, "Invalid URL")
	}
	if results[1].URL != "not a url at all" {
		t.Errorf("invalid result URL = %q, want original input", results[1].URL)
	}
	if fetcher.callCount() != 1 {
		t.Errorf("fetch calls = %d, want 1 (invalid URL must not be fetched)", fetcher.callCount())
	}
}

func TestRunEmptyInput(t *testing.T) {
	runner := NewRunner(&stubFetcher{}, &stubAnalyzer{}, Config{}, nil, WithSleep(noSleep))
	results := runner.Run(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("results = %v, want empty", results)
	}
}

func TestRunCancelledBeforeStartBackfillsAll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	urls := []string{"https://a.test/", "https://b.test/"}
	fetcher := &stubFetcher{}
	runner := NewRunner(fetcher, &stubAnalyzer{}, Config{}, nil, WithSleep(noSleep))

	results := runner.Run(ctx, urls)

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for i, res := range results {
		if !res.Failed() {
			t.Errorf("results[%d].Failed() = false, want true", i)
			continue
		}
		if *res.Errors != "analysis canceled" {
			t.Errorf("results[%d].Errors = %q, want %q", i, *res.Errors, "analysis canceled")
		}
		if res.URL != urls[i] {
			t.Errorf("results[%d].URL = %q, want %q", i, res.URL, urls[i])
		}
	}
}

func TestRunCancelledMidBatchKeepsPartialResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	urls := []string{"https://a.test/", "https://b.test/", "https://c.test/"}
	fetcher := &stubFetcher{}
	fetcher.onFetch = func(url string) {
		if url == "https://a.test/" {
			cancel()
		}
	}
	runner := NewRunner(fetcher, &stubAnalyzer{}, Config{Workers: 1}, nil, WithSleep(noSleep))

	results := runner.Run(ctx, urls)

	if results[0].Failed() {
		t.Errorf("results[0] = %+v, want success", results[0])
	}
	for i := 1; i < 3; i++ {
		if !results[i].Failed() || *results[i].Errors != "analysis canceled" {
			t.Errorf("results[%d] = %+v, want canceled", i, results[i])
		}
	}
}

func TestRunPolitenessDelayBetweenURLs(t *testing.T) {
	var mu sync.Mutex
	var sleeps []time.Duration
	record := func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		sleeps = append(sleeps, d)
		mu.Unlock()
		return nil
	}

	urls := []string{"https://a.test/", "https://b.test/", "https://c.test/"}
	runner := NewRunner(&stubFetcher{}, &stubAnalyzer{}, Config{Workers: 1, Delay: 2 * time.Second}, nil, WithSleep(record))
	runner.Run(context.Background(), urls)

	if len(sleeps) != 3 {
		t.Fatalf("sleeps = %v, want 3 politeness pauses", sleeps)
	}
	for i, d := range sleeps {
		if d != 2*time.Second {
			t.Errorf("sleeps[%d] = %v, want 2s", i, d)
		}
	}
}

func TestRunReportsProgress(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	progress := func(completed, total int) {
		mu.Lock()
		seen = append(seen, fmt.Sprintf("%d/%d", completed, total))
		mu.Unlock()
	}

	urls := []string{"https://a.test/", "https://b.test/"}
	runner := NewRunner(&stubFetcher{}, &stubAnalyzer{}, Config{Workers: 1}, nil,
		WithSleep(noSleep), WithProgress(progress))
	runner.Run(context.Background(), urls)

	want := []string{"1/2", "2/2"}
	if len(seen) != len(want) {
		t.Fatalf("progress = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("progress[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	results := []*analyze.Result{
		{URL: "https://a.test/"},
		analyze.ErrorResult("https://b.test/", "boom"),
		{URL: "https://c.test/"},
	}
	s := Summarize(results)
	if s.Total != 3 || s.Succeeded != 2 || s.Failed != 1 {
		t.Errorf("Summarize = %+v, want {3 2 1}", s)
	}
}

func TestLoadURLs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "urls.txt")
	content := "https://a.test/\n\n# a comment\n  https://b.test/  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	urls, err := LoadURLs(path)
	if err != nil {
		t.Fatalf("LoadURLs error: %v", err)
	}
	want := []string{"https://a.test/", "https://b.test/"}
	if len(urls) != len(want) {
		t.Fatalf("urls = %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestLoadURLsMissingFile(t *testing.T) {
	if _, err := LoadURLs("/nonexistent/urls.txt"); err == nil {
		t.Error("LoadURLs returned nil error for missing file")
	}
}
