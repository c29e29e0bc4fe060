package batch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SuryaYadav707/Article-Analyzer/internal/core/analyze"
	"github.com/SuryaYadav707/Article-Analyzer/internal/core/fetch"
	"github.com/SuryaYadav707/Article-Analyzer/internal/logger"
)

// Fetcher is the page source. fetch.Engine satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Page, error)
}

// PageAnalyzer turns a fetched page into a result. analyze.Analyzer
// satisfies it.
type PageAnalyzer interface {
	Analyze(ctx context.Context, page *fetch.Page) *analyze.Result
}

// Config tunes batch execution.
type Config struct {
	// Workers is the number of URLs processed concurrently. At most one
	// when unset.
	Workers int
	// Delay is the politeness pause each worker takes between URLs.
	Delay time.Duration
}

// Runner processes a list of URLs into results. The output always has
// exactly one result per input URL, in input order; individual failures
// become error results instead of aborting the batch.
type Runner struct {
	log      *logger.Logger
	fetcher  Fetcher
	analyzer PageAnalyzer
	cfg      Config

	sleep    func(ctx context.Context, d time.Duration) error
	progress func(completed, total int)
}

type Option func(*Runner)

// WithSleep replaces the politeness wait, so tests do not spend it.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Runner) { r.sleep = fn }
}

// WithProgress registers a callback invoked after each URL completes.
func WithProgress(fn func(completed, total int)) Option {
	return func(r *Runner) { r.progress = fn }
}

func NewRunner(fetcher Fetcher, analyzer PageAnalyzer, cfg Config, log *logger.Logger, opts ...Option) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if log == nil {
		log = logger.New("BatchRunner")
	}
	r := &Runner{
		log:      log,
		fetcher:  fetcher,
		analyzer: analyzer,
		cfg:      cfg,
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run analyzes every URL. Cancellation stops dispatching new URLs; slots
// never reached are backfilled as canceled error results so the caller can
// still flush a complete, ordered output.
func (r *Runner) Run(ctx context.Context, urls []string) []*analyze.Result {
	total := len(urls)
	results := make([]*analyze.Result, total)
	if total == 0 {
		return results
	}

	workers := r.cfg.Workers
	if workers > total {
		workers = total
	}

	type task struct {
		idx int
		url string
	}
	tasks := make(chan task)

	go func() {
		defer close(tasks)
		for i, u := range urls {
			select {
			case <-ctx.Done():
				return
			case tasks <- task{idx: i, url: u}:
			}
		}
	}()

	var completed int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				if ctx.Err() != nil {
					continue
				}
				results[t.idx] = r.process(ctx, t.idx, total, t.url)
				if r.progress != nil {
					r.progress(int(atomic.AddInt64(&completed, 1)), total)
				}
				if r.cfg.Delay > 0 {
					_ = r.sleep(ctx, r.cfg.Delay)
				}
			}
		}()
	}
	wg.Wait()

	for i, res := range results {
		if res == nil {
			results[i] = analyze.ErrorResult(urls[i], "analysis canceled")
		}
	}

	summary := Summarize(results)
	r.log.LogSuccessf("batch complete: %d succeeded, %d failed", summary.Succeeded, summary.Failed)
	return results
}

func (r *Runner) process(ctx context.Context, idx, total int, url string) *analyze.Result {
	r.log.LogInfof("Processing URL %d/%d: %s", idx+1, total, url)

	if err := fetch.ValidateURL(url); err != nil {
		r.log.LogErrorf("skipping %s: %v", url, err)
		return analyze.ErrorResult(url, "Invalid URL")
	}

	page, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		r.log.LogErrorf("fetch %s failed: %v", url, err)
		return analyze.ErrorResult(url, "fetch failed: "+err.Error())
	}
	return r.analyzer.Analyze(ctx, page)
}

// Summary is the outcome count of one batch.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

func Summarize(results []*analyze.Result) Summary {
	s := Summary{Total: len(results)}
	for _, res := range results {
		if res.Failed() {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	return s
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
