package classify

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/SuryaYadav707/Article-Analyzer/internal/logger"
	"github.com/SuryaYadav707/Article-Analyzer/internal/platform/ai"
	"github.com/SuryaYadav707/Article-Analyzer/prompts"
)

// Acquirer is the shared call budget. Every AI attempt acquires exactly
// once before the backend is invoked.
type Acquirer interface {
	Acquire(ctx context.Context) error
	NotifyQuotaExhausted(retryAfter time.Duration)
}

// Backend runs one generation over formatted chat messages.
type Backend interface {
	GenerateMessages(ctx context.Context, messages []*schema.Message) (string, error)
}

// Config bounds the retry loop.
type Config struct {
	MaxAttempts int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// Classifier wraps one AI classification with bounded retries, exponential
// backoff and a deterministic heuristic fallback. Classify never fails:
// exhaustion degrades to the heuristic path and is recorded in the outcome,
// not raised.
type Classifier struct {
	log     *logger.Logger
	limiter Acquirer
	backend Backend
	prompts *prompts.SystemPrompts
	cfg     Config

	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() float64
}

type Option func(*Classifier)

// WithSleep replaces the backoff wait, so tests record delays instead of
// spending them.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Classifier) { c.sleep = fn }
}

// WithJitter replaces the backoff jitter source; nil disables jitter.
func WithJitter(fn func() float64) Option {
	return func(c *Classifier) { c.jitter = fn }
}

// NewClassifier builds a classifier. Zero config fields fall back to
// 3 attempts, 1s base delay, 60s cap.
func NewClassifier(limiter Acquirer, backend Backend, sp *prompts.SystemPrompts, cfg Config, log *logger.Logger, opts ...Option) *Classifier {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 60 * time.Second
	}
	if log == nil {
		log = logger.New("classify")
	}
	c := &Classifier{
		log:     log,
		limiter: limiter,
		backend: backend,
		prompts: sp,
		cfg:     cfg,
		sleep:   sleepCtx,
		jitter:  rand.Float64,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify resolves one request to an outcome. Per attempt: acquire from
// the budget, call the backend, parse and validate. Transport, quota and
// parse failures all take the same backoff-and-retry path; when attempts
// are exhausted the heuristic answers.
func (c *Classifier) Classify(ctx context.Context, req Request) Outcome {
	attempts := 0

	messages, err := c.renderPrompt(ctx, req)
	if err != nil {
		// A template that cannot render is a local defect; the heuristic
		// still has to answer.
		c.log.LogErrorf("[%s] prompt render failed: %v", req.Kind, err)
		return c.heuristicOutcome(req, attempts)
	}

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if err := c.limiter.Acquire(ctx); err != nil {
			c.log.LogWarnf("[%s] call budget wait aborted: %v", req.Kind, err)
			return c.heuristicOutcome(req, attempts)
		}
		attempts++

		c.log.LogInfof("[%s] AI attempt %d/%d", req.Kind, attempt, c.cfg.MaxAttempts)
		raw, err := c.backend.GenerateMessages(ctx, messages)
		if err == nil {
			labels, parseErr := ParseLabels(req.Kind, raw)
			if parseErr == nil {
				return Outcome{Labels: labels, Source: SourceAI, Attempts: attempts}
			}
			err = parseErr
		}

		if errors.Is(err, ai.ErrQuotaExhausted) {
			c.limiter.NotifyQuotaExhausted(ai.RetryAfterHint(err))
		}

		if attempt == c.cfg.MaxAttempts {
			c.log.LogWarnf("[%s] attempt %d/%d failed: %v; falling back to heuristics",
				req.Kind, attempt, c.cfg.MaxAttempts, err)
			break
		}
		delay := c.backoffDelay(attempt)
		c.log.LogWarnf("[%s] attempt %d/%d failed: %v; backing off %s",
			req.Kind, attempt, c.cfg.MaxAttempts, err, delay)
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return c.heuristicOutcome(req, attempts)
		}
	}
	return c.heuristicOutcome(req, attempts)
}

func (c *Classifier) renderPrompt(ctx context.Context, req Request) ([]*schema.Message, error) {
	vars := map[string]any{"content": req.Text}
	if req.Kind == KindSiteType {
		vars["site_type_list"] = strings.Join(SiteTypes, ", ")
	} else {
		vars["category_list"] = strings.Join(Categories, ", ")
	}
	return c.prompts.TemplateFor(string(req.Kind)).Format(ctx, vars)
}

// backoffDelay doubles from the base per failed attempt, plus up to 1s of
// jitter, capped.
func (c *Classifier) backoffDelay(attempt int) time.Duration {
	delay := c.cfg.BackoffBase << uint(attempt-1)
	if c.jitter != nil {
		delay += time.Duration(c.jitter() * float64(time.Second))
	}
	if delay > c.cfg.BackoffMax {
		delay = c.cfg.BackoffMax
	}
	return delay
}

func (c *Classifier) heuristicOutcome(req Request, attempts int) Outcome {
	var labels []string
	if req.Kind == KindSiteType {
		if siteType := HeuristicSiteType(req.PageURL, req.Text); siteType != "" {
			labels = []string{siteType}
		}
	} else {
		labels = HeuristicCategories(req.Text, req.Links)
	}
	return Outcome{Labels: labels, Source: SourceHeuristic, Attempts: attempts}
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
