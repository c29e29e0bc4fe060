package classify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/SuryaYadav707/Article-Analyzer/internal/platform/ai"
	"github.com/SuryaYadav707/Article-Analyzer/prompts"
)

// stubLimiter counts acquisitions and records quota notifications.
type stubLimiter struct {
	mu         sync.Mutex
	acquires   int
	acquireErr error
	notified   []time.Duration
}

func (s *stubLimiter) Acquire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acquireErr != nil {
		return s.acquireErr
	}
	s.acquires++
	return nil
}

func (s *stubLimiter) NotifyQuotaExhausted(retryAfter time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified = append(s.notified, retryAfter)
}

type scriptedCall struct {
	raw string
	err error
}

// scriptedBackend replays a fixed sequence of generation results.
type scriptedBackend struct {
	mu    sync.Mutex
	calls int
	steps []scriptedCall
}

func (b *scriptedBackend) GenerateMessages(ctx context.Context, messages []*schema.Message) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.calls >= len(b.steps) {
		return "", fmt.Errorf("unexpected call %d", b.calls+1)
	}
	step := b.steps[b.calls]
	b.calls++
	return step.raw, step.err
}

func newTestClassifier(t *testing.T, limiter Acquirer, backend Backend, sleeps *[]time.Duration) *Classifier {
	t.Helper()
	opts := []Option{WithJitter(nil)}
	if sleeps != nil {
		opts = append(opts, WithSleep(func(ctx context.Context, d time.Duration) error {
			*sleeps = append(*sleeps, d)
			return nil
		}))
	} else {
		opts = append(opts, WithSleep(func(ctx context.Context, d time.Duration) error { return nil }))
	}
	return NewClassifier(limiter, backend, prompts.NewSystemPrompts(),
		Config{MaxAttempts: 3, BackoffBase: time.Second, BackoffMax: 60 * time.Second}, nil, opts...)
}

func TestClassifyFirstAttemptSucceeds(t *testing.T) {
	limiter := &stubLimiter{}
	backend := &scriptedBackend{steps: []scriptedCall{
		{raw: `{"categories": ["About Us", "Contact/Support"]}`},
	}}
	c := newTestClassifier(t, limiter, backend, nil)

	out := c.Classify(context.Background(), Request{Kind: KindCategory, Text: "company page"})

	if out.Source != SourceAI {
		t.Errorf("Source = %q, want %q", out.Source, SourceAI)
	}
	if out.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", out.Attempts)
	}
	if limiter.acquires != 1 {
		t.Errorf("acquires = %d, want 1", limiter.acquires)
	}
	want := []string{"About Us", "Contact/Support"}
	if len(out.Labels) != len(want) {
		t.Fatalf("Labels = %v, want %v", out.Labels, want)
	}
	for i, label := range want {
		if out.Labels[i] != label {
			t.Errorf("Labels[%d] = %q, want %q", i, out.Labels[i], label)
		}
	}
}

func TestClassifyRetriesThenFallsBackToHeuristics(t *testing.T) {
	limiter := &stubLimiter{}
	backend := &scriptedBackend{steps: []scriptedCall{
		{err: errors.New("transport down")},
		{err: errors.New("transport down")},
		{err: errors.New("transport down")},
	}}
	var sleeps []time.Duration
	c := newTestClassifier(t, limiter, backend, &sleeps)

	out := c.Classify(context.Background(), Request{
		Kind: KindCategory,
		Text: "read our blog and latest news",
	})

	if out.Source != SourceHeuristic {
		t.Errorf("Source = %q, want %q", out.Source, SourceHeuristic)
	}
	if out.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", out.Attempts)
	}
	if limiter.acquires != 3 {
		t.Errorf("acquires = %d, want 3", limiter.acquires)
	}
	if backend.calls != 3 {
		t.Errorf("backend calls = %d, want 3", backend.calls)
	}
	wantSleeps := []time.Duration{time.Second, 2 * time.Second}
	if len(sleeps) != len(wantSleeps) {
		t.Fatalf("backoff sleeps = %v, want %v", sleeps, wantSleeps)
	}
	for i, want := range wantSleeps {
		if sleeps[i] != want {
			t.Errorf("sleeps[%d] = %v, want %v", i, sleeps[i], want)
		}
	}
	if len(out.Labels) == 0 || out.Labels[0] != "Blog/News/Press Release" {
		t.Errorf("Labels = %v, want heuristic blog/news match", out.Labels)
	}
}

func TestClassifyRecoversAfterFlakyAttempts(t *testing.T) {
	limiter := &stubLimiter{}
	backend := &scriptedBackend{steps: []scriptedCall{
		{err: errors.New("temporary failure")},
		{raw: "the page is mostly about products"},
		{raw: `{"categories": ["Products & Services"]}`},
	}}
	c := newTestClassifier(t, limiter, backend, nil)

	out := c.Classify(context.Background(), Request{Kind: KindCategory, Text: "product catalog"})

	if out.Source != SourceAI {
		t.Errorf("Source = %q, want %q", out.Source, SourceAI)
	}
	if out.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", out.Attempts)
	}
	if limiter.acquires != backend.calls {
		t.Errorf("acquires = %d, backend calls = %d, want equal", limiter.acquires, backend.calls)
	}
	if len(out.Labels) != 1 || out.Labels[0] != "Products & Services" {
		t.Errorf("Labels = %v, want [Products & Services]", out.Labels)
	}
}

func TestClassifyAcceptsProseWrappedJSON(t *testing.T) {
	limiter := &stubLimiter{}
	backend := &scriptedBackend{steps: []scriptedCall{
		{raw: `Sure! {"site_type": "news"} Hope that helps!`},
	}}
	c := newTestClassifier(t, limiter, backend, nil)

	out := c.Classify(context.Background(), Request{Kind: KindSiteType, Text: "breaking headlines"})

	if out.Source != SourceAI {
		t.Errorf("Source = %q, want %q", out.Source, SourceAI)
	}
	if len(out.Labels) != 1 || out.Labels[0] != "news" {
		t.Errorf("Labels = %v, want [news]", out.Labels)
	}
}

func TestClassifyRejectsUnknownLabels(t *testing.T) {
	limiter := &stubLimiter{}
	backend := &scriptedBackend{steps: []scriptedCall{
		{raw: `{"site_type": "parody"}`},
		{raw: `{"site_type": "parody"}`},
		{raw: `{"site_type": "parody"}`},
	}}
	c := newTestClassifier(t, limiter, backend, nil)

	out := c.Classify(context.Background(), Request{
		Kind:    KindSiteType,
		Text:    "latest research paper published in the journal",
		PageURL: "https://arxiv.org/abs/1234.5678",
	})

	if out.Source != SourceHeuristic {
		t.Errorf("Source = %q, want %q", out.Source, SourceHeuristic)
	}
	if out.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", out.Attempts)
	}
	if len(out.Labels) != 1 || out.Labels[0] != "research/academic" {
		t.Errorf("Labels = %v, want [research/academic]", out.Labels)
	}
}

func TestClassifyReportsQuotaExhaustion(t *testing.T) {
	limiter := &stubLimiter{}
	backend := &scriptedBackend{steps: []scriptedCall{
		{err: fmt.Errorf("%w: 429 resource exhausted, please retry in 7.5s", ai.ErrQuotaExhausted)},
		{raw: `{"categories": ["Careers/Jobs"]}`},
	}}
	c := newTestClassifier(t, limiter, backend, nil)

	out := c.Classify(context.Background(), Request{Kind: KindCategory, Text: "join our team"})

	if out.Source != SourceAI {
		t.Errorf("Source = %q, want %q", out.Source, SourceAI)
	}
	if out.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", out.Attempts)
	}
	if len(limiter.notified) != 1 {
		t.Fatalf("quota notifications = %d, want 1", len(limiter.notified))
	}
	if limiter.notified[0] != 7500*time.Millisecond {
		t.Errorf("retry-after hint = %v, want 7.5s", limiter.notified[0])
	}
}

func TestClassifyWithoutAcquireMakesNoBackendCalls(t *testing.T) {
	limiter := &stubLimiter{acquireErr: context.Canceled}
	backend := &scriptedBackend{}
	c := newTestClassifier(t, limiter, backend, nil)

	out := c.Classify(context.Background(), Request{Kind: KindCategory, Text: "contact us for support"})

	if out.Source != SourceHeuristic {
		t.Errorf("Source = %q, want %q", out.Source, SourceHeuristic)
	}
	if out.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", out.Attempts)
	}
	if backend.calls != 0 {
		t.Errorf("backend calls = %d, want 0", backend.calls)
	}
	if len(out.Labels) == 0 {
		t.Errorf("Labels = %v, want heuristic labels", out.Labels)
	}
}

func TestClassifyEmptyCategoriesIsValid(t *testing.T) {
	limiter := &stubLimiter{}
	backend := &scriptedBackend{steps: []scriptedCall{
		{raw: `{"categories": []}`},
	}}
	c := newTestClassifier(t, limiter, backend, nil)

	out := c.Classify(context.Background(), Request{Kind: KindCategory, Text: "plain page"})

	if out.Source != SourceAI {
		t.Errorf("Source = %q, want %q", out.Source, SourceAI)
	}
	if len(out.Labels) != 0 {
		t.Errorf("Labels = %v, want empty", out.Labels)
	}
	if out.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", out.Attempts)
	}
}
