package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// window is the trailing interval the call budget applies to.
const window = time.Minute

const minSleep = 10 * time.Millisecond

// Limiter caps outbound AI calls at a fixed number per trailing 60s window.
// It is the single shared serialization point for a batch run: every
// classification acquires from the same instance, concurrency-safe.
//
// A quota cooldown can be armed when the backend reports exhaustion; Acquire
// waits out the cooldown before consulting the window.
type Limiter struct {
	mu         sync.Mutex
	limit      int
	stamps     []time.Time
	quotaUntil time.Time

	cooldown time.Duration
	clk      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// Snapshot is a point-in-time view of the limiter, for logs and health.
type Snapshot struct {
	InWindow      int
	Limit         int
	CooldownUntil time.Time
}

type Option func(*Limiter)

// WithClock replaces the wall clock. Tests drive the limiter with a fake.
func WithClock(clk func() time.Time) Option {
	return func(l *Limiter) { l.clk = clk }
}

// WithSleep replaces the blocking wait. Tests pair this with WithClock so a
// wait advances the fake clock instead of real time.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) { l.sleep = fn }
}

// WithQuotaCooldown sets the cooldown applied when the backend gives no
// retry delay of its own.
func WithQuotaCooldown(d time.Duration) Option {
	return func(l *Limiter) { l.cooldown = d }
}

// New builds a limiter. perMinute must be positive; zero or negative is a
// configuration error, never treated as unlimited.
func New(perMinute int, opts ...Option) (*Limiter, error) {
	if perMinute <= 0 {
		return nil, fmt.Errorf("calls per minute must be positive, got %d", perMinute)
	}
	l := &Limiter{
		limit:    perMinute,
		cooldown: time.Hour,
		clk:      time.Now,
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Acquire blocks until one more call fits in the window, then records it.
// Returns only a context error; a nil return means the call is admitted.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		l.mu.Lock()
		now := l.clk()

		if now.Before(l.quotaUntil) {
			wait := l.quotaUntil.Sub(now)
			l.mu.Unlock()
			if err := l.sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		l.pruneLocked(now)
		if len(l.stamps) < l.limit {
			l.stamps = append(l.stamps, now)
			l.mu.Unlock()
			return nil
		}
		wait := l.stamps[0].Add(window).Sub(now)
		l.mu.Unlock()

		if wait < minSleep {
			wait = minSleep
		}
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// NotifyQuotaExhausted arms the cooldown. retryAfter <= 0 falls back to the
// configured default. Calls racing an already-armed cooldown keep the later
// deadline.
func (l *Limiter) NotifyQuotaExhausted(retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = l.cooldown
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	until := l.clk().Add(retryAfter)
	if until.After(l.quotaUntil) {
		l.quotaUntil = until
	}
}

// Snapshot reports the current window occupancy. Diagnostic only.
func (l *Limiter) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked(l.clk())
	return Snapshot{
		InWindow:      len(l.stamps),
		Limit:         l.limit,
		CooldownUntil: l.quotaUntil,
	}
}

// pruneLocked drops timestamps that have aged out of the window. A stamp
// exactly one window old no longer counts.
func (l *Limiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-window)
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[i:]...)
	}
}

// sleepCtx sleeps in slices of at most 200ms so cancellation is observed
// promptly even during long waits.
func sleepCtx(ctx context.Context, d time.Duration) error {
	const step = 200 * time.Millisecond
	for d > 0 {
		s := d
		if s > step {
			s = step
		}
		t := time.NewTimer(s)
		select {
		case <-ctx.Done():
			if !t.Stop() {
				<-t.C
			}
			return ctx.Err()
		case <-t.C:
		}
		d -= s
	}
	return nil
}
