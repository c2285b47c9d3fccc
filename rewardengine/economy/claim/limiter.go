package claim

import (
	"context"
	"sync"
	"time"
)

// Rate limits on reward claims. These mirror the protocol's on-chain limits
// and apply at the service edge, never inside the reward math itself.
const (
	DefaultCooldown   = 5 * time.Minute
	DefaultWindow     = time.Hour
	DefaultMaxPerWind = 10

	cleanupInterval = 10 * time.Minute
)

// Limiter throttles reward claims per user: a minimum interval between
// claims, and a cap on claims inside a rolling window.
type Limiter struct {
	records  sync.Map // userID -> *record
	cooldown time.Duration
	window   time.Duration
	maxPer   int
	now      func() time.Time
}

type record struct {
	mu     sync.Mutex
	claims []time.Time
}

func NewLimiter(cooldown time.Duration) *Limiter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Limiter{
		cooldown: cooldown,
		window:   DefaultWindow,
		maxPer:   DefaultMaxPerWind,
		now:      time.Now,
	}
}

// CanClaim reports whether the user may claim now. When blocked it returns
// the wait until the next allowed claim.
func (l *Limiter) CanClaim(userID string) (bool, time.Duration) {
	value, ok := l.records.Load(userID)
	if !ok {
		return true, 0
	}
	rec := value.(*record)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	now := l.now()
	rec.prune(now.Add(-l.window))

	if n := len(rec.claims); n > 0 {
		last := rec.claims[n-1]
		if next := last.Add(l.cooldown); now.Before(next) {
			return false, next.Sub(now)
		}
		if n >= l.maxPer {
			// window is full; the oldest claim ages out first
			next := rec.claims[0].Add(l.window)
			return false, next.Sub(now)
		}
	}
	return true, 0
}

// RecordClaim marks a successful claim for the user.
func (l *Limiter) RecordClaim(userID string) {
	value, _ := l.records.LoadOrStore(userID, &record{})
	rec := value.(*record)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	now := l.now()
	rec.prune(now.Add(-l.window))
	rec.claims = append(rec.claims, now)
}

// ClaimsInWindow reports how many claims the user has inside the rolling
// window right now.
func (l *Limiter) ClaimsInWindow(userID string) int {
	value, ok := l.records.Load(userID)
	if !ok {
		return 0
	}
	rec := value.(*record)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.prune(l.now().Add(-l.window))
	return len(rec.claims)
}

// prune drops claims at or before the cutoff. Callers hold rec.mu.
func (r *record) prune(cutoff time.Time) {
	i := 0
	for i < len(r.claims) && !r.claims[i].After(cutoff) {
		i++
	}
	if i > 0 {
		r.claims = append(r.claims[:0], r.claims[i:]...)
	}
}

// StartCleanupRoutine drops users whose whole history has aged out, so the
// map does not grow without bound.
func (l *Limiter) StartCleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.cleanup()
			}
		}
	}()
}

func (l *Limiter) cleanup() {
	cutoff := l.now().Add(-l.window)
	l.records.Range(func(key, value interface{}) bool {
		rec := value.(*record)
		rec.mu.Lock()
		rec.prune(cutoff)
		empty := len(rec.claims) == 0
		rec.mu.Unlock()
		if empty {
			l.records.Delete(key)
		}
		return true
	})
}
