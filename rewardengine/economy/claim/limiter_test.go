package claim

import (
	"testing"
	"time"
)

func newTestLimiter() (*Limiter, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(DefaultCooldown)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_FirstClaimAllowed(t *testing.T) {
	l, _ := newTestLimiter()

	ok, wait := l.CanClaim("user-1")
	if !ok || wait != 0 {
		t.Errorf("CanClaim() = %v, %v; want true, 0", ok, wait)
	}
}

func TestLimiter_CooldownBetweenClaims(t *testing.T) {
	l, now := newTestLimiter()

	l.RecordClaim("user-1")

	*now = now.Add(2 * time.Minute)
	ok, wait := l.CanClaim("user-1")
	if ok {
		t.Fatal("CanClaim() = true inside the cooldown")
	}
	if wait != 3*time.Minute {
		t.Errorf("CanClaim() wait = %v, want 3m", wait)
	}

	*now = now.Add(3 * time.Minute)
	if ok, _ := l.CanClaim("user-1"); !ok {
		t.Error("CanClaim() = false after the cooldown elapsed")
	}
}

func TestLimiter_WindowCap(t *testing.T) {
	l, now := newTestLimiter()

	// fill the hourly window at the fastest allowed pace
	for i := 0; i < DefaultMaxPerWind; i++ {
		if ok, _ := l.CanClaim("user-1"); !ok {
			t.Fatalf("claim %d unexpectedly blocked", i)
		}
		l.RecordClaim("user-1")
		*now = now.Add(DefaultCooldown)
	}

	if got := l.ClaimsInWindow("user-1"); got != DefaultMaxPerWind {
		t.Fatalf("ClaimsInWindow() = %d, want %d", got, DefaultMaxPerWind)
	}

	ok, wait := l.CanClaim("user-1")
	if ok {
		t.Fatal("CanClaim() = true with a full window")
	}
	if wait <= 0 {
		t.Errorf("CanClaim() wait = %v, want positive", wait)
	}

	// once the oldest claim ages out, claiming resumes
	*now = now.Add(wait)
	if ok, _ := l.CanClaim("user-1"); !ok {
		t.Error("CanClaim() = false after the oldest claim aged out")
	}
}

func TestLimiter_UsersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter()

	l.RecordClaim("user-1")
	if ok, _ := l.CanClaim("user-2"); !ok {
		t.Error("CanClaim() = false for an unrelated user")
	}
}

func TestLimiter_CleanupDropsStaleRecords(t *testing.T) {
	l, now := newTestLimiter()

	l.RecordClaim("user-1")
	*now = now.Add(2 * DefaultWindow)
	l.cleanup()

	if _, ok := l.records.Load("user-1"); ok {
		t.Error("cleanup() left a fully aged-out record behind")
	}
}
