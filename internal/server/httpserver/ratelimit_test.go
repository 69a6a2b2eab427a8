package httpserver

import (
	"testing"
	"time"
)

func TestLimiter_Burst(t *testing.T) {
	l := NewLimiter(1, 3)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("alice") {
			t.Fatalf("Allow() #%d = false, want true", i)
		}
	}
	if l.Allow("alice") {
		t.Error("Allow() beyond burst = true")
	}

	now = now.Add(time.Second)
	if !l.Allow("alice") {
		t.Error("Allow() after refill = false")
	}
}

func TestNewPerMinuteLimiter(t *testing.T) {
	l := NewPerMinuteLimiter(2)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("burst of 2 rejected")
	}
	if l.Allow("k") {
		t.Error("third grant within the minute allowed")
	}

	now = now.Add(30 * time.Second)
	if !l.Allow("k") {
		t.Error("grant after 30s rejected")
	}
	if got := l.RetryAfter(); got != "30" {
		t.Errorf("RetryAfter() = %q, want 30", got)
	}
}

func TestLimiter_Sweep(t *testing.T) {
	l := NewLimiter(10, 10)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(DefaultLimiterIdle / 2)
	l.Allow("recent")

	if n := l.Sweep(now.Add(DefaultLimiterIdle / 2).Add(time.Second)); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestLimiter_SweepsLazily(t *testing.T) {
	l := NewLimiter(10, 10)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }
	l.lastSweep.Store(now.UnixNano())

	l.Allow("a")
	l.Allow("b")

	now = now.Add(DefaultLimiterIdle + time.Minute)
	l.Allow("c")

	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after lazy sweep", l.Len())
	}
}
