package httpserver

import (
	"math"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/corex-go/pkg/cmap"
)

// Limiter sweep defaults.
const (
	DefaultLimiterIdle = 10 * time.Minute
	limiterSweepEvery  = time.Minute
)

// Limiter keeps one token bucket per key. Buckets idle for longer than
// the idle window are dropped.
type Limiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	buckets   *cmap.Map[*bucket]
	lastSweep atomic.Int64
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64
}

// NewLimiter creates a Limiter allowing limit events per second with the
// given burst.
func NewLimiter(limit rate.Limit, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	l := &Limiter{
		limit:   limit,
		burst:   burst,
		idle:    DefaultLimiterIdle,
		now:     time.Now,
		buckets: cmap.New[*bucket](),
	}
	l.lastSweep.Store(l.now().UnixNano())
	return l
}

// NewPerMinuteLimiter creates a Limiter allowing n events per minute with
// a burst of n.
func NewPerMinuteLimiter(n int) *Limiter {
	if n < 1 {
		n = 1
	}
	return NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
}

// Allow reports whether key may proceed now.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	b, _ := l.buckets.GetOrCreate(key, func() *bucket {
		return &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
	})
	b.lastSeen.Store(now.UnixNano())

	if last := l.lastSweep.Load(); now.UnixNano()-last > int64(limiterSweepEvery) {
		if l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
			l.Sweep(now)
		}
	}
	return b.lim.AllowN(now, 1)
}

// Sweep drops buckets idle since before now minus the idle window and
// returns how many were dropped.
func (l *Limiter) Sweep(now time.Time) int {
	cutoff := now.Add(-l.idle).UnixNano()
	return l.buckets.DeleteIf(func(_ string, b *bucket) bool {
		return b.lastSeen.Load() < cutoff
	})
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	return l.buckets.Count()
}

// RetryAfter returns the Retry-After header value in seconds.
func (l *Limiter) RetryAfter() string {
	if l.limit <= 0 || l.limit == rate.Inf {
		return "1"
	}
	secs := int(math.Round(1 / float64(l.limit)))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
