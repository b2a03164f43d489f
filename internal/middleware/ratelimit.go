package middleware

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/forgo/raidsign/internal/model"
)

// RateLimiter implements per-key token bucket rate limiting
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     int           // Commands per window
	window   time.Duration // Time window
	burst    int           // Extra commands allowed on top of rate
	cleanup  time.Duration // Cleanup interval for idle buckets
	now      func() time.Time
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	Rate    int           // Commands per window (default 5)
	Window  time.Duration // Time window (default 10 seconds)
	Burst   int           // Max burst (default 3)
	Cleanup time.Duration // Cleanup interval (default 5 minutes)
	Clock   func() time.Time
}

// NewRateLimiter creates a new rate limiter. Call Stop to release its
// cleanup goroutine.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Rate == 0 {
		cfg.Rate = 5
	}
	if cfg.Window == 0 {
		cfg.Window = 10 * time.Second
	}
	if cfg.Burst == 0 {
		cfg.Burst = 3
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = 5 * time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     cfg.Rate,
		window:   cfg.Window,
		burst:    cfg.Burst,
		cleanup:  cfg.Cleanup,
		now:      cfg.Clock,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the cleanup goroutine and waits for it to exit
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
	<-rl.done
}

func (rl *RateLimiter) cleanupLoop() {
	defer close(rl.done)
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupExpired()
		case <-rl.stopChan:
			return
		}
	}
}

func (rl *RateLimiter) cleanupExpired() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window * 2)
	for key, b := range rl.buckets {
		if b.lastReset.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// Allow checks if a command is allowed for the given key
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, resetTime time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, exists := rl.buckets[key]

	if !exists {
		b = &bucket{
			tokens:    rl.rate + rl.burst - 1, // -1 for this command
			lastReset: now,
		}
		rl.buckets[key] = b
		return true, b.tokens, now.Add(rl.window)
	}

	elapsed := now.Sub(b.lastReset)
	if elapsed >= rl.window {
		b.tokens = rl.rate + rl.burst
		b.lastReset = now
	} else {
		tokensToAdd := int(float64(rl.rate) * (float64(elapsed) / float64(rl.window)))
		b.tokens += tokensToAdd
		if b.tokens > rl.rate+rl.burst {
			b.tokens = rl.rate + rl.burst
		}
		if tokensToAdd > 0 {
			b.lastReset = now
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true, b.tokens, b.lastReset.Add(rl.window)
	}

	return false, 0, b.lastReset.Add(rl.window)
}

// RateLimit returns a middleware that limits commands per author
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *model.Request) *model.Response {
			key := req.AuthorID
			if key == "" {
				key = "channel:" + req.ChannelID
			}

			allowed, _, resetTime := limiter.Allow(key)
			if !allowed {
				retryAfter := int(math.Ceil(resetTime.Sub(limiter.now()).Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				slog.WarnContext(ctx, "command rate limited",
					slog.String("author_id", req.AuthorID),
					slog.String("keyword", req.Keyword),
					slog.Int("retry_after", retryAfter),
				)
				return model.TextResponse(model.NewRateLimitError(retryAfter).Detail)
			}

			return next(ctx, req)
		}
	}
}
