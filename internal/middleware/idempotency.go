package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/forgo/raidsign/internal/model"
)

// IdempotencyStore remembers which chat messages were already handled.
// The gateway can deliver the same message twice after a session resume;
// a remembered message is dropped instead of being run again.
type IdempotencyStore struct {
	mu       sync.Mutex
	entries  map[string]time.Time // key -> expiry
	ttl      time.Duration
	now      func() time.Time
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	TTL     time.Duration // How long a message id is remembered (default 10m)
	Cleanup time.Duration // Cleanup interval (default 1m)
	Clock   func() time.Time
}

// NewIdempotencyStore creates a new idempotency store. Call Stop to release
// its cleanup goroutine.
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL == 0 {
		cfg.TTL = 10 * time.Minute
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	store := &IdempotencyStore{
		entries:  make(map[string]time.Time),
		ttl:      cfg.TTL,
		now:      cfg.Clock,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}

	go store.cleanupLoop(cfg.Cleanup)

	return store
}

// Stop stops the cleanup goroutine and waits for it to exit
func (s *IdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.done
}

func (s *IdempotencyStore) cleanupLoop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

func (s *IdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, expiresAt := range s.entries {
		if expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
}

// Seen records key and reports whether it was already recorded and unexpired
func (s *IdempotencyStore) Seen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiresAt, ok := s.entries[key]; ok && expiresAt.After(now) {
		return true
	}
	s.entries[key] = now.Add(s.ttl)
	return false
}

// Len returns the number of remembered messages
func (s *IdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// generateKey fingerprints a message by channel, id, author and content
func generateKey(channelID, messageID, authorID, content string) string {
	h := sha256.New()
	for _, part := range []string{channelID, messageID, authorID, content} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Idempotency returns middleware that drops messages already handled.
// Requests without a message id always proceed.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *model.Request) *model.Response {
			if req.MessageID == "" {
				return next(ctx, req)
			}

			key := generateKey(req.ChannelID, req.MessageID, req.AuthorID, req.Content)
			if store.Seen(key) {
				slog.DebugContext(ctx, "duplicate message dropped",
					slog.String("message_id", req.MessageID),
					slog.String("channel_id", req.ChannelID),
				)
				return nil
			}
			return next(ctx, req)
		}
	}
}
