package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryTracker is the single-process counterpart of RedisTracker
type MemoryTracker struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]time.Time // key -> expiry
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryTracker creates a tracker whose keys expire after ttl
func NewMemoryTracker(ttl time.Duration) *MemoryTracker {
	t := &MemoryTracker{
		ttl:   ttl,
		items: make(map[string]time.Time),
		now:   time.Now,
		stop:  make(chan struct{}),
	}

	// Start cleanup goroutine to remove expired items
	go t.cleanupExpired(5 * time.Minute)

	return t
}

// MarkIfNew records key and reports true when it was not seen (or has expired)
func (t *MemoryTracker) MarkIfNew(_ context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if expiry, ok := t.items[key]; ok && now.Before(expiry) {
		return false, nil
	}
	t.items[key] = now.Add(t.ttl)
	return true, nil
}

// Forget removes a key
func (t *MemoryTracker) Forget(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.items, key)
	return nil
}

// Len returns the number of tracked keys, expired ones included
func (t *MemoryTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// Close stops the cleanup goroutine
func (t *MemoryTracker) Close() {
	t.once.Do(func() { close(t.stop) })
}

// cleanupExpired periodically removes expired items
func (t *MemoryTracker) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.purge()
		}
	}
}

func (t *MemoryTracker) purge() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for key, expiry := range t.items {
		if !now.Before(expiry) {
			delete(t.items, key)
		}
	}
}
