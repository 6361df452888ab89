// Package dedup filters QoS1 redeliveries by remembering recently seen
// payload hashes.
package dedup

import (
	"sync"
	"time"
)

// Window is a TTL-bounded seen-set, safe for concurrent use.
type Window struct {
	mu   sync.Mutex
	ttl  time.Duration
	cap  int
	seen map[string]time.Time
}

func New(ttl time.Duration, capacity int) *Window {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if capacity <= 0 {
		capacity = 10000
	}
	return &Window{ttl: ttl, cap: capacity, seen: make(map[string]time.Time, capacity)}
}

// FirstSeen records the key and reports whether it is new within the TTL.
func (w *Window) FirstSeen(key string) bool {
	if key == "" {
		return true
	}
	now := time.Now()
	w.mu.Lock()
	defer w.mu.Unlock()

	if exp, ok := w.seen[key]; ok && now.Before(exp) {
		return false
	}
	w.seen[key] = now.Add(w.ttl)
	if len(w.seen) > w.cap {
		for k, exp := range w.seen {
			if now.After(exp) {
				delete(w.seen, k)
			}
			if len(w.seen) <= w.cap {
				break
			}
		}
	}
	return true
}
