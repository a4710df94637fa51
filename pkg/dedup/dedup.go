// Package dedup provides at-most-once claims for workflow firings. A claim
// key identifies one workflow reacting to one triggering event; the first
// claim wins and repeats within the TTL are rejected.
package dedup

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Guard claims idempotency keys. Claim returns true exactly once per key
// within the guard's retention window.
type Guard interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// Key builds the claim key for one workflow firing.
func Key(entityType, entityID, workflowID, eventID string) string {
	return strings.Join([]string{entityType, entityID, workflowID, eventID}, ":")
}

// MemoryGuard is a process-local Guard with TTL-based pruning. Suitable for
// the single-process deployments this engine targets.
type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{
		seen: make(map[string]time.Time),
		ttl:  ttl,
	}
}

func (g *MemoryGuard) Claim(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()

	for k, claimedAt := range g.seen {
		if now.Sub(claimedAt) > g.ttl {
			delete(g.seen, k)
		}
	}

	if _, ok := g.seen[key]; ok {
		return false, nil
	}

	g.seen[key] = now

	return true, nil
}
