package sync

import (
	"sync"
	"time"

	"github.com/mamadbah2/herdwise/internal/domain/models"
)

// DefaultOptimisticWindow is how long a local optimistic write shields its
// collection from full-snapshot replacement. The remote write normally
// echoes back through the change stream well inside this window.
const DefaultOptimisticWindow = 2 * time.Second

type tokenKey struct {
	entity models.EntityType
	id     string
}

// Registry tracks in-flight optimistic writes as expiring tokens keyed by
// (entity, document id). It replaces the old ambient "is adding inventory"
// boolean: tokens are explicit, scoped and self-expiring.
type Registry struct {
	mu     sync.Mutex
	tokens map[tokenKey]time.Time
	window time.Duration
	now    func() time.Time
}

// NewRegistry builds a registry with the given suppression window; zero
// means DefaultOptimisticWindow.
func NewRegistry(window time.Duration) *Registry {
	if window <= 0 {
		window = DefaultOptimisticWindow
	}
	return &Registry{
		tokens: make(map[tokenKey]time.Time),
		window: window,
		now:    time.Now,
	}
}

// Mark records an optimistic write for the given document. Re-marking
// extends the window.
func (r *Registry) Mark(entity models.EntityType, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[tokenKey{entity: entity, id: id}] = r.now().Add(r.window)
}

// Pending reports whether any unexpired token exists for the entity type.
// Expired tokens are pruned on the way through.
func (r *Registry) Pending(entity models.EntityType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	pending := false
	for k, expiry := range r.tokens {
		if !expiry.After(now) {
			delete(r.tokens, k)
			continue
		}
		if k.entity == entity {
			pending = true
		}
	}
	return pending
}
