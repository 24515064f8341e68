package chain

import (
	"context"
	"sync"
	"time"

	"github.com/goodnatureofminers/onclick-backend/internal/metrics"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"go.uber.org/zap"
)

// Cache memoizes successful bindings per network. Rejected bindings and
// errors are passed through and never stored.
type Cache struct {
	logger   *zap.Logger
	resolver BindingResolver
	metrics  CacheMetrics

	mu       sync.Mutex
	bindings map[model.NetworkID]*Binding
}

// NewCache wraps resolver.
func NewCache(logger *zap.Logger, resolver BindingResolver, metrics CacheMetrics) *Cache {
	return &Cache{
		logger:   logger.Named("provider_cache"),
		resolver: resolver,
		metrics:  metrics,
		bindings: make(map[model.NetworkID]*Binding),
	}
}

// Resolve returns the cached binding for id or resolves a new one. A
// successful binding is returned with a reference held; callers Release it
// when done so an invalidation cannot close it under them.
func (c *Cache) Resolve(ctx context.Context, id model.NetworkID) (*Binding, error) {
	started := time.Now()

	c.mu.Lock()
	if b, ok := c.bindings[id]; ok {
		b.acquire()
		c.mu.Unlock()
		c.metrics.ObserveResolve(id, metrics.ResolveHit, started)
		return b, nil
	}
	c.mu.Unlock()

	b, err := c.resolver.Resolve(ctx, id)
	if err != nil {
		c.metrics.ObserveResolve(id, metrics.ResolveError, started)
		return nil, err
	}
	if !b.Success {
		c.metrics.ObserveResolve(id, metrics.ResolveRejected, started)
		return b, nil
	}

	c.mu.Lock()
	if existing, ok := c.bindings[id]; ok {
		// lost a race with a concurrent resolve
		existing.acquire()
		c.mu.Unlock()
		b.Close()
		c.metrics.ObserveResolve(id, metrics.ResolveHit, started)
		return existing, nil
	}
	b.acquire()
	c.bindings[id] = b
	c.mu.Unlock()

	c.metrics.ObserveResolve(id, metrics.ResolveBound, started)
	return b, nil
}

// Invalidate drops the binding for id.
func (c *Cache) Invalidate(id model.NetworkID, reason string) {
	c.mu.Lock()
	b, ok := c.bindings[id]
	delete(c.bindings, id)
	c.mu.Unlock()

	if !ok {
		return
	}
	b.retire()
	c.metrics.ObserveInvalidation(id, reason)
	c.logger.Info("binding invalidated", zap.Stringer("network", id), zap.String("reason", reason))
}

// InvalidateAll drops every binding.
func (c *Cache) InvalidateAll(reason string) {
	c.mu.Lock()
	dropped := c.bindings
	c.bindings = make(map[model.NetworkID]*Binding)
	c.mu.Unlock()

	for id, b := range dropped {
		b.retire()
		c.metrics.ObserveInvalidation(id, reason)
	}
	if len(dropped) > 0 {
		c.logger.Info("bindings invalidated", zap.Int("count", len(dropped)), zap.String("reason", reason))
	}
}

// Close releases every cached connection. Bindings still in use are closed
// when released.
func (c *Cache) Close() {
	c.InvalidateAll("shutdown")
}
