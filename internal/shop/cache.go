package shop

import (
	"context"
	"sync"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/jazzyjizz/candycommerce/internal/domain"
	"github.com/jazzyjizz/candycommerce/internal/store"
)

// ProductCache is a read-through mirror of the catalog for storefront reads.
// A change notification on the bus invalidates it; the next read refetches
// from the authoritative store. Mutation paths never consult it.
type ProductCache struct {
	catalog store.Catalog
	bus     EventBus.Bus
	handler func()

	mu       sync.RWMutex
	products []domain.Product
	valid    bool
}

// NewProductCache subscribes to the products-changed topic and returns the
// cache. Call Stop when done to unsubscribe.
func NewProductCache(catalog store.Catalog, bus EventBus.Bus) *ProductCache {
	c := &ProductCache{catalog: catalog, bus: bus}
	// Keep one handler value so Unsubscribe matches the Subscribe call.
	c.handler = c.Invalidate
	if bus != nil {
		if err := bus.Subscribe(store.TopicProductsChanged, c.handler); err != nil {
			zap.L().Warn("product cache subscribe failed", zap.Error(err))
		}
	}
	return c
}

// Invalidate drops the cached snapshot. The next Products call refetches.
func (c *ProductCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.products = nil
	c.mu.Unlock()
}

// Products returns the cached catalog snapshot, refetching it from the store
// when a change notification has invalidated it.
func (c *ProductCache) Products(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	if c.valid {
		out := make([]domain.Product, len(c.products))
		copy(out, c.products)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	rows, err := c.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.products = rows
	c.valid = true
	c.mu.Unlock()

	out := make([]domain.Product, len(rows))
	copy(out, rows)
	return out, nil
}

// Stop unsubscribes the cache from the change topic.
func (c *ProductCache) Stop() {
	if c.bus != nil {
		_ = c.bus.Unsubscribe(store.TopicProductsChanged, c.handler)
	}
}
