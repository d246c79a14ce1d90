// Package memstore is the in-memory store backend. It stands in for the
// realtime document database revision: every mutation publishes a change
// topic on the event bus so cached mirrors can invalidate and refetch.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"

	"github.com/jazzyjizz/candycommerce/internal/domain"
	"github.com/jazzyjizz/candycommerce/internal/store"
)

// Store keeps products and orders in maps guarded by a single RWMutex.
type Store struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	orders   map[string]domain.Order
	bus      EventBus.Bus
}

var _ store.Store = (*Store)(nil)

// NewStore creates an empty in-memory store. bus may be nil when change
// notifications are not needed (tests mostly run without one).
func NewStore(bus EventBus.Bus) *Store {
	return &Store{
		products: make(map[string]domain.Product),
		orders:   make(map[string]domain.Order),
		bus:      bus,
	}
}

func (s *Store) publish(topic string) {
	if s.bus != nil {
		s.bus.Publish(topic)
	}
}

func (s *Store) Products(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) Product(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	p.InStock = p.Stock > 0
	s.products[p.ID] = *p
	s.mu.Unlock()
	s.publish(store.TopicProductsChanged)
	return nil
}

func (s *Store) SaveProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	if _, ok := s.products[p.ID]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	p.InStock = p.Stock > 0
	s.products[p.ID] = *p
	s.mu.Unlock()
	s.publish(store.TopicProductsChanged)
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.products[id]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	delete(s.products, id)
	s.mu.Unlock()
	s.publish(store.TopicProductsChanged)
	return nil
}

func (s *Store) UpdateStock(ctx context.Context, id string, delta int) (bool, error) {
	s.mu.Lock()
	p, ok := s.products[id]
	if !ok {
		s.mu.Unlock()
		return false, store.ErrNotFound
	}
	next := p.Stock + delta
	if next < 0 {
		s.mu.Unlock()
		return false, nil
	}
	p.ApplyStock(next)
	p.UpdatedAt = time.Now()
	s.products[id] = p
	s.mu.Unlock()
	s.publish(store.TopicProductsChanged)
	return true, nil
}

func (s *Store) Orders(ctx context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sortOrders(out)
	return out, nil
}

func (s *Store) OrdersByCustomer(ctx context.Context, name string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.Customer.Name == name {
			out = append(out, o)
		}
	}
	sortOrders(out)
	return out, nil
}

func (s *Store) Order(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	s.mu.Lock()
	s.orders[o.ID] = *o
	s.mu.Unlock()
	s.publish(store.TopicOrdersChanged)
	return nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	s.mu.Lock()
	o, ok := s.orders[id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	s.orders[id] = o
	s.mu.Unlock()
	s.publish(store.TopicOrdersChanged)
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.orders[id]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	delete(s.orders, id)
	s.mu.Unlock()
	s.publish(store.TopicOrdersChanged)
	return nil
}

func sortOrders(out []domain.Order) {
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
}
