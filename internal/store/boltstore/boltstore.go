// Package boltstore is the locally persisted store backend, backed by a
// single bbolt file with one bucket per collection.
package boltstore

import (
	"context"
	"sort"
	"time"

	"github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/jazzyjizz/candycommerce/internal/domain"
	"github.com/jazzyjizz/candycommerce/internal/store"
)

var (
	bucketProducts = []byte("products")
	bucketOrders   = []byte("orders")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store persists products and orders in a bbolt database.
type Store struct {
	db  *bolt.DB
	bus EventBus.Bus
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database file and ensures buckets exist.
func Open(path string, bus EventBus.Bus) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "boltstore: open")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketProducts, bucketOrders} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "boltstore: init buckets")
	}
	return &Store{db: db, bus: bus}, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) publish(topic string) {
	if s.bus != nil {
		s.bus.Publish(topic)
	}
}

func (s *Store) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProducts).ForEach(func(_, v []byte) error {
			var p domain.Product
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			out = append(out, p)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "boltstore: list products")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) Product(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketProducts).Get([]byte(id))
		if v == nil {
			return store.ErrNotFound
		}
		return json.Unmarshal(v, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	p.InStock = p.Stock > 0
	if err := s.putProduct(p); err != nil {
		return err
	}
	s.publish(store.TopicProductsChanged)
	return nil
}

func (s *Store) SaveProduct(ctx context.Context, p *domain.Product) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProducts)
		if b.Get([]byte(p.ID)) == nil {
			return store.ErrNotFound
		}
		p.InStock = p.Stock > 0
		v, err := json.Marshal(p)
		if err != nil {
			return err
		}
		return b.Put([]byte(p.ID), v)
	})
	if err != nil {
		return err
	}
	s.publish(store.TopicProductsChanged)
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProducts)
		if b.Get([]byte(id)) == nil {
			return store.ErrNotFound
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return err
	}
	s.publish(store.TopicProductsChanged)
	return nil
}

// UpdateStock runs the read-modify-write inside one write transaction, so a
// concurrent decrement can never observe a stale count.
func (s *Store) UpdateStock(ctx context.Context, id string, delta int) (bool, error) {
	applied := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProducts)
		v := b.Get([]byte(id))
		if v == nil {
			return store.ErrNotFound
		}
		var p domain.Product
		if err := json.Unmarshal(v, &p); err != nil {
			return err
		}
		next := p.Stock + delta
		if next < 0 {
			return nil
		}
		p.ApplyStock(next)
		p.UpdatedAt = time.Now()
		nv, err := json.Marshal(&p)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(id), nv); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if applied {
		s.publish(store.TopicProductsChanged)
	}
	return applied, nil
}

func (s *Store) putProduct(p *domain.Product) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		v, err := json.Marshal(p)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketProducts).Put([]byte(p.ID), v)
	})
}

func (s *Store) Orders(ctx context.Context) ([]domain.Order, error) {
	return s.listOrders(nil)
}

func (s *Store) OrdersByCustomer(ctx context.Context, name string) ([]domain.Order, error) {
	return s.listOrders(func(o *domain.Order) bool { return o.Customer.Name == name })
}

func (s *Store) listOrders(keep func(*domain.Order) bool) ([]domain.Order, error) {
	var out []domain.Order
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOrders).ForEach(func(_, v []byte) error {
			var o domain.Order
			if err := json.Unmarshal(v, &o); err != nil {
				return err
			}
			if keep == nil || keep(&o) {
				out = append(out, o)
			}
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "boltstore: list orders")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) Order(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketOrders).Get([]byte(id))
		if v == nil {
			return store.ErrNotFound
		}
		return json.Unmarshal(v, &o)
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		v, err := json.Marshal(o)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketOrders).Put([]byte(o.ID), v)
	})
	if err != nil {
		return errors.Wrap(err, "boltstore: create order")
	}
	s.publish(store.TopicOrdersChanged)
	return nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOrders)
		v := b.Get([]byte(id))
		if v == nil {
			return store.ErrNotFound
		}
		var o domain.Order
		if err := json.Unmarshal(v, &o); err != nil {
			return err
		}
		o.Status = status
		o.UpdatedAt = time.Now()
		nv, err := json.Marshal(&o)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), nv)
	})
	if err != nil {
		return err
	}
	s.publish(store.TopicOrdersChanged)
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOrders)
		if b.Get([]byte(id)) == nil {
			return store.ErrNotFound
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return err
	}
	s.publish(store.TopicOrdersChanged)
	return nil
}
