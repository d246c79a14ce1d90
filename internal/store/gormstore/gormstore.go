// Package gormstore is the relational store backend (postgres via GORM).
package gormstore

import (
	"context"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/jazzyjizz/candycommerce/internal/domain"
	"github.com/jazzyjizz/candycommerce/internal/store"
)

// Store implements the catalog and order-log boundaries on a *gorm.DB.
type Store struct {
	db  *gorm.DB
	bus EventBus.Bus
}

var _ store.Store = (*Store)(nil)

// NewStore creates a relational store. bus may be nil.
func NewStore(db *gorm.DB, bus EventBus.Bus) *Store {
	return &Store{db: db, bus: bus}
}

func (s *Store) publish(topic string) {
	if s.bus != nil {
		s.bus.Publish(topic)
	}
}

func (s *Store) Products(ctx context.Context) ([]domain.Product, error) {
	var rows []domain.Product
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (s *Store) Product(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	p.InStock = p.Stock > 0
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return err
	}
	s.publish(store.TopicProductsChanged)
	return nil
}

func (s *Store) SaveProduct(ctx context.Context, p *domain.Product) error {
	p.InStock = p.Stock > 0
	res := s.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", p.ID).
		Select("*").Omit("id", "created_at").Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	s.publish(store.TopicProductsChanged)
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	s.publish(store.TopicProductsChanged)
	return nil
}

// UpdateStock applies the delta with a conditional update so two concurrent
// placements against the same low-stock product cannot oversell:
//
//	UPDATE products SET stock = stock + delta WHERE id = ? AND stock + delta >= 0
func (s *Store) UpdateStock(ctx context.Context, id string, delta int) (bool, error) {
	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&domain.Product{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return store.ErrNotFound
		}
		res := tx.Model(&domain.Product{}).
			Where("id = ? AND stock + ? >= 0", id, delta).
			UpdateColumn("stock", gorm.Expr("stock + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&domain.Product{}).Where("id = ?", id).
			UpdateColumn("in_stock", gorm.Expr("stock > 0")).Error; err != nil {
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

func (s *Store) Orders(ctx context.Context) ([]domain.Order, error) {
	var rows []domain.Order
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (s *Store) OrdersByCustomer(ctx context.Context, name string) ([]domain.Order, error) {
	var rows []domain.Order
	err := s.db.WithContext(ctx).Where("customer_name = ?", name).
		Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (s *Store) Order(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return err
	}
	s.publish(store.TopicOrdersChanged)
	return nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	res := s.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	s.publish(store.TopicOrdersChanged)
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	s.publish(store.TopicOrdersChanged)
	return nil
}
