// Package store defines the catalog and order-log boundaries shared by the
// three interchangeable backends (memory, bbolt, postgres).
package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jazzyjizz/candycommerce/internal/domain"
)

// ErrNotFound is returned when a record id does not exist in the store.
var ErrNotFound = errors.New("store: record not found")

// Change-notification topics published on the store's event bus. Subscribers
// treat them as an opaque "data changed, refetch" signal.
const (
	TopicProductsChanged = "store.products.changed"
	TopicOrdersChanged   = "store.orders.changed"
)

// Catalog is the product store boundary. Stock writes go through UpdateStock
// only; every mutation path recomputes the derived InStock flag.
type Catalog interface {
	// Products returns all catalog products.
	Products(ctx context.Context) ([]domain.Product, error)

	// Product returns a product by id, or ErrNotFound.
	Product(ctx context.Context, id string) (*domain.Product, error)

	// CreateProduct inserts a new product.
	CreateProduct(ctx context.Context, p *domain.Product) error

	// SaveProduct replaces an existing product, or ErrNotFound.
	SaveProduct(ctx context.Context, p *domain.Product) error

	// DeleteProduct removes a product, or ErrNotFound.
	DeleteProduct(ctx context.Context, id string) error

	// UpdateStock applies a stock delta. It returns (false, nil) when the
	// delta would drive stock negative, leaving the record untouched.
	UpdateStock(ctx context.Context, id string, delta int) (bool, error)
}

// Orders is the order-log boundary.
type Orders interface {
	// Orders returns all orders, newest first.
	Orders(ctx context.Context) ([]domain.Order, error)

	// OrdersByCustomer returns orders for an exact customer name, newest first.
	OrdersByCustomer(ctx context.Context, name string) ([]domain.Order, error)

	// Order returns an order by id, or ErrNotFound.
	Order(ctx context.Context, id string) (*domain.Order, error)

	// CreateOrder appends a new order to the log.
	CreateOrder(ctx context.Context, o *domain.Order) error

	// UpdateOrderStatus sets the status field only, or ErrNotFound.
	UpdateOrderStatus(ctx context.Context, id string, status string) error

	// DeleteOrder removes an order from the log, or ErrNotFound.
	DeleteOrder(ctx context.Context, id string) error
}

// Store combines both boundaries; every backend implements it.
type Store interface {
	Catalog
	Orders
}
