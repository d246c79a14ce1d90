package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzyjizz/candycommerce/internal/domain"
	"github.com/jazzyjizz/candycommerce/internal/store"
)

func newProduct(name string, stock int) *domain.Product {
	return &domain.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     1.99,
		Stock:     stock,
		CreatedAt: time.Now(),
	}
}

func TestUpdateStockRefusesNegative(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	p := newProduct("Fruity Blast Chews", 3)
	require.NoError(t, s.CreateProduct(ctx, p))

	applied, err := s.UpdateStock(ctx, p.ID, -4)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := s.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock, "refused delta must leave stock untouched")

	applied, err = s.UpdateStock(ctx, p.ID, -3)
	require.NoError(t, err)
	assert.True(t, applied)
	got, err = s.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.False(t, got.InStock)
}

func TestUpdateStockUnknownProduct(t *testing.T) {
	s := NewStore(nil)
	_, err := s.UpdateStock(context.Background(), "missing", -1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateProductDerivesInStock(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	p := newProduct("Sugar Sprinkle Delight", 5)
	p.InStock = false // caller-supplied flag must be ignored
	require.NoError(t, s.CreateProduct(ctx, p))
	got, err := s.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.InStock)

	empty := newProduct("Ghost Candy", 0)
	empty.InStock = true
	require.NoError(t, s.CreateProduct(ctx, empty))
	got, err = s.Product(ctx, empty.ID)
	require.NoError(t, err)
	assert.False(t, got.InStock)
}

func TestOrderLifecycle(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	o := &domain.Order{
		ID:        uuid.NewString(),
		Customer:  domain.Customer{Name: "Ana"},
		Status:    domain.OrderStatusPending,
		Total:     7,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	byCustomer, err := s.OrdersByCustomer(ctx, "Ana")
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)

	byOther, err := s.OrdersByCustomer(ctx, "ana")
	require.NoError(t, err)
	assert.Empty(t, byOther, "customer match is exact and case sensitive")

	require.NoError(t, s.UpdateOrderStatus(ctx, o.ID, domain.OrderStatusShipped))
	got, err := s.Order(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, got.Status)

	require.NoError(t, s.DeleteOrder(ctx, o.ID))
	_, err = s.Order(ctx, o.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteOrder(ctx, o.ID), store.ErrNotFound)
}

func TestOrdersNewestFirst(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	base := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateOrder(ctx, &domain.Order{
			ID:        uuid.NewString(),
			Customer:  domain.Customer{Name: "Ana"},
			Status:    domain.OrderStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	rows, err := s.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].CreatedAt.After(rows[2].CreatedAt))
}
