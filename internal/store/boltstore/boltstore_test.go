package boltstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzyjizz/candycommerce/internal/domain"
	"github.com/jazzyjizz/candycommerce/internal/store"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candy.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestProductRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	p := &domain.Product{
		ID:          uuid.NewString(),
		Name:        "Sugar Sprinkle Delight",
		Description: "Rainbow sprinkles coating a sweet marshmallow center.",
		Price:       2.99,
		Stock:       12,
		Currencies:  []domain.Currency{{Type: "crayon", Amount: 1.5}},
		CreatedAt:   time.Now(),
	}
	require.NoError(t, s.CreateProduct(ctx, p))

	got, err := s.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, 12, got.Stock)
	assert.True(t, got.InStock)
	require.Len(t, got.Currencies, 1)
	assert.Equal(t, "crayon", got.Currencies[0].Type)
}

func TestStockSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candy.db")
	s, err := Open(path, nil)
	require.NoError(t, err)

	ctx := context.Background()
	p := &domain.Product{ID: uuid.NewString(), Name: "Chocolate Dream Bars", Stock: 10, CreatedAt: time.Now()}
	require.NoError(t, s.CreateProduct(ctx, p))

	applied, err := s.UpdateStock(ctx, p.ID, -4)
	require.NoError(t, err)
	require.True(t, applied)
	require.NoError(t, s.Close())

	s2, err := Open(path, nil)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Stock, "stock mutations must be persisted")
	assert.True(t, got.InStock)
}

func TestUpdateStockRefusesNegative(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	p := &domain.Product{ID: uuid.NewString(), Name: "Fruity Blast Chews", Stock: 2, CreatedAt: time.Now()}
	require.NoError(t, s.CreateProduct(ctx, p))

	applied, err := s.UpdateStock(ctx, p.ID, -3)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := s.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestOrderCRUD(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	o := &domain.Order{
		ID:       uuid.NewString(),
		Customer: domain.Customer{Name: "Ana"},
		Items: []domain.OrderItem{
			{ProductID: uuid.NewString(), ProductName: "Chocolate Dream Bars", Quantity: 3, UnitPrice: 3.49},
		},
		Status:    domain.OrderStatusPending,
		Total:     11,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	got, err := s.Order(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)

	require.NoError(t, s.UpdateOrderStatus(ctx, o.ID, domain.OrderStatusCancelled))
	got, err = s.Order(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)

	byCustomer, err := s.OrdersByCustomer(ctx, "Ana")
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)

	require.NoError(t, s.DeleteOrder(ctx, o.ID))
	_, err = s.Order(ctx, o.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMissingRecords(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_, err := s.Product(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Order(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, "missing", domain.OrderStatusShipped), store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteProduct(ctx, "missing"), store.ErrNotFound)
	_, err = s.UpdateStock(ctx, "missing", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
