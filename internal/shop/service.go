// Package shop implements the order placement and inventory consistency
// service: validation against the daily order limit and per-item stock,
// order creation with server-side total finalization, and the stock
// decrement/restore lifecycle.
package shop

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jazzyjizz/candycommerce/internal/domain"
	"github.com/jazzyjizz/candycommerce/internal/store"
	"github.com/jazzyjizz/candycommerce/pkg/common"
)

// DefaultDailyOrderLimit is the per-customer cap of successful placements
// per local calendar day.
const DefaultDailyOrderLimit = 2

// CartLine is one submitted cart entry: a product reference and a quantity.
type CartLine struct {
	ProductID string
	Quantity  int
}

// PlaceOrderRequest is the checkout input. DeclaredTotal is what the client
// computed; the service recomputes and rounds the total itself and only logs
// a mismatch.
type PlaceOrderRequest struct {
	Customer      domain.Customer
	Lines         []CartLine
	DeclaredTotal float64
}

// Service owns the write path to stock and to the order log. No other
// component may decrement stock or create orders.
type Service struct {
	catalog  store.Catalog
	orders   store.Orders
	counters *customerCounters
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock (tests drive day rollover with it).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDailyLimit overrides the per-customer daily order cap.
func WithDailyLimit(limit int) Option {
	return func(s *Service) { s.counters.limit = limit }
}

// NewService creates the placement service. Call Rebuild afterwards to prime
// the daily counters from the order log.
func NewService(catalog store.Catalog, orders store.Orders, opts ...Option) *Service {
	s := &Service{
		catalog:  catalog,
		orders:   orders,
		counters: newCustomerCounters(DefaultDailyOrderLimit),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rebuild reconstructs the daily counters from today's orders in the log.
// Run at startup and again at midnight so the cached counters can never
// drift from the authoritative order log.
func (s *Service) Rebuild(ctx context.Context) error {
	all, err := s.orders.Orders(ctx)
	if err != nil {
		return errors.Wrap(err, "rebuild counters")
	}
	today := s.now().Format(dayFormat)
	counters := make(map[string]dayCount)
	for _, o := range all {
		if o.CreatedAt.Format(dayFormat) != today {
			continue
		}
		c := counters[o.Customer.Name]
		counters[o.Customer.Name] = dayCount{count: c.count + 1, day: today}
	}
	s.counters.replace(counters)
	zap.L().Debug("customer order counters rebuilt",
		zap.Int("customers", len(counters)))
	return nil
}

// PurgeStaleCounters drops counter entries older than the current day.
func (s *Service) PurgeStaleCounters() int {
	return s.counters.purgeStale(s.now())
}

// DailyLimitReached reports whether the customer would be rejected right now.
func (s *Service) DailyLimitReached(name string) bool {
	return s.counters.limitReached(strings.TrimSpace(name), s.now())
}

// PlaceOrder validates the request and, on success, creates a pending order
// and decrements stock for every line. The first failing precondition aborts
// with no side effects.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	customer := req.Customer
	customer.Name = strings.TrimSpace(customer.Name)
	if customer.Name == "" {
		return nil, rejectf(ReasonInvalidRequest, "customer name is required")
	}
	if len(req.Lines) == 0 {
		return nil, rejectf(ReasonInvalidRequest, "cart is empty")
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, rejectf(ReasonInvalidRequest, "quantity must be positive for product %s", line.ProductID)
		}
	}

	// A cart may list the same product on several lines. Merge them so the
	// sufficiency check sees the combined quantity; checking lines one by
	// one against the same stock snapshot would let a split cart pass
	// validation and then fail halfway through the decrements.
	lines := make([]CartLine, 0, len(req.Lines))
	lineIdx := make(map[string]int, len(req.Lines))
	for _, line := range req.Lines {
		if i, ok := lineIdx[line.ProductID]; ok {
			lines[i].Quantity += line.Quantity
			continue
		}
		lineIdx[line.ProductID] = len(lines)
		lines = append(lines, line)
	}

	now := s.now()

	// Precondition 1: daily limit.
	if s.counters.limitReached(customer.Name, now) {
		return nil, rejectf(ReasonDailyLimit,
			"customer %q has reached the limit of %d orders per day", customer.Name, s.counters.limit)
	}

	// Precondition 2: stock sufficiency for every line, against the
	// authoritative store rather than any cached mirror. First failing
	// line aborts the whole order.
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		p, err := s.catalog.Product(ctx, line.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, rejectf(ReasonInsufficientStock, "product %s is not available", line.ProductID)
		}
		if err != nil {
			return nil, errors.Wrap(err, "load product")
		}
		if !p.InStock || p.Stock < line.Quantity {
			return nil, rejectf(ReasonInsufficientStock, "not enough %s in stock", p.Name)
		}
		items = append(items, domain.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
			Currencies:  p.Currencies,
		})
	}

	total := finalizeTotal(items)
	if req.DeclaredTotal != 0 && float64(total) != req.DeclaredTotal {
		zap.L().Debug("declared total disagrees with finalized total",
			zap.Float64("declared", req.DeclaredTotal),
			zap.Int64("finalized", total))
	}

	order := &domain.Order{
		ID:             uuid.NewString(),
		OrderNo:        common.UUIDint64(),
		Customer:       customer,
		Items:          items,
		Status:         domain.OrderStatusPending,
		Total:          total,
		CurrencyTotals: finalizeCurrencies(items),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	// The sufficiency check above is the guard; a failed decrement here is
	// a data-integrity condition, logged loudly and surfaced, never
	// silently corrected.
	for _, it := range order.Items {
		applied, err := s.catalog.UpdateStock(ctx, it.ProductID, -it.Quantity)
		if err != nil {
			zap.L().Error("stock decrement failed after order create",
				zap.String("order_id", order.ID),
				zap.String("product_id", it.ProductID),
				zap.Error(err))
			return nil, errors.Wrap(err, "decrement stock")
		}
		if !applied {
			zap.L().Error("data integrity: stock decrement refused after sufficiency check",
				zap.String("order_id", order.ID),
				zap.String("product_id", it.ProductID),
				zap.Int("quantity", it.Quantity))
			return nil, errors.Errorf("stock decrement refused for product %s", it.ProductID)
		}
	}

	s.counters.record(customer.Name, now)

	zap.L().Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int64("order_no", order.OrderNo),
		zap.String("customer", customer.Name),
		zap.Int64("total", order.Total),
		zap.Int("items", len(order.Items)))
	return order, nil
}

// UpdateOrderStatus sets the order status. Any status may move to any other
// status within the closed set; there is no transition table.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	if !domain.ValidOrderStatus(status) {
		return rejectf(ReasonInvalidRequest, "unknown order status %q", status)
	}
	if err := s.orders.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}
	zap.L().Info("order status updated",
		zap.String("order_id", id),
		zap.String("status", status))
	return nil
}

// DeleteOrder removes an order from the log and restores every affected
// product's stock, the exact inverse of the decrement in PlaceOrder.
// Deleting an already-deleted order returns store.ErrNotFound and restores
// nothing.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.orders.Order(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orders.DeleteOrder(ctx, id); err != nil {
		return err
	}
	for _, it := range order.Items {
		if _, err := s.catalog.UpdateStock(ctx, it.ProductID, it.Quantity); err != nil {
			// Product may have been removed from the catalog since the
			// order was placed; there is nothing left to restock.
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			zap.L().Error("stock restore failed after order delete",
				zap.String("order_id", id),
				zap.String("product_id", it.ProductID),
				zap.Error(err))
			return errors.Wrap(err, "restore stock")
		}
	}
	zap.L().Info("order deleted",
		zap.String("order_id", id),
		zap.String("customer", order.Customer.Name))
	return nil
}
