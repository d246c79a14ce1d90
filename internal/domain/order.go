package domain

import "time"

// Order statuses. No transition graph is enforced: an admin may move an order
// from any status to any other, including re-opening a delivered one.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses is the closed set of valid order statuses.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s belongs to the closed status set.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Customer is the free-text identity attached to an order. Name is the
// rate-limiting key: two people sharing a name are one customer here.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// OrderItem is a snapshot of a cart line at placement time. UnitPrice and
// Currencies are copied from the product so later catalog edits do not
// rewrite order history.
type OrderItem struct {
	ProductID   string     `json:"product_id"`
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
	Currencies  []Currency `json:"currencies,omitempty"`
}

// Order is a placed order. Total is the finalized primary-currency amount,
// rounded up to whole pencils; CurrencyTotals carry the alternate-currency
// amounts, each rounded up independently.
type Order struct {
	ID             string      `gorm:"primaryKey;size:36" json:"id"`
	OrderNo        int64       `gorm:"index" json:"order_no,string"`
	Customer       Customer    `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Items          []OrderItem `gorm:"serializer:json" json:"items"`
	Status         string      `gorm:"size:32;index" json:"status"`
	Total          int64       `json:"total"`
	CurrencyTotals []Currency  `gorm:"serializer:json" json:"currency_totals,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}
