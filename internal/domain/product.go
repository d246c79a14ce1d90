package domain

import "time"

// Currency is a secondary valuation attached to a product, e.g. {type: "crayon", amount: 1.5}.
// Amounts are per single unit; order totals sum and round them per type.
type Currency struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// Product is a catalog item. Stock is the authoritative inventory count;
// InStock is always derived from it and must never be written independently.
type Product struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Name        string     `gorm:"index" json:"name"`
	Description string     `gorm:"size:2048" json:"description"`
	Price       float64    `json:"price"` // price in pencils
	Image       string     `gorm:"size:1024" json:"image"`
	Category    string     `gorm:"size:64" json:"category,omitempty"`
	Stock       int        `json:"stock"`
	InStock     bool       `json:"in_stock"`
	Currencies  []Currency `gorm:"serializer:json" json:"currencies,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// ApplyStock sets the stock count and recomputes the derived InStock flag.
func (p *Product) ApplyStock(stock int) {
	p.Stock = stock
	p.InStock = stock > 0
}
