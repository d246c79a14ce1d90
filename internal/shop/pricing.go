package shop

import (
	"github.com/shopspring/decimal"

	"github.com/jazzyjizz/candycommerce/internal/domain"
)

// finalizeTotal computes the primary-currency order total from the item
// snapshots and rounds it up to whole pencils. The caller-declared total is
// never trusted; this is the authoritative amount.
func finalizeTotal(items []domain.OrderItem) int64 {
	sum := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum = sum.Add(line)
	}
	return sum.Ceil().IntPart()
}

// finalizeCurrencies sums alternate-currency amounts per currency type across
// all items, then rounds each type up independently. Types keep their
// first-appearance order.
func finalizeCurrencies(items []domain.OrderItem) []domain.Currency {
	sums := map[string]decimal.Decimal{}
	var order []string
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		for _, cur := range it.Currencies {
			if _, ok := sums[cur.Type]; !ok {
				order = append(order, cur.Type)
			}
			sums[cur.Type] = sums[cur.Type].Add(decimal.NewFromFloat(cur.Amount).Mul(qty))
		}
	}
	if len(order) == 0 {
		return nil
	}
	out := make([]domain.Currency, 0, len(order))
	for _, typ := range order {
		amount, _ := sums[typ].Ceil().Float64()
		out = append(out, domain.Currency{Type: typ, Amount: amount})
	}
	return out
}
