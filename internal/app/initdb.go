package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jazzyjizz/candycommerce/internal/domain"
)

// checkCatalog seeds the starter candies when the catalog is empty, so a
// fresh install has something on the shelf.
func (a *Application) checkCatalog() {
	ctx := context.Background()
	products, err := a.dataStore.Products(ctx)
	if err != nil {
		zap.L().Error("failed to query catalog for seeding", zap.Error(err))
		return
	}
	if len(products) > 0 {
		return
	}

	now := time.Now()
	seed := []domain.Product{
		{
			Name:        "Sugar Sprinkle Delight",
			Description: "Rainbow sprinkles coating a sweet marshmallow center. A classic favorite!",
			Price:       2.99,
			Image:       "/placeholder.svg",
			Category:    "Sweets",
			Stock:       20,
			Currencies:  []domain.Currency{{Type: "crayon", Amount: 1.5}},
		},
		{
			Name:        "Chocolate Dream Bars",
			Description: "Rich chocolate with caramel ribbons. Melt-in-your-mouth goodness.",
			Price:       3.49,
			Image:       "/placeholder.svg",
			Category:    "Chocolate",
			Stock:       15,
			Currencies:  []domain.Currency{{Type: "crayon", Amount: 2.0}},
		},
		{
			Name:        "Fruity Blast Chews",
			Description: "Chewy candies bursting with fruit flavors. Perfect for a tangy treat!",
			Price:       1.99,
			Image:       "/placeholder.svg",
			Category:    "Chewy",
			Stock:       30,
		},
	}

	for i := range seed {
		p := &seed[i]
		p.ID = uuid.NewString()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := a.dataStore.CreateProduct(ctx, p); err != nil {
			zap.L().Error("failed to seed product", zap.String("name", p.Name), zap.Error(err))
			continue
		}
	}
	zap.L().Info("seeded starter catalog", zap.Int("products", len(seed)))
}
