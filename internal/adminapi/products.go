package adminapi

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/jazzyjizz/candycommerce/internal/domain"
	"github.com/jazzyjizz/candycommerce/internal/store"
)

type productPayload struct {
	Name        string            `json:"name" validate:"required,min=1,max=200"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Image       string            `json:"image"`
	Category    string            `json:"category"`
	Stock       *int              `json:"stock"`
	Currencies  []domain.Currency `json:"currencies"`
	// in_stock is deliberately absent: it is derived from stock and never
	// accepted from a caller.
}

func (p *productPayload) validate() (string, bool) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return "Name is required", false
	}
	if p.Price < 0 {
		return "Price must not be negative", false
	}
	if p.Stock == nil || *p.Stock < 0 {
		return "Stock is required and must be >= 0", false
	}
	for _, cur := range p.Currencies {
		if strings.TrimSpace(cur.Type) == "" {
			return "Currency type must not be empty", false
		}
	}
	return "", true
}

// listProducts serves the storefront catalog through the read-through cache.
func (s *Server) listProducts(c echo.Context) error {
	rows, err := s.cache.Products(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, rows)
}

func (s *Server) getProduct(c echo.Context) error {
	p, err := s.catalog.Product(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

// adminListProducts lists the catalog with search, sort and pagination.
func (s *Server) adminListProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	q := strings.TrimSpace(c.QueryParam("q"))

	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	// whitelist allowed sort fields
	switch sortField {
	case "name", "price", "stock", "created_at":
	default:
		sortField = "created_at"
	}

	rows, err := s.catalog.Products(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to query products", err.Error())
	}

	if q != "" {
		filtered := rows[:0]
		for _, p := range rows {
			if strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
				filtered = append(filtered, p)
			}
		}
		rows = filtered
	}

	sortProducts(rows, sortField, order == "ASC")

	total := int64(len(rows))
	return paged(c, pageSlice(rows, page, pageSize), total, page, pageSize)
}

func sortProducts(rows []domain.Product, field string, asc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		var less bool
		switch field {
		case "name":
			less = rows[i].Name < rows[j].Name
		case "price":
			less = rows[i].Price < rows[j].Price
		case "stock":
			less = rows[i].Stock < rows[j].Stock
		default:
			less = rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less
	})
}

func (s *Server) createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if msg, valid := payload.validate(); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	now := time.Now()
	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        payload.Name,
		Description: strings.TrimSpace(payload.Description),
		Price:       payload.Price,
		Image:       strings.TrimSpace(payload.Image),
		Category:    strings.TrimSpace(payload.Category),
		Currencies:  payload.Currencies,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.ApplyStock(*payload.Stock)

	if err := s.catalog.CreateProduct(c.Request().Context(), &p); err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to create product", err.Error())
	}
	return ok(c, p)
}

func (s *Server) updateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := s.catalog.Product(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if msg, valid := payload.validate(); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	p.Name = payload.Name
	p.Description = strings.TrimSpace(payload.Description)
	p.Price = payload.Price
	p.Image = strings.TrimSpace(payload.Image)
	p.Category = strings.TrimSpace(payload.Category)
	p.Currencies = payload.Currencies
	p.ApplyStock(*payload.Stock)
	p.UpdatedAt = time.Now()

	if err := s.catalog.SaveProduct(ctx, p); err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, p)
}

func (s *Server) deleteProduct(c echo.Context) error {
	id := c.Param("id")
	err := s.catalog.DeleteProduct(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
