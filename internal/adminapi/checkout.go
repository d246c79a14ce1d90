package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jazzyjizz/candycommerce/internal/domain"
	"github.com/jazzyjizz/candycommerce/internal/shop"
)

type checkoutItemPayload struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type checkoutPayload struct {
	Customer domain.Customer       `json:"customer"`
	Items    []checkoutItemPayload `json:"items" validate:"required,min=1"`
	// Total is the client-side subtotal; the service recomputes and rounds
	// the authoritative total itself.
	Total float64 `json:"total"`
}

// checkout places an order. The outcome is one of: success with the created
// order, daily-limit rejection, insufficient-stock rejection, invalid
// request, or an unspecified store failure.
func (s *Server) checkout(c echo.Context) error {
	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout request", err.Error())
	}

	req := shop.PlaceOrderRequest{
		Customer:      payload.Customer,
		DeclaredTotal: payload.Total,
	}
	for _, it := range payload.Items {
		req.Lines = append(req.Lines, shop.CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := s.svc.PlaceOrder(c.Request().Context(), req)
	if err != nil {
		if re, isReject := shop.AsReject(err); isReject {
			switch re.Reason {
			case shop.ReasonDailyLimit:
				return fail(c, http.StatusConflict, "DAILY_LIMIT_REACHED", re.Message, nil)
			case shop.ReasonInsufficientStock:
				return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", re.Message, nil)
			default:
				return fail(c, http.StatusBadRequest, "INVALID_REQUEST", re.Message, nil)
			}
		}
		return fail(c, http.StatusInternalServerError, "ORDER_FAILED", "Failed to place order", err.Error())
	}
	return ok(c, order)
}
