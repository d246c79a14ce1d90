package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/jazzyjizz/candycommerce/internal/domain"
	"github.com/jazzyjizz/candycommerce/internal/shop"
	"github.com/jazzyjizz/candycommerce/internal/store"
)

type orderStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// listCustomerOrders is the storefront order lookup: exact customer name.
func (s *Server) listCustomerOrders(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("customer"))
	if name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "customer query parameter is required", nil)
	}
	rows, err := s.orders.OrdersByCustomer(c.Request().Context(), name)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to query orders", err.Error())
	}
	return ok(c, rows)
}

// adminListOrders lists all orders with optional customer/status filters.
func (s *Server) adminListOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)
	customer := strings.TrimSpace(c.QueryParam("customer"))
	status := strings.TrimSpace(c.QueryParam("status"))

	var rows []domain.Order
	var err error
	if customer != "" {
		rows, err = s.orders.OrdersByCustomer(c.Request().Context(), customer)
	} else {
		rows, err = s.orders.Orders(c.Request().Context())
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to query orders", err.Error())
	}

	if status != "" {
		filtered := rows[:0]
		for _, o := range rows {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		rows = filtered
	}

	total := int64(len(rows))
	return paged(c, pageSlice(rows, page, pageSize), total, page, pageSize)
}

func (s *Server) getOrder(c echo.Context) error {
	o, err := s.orders.Order(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to query order", err.Error())
	}
	return ok(c, o)
}

func (s *Server) updateOrderStatus(c echo.Context) error {
	var payload orderStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", err.Error())
	}

	err := s.svc.UpdateOrderStatus(c.Request().Context(), c.Param("id"), payload.Status)
	if err != nil {
		if re, isReject := shop.AsReject(err); isReject {
			return fail(c, http.StatusBadRequest, "INVALID_STATUS", re.Message, nil)
		}
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to update order", err.Error())
	}
	return ok(c, map[string]interface{}{"id": c.Param("id"), "status": payload.Status})
}

func (s *Server) deleteOrder(c echo.Context) error {
	id := c.Param("id")
	err := s.svc.DeleteOrder(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to delete order", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
