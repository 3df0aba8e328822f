// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/order"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	created, err := h.orderService.CreateOrder(c.Request.Context(), u.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), u.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	found, err := h.orderService.GetOrder(c.Request.Context(), u, orderID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, found)
}

// CancelOrder handles PUT /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	canceled, err := h.orderService.CancelOrder(c.Request.Context(), u.ID, orderID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, canceled)
}

// ListAllOrders handles GET /orders/index (admin)
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListAllOrders(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// ChangeStatus handles PUT /orders/:id/status (admin)
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req order.ChangeStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.orderService.ChangeStatus(c.Request.Context(), orderID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ListUserOrders handles GET /orders/users/:id (admin)
func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListUserOrders(c.Request.Context(), userID, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func listFilter(c *gin.Context) (order.ListFilter, bool) {
	skip, ok := querySkip(c)
	if !ok {
		return order.ListFilter{}, false
	}
	return order.ListFilter{Status: c.Query("status"), Skip: skip}, true
}
