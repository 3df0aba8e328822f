// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/cart"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddItem handles POST /cart
func (h *CartHandler) AddItem(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var req cart.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	item, created, err := h.cartService.AddItem(c.Request.Context(), u.ID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, item)
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.cartService.GetCart(c.Request.Context(), u.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// RemoveItem handles DELETE /cart/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	response, err := h.cartService.RemoveItem(c.Request.Context(), u.ID, itemID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ChangeQuantity handles PUT /cart/:id
func (h *CartHandler) ChangeQuantity(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req cart.ChangeQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.cartService.ChangeQuantity(c.Request.Context(), u.ID, itemID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, item)
}
