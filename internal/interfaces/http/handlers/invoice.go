// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/pdf"
)

// InvoiceHandler handles invoice-related endpoints
type InvoiceHandler struct {
	orderService *order.Service
	userService  *user.Service
	pdfService   *pdf.Service
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orderService *order.Service, userService *user.Service, pdfService *pdf.Service) *InvoiceHandler {
	return &InvoiceHandler{
		orderService: orderService,
		userService:  userService,
		pdfService:   pdfService,
	}
}

// GenerateInvoice handles GET /orders/:id/invoice
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	o, customer, ok := h.resolve(c)
	if !ok {
		return
	}

	pdfBytes, err := h.pdfService.GenerateInvoice(o, customer)
	if err != nil {
		_ = c.Error(apperror.Internal("failed to generate invoice", err))
		return
	}

	filename := fmt.Sprintf("%s.pdf", pdf.InvoiceNumber(o))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GetInvoiceData handles GET /orders/:id/invoice/data
func (h *InvoiceHandler) GetInvoiceData(c *gin.Context) {
	o, customer, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.pdfService.BuildInvoice(o, customer))
}

// resolve loads an order visible to the caller together with its owner
func (h *InvoiceHandler) resolve(c *gin.Context) (*order.Order, *user.User, bool) {
	viewer, ok := currentUser(c)
	if !ok {
		return nil, nil, false
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return nil, nil, false
	}

	o, err := h.orderService.GetOrder(c.Request.Context(), viewer, orderID)
	if err != nil {
		_ = c.Error(err)
		return nil, nil, false
	}

	customer := viewer
	if o.UserID != viewer.ID {
		customer, err = h.userService.GetByID(c.Request.Context(), o.UserID)
		if err != nil {
			_ = c.Error(err)
			return nil, nil, false
		}
	}

	return o, customer, true
}
