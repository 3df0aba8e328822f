// internal/interfaces/http/handlers/user_address.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/user"
)

// UserAddressHandler handles address endpoints
type UserAddressHandler struct {
	addressService *user.AddressService
}

// NewUserAddressHandler creates a new user address handler
func NewUserAddressHandler(addressService *user.AddressService) *UserAddressHandler {
	return &UserAddressHandler{addressService: addressService}
}

// GetAddresses handles GET /users/address
func (h *UserAddressHandler) GetAddresses(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	addresses, err := h.addressService.GetUserAddresses(c.Request.Context(), u.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, addresses)
}

// CreateAddress handles POST /users/address
func (h *UserAddressHandler) CreateAddress(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var req user.CreateAddressRequest
	if !bindJSON(c, &req) {
		return
	}

	address, err := h.addressService.CreateAddress(c.Request.Context(), u.ID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, address)
}

// DeleteAddress handles DELETE /users/address/:id
func (h *UserAddressHandler) DeleteAddress(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	addressID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.addressService.DeleteAddress(c.Request.Context(), u.ID, addressID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Address deleted successfully"})
}
