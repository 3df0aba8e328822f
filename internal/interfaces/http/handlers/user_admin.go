// internal/interfaces/http/handlers/user_admin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/user"
)

// UserAdminHandler handles admin user management
type UserAdminHandler struct {
	adminService *user.AdminService
}

// NewUserAdminHandler creates a new user admin handler
func NewUserAdminHandler(adminService *user.AdminService) *UserAdminHandler {
	return &UserAdminHandler{adminService: adminService}
}

// ListUsers handles GET /users
func (h *UserAdminHandler) ListUsers(c *gin.Context) {
	skip, ok := querySkip(c)
	if !ok {
		return
	}

	users, err := h.adminService.ListUsers(c.Request.Context(), skip)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /users/:id
func (h *UserAdminHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	found, err := h.adminService.GetUser(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, found)
}

// ChangeRole handles PUT /users/:id/role
func (h *UserAdminHandler) ChangeRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req user.ChangeRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.adminService.ChangeRole(c.Request.Context(), id, req.Role)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
