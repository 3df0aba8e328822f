// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/auth"
)

// currentUserKey is the gin context key holding the authenticated *user.User
const currentUserKey = "current_user"

// Authenticator resolves a bearer token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

// AuthMiddleware resolves the Authorization header to a user and stores it in
// the context. Any failure aborts with the single Unauthorized error.
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))

		u, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(currentUserKey, u)
		c.Next()
	}
}

// AdminMiddleware requires the authenticated user to hold the ADMIN role.
// Non-admins get the same Unauthorized error as unauthenticated callers.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok || !u.IsAdmin() {
			_ = c.Error(apperror.Unauthorized())
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware
func CurrentUser(c *gin.Context) (*user.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	u, ok := value.(*user.User)
	return u, ok && u != nil
}

// SetCurrentUser stores u as the authenticated user
func SetCurrentUser(c *gin.Context, u *user.User) {
	c.Set(currentUserKey, u)
}
