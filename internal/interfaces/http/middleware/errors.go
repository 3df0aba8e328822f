// internal/interfaces/http/middleware/errors.go
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ErrorHandler translates the last error recorded with c.Error into a JSON
// response. Internal failures are logged and answered with a generic message.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := translate(err)

		if status >= http.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString(RequestIDKey),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
			}).Error("Request failed")
		}

		c.AbortWithStatusJSON(status, body)
	}
}

func translate(err error) (int, ErrorResponse) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout, ErrorResponse{
			Status:  http.StatusRequestTimeout,
			Message: "Request timeout",
		}
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindInternal {
		return http.StatusInternalServerError, ErrorResponse{
			Status:  http.StatusInternalServerError,
			Message: "Internal server error",
		}
	}

	status := appErr.Kind.HTTPStatus()
	return status, ErrorResponse{
		Status:  status,
		Message: appErr.Message,
		Details: appErr.Details,
	}
}
