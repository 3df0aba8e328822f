// internal/interfaces/http/handlers/request.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
)

var registerTagNameOnce sync.Once

// ConfigureValidator makes validation errors report JSON field names
func ConfigureValidator() {
	registerTagNameOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonFieldName)
		}
	})
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = field.Name
	}
	return name
}

// bindJSON decodes and validates the request body into req. On failure it
// records a validation error and returns false.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(bindError(err))
		return false
	}
	return true
}

func bindError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			details[fieldPath(fe)] = describe(fe)
		}
		return apperror.Validation("Invalid request data", details)
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return apperror.Validation("Request body too large", nil)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperror.Validation("Invalid request data", map[string]string{typeErr.Field: "must be a " + typeErr.Type.String()})
	}

	return apperror.Validation("Invalid request body", map[string]string{"body": "must be valid JSON"})
}

// fieldPath drops the top-level struct name from the validator namespace
func fieldPath(fe validator.FieldError) string {
	namespace := fe.Namespace()
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		_ = c.Error(apperror.Validation("Invalid "+name, map[string]string{name: "must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}

// querySkip reads the ?skip pagination offset, defaulting to 0
func querySkip(c *gin.Context) (int, bool) {
	raw := c.Query("skip")
	if raw == "" {
		return 0, true
	}
	skip, err := strconv.Atoi(raw)
	if err != nil || skip < 0 {
		_ = c.Error(apperror.Validation("Invalid skip", map[string]string{"skip": "must be a non-negative integer"}))
		return 0, false
	}
	return skip, true
}

// currentUser returns the authenticated user or records Unauthorized
func currentUser(c *gin.Context) (*user.User, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(apperror.Unauthorized())
		return nil, false
	}
	return u, true
}
