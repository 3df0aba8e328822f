package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(t *testing.T, logger *logrus.Logger, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()

	router := gin.New()
	router.Use(RequestID(), ErrorHandler(logger))
	router.GET("/", func(c *gin.Context) { _ = c.Error(err) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body ErrorResponse
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &body); decodeErr != nil {
		t.Fatalf("failed to decode error body %q: %v", w.Body.String(), decodeErr)
	}
	return w, body
}

func TestErrorHandlerMapsKindsToStatus(t *testing.T) {
	logger, _ := test.NewNullLogger()

	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperror.Validation("Invalid request data", nil), http.StatusBadRequest, "Invalid request data"},
		{apperror.Conflict("User already exists!"), http.StatusBadRequest, "User already exists!"},
		{apperror.NotFound("Order not found"), http.StatusNotFound, "Order not found"},
		{apperror.Unauthorized(), http.StatusUnauthorized, "Unauthorized!"},
		{apperror.InvalidTransition("DELIVERED", "CANCELED"), http.StatusConflict, ""},
		{fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusRequestTimeout, "Request timeout"},
	}

	for _, tc := range cases {
		w, body := serveError(t, logger, tc.err)
		if w.Code != tc.status || body.Status != tc.status {
			t.Fatalf("%v: expected status %d, got %d (body %d)", tc.err, tc.status, w.Code, body.Status)
		}
		if tc.message != "" && body.Message != tc.message {
			t.Fatalf("%v: expected message %q, got %q", tc.err, tc.message, body.Message)
		}
	}
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()

	w, body := serveError(t, logger, errors.New("pq: connection refused"))
	if w.Code != http.StatusInternalServerError || body.Message != "Internal server error" {
		t.Fatalf("unexpected response %d %+v", w.Code, body)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.ErrorLevel {
		t.Fatalf("expected an error log entry, got %+v", entry)
	}
	if entry.Data["request_id"] == "" || entry.Data["request_id"] == nil {
		t.Fatalf("expected request_id on the log entry, got %+v", entry.Data)
	}
}

func TestErrorHandlerKeepsValidationDetails(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, body := serveError(t, logger, apperror.Validation("Invalid request data", map[string]string{"email": "is required"}))
	if body.Details["email"] != "is required" {
		t.Fatalf("expected details to be rendered, got %+v", body.Details)
	}
}
