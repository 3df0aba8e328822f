package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/user"
	apihttp "github.com/your-org/storefront-api/internal/interfaces/http"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-api/internal/pkg/testdb"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticCheck struct{ err error }

func (s staticCheck) Health(context.Context) error { return s.err }

type apiClient struct {
	t       *testing.T
	handler http.Handler
	db      *gorm.DB
}

func newAPI(t *testing.T, checks map[string]apihttp.HealthChecker) *apiClient {
	t.Helper()

	db := testdb.Open(t)
	logger, _ := test.NewNullLogger()
	cfg := &config.Config{
		App:    config.AppConfig{Name: "Storefront API", Environment: "test"},
		Server: config.ServerConfig{Port: "0", RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		JWT: config.JWTConfig{
			Secret:            "test-secret-that-is-long-enough-for-hs256",
			AccessTokenExpiry: time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost:         4,
			CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			CORSAllowedHeaders: []string{"Authorization", "Content-Type"},
		},
		Store: config.StoreConfig{Name: "Corner Shop", Currency: "USD"},
	}

	server := apihttp.NewServer(cfg, logger, apihttp.Dependencies{DB: db, Checks: checks})
	return &apiClient{t: t, handler: server.Handler(), db: db}
}

func (a *apiClient) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *apiClient) expect(w *httptest.ResponseRecorder, status int, out interface{}) {
	a.t.Helper()

	if w.Code != status {
		a.t.Fatalf("expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			a.t.Fatalf("failed to decode %s: %v", w.Body.String(), err)
		}
	}
}

// register signs a user up, optionally promotes them, and returns a token
func (a *apiClient) register(name string, role user.Role) (uint, string) {
	a.t.Helper()

	email := name + "@example.com"
	var created user.User
	a.expect(a.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": name, "email": email, "password": "secret1"}), http.StatusCreated, &created)

	if role == user.RoleAdmin {
		if err := a.db.Model(&user.User{}).Where("id = ?", created.ID).Update("role", user.RoleAdmin).Error; err != nil {
			a.t.Fatalf("failed to promote %s: %v", name, err)
		}
	}

	var login user.AuthResponse
	a.expect(a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "secret1"}), http.StatusOK, &login)
	return created.ID, login.Token
}

func TestCheckoutFlow(t *testing.T) {
	api := newAPI(t, nil)
	_, adminToken := api.register("admin", user.RoleAdmin)
	_, shopperToken := api.register("shopper", user.RoleUser)

	newProduct := gin.H{"name": "Teapot", "description": "Blue teapot", "price": 19.99, "tags": []string{"kitchen"}}
	api.expect(api.do(http.MethodPost, "/api/products", shopperToken, newProduct), http.StatusUnauthorized, nil)

	var teapot struct {
		ID    uint            `json:"id"`
		Price decimal.Decimal `json:"price"`
	}
	api.expect(api.do(http.MethodPost, "/api/products", adminToken, newProduct), http.StatusCreated, &teapot)

	addToCart := gin.H{"productId": teapot.ID, "quantity": 1}
	api.expect(api.do(http.MethodPost, "/api/cart", shopperToken, addToCart), http.StatusCreated, nil)
	var line struct {
		Quantity int `json:"quantity"`
	}
	api.expect(api.do(http.MethodPost, "/api/cart", shopperToken, addToCart), http.StatusOK, &line)
	if line.Quantity != 2 {
		t.Fatalf("expected quantity 2 after second add, got %d", line.Quantity)
	}

	api.expect(api.do(http.MethodPost, "/api/orders", shopperToken, nil), http.StatusBadRequest, nil)

	var address user.Address
	api.expect(api.do(http.MethodPost, "/api/users/address", shopperToken, gin.H{
		"lineOne": "1 Main St", "city": "Pune", "country": "IN", "pincode": "41100",
	}), http.StatusCreated, &address)
	api.expect(api.do(http.MethodPut, "/api/users", shopperToken, gin.H{"defaultShippingAddress": address.ID}), http.StatusOK, nil)

	var placed order.Order
	api.expect(api.do(http.MethodPost, "/api/orders", shopperToken, nil), http.StatusCreated, &placed)
	if !placed.NetAmount.Equal(decimal.RequireFromString("39.98")) {
		t.Fatalf("expected net amount 39.98, got %s", placed.NetAmount)
	}
	if placed.Status != order.StatusPending || placed.Address != "1 Main St, Pune, IN-41100" || len(placed.Events) != 1 {
		t.Fatalf("unexpected order %+v", placed)
	}

	var cartAfter []json.RawMessage
	api.expect(api.do(http.MethodGet, "/api/cart", shopperToken, nil), http.StatusOK, &cartAfter)
	if len(cartAfter) != 0 {
		t.Fatalf("expected empty cart after checkout, got %d lines", len(cartAfter))
	}

	var emptyCart middleware.ErrorResponse
	api.expect(api.do(http.MethodPost, "/api/orders", shopperToken, nil), http.StatusNotFound, &emptyCart)
	if emptyCart.Message != "Cart is empty" {
		t.Fatalf("unexpected empty-cart message %q", emptyCart.Message)
	}

	orderPath := fmt.Sprintf("/api/orders/%d", placed.ID)
	api.expect(api.do(http.MethodGet, "/api/orders/index", shopperToken, nil), http.StatusUnauthorized, nil)

	var index []order.Order
	api.expect(api.do(http.MethodGet, "/api/orders/index?status=pending", adminToken, nil), http.StatusOK, &index)
	if len(index) != 1 || index[0].ID != placed.ID {
		t.Fatalf("unexpected admin index %+v", index)
	}

	api.expect(api.do(http.MethodPut, orderPath+"/status", adminToken, gin.H{"status": "ACCEPTED"}), http.StatusOK, nil)

	var canceled order.Order
	api.expect(api.do(http.MethodPut, orderPath+"/cancel", shopperToken, nil), http.StatusOK, &canceled)
	if canceled.Status != order.StatusCanceled {
		t.Fatalf("expected CANCELED, got %s", canceled.Status)
	}
	api.expect(api.do(http.MethodPut, orderPath+"/cancel", shopperToken, nil), http.StatusConflict, nil)

	var detail order.Order
	api.expect(api.do(http.MethodGet, orderPath, shopperToken, nil), http.StatusOK, &detail)
	if len(detail.Events) != 3 || len(detail.Products) != 1 {
		t.Fatalf("expected 3 events and 1 line, got %d and %d", len(detail.Events), len(detail.Products))
	}

	var invoice struct {
		InvoiceNumber string `json:"invoiceNumber"`
		Total         string `json:"total"`
	}
	api.expect(api.do(http.MethodGet, orderPath+"/invoice/data", adminToken, nil), http.StatusOK, &invoice)
	if invoice.Total != "39.98" || invoice.InvoiceNumber == "" {
		t.Fatalf("unexpected invoice data %+v", invoice)
	}
}

func TestOrdersAreHiddenFromOtherUsers(t *testing.T) {
	api := newAPI(t, nil)
	ownerID, _ := api.register("owner", user.RoleUser)
	_, strangerToken := api.register("stranger", user.RoleUser)

	teapot := testdb.CreateProduct(t, api.db, "teapot", "5.00")
	testdb.CreateAddress(t, api.db, ownerID, true)
	created := order.Order{UserID: ownerID, NetAmount: teapot.Price, Address: "somewhere", Status: order.StatusPending}
	if err := api.db.Create(&created).Error; err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	path := fmt.Sprintf("/api/orders/%d", created.ID)
	api.expect(api.do(http.MethodGet, path, strangerToken, nil), http.StatusNotFound, nil)
	api.expect(api.do(http.MethodPut, path+"/cancel", strangerToken, nil), http.StatusNotFound, nil)
	api.expect(api.do(http.MethodGet, path+"/invoice/data", strangerToken, nil), http.StatusNotFound, nil)
}

func TestValidationErrorsCarryFieldDetails(t *testing.T) {
	api := newAPI(t, nil)

	var body middleware.ErrorResponse
	api.expect(api.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": "not-an-email", "password": "123"}), http.StatusBadRequest, &body)

	for field, want := range map[string]string{
		"name":     "is required",
		"email":    "must be a valid email address",
		"password": "must be at least 6 characters",
	} {
		if body.Details[field] != want {
			t.Fatalf("details[%s] = %q, want %q (all: %v)", field, body.Details[field], want, body.Details)
		}
	}

	_, token := api.register("cy", user.RoleUser)
	api.expect(api.do(http.MethodDelete, "/api/cart/abc", token, nil), http.StatusBadRequest, nil)
	api.expect(api.do(http.MethodGet, "/api/products?skip=-1", token, nil), http.StatusBadRequest, nil)
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	api := newAPI(t, nil)

	for _, path := range []string{"/api/auth/me", "/api/cart", "/api/orders", "/api/products", "/api/users"} {
		var body middleware.ErrorResponse
		api.expect(api.do(http.MethodGet, path, "", nil), http.StatusUnauthorized, &body)
		if body.Message != "Unauthorized!" {
			t.Fatalf("%s: unexpected message %q", path, body.Message)
		}
	}

	api.expect(api.do(http.MethodGet, "/api/unknown", "", nil), http.StatusNotFound, nil)
}

func TestHealthReportsDependencies(t *testing.T) {
	healthy := newAPI(t, map[string]apihttp.HealthChecker{"database": staticCheck{}})
	healthy.expect(healthy.do(http.MethodGet, "/health", "", nil), http.StatusOK, nil)
	healthy.expect(healthy.do(http.MethodGet, "/ready", "", nil), http.StatusOK, nil)

	broken := newAPI(t, map[string]apihttp.HealthChecker{
		"database": staticCheck{},
		"redis":    staticCheck{err: errors.New("connection refused")},
	})
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	broken.expect(broken.do(http.MethodGet, "/health", "", nil), http.StatusServiceUnavailable, &body)
	if body.Status != "unhealthy" || body.Checks["redis"] != "unhealthy" || body.Checks["database"] != "healthy" {
		t.Fatalf("unexpected health body %+v", body)
	}
}
