package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
)

type tokenTable map[string]*user.User

func (t tokenTable) Authenticate(_ context.Context, token string) (*user.User, error) {
	if u, ok := t[token]; ok {
		return u, nil
	}
	return nil, apperror.Unauthorized()
}

func gatedRouter(tokens tokenTable) *gin.Engine {
	logger, _ := test.NewNullLogger()

	router := gin.New()
	router.Use(ErrorHandler(logger))

	authed := router.Group("", AuthMiddleware(tokens))
	authed.GET("/me", func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID})
	})
	authed.GET("/admin", AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAuthMiddlewareRejectsEveryFailureTheSameWay(t *testing.T) {
	router := gatedRouter(tokenTable{"good": {ID: 7, Role: user.RoleUser}})

	var bodies []string
	for _, header := range []string{"", "Bearer", "Bearer bad", "good-but-no-scheme-x"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
		bodies = append(bodies, w.Body.String())
	}

	for _, body := range bodies[1:] {
		if body != bodies[0] {
			t.Fatalf("expected identical bodies, got %q and %q", bodies[0], body)
		}
	}

	var decoded ErrorResponse
	if err := json.Unmarshal([]byte(bodies[0]), &decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if decoded.Status != http.StatusUnauthorized || decoded.Message != "Unauthorized!" {
		t.Fatalf("unexpected body %+v", decoded)
	}
}

func TestAuthMiddlewareStoresUser(t *testing.T) {
	router := gatedRouter(tokenTable{"good": {ID: 7, Role: user.RoleUser}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != `{"id":7}` {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestAdminMiddlewareRequiresAdminRole(t *testing.T) {
	router := gatedRouter(tokenTable{
		"user":  {ID: 1, Role: user.RoleUser},
		"admin": {ID: 2, Role: user.RoleAdmin},
	})

	for token, want := range map[string]int{"user": http.StatusUnauthorized, "admin": http.StatusNoContent} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != want {
			t.Fatalf("token %s: expected %d, got %d", token, want, w.Code)
		}
	}
}
