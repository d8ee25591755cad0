package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/school-service/internal/auth"
	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeResolver maps fixed token strings to identities.
type fakeResolver struct {
	identities map[string]*auth.Identity
	errs       map[string]error
}

func (f *fakeResolver) Resolve(ctx context.Context, token string) (*auth.Identity, error) {
	if err, ok := f.errs[token]; ok {
		return nil, err
	}
	if identity, ok := f.identities[token]; ok {
		return identity, nil
	}
	return nil, auth.ErrInvalidToken
}

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
}

func newTestMiddleware() *AuthMiddleware {
	resolver := &fakeResolver{
		identities: map[string]*auth.Identity{
			"token-teacher": {ID: "u-1", Role: models.RoleTeacher},
			"token-student": {ID: "u-2", Role: models.RoleStudent},
			"token-super":   {ID: "u-3", Role: models.RoleSuperAdmin},
		},
		errs: map[string]error{
			"token-suspended": auth.ErrInactiveAccount,
			"token-expired":   auth.ErrExpiredToken,
		},
	}
	return NewAuthMiddleware(resolver, testLogger())
}

func newTestRouter(mw *AuthMiddleware, roles ...models.UserRole) *gin.Engine {
	router := gin.New()
	router.GET("/protected", mw.Authenticate(), mw.RequireRoles(roles...), func(c *gin.Context) {
		identity, _ := IdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": identity.ID})
	})
	return router
}

func doRequest(router *gin.Engine, header, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: tokenCookie, Value: cookie})
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthenticate(t *testing.T) {
	mw := newTestMiddleware()
	router := newTestRouter(mw)

	t.Run("no token", func(t *testing.T) {
		if got := doRequest(router, "", "").Code; got != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", got)
		}
	})

	t.Run("bearer header", func(t *testing.T) {
		if got := doRequest(router, "Bearer token-teacher", "").Code; got != http.StatusOK {
			t.Errorf("Expected 200, got %d", got)
		}
	})

	t.Run("cookie fallback", func(t *testing.T) {
		if got := doRequest(router, "", "token-teacher").Code; got != http.StatusOK {
			t.Errorf("Expected 200, got %d", got)
		}
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		// Invalid header with a valid cookie must fail: the header, once
		// present, is authoritative.
		if got := doRequest(router, "Bearer bad-token", "token-teacher").Code; got != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", got)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		if got := doRequest(router, "token-teacher", "").Code; got != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", got)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		if got := doRequest(router, "Bearer token-expired", "").Code; got != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", got)
		}
	})

	t.Run("suspended account is forbidden, not unauthorized", func(t *testing.T) {
		if got := doRequest(router, "Bearer token-suspended", "").Code; got != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", got)
		}
	})
}

func TestRequireRoles(t *testing.T) {
	mw := newTestMiddleware()

	t.Run("allowed role", func(t *testing.T) {
		router := newTestRouter(mw, models.RoleTeacher, models.RoleAdmin)
		if got := doRequest(router, "Bearer token-teacher", "").Code; got != http.StatusOK {
			t.Errorf("Expected 200, got %d", got)
		}
	})

	t.Run("disallowed role", func(t *testing.T) {
		router := newTestRouter(mw, models.RoleAdmin)
		if got := doRequest(router, "Bearer token-student", "").Code; got != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", got)
		}
	})

	t.Run("super admin passes every gate", func(t *testing.T) {
		router := newTestRouter(mw, models.RoleAdmin)
		if got := doRequest(router, "Bearer token-super", "").Code; got != http.StatusOK {
			t.Errorf("Expected 200, got %d", got)
		}
	})

	t.Run("empty list admits any authenticated identity", func(t *testing.T) {
		router := newTestRouter(mw)
		if got := doRequest(router, "Bearer token-student", "").Code; got != http.StatusOK {
			t.Errorf("Expected 200, got %d", got)
		}
	})
}

func TestOptionalAuthenticate(t *testing.T) {
	mw := newTestMiddleware()
	router := gin.New()
	router.GET("/open", mw.OptionalAuthenticate(), func(c *gin.Context) {
		if identity, ok := IdentityFromContext(c); ok {
			c.JSON(http.StatusOK, gin.H{"id": identity.ID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": nil})
	})

	t.Run("no token still passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", recorder.Code)
		}
	})

	t.Run("invalid token still passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", recorder.Code)
		}
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer token-teacher")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", recorder.Code)
		}
		if body := recorder.Body.String(); body != `{"id":"u-1"}` {
			t.Errorf("Unexpected body: %s", body)
		}
	})
}
