package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/school-service/internal/auth"
	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/utils"
)

const identityContextKey = "identity"

// tokenCookie is the fallback carrier when no Authorization header is set.
const tokenCookie = "token"

// AuthMiddleware is the per-request pipeline: extract token, resolve the
// identity through the configured resolver, attach it to the context, and
// optionally gate on roles.
type AuthMiddleware struct {
	resolver auth.Resolver
	logger   utils.Logger
}

func NewAuthMiddleware(resolver auth.Resolver, logger utils.Logger) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, logger: logger}
}

// Authenticate rejects the request unless a valid token resolves to an
// active identity.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "no token provided")
			return
		}

		identity, err := m.resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, auth.ErrInactiveAccount) {
				status = http.StatusForbidden
			}
			abort(c, status, authFailureMessage(err))
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuthenticate resolves an identity when a valid token is present
// but never rejects; public routes read the context identity if set.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := extractToken(c); ok {
			if identity, err := m.resolver.Resolve(c.Request.Context(), token); err == nil {
				setIdentity(c, identity)
			}
		}
		c.Next()
	}
}

// RequireRoles gates a route on an allow-list. An empty list admits any
// authenticated identity. super_admin passes every gate.
func (m *AuthMiddleware) RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "no token provided")
			return
		}

		if len(roles) == 0 || identity.Role == models.RoleSuperAdmin {
			c.Next()
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		m.logger.Warn("role gate rejected request",
			"path", c.Request.URL.Path,
			"role", identity.Role,
		)
		abort(c, http.StatusForbidden, "insufficient permissions")
	}
}

// setIdentity attaches the identity once; later middleware must not
// overwrite it.
func setIdentity(c *gin.Context, identity *auth.Identity) {
	if _, exists := c.Get(identityContextKey); exists {
		return
	}
	c.Set(identityContextKey, identity)
}

// IdentityFromContext returns the identity attached by the middleware.
func IdentityFromContext(c *gin.Context) (*auth.Identity, bool) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*auth.Identity)
	return identity, ok
}

// extractToken prefers the Authorization header over the cookie.
func extractToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] != "" {
			return parts[1], true
		}
		return "", false
	}

	if cookie, err := c.Cookie(tokenCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return auth.ErrExpiredToken.Error()
	case errors.Is(err, auth.ErrInactiveAccount):
		return auth.ErrInactiveAccount.Error()
	case errors.Is(err, auth.ErrIdentityNotProvisioned):
		return auth.ErrIdentityNotProvisioned.Error()
	default:
		return auth.ErrInvalidToken.Error()
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Message: message})
}
