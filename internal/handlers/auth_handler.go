package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/school-service/internal/models"
	"github.com/campuskit/school-service/internal/repositories"
	"github.com/campuskit/school-service/internal/services"
	"github.com/campuskit/school-service/internal/validator"
)

// AuthHandler serves login, registration and identity administration.
type AuthHandler struct {
	BaseHandler
	auth *services.AuthService
}

func NewAuthHandler(base BaseHandler, auth *services.AuthService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, auth: auth}
}

// Login exchanges credentials for a signed token. The token is also set
// as a cookie so browser clients work without an Authorization header.
func (h *AuthHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err, "")
		return
	}

	c.SetCookie("token", result.Token, int(result.ExpiresIn), "/", "", false, true)
	h.OK(c, "login successful", result)
}

// Logout clears the token cookie. Tokens themselves stay valid until
// expiry; there is no server-side revocation list.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	h.OK(c, "logged out", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req validator.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.Fail(c, err, "")
		return
	}
	h.Created(c, "account created", user)
}

// Me returns the stored profile of the authenticated caller.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := IdentityFromContext(c)
	if !ok {
		h.reject(c, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.auth.GetIdentity(c.Request.Context(), identity.ID)
	if err != nil {
		h.Fail(c, err, "account not found")
		return
	}
	h.OK(c, "current user", user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity, ok := IdentityFromContext(c)
	if !ok {
		h.reject(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req validator.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), identity.ID, req); err != nil {
		h.Fail(c, err, "account not found")
		return
	}
	h.OK(c, "password changed", nil)
}

// ListIdentities pages through accounts, optionally narrowed by role,
// status or a name/email query.
func (h *AuthHandler) ListIdentities(c *gin.Context) {
	page := h.ParsePage(c)
	filters := repositories.UserFilters{
		Query:  c.Query("query"),
		Limit:  page.Limit,
		Offset: page.Offset(),
	}
	if role := c.Query("role"); role != "" {
		if !models.ValidRole(role) {
			h.reject(c, http.StatusBadRequest, "unknown role: "+role)
			return
		}
		r := models.UserRole(role)
		filters.Role = &r
	}
	if status := c.Query("status"); status != "" {
		s := models.UserStatus(status)
		filters.Status = &s
	}

	users, total, err := h.auth.ListIdentities(c.Request.Context(), filters)
	if err != nil {
		h.Fail(c, err, "")
		return
	}
	h.Paginated(c, "identity list", users, page, total)
}

func (h *AuthHandler) GetIdentity(c *gin.Context) {
	user, err := h.auth.GetIdentity(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Fail(c, err, "account not found")
		return
	}
	h.OK(c, "identity found", user)
}

// SetStatus activates, deactivates or suspends an account. Cached
// resolutions are invalidated so the change takes effect immediately.
func (h *AuthHandler) SetStatus(c *gin.Context) {
	var req validator.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.auth.SetStatus(c.Request.Context(), c.Param("id"), models.UserStatus(req.Status)); err != nil {
		h.Fail(c, err, "account not found")
		return
	}
	h.OK(c, "status updated", nil)
}

func (h *AuthHandler) DeleteIdentity(c *gin.Context) {
	if err := h.auth.DeleteIdentity(c.Request.Context(), c.Param("id")); err != nil {
		h.Fail(c, err, "")
		return
	}
	h.OK(c, "identity deleted", nil)
}
