package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/school-service/internal/auth"
	"github.com/campuskit/school-service/internal/repositories"
	"github.com/campuskit/school-service/internal/utils"
	"github.com/campuskit/school-service/internal/validator"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success    bool                         `json:"success"`
	Message    string                       `json:"message"`
	Data       any                          `json:"data,omitempty"`
	Pagination *repositories.PageDescriptor `json:"pagination,omitempty"`
}

// BaseHandler carries the cross-cutting pieces every handler needs and
// owns the single error-to-status translation.
type BaseHandler struct {
	logger     utils.Logger
	production bool

	defaultPageSize int
	maxPageSize     int
}

func NewBaseHandler(logger utils.Logger, production bool, defaultPageSize, maxPageSize int) BaseHandler {
	return BaseHandler{
		logger:          logger,
		production:      production,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (h BaseHandler) OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func (h BaseHandler) Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func (h BaseHandler) Paginated(c *gin.Context, message string, data any, page repositories.Page, total int64) {
	descriptor := repositories.NewPageDescriptor(page, total)
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data, Pagination: &descriptor})
}

// Fail translates a typed error into the envelope. notFoundMessage lets a
// caller say "class not found" instead of the generic text; pass "" to
// keep the default.
func (h BaseHandler) Fail(c *gin.Context, err error, notFoundMessage string) {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrors):
		h.reject(c, http.StatusBadRequest, validationErrors.Error())

	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrRoleMismatch),
		errors.Is(err, auth.ErrIdentityNotProvisioned):
		h.reject(c, http.StatusUnauthorized, clientMessage(err))

	case errors.Is(err, auth.ErrInactiveAccount):
		h.reject(c, http.StatusForbidden, auth.ErrInactiveAccount.Error())

	case errors.Is(err, repositories.ErrNotFound):
		message := notFoundMessage
		if message == "" {
			message = "record not found"
		}
		h.reject(c, http.StatusNotFound, message)

	case errors.Is(err, repositories.ErrConstraintViolation):
		h.reject(c, http.StatusBadRequest, clientMessage(err))

	case errors.Is(err, repositories.ErrStorageUnavailable):
		h.logger.Error("storage unavailable",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
			"error", err,
		)
		message := "storage unavailable"
		if !h.production {
			message = err.Error()
		}
		h.reject(c, http.StatusInternalServerError, message)

	default:
		h.logger.Error("unhandled error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
			"error", err,
		)
		message := "internal server error"
		if !h.production {
			message = err.Error()
		}
		h.reject(c, http.StatusInternalServerError, message)
	}
}

func (h BaseHandler) reject(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// clientMessage strips nothing today; constraint and auth errors already
// carry hints rather than backend text. Kept as the one seam where
// production redaction would go.
func clientMessage(err error) string {
	return err.Error()
}

// ParsePage reads page/limit query parameters and clamps them.
func (h BaseHandler) ParsePage(c *gin.Context) repositories.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	return repositories.Page{Page: page, Limit: limit}.Clamp(h.defaultPageSize, h.maxPageSize)
}

// ParseOrder reads sort/order query parameters. Unknown sort keys fall
// back to the store default.
func (h BaseHandler) ParseOrder(c *gin.Context) repositories.Order {
	return repositories.Order{
		By:   c.Query("sort"),
		Desc: c.DefaultQuery("order", "desc") != "asc",
	}
}
