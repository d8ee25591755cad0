package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/school-service/internal/repositories"
	"github.com/campuskit/school-service/internal/services"
	"github.com/campuskit/school-service/internal/validator"
)

// FilterParam maps one query parameter onto a store field. Parse converts
// the raw string when the field is not a string (dates, numbers); nil
// passes the value through.
type FilterParam struct {
	Param string
	Field string
	Op    repositories.FilterOp
	Parse func(string) (any, error)
}

// ResourceConfig fixes, per entity, which query parameters filter it,
// which fields a PATCH may touch, and the hooks around mutations.
type ResourceConfig[T any] struct {
	// Name is the singular entity name used in messages and event topics.
	Name string

	Filters         []FilterParam
	UpdatableFields []string

	// BeforeCreate runs after binding and before validation; used to
	// stamp server-owned fields such as the acting identity.
	BeforeCreate func(c *gin.Context, record *T)

	// OnChange runs after a successful mutation, with the stored record.
	OnChange func(ctx context.Context, action string, record *T)
}

// ResourceHandler serves the uniform CRUD surface for one entity. The
// entity-specific pieces live entirely in its ResourceConfig; query
// composition happens in the store, not here.
type ResourceHandler[T any] struct {
	BaseHandler
	store     repositories.Store[T]
	cfg       ResourceConfig[T]
	validator *validator.Validator
	notifier  *services.Notifier
}

func NewResourceHandler[T any](base BaseHandler, store repositories.Store[T], cfg ResourceConfig[T], v *validator.Validator, notifier *services.Notifier) *ResourceHandler[T] {
	return &ResourceHandler[T]{
		BaseHandler: base,
		store:       store,
		cfg:         cfg,
		validator:   v,
		notifier:    notifier,
	}
}

func (h *ResourceHandler[T]) List(c *gin.Context) {
	filters, err := h.buildFilters(c)
	if err != nil {
		h.Fail(c, err, "")
		return
	}

	page := h.ParsePage(c)
	records, total, err := h.store.List(c.Request.Context(), filters, page, h.ParseOrder(c))
	if err != nil {
		h.Fail(c, err, "")
		return
	}
	h.Paginated(c, h.cfg.Name+" list", records, page, total)
}

func (h *ResourceHandler[T]) Get(c *gin.Context) {
	record, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Fail(c, err, h.cfg.Name+" not found")
		return
	}
	h.OK(c, h.cfg.Name+" found", record)
}

func (h *ResourceHandler[T]) Create(c *gin.Context) {
	var record T
	if err := c.ShouldBindJSON(&record); err != nil {
		h.reject(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	// Ids are server-generated; a client-sent one is discarded.
	if rec, ok := any(&record).(repositories.Record); ok {
		rec.SetID("")
	}

	if h.cfg.BeforeCreate != nil {
		h.cfg.BeforeCreate(c, &record)
	}
	if err := h.validator.Validate(&record); err != nil {
		h.Fail(c, err, "")
		return
	}

	if err := h.store.Create(c.Request.Context(), &record); err != nil {
		h.Fail(c, err, "")
		return
	}

	h.afterChange(c, "created", &record)
	h.Created(c, h.cfg.Name+" created", record)
}

func (h *ResourceHandler[T]) Update(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.reject(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	fields := make(map[string]any, len(body))
	for _, field := range h.cfg.UpdatableFields {
		if value, ok := body[field]; ok {
			fields[field] = value
		}
	}
	if len(fields) == 0 {
		h.reject(c, http.StatusBadRequest, "no updatable fields provided")
		return
	}

	id := c.Param("id")

	// Patched values go through the same model validation as creates:
	// merge them onto the stored record and check the result before
	// anything touches the store.
	current, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err, h.cfg.Name+" not found")
		return
	}
	merged, err := mergeFields(current, fields)
	if err != nil {
		h.reject(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validator.Validate(merged); err != nil {
		h.Fail(c, err, "")
		return
	}

	record, err := h.store.Update(c.Request.Context(), id, fields)
	if err != nil {
		h.Fail(c, err, h.cfg.Name+" not found")
		return
	}

	h.afterChange(c, "updated", record)
	h.OK(c, h.cfg.Name+" updated", record)
}

func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	id := c.Param("id")

	// The change hook needs the record's fields; a miss just means the
	// delete is a no-op and nothing fires.
	var existing *T
	if h.cfg.OnChange != nil {
		existing, _ = h.store.GetByID(c.Request.Context(), id)
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.Fail(c, err, "")
		return
	}

	if existing != nil {
		h.afterChange(c, "deleted", existing)
	} else if h.notifier != nil {
		h.notifier.EntityChanged(h.cfg.Name, "deleted", id)
	}
	h.OK(c, h.cfg.Name+" deleted", nil)
}

func (h *ResourceHandler[T]) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		h.reject(c, http.StatusBadRequest, "search query parameter 'q' is required")
		return
	}

	page := h.ParsePage(c)
	records, total, err := h.store.Search(c.Request.Context(), term, page)
	if err != nil {
		h.Fail(c, err, "")
		return
	}
	h.Paginated(c, h.cfg.Name+" search results", records, page, total)
}

func (h *ResourceHandler[T]) Count(c *gin.Context) {
	filters, err := h.buildFilters(c)
	if err != nil {
		h.Fail(c, err, "")
		return
	}

	total, err := h.store.Count(c.Request.Context(), filters)
	if err != nil {
		h.Fail(c, err, "")
		return
	}
	h.OK(c, h.cfg.Name+" count", gin.H{"count": total})
}

func (h *ResourceHandler[T]) buildFilters(c *gin.Context) (repositories.FilterMap, error) {
	var filters repositories.FilterMap
	for _, fp := range h.cfg.Filters {
		raw := c.Query(fp.Param)
		if raw == "" {
			continue
		}

		value := any(raw)
		if fp.Parse != nil {
			parsed, err := fp.Parse(raw)
			if err != nil {
				return nil, validator.ValidationErrors{{
					Field:   fp.Param,
					Message: "invalid value: " + err.Error(),
					Rule:    "filter",
				}}
			}
			value = parsed
		}
		filters = filters.WhereOp(fp.Field, fp.Op, value)
	}
	return filters, nil
}

func (h *ResourceHandler[T]) afterChange(c *gin.Context, action string, record *T) {
	if h.notifier != nil {
		if rec, ok := any(record).(repositories.Record); ok {
			h.notifier.EntityChanged(h.cfg.Name, action, rec.GetID())
		}
	}
	if h.cfg.OnChange != nil {
		h.cfg.OnChange(c.Request.Context(), action, record)
	}
}

// mergeFields overlays a partial field map onto a copy of the stored
// record. A value that does not fit the record's field type is an error.
func mergeFields[T any](current *T, fields map[string]any) (*T, error) {
	raw, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil, err
	}
	for key, value := range fields {
		asMap[key] = value
	}
	mergedRaw, err := json.Marshal(asMap)
	if err != nil {
		return nil, err
	}
	var merged T
	if err := json.Unmarshal(mergedRaw, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}
