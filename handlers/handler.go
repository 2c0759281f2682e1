package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant-admin-api/middleware"
	"restaurant-admin-api/repository"
	"restaurant-admin-api/services"
	"restaurant-admin-api/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the REST API over the service layer.
type Handler struct {
	svc    *services.Services
	tokens middleware.Tokens
	log    *zap.Logger
}

func New(svc *services.Services, tokens middleware.Tokens, log *zap.Logger) *Handler {
	return &Handler{svc: svc, tokens: tokens, log: log}
}

// fail maps a service error onto an HTTP response.
func (h *Handler) fail(c *gin.Context, err error) {
	var fields services.FieldErrors
	switch {
	case errors.As(err, &fields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
			"hint":  "reload the resource and retry",
		})
	default:
		_ = c.Error(err)
		h.log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bind decodes the JSON body into dst and answers 400 when it does not fit.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": validation.Fields(err)})
		return false
	}
	return true
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return uint(id), true
}

// versionQuery reads the optional ?version= used by bodiless writes.
func versionQuery(c *gin.Context) (uint, bool) {
	raw := c.Query("version")
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"version": "must be a positive integer"}})
		return 0, false
	}
	return uint(v), true
}

var reservedParams = map[string]bool{"search": true, "ordering": true, "page": true, "page_size": true}

// listOptions collects filters, search, ordering and paging from the query.
func listOptions(c *gin.Context) (repository.ListOptions, bool) {
	q := c.Request.URL.Query()
	opts := repository.ListOptions{
		Filters:  map[string]string{},
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
	}
	for key, values := range q {
		if !reservedParams[key] && len(values) > 0 {
			opts.Filters[key] = values[0]
		}
	}

	fields := gin.H{}
	for key, dst := range map[string]*int{"page": &opts.Page, "page_size": &opts.PageSize} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields[key] = "must be a positive integer"
			continue
		}
		*dst = n
	}
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return opts, false
	}
	return opts, true
}

// partial reports whether the request is a PATCH.
func partial(c *gin.Context) bool {
	return c.Request.Method == http.MethodPatch
}
