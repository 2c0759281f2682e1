package handlers

import (
	"net/http"

	"restaurant-admin-api/middleware"
	"restaurant-admin-api/services"

	"github.com/gin-gonic/gin"
)

// ListDrivers returns drivers, best rated first unless ?ordering= says otherwise
func (h *Handler) ListDrivers(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	rows, count, err := h.svc.Drivers.List(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "drivers": rows})
}

func (h *Handler) GetDriver(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	d, err := h.svc.Drivers.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": d})
}

func (h *Handler) CreateDriver(c *gin.Context) {
	var req services.DriverInput
	if !bind(c, &req) {
		return
	}
	d, err := h.svc.Drivers.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"driver": d})
}

func (h *Handler) UpdateDriver(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.DriverInput
	if !bind(c, &req) {
		return
	}
	d, err := h.svc.Drivers.Update(c.Request.Context(), middleware.GetPrincipal(c), id, req, partial(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": d})
}

func (h *Handler) DeleteDriver(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Drivers.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
