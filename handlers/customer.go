package handlers

import (
	"net/http"

	"restaurant-admin-api/middleware"
	"restaurant-admin-api/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCustomers(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	rows, count, err := h.svc.Customers.List(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "customers": each(rows, customerOf)})
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	cust, err := h.svc.Customers.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customerOf(cust)})
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req services.CustomerInput
	if !bind(c, &req) {
		return
	}
	cust, err := h.svc.Customers.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer": customerOf(cust)})
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.CustomerInput
	if !bind(c, &req) {
		return
	}
	cust, err := h.svc.Customers.Update(c.Request.Context(), middleware.GetPrincipal(c), id, req, partial(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customerOf(cust)})
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Customers.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
