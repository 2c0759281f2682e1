package handlers

import (
	"net/http"

	"restaurant-admin-api/middleware"
	"restaurant-admin-api/models"

	"github.com/gin-gonic/gin"
)

// AdminOrderSummary returns order counts and amounts per status, staff only
func (h *Handler) AdminOrderSummary(c *gin.Context) {
	summary, err := h.svc.Orders.Summary(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AdminForceOrderStatus lets staff override any order state (emergency use)
func (h *Handler) AdminForceOrderStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Status  models.OrderStatus `json:"status" binding:"required"`
		Reason  string             `json:"reason"`
		Version uint               `json:"version"`
	}
	if !bind(c, &req) {
		return
	}

	note := ""
	if req.Reason != "" {
		note = "[STAFF OVERRIDE] " + req.Reason
	}
	order, err := h.svc.Orders.ForceStatus(c.Request.Context(), middleware.GetPrincipal(c), id, req.Version, req.Status, note)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status force-updated by staff",
		"order":   orderOf(order),
	})
}
