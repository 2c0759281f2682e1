package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"restaurant-admin-api/middleware"
	"restaurant-admin-api/services"
	"restaurant-admin-api/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ListOrders returns the orders visible to the caller: staff see all, a
// customer sees their own
func (h *Handler) ListOrders(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	rows, count, err := h.svc.Orders.List(c.Request.Context(), middleware.GetPrincipal(c), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "orders": each(rows, orderOf)})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	o, err := h.svc.Orders.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": orderOf(o)})
}

// PlaceOrder creates an order, optionally with its items; the total is
// computed before the response is written
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req services.OrderInput
	if !bind(c, &req) {
		return
	}
	o, err := h.svc.Orders.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": orderOf(o)})
}

// UpdateOrder serves PUT and PATCH. Status changes follow the state machine.
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.OrderInput
	if !bind(c, &req) {
		return
	}
	o, err := h.svc.Orders.Update(c.Request.Context(), middleware.GetPrincipal(c), id, req, partial(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": orderOf(o)})
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Orders.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetOrderTotal returns the stored total with the version it belongs to
func (h *Handler) GetOrderTotal(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	total, err := h.svc.Orders.Total(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, total)
}

type ReplaceItemsRequest struct {
	Items   []services.ItemInput `json:"items" binding:"required,dive"`
	Version uint                 `json:"version"`
}

// ReplaceOrderItems swaps the whole item set. The body is either
// {"items": [...], "version": n} or a bare array with ?version=n.
func (h *Handler) ReplaceOrderItems(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req ReplaceItemsRequest
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &req.Items); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": validation.Fields(err)})
			return
		}
		if req.Version, ok = versionQuery(c); !ok {
			return
		}
	} else if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": validation.Fields(err)})
		return
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": validation.Fields(err)})
		return
	}

	o, err := h.svc.Orders.ReplaceItems(c.Request.Context(), middleware.GetPrincipal(c), id, req.Version, req.Items)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": orderOf(o)})
}

// GetOrderHistory returns the status audit trail of an order
func (h *Handler) GetOrderHistory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	history, err := h.svc.Orders.History(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "history": history})
}

func (h *Handler) ListOrderItems(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	rows, count, err := h.svc.Orders.ListItems(c.Request.Context(), middleware.GetPrincipal(c), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "order_items": rows})
}

func (h *Handler) GetOrderItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	item, err := h.svc.Orders.GetItem(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_item": item})
}

func (h *Handler) CreateOrderItem(c *gin.Context) {
	var req services.OrderItemInput
	if !bind(c, &req) {
		return
	}
	item, err := h.svc.Orders.CreateItem(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_item": item})
}

func (h *Handler) UpdateOrderItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.OrderItemInput
	if !bind(c, &req) {
		return
	}
	item, err := h.svc.Orders.UpdateItem(c.Request.Context(), middleware.GetPrincipal(c), id, req, partial(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_item": item})
}

func (h *Handler) DeleteOrderItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	version, ok := versionQuery(c)
	if !ok {
		return
	}
	if err := h.svc.Orders.DeleteItem(c.Request.Context(), middleware.GetPrincipal(c), id, version); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
