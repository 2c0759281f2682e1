package handlers

import (
	"net/http"

	"restaurant-admin-api/middleware"
	"restaurant-admin-api/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListPayments(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	rows, count, err := h.svc.Payments.List(c.Request.Context(), middleware.GetPrincipal(c), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "payments": each(rows, paymentOf)})
}

func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.svc.Payments.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": paymentOf(p)})
}

// CreatePayment records a payment; a second payment for the same order is a conflict
func (h *Handler) CreatePayment(c *gin.Context) {
	var req services.PaymentInput
	if !bind(c, &req) {
		return
	}
	p, err := h.svc.Payments.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": paymentOf(p)})
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.PaymentInput
	if !bind(c, &req) {
		return
	}
	p, err := h.svc.Payments.Update(c.Request.Context(), middleware.GetPrincipal(c), id, req, partial(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": paymentOf(p)})
}

func (h *Handler) DeletePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Payments.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListDeliveries(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	rows, count, err := h.svc.Deliveries.List(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "deliveries": each(rows, deliveryOf)})
}

func (h *Handler) GetDelivery(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	d, err := h.svc.Deliveries.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivery": deliveryOf(d)})
}

func (h *Handler) CreateDelivery(c *gin.Context) {
	var req services.DeliveryInput
	if !bind(c, &req) {
		return
	}
	d, err := h.svc.Deliveries.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"delivery": deliveryOf(d)})
}

// UpdateDelivery moves a delivery forward: assigned → picked_up → delivered
func (h *Handler) UpdateDelivery(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.DeliveryInput
	if !bind(c, &req) {
		return
	}
	d, err := h.svc.Deliveries.Update(c.Request.Context(), middleware.GetPrincipal(c), id, req, partial(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"delivery": deliveryOf(d)})
}

func (h *Handler) DeleteDelivery(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Deliveries.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListReviews(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	rows, count, err := h.svc.Reviews.List(c.Request.Context(), middleware.GetPrincipal(c), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "reviews": each(rows, reviewOf)})
}

func (h *Handler) GetReview(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	r, err := h.svc.Reviews.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": reviewOf(r)})
}

func (h *Handler) CreateReview(c *gin.Context) {
	var req services.ReviewInput
	if !bind(c, &req) {
		return
	}
	r, err := h.svc.Reviews.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": reviewOf(r)})
}

func (h *Handler) UpdateReview(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.ReviewInput
	if !bind(c, &req) {
		return
	}
	r, err := h.svc.Reviews.Update(c.Request.Context(), middleware.GetPrincipal(c), id, req, partial(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": reviewOf(r)})
}

func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Reviews.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
