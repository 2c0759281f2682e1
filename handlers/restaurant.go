package handlers

import (
	"net/http"

	"restaurant-admin-api/services"

	"github.com/gin-gonic/gin"
)

// ListRestaurants returns restaurants with their reviews and average rating
func (h *Handler) ListRestaurants(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	rows, count, err := h.svc.Restaurants.List(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "restaurants": each(rows, restaurantOf)})
}

// GetRestaurant returns a single restaurant
func (h *Handler) GetRestaurant(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	r, err := h.svc.Restaurants.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurantOf(r)})
}

func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req services.RestaurantInput
	if !bind(c, &req) {
		return
	}
	r, err := h.svc.Restaurants.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"restaurant": restaurantOf(r)})
}

// UpdateRestaurant serves both PUT and PATCH
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.RestaurantInput
	if !bind(c, &req) {
		return
	}
	r, err := h.svc.Restaurants.Update(c.Request.Context(), id, req, partial(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurantOf(r)})
}

func (h *Handler) DeleteRestaurant(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Restaurants.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListMenus(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	rows, count, err := h.svc.Menus.List(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "menus": each(rows, menuOf)})
}

func (h *Handler) GetMenu(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	m, err := h.svc.Menus.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": menuOf(m)})
}

func (h *Handler) CreateMenu(c *gin.Context) {
	var req services.MenuInput
	if !bind(c, &req) {
		return
	}
	m, err := h.svc.Menus.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"menu": menuOf(m)})
}

func (h *Handler) UpdateMenu(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.MenuInput
	if !bind(c, &req) {
		return
	}
	m, err := h.svc.Menus.Update(c.Request.Context(), id, req, partial(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": menuOf(m)})
}

func (h *Handler) DeleteMenu(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Menus.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDishes supports ?name= exact filter, search and ordering by price or name
func (h *Handler) ListDishes(c *gin.Context) {
	opts, ok := listOptions(c)
	if !ok {
		return
	}
	rows, count, err := h.svc.Dishes.List(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "dishes": each(rows, dishOf)})
}

func (h *Handler) GetDish(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	d, err := h.svc.Dishes.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dish": dishOf(d)})
}

func (h *Handler) CreateDish(c *gin.Context) {
	var req services.DishInput
	if !bind(c, &req) {
		return
	}
	d, err := h.svc.Dishes.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"dish": dishOf(d)})
}

func (h *Handler) UpdateDish(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.DishInput
	if !bind(c, &req) {
		return
	}
	d, err := h.svc.Dishes.Update(c.Request.Context(), id, req, partial(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dish": dishOf(d)})
}

func (h *Handler) DeleteDish(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.Dishes.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
