package services

import (
	"context"
	"strings"

	"restaurant-admin-api/models"
	"restaurant-admin-api/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// given reports whether an optional string was sent with content.
func given(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

type RestaurantInput struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	Email       *string `json:"email" binding:"omitempty,email"`
	IsActive    *bool   `json:"is_active"`
}

func (in RestaurantInput) check(partial bool) error {
	fe := FieldErrors{}
	if !partial {
		fe.require("name", given(in.Name))
		fe.require("address", given(in.Address))
		fe.require("phone", given(in.Phone))
		fe.require("email", given(in.Email))
	}
	for field, v := range map[string]*string{"name": in.Name, "address": in.Address, "phone": in.Phone, "email": in.Email} {
		if v != nil && !given(v) {
			fe.add(field, "may not be blank")
		}
	}
	return fe.err()
}

func (in RestaurantInput) apply(r *models.Restaurant) {
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		r.Description = in.Description
	}
	if in.Address != nil {
		r.Address = *in.Address
	}
	if in.Phone != nil {
		r.Phone = *in.Phone
	}
	if in.Email != nil {
		r.Email = *in.Email
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
}

type RestaurantService struct {
	base
}

func (s *RestaurantService) List(ctx context.Context, opts repository.ListOptions) ([]models.Restaurant, int64, error) {
	return s.store.Restaurants.List(ctx, opts)
}

func (s *RestaurantService) Get(ctx context.Context, id uint) (*models.Restaurant, error) {
	return s.store.Restaurants.Get(ctx, id)
}

func (s *RestaurantService) Create(ctx context.Context, in RestaurantInput) (*models.Restaurant, error) {
	if err := in.check(false); err != nil {
		return nil, err
	}
	r := &models.Restaurant{IsActive: true}
	in.apply(r)
	if err := s.store.Restaurants.Create(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info("restaurant created", zap.Uint("restaurant_id", r.ID))
	return s.store.Restaurants.Get(ctx, r.ID)
}

func (s *RestaurantService) Update(ctx context.Context, id uint, in RestaurantInput, partial bool) (*models.Restaurant, error) {
	if err := in.check(partial); err != nil {
		return nil, err
	}
	r, err := s.store.Restaurants.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(r)
	if err := s.store.Restaurants.Save(ctx, r); err != nil {
		return nil, err
	}
	return s.store.Restaurants.Get(ctx, id)
}

func (s *RestaurantService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Restaurants.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("restaurant deleted", zap.Uint("restaurant_id", id))
	return nil
}

type MenuInput struct {
	Name         *string `json:"name" binding:"omitempty,max=255"`
	Description  *string `json:"description"`
	IsActive     *bool   `json:"is_active"`
	RestaurantID *uint   `json:"restaurant_id"`
}

type MenuService struct {
	base
}

func (s *MenuService) List(ctx context.Context, opts repository.ListOptions) ([]models.Menu, int64, error) {
	return s.store.Menus.List(ctx, opts)
}

func (s *MenuService) Get(ctx context.Context, id uint) (*models.Menu, error) {
	return s.store.Menus.Get(ctx, id)
}

func (s *MenuService) Create(ctx context.Context, in MenuInput) (*models.Menu, error) {
	m := &models.Menu{IsActive: true}
	if err := s.apply(ctx, m, in, false); err != nil {
		return nil, err
	}
	if err := s.store.Menus.Create(ctx, m); err != nil {
		return nil, err
	}
	return s.store.Menus.Get(ctx, m.ID)
}

func (s *MenuService) Update(ctx context.Context, id uint, in MenuInput, partial bool) (*models.Menu, error) {
	m, err := s.store.Menus.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, m, in, partial); err != nil {
		return nil, err
	}
	if err := s.store.Menus.Save(ctx, m); err != nil {
		return nil, err
	}
	return s.store.Menus.Get(ctx, id)
}

func (s *MenuService) Delete(ctx context.Context, id uint) error {
	return s.store.Menus.Delete(ctx, id)
}

func (s *MenuService) apply(ctx context.Context, m *models.Menu, in MenuInput, partial bool) error {
	fe := FieldErrors{}
	if !partial {
		fe.require("name", given(in.Name))
		fe.require("restaurant_id", in.RestaurantID != nil)
	}
	if in.Name != nil && !given(in.Name) {
		fe.add("name", "may not be blank")
	}
	if in.RestaurantID != nil {
		if err := s.exists(ctx, fe, "restaurant_id", &models.Restaurant{}, *in.RestaurantID); err != nil {
			return err
		}
	}
	if err := fe.err(); err != nil {
		return err
	}

	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		m.Description = in.Description
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	if in.RestaurantID != nil {
		m.RestaurantID = *in.RestaurantID
		m.Restaurant = nil
	}
	return nil
}

type DishInput struct {
	Name            *string          `json:"name" binding:"omitempty,max=255"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category" binding:"omitempty,max=100"`
	Price           *decimal.Decimal `json:"price" binding:"omitempty,gte=0"`
	IsAvailable     *bool            `json:"is_available"`
	PrepTimeMinutes *uint            `json:"prep_time_minutes"`
	MenuID          *uint            `json:"menu_id"`
}

type DishService struct {
	base
}

func (s *DishService) List(ctx context.Context, opts repository.ListOptions) ([]models.Dish, int64, error) {
	return s.store.Dishes.List(ctx, opts)
}

func (s *DishService) Get(ctx context.Context, id uint) (*models.Dish, error) {
	return s.store.Dishes.Get(ctx, id)
}

func (s *DishService) Create(ctx context.Context, in DishInput) (*models.Dish, error) {
	d := &models.Dish{IsAvailable: true, PrepTimeMinutes: 10}
	if err := s.apply(ctx, d, in, false); err != nil {
		return nil, err
	}
	if err := s.store.Dishes.Create(ctx, d); err != nil {
		return nil, err
	}
	return s.store.Dishes.Get(ctx, d.ID)
}

// Update never touches the unit prices already captured on order items.
func (s *DishService) Update(ctx context.Context, id uint, in DishInput, partial bool) (*models.Dish, error) {
	d, err := s.store.Dishes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, d, in, partial); err != nil {
		return nil, err
	}
	if err := s.store.Dishes.Save(ctx, d); err != nil {
		return nil, err
	}
	return s.store.Dishes.Get(ctx, id)
}

func (s *DishService) Delete(ctx context.Context, id uint) error {
	return s.store.Dishes.Delete(ctx, id)
}

func (s *DishService) apply(ctx context.Context, d *models.Dish, in DishInput, partial bool) error {
	fe := FieldErrors{}
	if !partial {
		fe.require("name", given(in.Name))
		fe.require("price", in.Price != nil)
		fe.require("menu_id", in.MenuID != nil)
	}
	if in.Name != nil && !given(in.Name) {
		fe.add("name", "may not be blank")
	}
	fe.money("price", in.Price)
	if in.MenuID != nil {
		if err := s.exists(ctx, fe, "menu_id", &models.Menu{}, *in.MenuID); err != nil {
			return err
		}
	}
	if err := fe.err(); err != nil {
		return err
	}

	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		d.Description = in.Description
	}
	if in.Category != nil {
		d.Category = in.Category
	}
	if in.Price != nil {
		d.Price = *in.Price
	}
	if in.IsAvailable != nil {
		d.IsAvailable = *in.IsAvailable
	}
	if in.PrepTimeMinutes != nil {
		d.PrepTimeMinutes = *in.PrepTimeMinutes
	}
	if in.MenuID != nil {
		d.MenuID = *in.MenuID
		d.Menu = nil
	}
	return nil
}
