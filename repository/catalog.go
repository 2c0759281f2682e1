package repository

import (
	"context"
	"fmt"

	"restaurant-admin-api/models"

	"gorm.io/gorm"
)

var restaurantReviews = "Reviews.Customer"

var restaurantListSpec = listSpec{
	table:   "restaurants",
	filters: map[string]string{"name": "restaurants.name"},
	search:  []string{"restaurants.name", "restaurants.address", "restaurants.phone"},
	ordering: map[string]string{
		"name":       "restaurants.name",
		"created_at": "restaurants.created_at",
	},
	defaultOrder: "restaurants.name ASC",
	preloads:     []string{restaurantReviews},
}

type RestaurantRepository struct {
	db *gorm.DB
}

func (r *RestaurantRepository) List(ctx context.Context, opts ListOptions) ([]models.Restaurant, int64, error) {
	return list[models.Restaurant](ctx, r.db, restaurantListSpec, opts, nil)
}

func (r *RestaurantRepository) Get(ctx context.Context, id uint) (*models.Restaurant, error) {
	return first[models.Restaurant](ctx, r.db, id, nil, restaurantReviews)
}

func (r *RestaurantRepository) Create(ctx context.Context, v *models.Restaurant) error {
	return create(ctx, r.db, v)
}

func (r *RestaurantRepository) Save(ctx context.Context, v *models.Restaurant) error {
	return save(ctx, r.db, v)
}

// Delete removes the restaurant with its menus and their dishes. It is refused
// while any order line still points at one of those dishes.
func (r *RestaurantRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menus := tx.Model(&models.Menu{}).Select("id").Where("restaurant_id = ?", id)
		dishes := tx.Model(&models.Dish{}).Select("id").Where("menu_id IN (?)", menus)
		if err := refuseOrdered(tx, "dish_id IN (?)", dishes); err != nil {
			return err
		}
		if err := tx.Where("menu_id IN (?)", menus).Delete(&models.Dish{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.Menu{}).Error; err != nil {
			return translate(err)
		}
		return remove[models.Restaurant](ctx, tx, id)
	})
}

var menuListSpec = listSpec{
	table:        "menus",
	joins:        []string{"JOIN restaurants ON restaurants.id = menus.restaurant_id"},
	search:       []string{"menus.name", "restaurants.name"},
	ordering:     map[string]string{"name": "menus.name", "created_at": "menus.created_at"},
	defaultOrder: "menus.name ASC",
	preloads:     []string{"Restaurant.Reviews.Customer"},
}

type MenuRepository struct {
	db *gorm.DB
}

func (r *MenuRepository) List(ctx context.Context, opts ListOptions) ([]models.Menu, int64, error) {
	return list[models.Menu](ctx, r.db, menuListSpec, opts, nil)
}

func (r *MenuRepository) Get(ctx context.Context, id uint) (*models.Menu, error) {
	return first[models.Menu](ctx, r.db, id, nil, "Restaurant.Reviews.Customer")
}

func (r *MenuRepository) Create(ctx context.Context, v *models.Menu) error {
	return create(ctx, r.db, v)
}

func (r *MenuRepository) Save(ctx context.Context, v *models.Menu) error {
	return save(ctx, r.db, v)
}

// Delete removes the menu and its dishes, unless an order line uses one.
func (r *MenuRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dishes := tx.Model(&models.Dish{}).Select("id").Where("menu_id = ?", id)
		if err := refuseOrdered(tx, "dish_id IN (?)", dishes); err != nil {
			return err
		}
		if err := tx.Where("menu_id = ?", id).Delete(&models.Dish{}).Error; err != nil {
			return translate(err)
		}
		return remove[models.Menu](ctx, tx, id)
	})
}

var dishListSpec = listSpec{
	table: "dishes",
	joins: []string{
		"JOIN menus ON menus.id = dishes.menu_id",
		"JOIN restaurants ON restaurants.id = menus.restaurant_id",
	},
	filters: map[string]string{"name": "dishes.name", "menu_id": "dishes.menu_id"},
	search:  []string{"dishes.name", "dishes.category", "restaurants.name"},
	ordering: map[string]string{
		"price": "dishes.price",
		"name":  "dishes.name",
	},
	defaultOrder: "dishes.name ASC",
	preloads:     []string{"Menu.Restaurant.Reviews.Customer"},
}

type DishRepository struct {
	db *gorm.DB
}

func (r *DishRepository) List(ctx context.Context, opts ListOptions) ([]models.Dish, int64, error) {
	return list[models.Dish](ctx, r.db, dishListSpec, opts, nil)
}

func (r *DishRepository) Get(ctx context.Context, id uint) (*models.Dish, error) {
	return first[models.Dish](ctx, r.db, id, nil, "Menu.Restaurant.Reviews.Customer")
}

// GetMany loads dishes by id, keyed by id.
func (r *DishRepository) GetMany(ctx context.Context, ids []uint) (map[uint]models.Dish, error) {
	out := make(map[uint]models.Dish, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var dishes []models.Dish
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&dishes).Error; err != nil {
		return nil, err
	}
	for _, d := range dishes {
		out[d.ID] = d
	}
	return out, nil
}

func (r *DishRepository) Create(ctx context.Context, v *models.Dish) error {
	return create(ctx, r.db, v)
}

func (r *DishRepository) Save(ctx context.Context, v *models.Dish) error {
	return save(ctx, r.db, v)
}

// Delete removes a dish no order line refers to. Ordered dishes stay so the
// captured lines and stored totals of their orders remain intact.
func (r *DishRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := refuseOrdered(tx, "dish_id = ?", id); err != nil {
			return err
		}
		return remove[models.Dish](ctx, tx, id)
	})
}

// refuseOrdered returns ErrConflict when order items match the dish condition.
func refuseOrdered(tx *gorm.DB, query string, args ...any) error {
	var n int64
	if err := tx.Model(&models.OrderItem{}).Where(query, args...).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: dish is used by %d order items", ErrConflict, n)
	}
	return nil
}
