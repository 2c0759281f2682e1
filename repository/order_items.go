package repository

import (
	"context"

	"restaurant-admin-api/models"
)

var itemListSpec = listSpec{
	table:        "order_items",
	joins:        []string{"JOIN orders ON orders.id = order_items.order_id"},
	filters:      map[string]string{"order_id": "order_items.order_id", "dish_id": "order_items.dish_id"},
	ordering:     map[string]string{"quantity": "order_items.quantity", "unit_price": "order_items.unit_price"},
	defaultOrder: "order_items.order_id ASC",
	preloads:     []string{"Dish"},
}

// Items lists line items. scope applies to the joined orders table.
func (r *OrderRepository) Items(ctx context.Context, opts ListOptions, scope Scope) ([]models.OrderItem, int64, error) {
	return list[models.OrderItem](ctx, r.db, itemListSpec, opts, scope)
}

// Item loads one line item, subject to the same order scope as Items.
func (r *OrderRepository) Item(ctx context.Context, id uint, scope Scope) (*models.OrderItem, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Select("order_items.*").
		Preload("Dish")
	if scope != nil {
		q = q.Scopes(scope)
	}
	var item models.OrderItem
	if err := q.First(&item, "order_items.id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// ItemIn loads a line item of the locked order.
func (u *OrderTx) ItemIn(id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := u.DB.Where("id = ? AND order_id = ?", id, u.Order.ID).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// SaveItem writes a line item; a changed OrderID moves it to that order,
// which must already be attached through Also.
func (u *OrderTx) SaveItem(item *models.OrderItem) error {
	item.Dish = nil
	return translate(u.DB.Model(&models.OrderItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"quantity":   item.Quantity,
			"unit_price": item.UnitPrice,
			"order_id":   item.OrderID,
			"dish_id":    item.DishID,
		}).Error)
}

// DeleteItem removes a line item of the locked order.
func (u *OrderTx) DeleteItem(id uint) error {
	res := u.DB.Where("id = ? AND order_id = ?", id, u.Order.ID).Delete(&models.OrderItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
