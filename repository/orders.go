package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"restaurant-admin-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var orderListSpec = listSpec{
	table: "orders",
	joins: []string{
		"JOIN customers ON customers.id = orders.customer_id",
		"JOIN restaurants ON restaurants.id = orders.restaurant_id",
	},
	filters: map[string]string{
		"status":        "orders.status",
		"restaurant_id": "orders.restaurant_id",
		"customer_id":   "orders.customer_id",
	},
	search: []string{"customers.full_name", "restaurants.name"},
	ordering: map[string]string{
		"placed_at": "orders.placed_at",
		"status":    "orders.status",
	},
	defaultOrder: "orders.placed_at DESC",
	preloads:     orderPreloads,
}

var orderPreloads = []string{"Items.Dish", "Customer.User", "Restaurant.Reviews.Customer", "Driver"}

// under prefixes preload paths for a relation reached through prefix.
func under(prefix string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = prefix + "." + p
	}
	return out
}

type OrderRepository struct {
	db *gorm.DB
}

func (r *OrderRepository) List(ctx context.Context, opts ListOptions, scope Scope) ([]models.Order, int64, error) {
	return list[models.Order](ctx, r.db, orderListSpec, opts, scope)
}

// Get loads an order with its items, parties and driver as one snapshot.
func (r *OrderRepository) Get(ctx context.Context, id uint, scope Scope) (*models.Order, error) {
	q := r.db.WithContext(ctx)
	if scope != nil {
		q = q.Scopes(scope)
	}
	q = q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") })
	for _, p := range orderPreloads {
		q = q.Preload(p)
	}
	var order models.Order
	if err := q.First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *OrderRepository) History(ctx context.Context, orderID uint) ([]models.OrderStatusHistory, error) {
	out := make([]models.OrderStatusHistory, 0)
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// OrderTx is the handle a mutation runs against. Orders reached through it
// are locked for the rest of the transaction and get their totals recomputed
// and saved before commit.
type OrderTx struct {
	DB    *gorm.DB
	Order *models.Order

	touched map[uint]*models.Order
}

// Also returns another order whose total is recomputed with this transaction,
// e.g. when a line item moves between orders. Orders not passed to MutateWith
// are locked on first use.
func (u *OrderTx) Also(id uint) (*models.Order, error) {
	if o, ok := u.touched[id]; ok {
		return o, nil
	}
	o, err := lockOrder(u.DB, id)
	if err != nil {
		return nil, err
	}
	u.touched[id] = o
	return o, nil
}

// RecordStatus appends a status history row.
func (u *OrderTx) RecordStatus(from, to models.OrderStatus, by uint, note string) error {
	h := models.OrderStatusHistory{
		OrderID:    u.Order.ID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  by,
		Note:       note,
	}
	return u.DB.Create(&h).Error
}

// ReplaceItems swaps the order's whole item set.
func (u *OrderTx) ReplaceItems(items []models.OrderItem) error {
	if err := u.DB.Where("order_id = ?", u.Order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return u.AddItems(items)
}

// AddItems inserts items into the order. IDs are assigned by the database.
func (u *OrderTx) AddItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].OrderID = u.Order.ID
		items[i].Dish = nil
	}
	return translate(u.DB.Omit(clause.Associations).Create(&items).Error)
}

// Create inserts the order and its items, stores the resulting total and the
// initial status history entry in one transaction. New orders start at version 1.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order, by uint) (*models.Order, error) {
	items := order.Items
	var id uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order.ID = 0
		order.Items = nil
		order.Version = 1
		order.RecomputeTotal()
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return translate(err)
		}
		u := &OrderTx{DB: tx, Order: order, touched: map[uint]*models.Order{}}
		if err := u.AddItems(items); err != nil {
			return err
		}
		if err := u.RecordStatus("", order.Status, by, "order placed"); err != nil {
			return err
		}
		id = order.ID
		return finalize(tx, order, false)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id, nil)
}

// Mutate is the unit of work for an existing order: lock the row, check the
// expected version (0 skips the check), apply fn, then recompute and save the
// total of every touched order with a version bump, all in one transaction.
func (r *OrderRepository) Mutate(ctx context.Context, id, expectedVersion uint, fn func(u *OrderTx) error) (*models.Order, error) {
	return r.MutateWith(ctx, id, expectedVersion, nil, fn)
}

// MutateWith is Mutate for a change that spans several orders. The orders in
// also are locked together with id in ascending id order before fn runs, so
// two writers touching the same pair always queue on the same row first.
func (r *OrderRepository) MutateWith(ctx context.Context, id, expectedVersion uint, also []uint, fn func(u *OrderTx) error) (*models.Order, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		touched, err := lockOrders(tx, append([]uint{id}, also...))
		if err != nil {
			return err
		}
		order := touched[id]
		if expectedVersion != 0 && order.Version != expectedVersion {
			return fmt.Errorf("%w: order %d is at version %d, request was based on %d",
				ErrConflict, id, order.Version, expectedVersion)
		}

		u := &OrderTx{DB: tx, Order: order, touched: touched}
		if fn != nil {
			if err := fn(u); err != nil {
				return err
			}
		}

		for _, oid := range sortedIDs(u.touched) {
			if err := finalize(tx, u.touched[oid], true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id, nil)
}

// Delete removes the order together with everything it owns.
func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOrder(tx, id); err != nil {
			return err
		}
		owned := []any{
			&models.OrderItem{},
			&models.OrderStatusHistory{},
			&models.Payment{},
			&models.Delivery{},
			&models.Review{},
		}
		for _, m := range owned {
			if err := tx.Where("order_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Order{}, id).Error
	})
}

// lockOrders locks each distinct id in ascending order.
func lockOrders(tx *gorm.DB, ids []uint) (map[uint]*models.Order, error) {
	locked := make(map[uint]*models.Order, len(ids))
	for _, id := range ids {
		locked[id] = nil
	}
	for _, id := range sortedIDs(locked) {
		o, err := lockOrder(tx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = o
	}
	return locked, nil
}

func sortedIDs(m map[uint]*models.Order) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func lockOrder(tx *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// finalize reloads the committed item set inside tx, recomputes the total and
// writes the order row guarded by its version. bump advances the version.
func finalize(tx *gorm.DB, order *models.Order, bump bool) error {
	items := make([]models.OrderItem, 0)
	if err := tx.Where("order_id = ?", order.ID).Order("id ASC").Find(&items).Error; err != nil {
		return err
	}
	order.Items = items
	order.RecomputeTotal()
	if err := order.CheckTotal(); err != nil {
		return err
	}

	prev := order.Version
	next := prev
	if bump {
		next++
	}
	now := time.Now().UTC()
	res := tx.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, prev).
		Updates(map[string]any{
			"delivery_address":        order.DeliveryAddress,
			"status":                  order.Status,
			"estimated_delivery_time": order.EstimatedDeliveryTime,
			"notes":                   order.Notes,
			"customer_id":             order.CustomerID,
			"restaurant_id":           order.RestaurantID,
			"driver_id":               order.DriverID,
			"total_amount":            order.TotalAmount,
			"version":                 next,
			"updated_at":              now,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order %d was modified concurrently", ErrConflict, order.ID)
	}
	order.Version = next
	order.UpdatedAt = now
	return nil
}

// StatusSummary is the order count and summed totals for one status.
type StatusSummary struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
	Amount decimal.Decimal    `json:"amount"`
}

// Summary aggregates orders by status.
func (r *OrderRepository) Summary(ctx context.Context) ([]StatusSummary, error) {
	out := make([]StatusSummary, 0)
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS amount").
		Group("status").
		Order("status").
		Scan(&out).Error
	return out, err
}
