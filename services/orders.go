package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"restaurant-admin-api/events"
	"restaurant-admin-api/models"
	"restaurant-admin-api/repository"
	"restaurant-admin-api/statemachine"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemInput is one line of an order's item set. UnitPrice defaults to the
// dish's current price.
type ItemInput struct {
	DishID    uint             `json:"dish_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"gte=1"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"omitempty,gte=0"`
}

type OrderInput struct {
	DeliveryAddress       *string             `json:"delivery_address"`
	Status                *models.OrderStatus `json:"status"`
	EstimatedDeliveryTime Nullable[time.Time] `json:"estimated_delivery_time"`
	Notes                 Nullable[string]    `json:"notes"`
	CustomerID            *uint               `json:"customer_id"`
	RestaurantID          *uint               `json:"restaurant_id"`
	DriverID              Nullable[uint]      `json:"driver_id"`
	Items                 *[]ItemInput        `json:"items" binding:"omitempty,dive"`
	Version               uint                `json:"version"`
}

// TotalView is the read accessor for an order's derived total.
type TotalView struct {
	OrderID     uint            `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Version     uint            `json:"version"`
	ItemCount   int             `json:"item_count"`
}

type OrderService struct {
	base
}

func (s *OrderService) List(ctx context.Context, p models.Principal, opts repository.ListOptions) ([]models.Order, int64, error) {
	return s.store.Orders.List(ctx, opts, orderScope(p))
}

func (s *OrderService) Get(ctx context.Context, p models.Principal, id uint) (*models.Order, error) {
	return s.store.Orders.Get(ctx, id, orderScope(p))
}

func (s *OrderService) Total(ctx context.Context, p models.Principal, id uint) (*TotalView, error) {
	o, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return &TotalView{
		OrderID:     o.ID,
		TotalAmount: o.TotalAmount,
		Version:     o.Version,
		ItemCount:   len(o.Items),
	}, nil
}

func (s *OrderService) History(ctx context.Context, p models.Principal, id uint) ([]models.OrderStatusHistory, error) {
	if _, err := s.Get(ctx, p, id); err != nil {
		return nil, err
	}
	return s.store.Orders.History(ctx, id)
}

// Create places an order. A customer always orders for themselves.
func (s *OrderService) Create(ctx context.Context, p models.Principal, in OrderInput) (*models.Order, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	if p.IsCustomer() {
		in.CustomerID = &p.CustomerID
	}

	fe := FieldErrors{}
	fe.require("delivery_address", given(in.DeliveryAddress))
	fe.require("customer_id", in.CustomerID != nil)
	fe.require("restaurant_id", in.RestaurantID != nil)
	status := models.StatusPending
	if in.Status != nil {
		switch {
		case !in.Status.Valid():
			fe.add("status", "unknown status "+string(*in.Status))
		case *in.Status != models.StatusPending && !p.IsStaff():
			fe.add("status", "new orders start as pending")
		default:
			status = *in.Status
		}
	}
	if err := s.references(ctx, fe, in); err != nil {
		return nil, err
	}
	var items []models.OrderItem
	if in.Items != nil {
		var err error
		if items, err = s.lineItems(ctx, fe, "items", *in.Items); err != nil {
			return nil, err
		}
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	order := &models.Order{
		DeliveryAddress:       strings.TrimSpace(*in.DeliveryAddress),
		Status:                status,
		EstimatedDeliveryTime: in.EstimatedDeliveryTime.Value,
		Notes:                 in.Notes.Value,
		CustomerID:            *in.CustomerID,
		RestaurantID:          *in.RestaurantID,
		DriverID:              in.DriverID.Value,
		Items:                 items,
	}
	created, err := s.store.Orders.Create(ctx, order, p.UserID)
	if err != nil {
		return nil, saveError(err)
	}

	s.log.Info("order created",
		zap.Uint("order_id", created.ID),
		zap.Uint("customer_id", created.CustomerID),
		zap.String("total", created.TotalAmount.StringFixed(2)),
		zap.Uint("by", p.UserID),
	)
	s.publish(ctx, events.New(events.OrderCreated, created.ID, totalData(created)))
	return created, nil
}

// Update saves order fields through the unit of work. Items, when sent,
// replace the whole item set. Absent fields keep their value; an explicit null
// clears driver_id, notes or estimated_delivery_time.
func (s *OrderService) Update(ctx context.Context, p models.Principal, id uint, in OrderInput, partial bool) (*models.Order, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, p, id); err != nil {
		return nil, err
	}
	if p.IsCustomer() {
		if in.CustomerID != nil && *in.CustomerID != p.CustomerID {
			return nil, forbidden("an order cannot be moved to another customer")
		}
		in.CustomerID = &p.CustomerID
	}

	fe := FieldErrors{}
	if !partial {
		fe.require("delivery_address", given(in.DeliveryAddress))
		fe.require("customer_id", in.CustomerID != nil)
		fe.require("restaurant_id", in.RestaurantID != nil)
	} else if in.DeliveryAddress != nil && !given(in.DeliveryAddress) {
		fe.add("delivery_address", "may not be blank")
	}
	if in.Status != nil && !in.Status.Valid() {
		fe.add("status", "unknown status "+string(*in.Status))
	}
	if err := s.references(ctx, fe, in); err != nil {
		return nil, err
	}
	var items []models.OrderItem
	if in.Items != nil {
		var err error
		if items, err = s.lineItems(ctx, fe, "items", *in.Items); err != nil {
			return nil, err
		}
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	var before models.Order
	updated, err := s.mutate(ctx, id, in.Version, nil, func(u *repository.OrderTx) error {
		o := u.Order
		before = *o
		if err := visible(p, o); err != nil {
			return err
		}
		if in.DeliveryAddress != nil {
			o.DeliveryAddress = strings.TrimSpace(*in.DeliveryAddress)
		}
		if in.EstimatedDeliveryTime.Set {
			o.EstimatedDeliveryTime = in.EstimatedDeliveryTime.Value
		}
		if in.Notes.Set {
			o.Notes = in.Notes.Value
		}
		if in.CustomerID != nil {
			o.CustomerID = *in.CustomerID
		}
		if in.RestaurantID != nil {
			o.RestaurantID = *in.RestaurantID
		}
		if in.DriverID.Set {
			o.DriverID = in.DriverID.Value
		}
		if in.Status != nil && *in.Status != o.Status {
			if err := transition(p, o.Status, *in.Status); err != nil {
				return err
			}
			if err := u.RecordStatus(o.Status, *in.Status, p.UserID, ""); err != nil {
				return err
			}
			o.Status = *in.Status
		}
		if in.Items != nil {
			return u.ReplaceItems(items)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order updated", zap.Uint("order_id", id), zap.Uint("version", updated.Version), zap.Uint("by", p.UserID))
	s.afterChange(ctx, &before, updated)
	return updated, nil
}

// ReplaceItems swaps the whole item set and returns the recomputed order.
func (s *OrderService) ReplaceItems(ctx context.Context, p models.Principal, id, version uint, in []ItemInput) (*models.Order, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, p, id); err != nil {
		return nil, err
	}
	fe := FieldErrors{}
	items, err := s.lineItems(ctx, fe, "items", in)
	if err != nil {
		return nil, err
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	var before models.Order
	updated, err := s.mutate(ctx, id, version, nil, func(u *repository.OrderTx) error {
		before = *u.Order
		if err := visible(p, u.Order); err != nil {
			return err
		}
		return u.ReplaceItems(items)
	})
	if err != nil {
		return nil, err
	}
	s.afterChange(ctx, &before, updated)
	return updated, nil
}

// ForceStatus lets staff set any status, bypassing the transition graph.
func (s *OrderService) ForceStatus(ctx context.Context, p models.Principal, id, version uint, status models.OrderStatus, note string) (*models.Order, error) {
	if !p.IsStaff() {
		return nil, forbidden("only staff may force an order status")
	}
	if !status.Valid() {
		return nil, invalid("status", "unknown status "+string(status))
	}
	if note == "" {
		note = "forced by staff"
	}

	var before models.Order
	updated, err := s.mutate(ctx, id, version, nil, func(u *repository.OrderTx) error {
		before = *u.Order
		if u.Order.Status == status {
			return nil
		}
		if err := u.RecordStatus(u.Order.Status, status, p.UserID, note); err != nil {
			return err
		}
		u.Order.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Warn("order status forced",
		zap.Uint("order_id", id),
		zap.String("from", string(before.Status)),
		zap.String("to", string(status)),
		zap.Uint("by", p.UserID),
	)
	s.afterChange(ctx, &before, updated)
	return updated, nil
}

func (s *OrderService) Delete(ctx context.Context, p models.Principal, id uint) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	if _, err := s.Get(ctx, p, id); err != nil {
		return err
	}
	if err := s.store.Orders.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("order deleted", zap.Uint("order_id", id), zap.Uint("by", p.UserID))
	s.publish(ctx, events.New(events.OrderDeleted, id, nil))
	return nil
}

// mutate runs fn in the order unit of work. Orders listed in also are locked
// up front with id.
func (s *OrderService) mutate(ctx context.Context, id, version uint, also []uint, fn func(u *repository.OrderTx) error) (*models.Order, error) {
	order, err := s.store.Orders.MutateWith(ctx, id, version, also, fn)
	if err != nil {
		return nil, saveError(err)
	}
	return order, nil
}

// references validates the foreign keys an order input carries.
func (s *OrderService) references(ctx context.Context, fe FieldErrors, in OrderInput) error {
	checks := []struct {
		field string
		model any
		id    *uint
	}{
		{"customer_id", &models.Customer{}, in.CustomerID},
		{"restaurant_id", &models.Restaurant{}, in.RestaurantID},
		{"driver_id", &models.Driver{}, in.DriverID.Value},
	}
	for _, c := range checks {
		if c.id == nil {
			continue
		}
		if err := s.exists(ctx, fe, c.field, c.model, *c.id); err != nil {
			return err
		}
	}
	return nil
}

// lineItems resolves dishes, captures unit prices and validates each line.
func (s *OrderService) lineItems(ctx context.Context, fe FieldErrors, field string, in []ItemInput) ([]models.OrderItem, error) {
	ids := make([]uint, 0, len(in))
	for _, it := range in {
		ids = append(ids, it.DishID)
	}
	dishes, err := s.store.Dishes.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(in))
	total := decimal.Zero
	for i, it := range in {
		prefix := ""
		if field != "" {
			prefix = fmt.Sprintf("%s[%d].", field, i)
		}
		dish, ok := dishes[it.DishID]
		if !ok {
			fe.add(prefix+"dish_id", "does not exist")
			continue
		}
		item := models.OrderItem{DishID: it.DishID, Quantity: it.Quantity, UnitPrice: dish.Price}
		if it.UnitPrice != nil {
			item.UnitPrice = *it.UnitPrice
		}
		if err := item.Validate(); err != nil {
			fe.item(prefix, err)
			continue
		}
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}
	if total.GreaterThan(models.MaxAmount) {
		key := field
		if key == "" {
			key = "quantity"
		}
		fe.add(key, "order total exceeds the maximum amount")
	}
	return items, nil
}

// afterChange emits the events describing what a committed mutation changed.
func (s *OrderService) afterChange(ctx context.Context, before, after *models.Order) {
	s.publish(ctx, events.New(events.OrderUpdated, after.ID, map[string]any{"version": after.Version}))
	if before.Status != "" && before.Status != after.Status {
		s.publish(ctx, events.New(events.OrderStatusChanged, after.ID, map[string]any{
			"from": before.Status,
			"to":   after.Status,
		}))
	}
	if !before.TotalAmount.Equal(after.TotalAmount) {
		s.publish(ctx, events.New(events.OrderTotalChanged, after.ID, totalData(after)))
	}
}

func totalData(o *models.Order) map[string]any {
	return map[string]any{
		"total_amount": o.TotalAmount.StringFixed(2),
		"version":      o.Version,
		"item_count":   len(o.Items),
	}
}

// visible rechecks ownership against the locked row.
func visible(p models.Principal, o *models.Order) error {
	if p.IsStaff() || (p.IsCustomer() && o.CustomerID == p.CustomerID) {
		return nil
	}
	return ErrNotFound
}

// transition applies the order state machine for p. A move that only staff
// may make is forbidden rather than invalid.
func transition(p models.Principal, from, to models.OrderStatus) error {
	err := statemachine.CanTransition(from, to, statemachine.ActorFor(p))
	if err == nil {
		return nil
	}
	if statemachine.CanTransition(from, to, statemachine.ActorStaff) == nil {
		return forbidden("%s → %s requires staff", from, to)
	}
	return invalid("status", err.Error())
}

// OrderSummary is the staff dashboard view over all orders. Revenue counts
// completed orders only.
type OrderSummary struct {
	Count    int64                      `json:"count"`
	Revenue  decimal.Decimal            `json:"revenue"`
	ByStatus []repository.StatusSummary `json:"by_status"`
}

func (s *OrderService) Summary(ctx context.Context, p models.Principal) (*OrderSummary, error) {
	if !p.IsStaff() {
		return nil, forbidden("only staff may view the order summary")
	}
	rows, err := s.store.Orders.Summary(ctx)
	if err != nil {
		return nil, err
	}
	out := &OrderSummary{Revenue: decimal.Zero, ByStatus: rows}
	for _, r := range rows {
		out.Count += r.Count
		if r.Status == models.StatusCompleted {
			out.Revenue = r.Amount
		}
	}
	return out, nil
}
