package services

import (
	"context"
	"errors"

	"restaurant-admin-api/events"
	"restaurant-admin-api/models"
	"restaurant-admin-api/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderItemInput writes a single line item. Version is the order version the
// caller last saw.
type OrderItemInput struct {
	OrderID   *uint            `json:"order_id"`
	DishID    *uint            `json:"dish_id"`
	Quantity  *int             `json:"quantity" binding:"omitempty,gte=1"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"omitempty,gte=0"`
	Version   uint             `json:"version"`
}

func (s *OrderService) ListItems(ctx context.Context, p models.Principal, opts repository.ListOptions) ([]models.OrderItem, int64, error) {
	return s.store.Orders.Items(ctx, opts, orderScope(p))
}

func (s *OrderService) GetItem(ctx context.Context, p models.Principal, id uint) (*models.OrderItem, error) {
	return s.store.Orders.Item(ctx, id, orderScope(p))
}

// CreateItem adds a line to an order and recomputes its total.
func (s *OrderService) CreateItem(ctx context.Context, p models.Principal, in OrderItemInput) (*models.OrderItem, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	fe := FieldErrors{}
	fe.require("order_id", in.OrderID != nil)
	fe.require("dish_id", in.DishID != nil)
	fe.require("quantity", in.Quantity != nil)
	if err := fe.err(); err != nil {
		return nil, err
	}
	if err := s.orderRef(ctx, p, fe, *in.OrderID); err != nil {
		return nil, err
	}
	items, err := s.lineItems(ctx, fe, "", []ItemInput{{DishID: *in.DishID, Quantity: *in.Quantity, UnitPrice: in.UnitPrice}})
	if err != nil {
		return nil, err
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	var before models.Order
	order, err := s.mutate(ctx, *in.OrderID, in.Version, nil, func(u *repository.OrderTx) error {
		before = *u.Order
		if err := visible(p, u.Order); err != nil {
			return err
		}
		return u.AddItems(items)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order item added", zap.Uint("order_id", order.ID), zap.Uint("item_id", items[0].ID))
	s.afterChange(ctx, &before, order)
	return s.store.Orders.Item(ctx, items[0].ID, nil)
}

// UpdateItem changes a line. Moving it to another order recomputes both
// totals in the same transaction. Changing the dish without a unit price
// captures the new dish's current price.
func (s *OrderService) UpdateItem(ctx context.Context, p models.Principal, id uint, in OrderItemInput, partial bool) (*models.OrderItem, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	current, err := s.store.Orders.Item(ctx, id, orderScope(p))
	if err != nil {
		return nil, err
	}

	fe := FieldErrors{}
	if !partial {
		fe.require("order_id", in.OrderID != nil)
		fe.require("dish_id", in.DishID != nil)
		fe.require("quantity", in.Quantity != nil)
	}
	moving := in.OrderID != nil && *in.OrderID != current.OrderID
	if moving {
		if err := s.orderRef(ctx, p, fe, *in.OrderID); err != nil {
			return nil, err
		}
	}
	var newDish *models.Dish
	if in.DishID != nil && *in.DishID != current.DishID {
		dishes, err := s.store.Dishes.GetMany(ctx, []uint{*in.DishID})
		if err != nil {
			return nil, err
		}
		if d, ok := dishes[*in.DishID]; ok {
			newDish = &d
		} else {
			fe.add("dish_id", "does not exist")
		}
	}
	fe.money("unit_price", in.UnitPrice)
	if err := fe.err(); err != nil {
		return nil, err
	}

	var also []uint
	if moving {
		also = []uint{*in.OrderID}
	}
	var before models.Order
	order, err := s.mutate(ctx, current.OrderID, in.Version, also, func(u *repository.OrderTx) error {
		before = *u.Order
		if err := visible(p, u.Order); err != nil {
			return err
		}
		item, err := u.ItemIn(id)
		if err != nil {
			return err
		}
		if in.Quantity != nil {
			item.Quantity = *in.Quantity
		}
		if newDish != nil {
			item.DishID = newDish.ID
			item.UnitPrice = newDish.Price
		}
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		}
		if err := item.Validate(); err != nil {
			verr := FieldErrors{}
			verr.item("", err)
			return verr
		}
		if moving {
			target, err := u.Also(*in.OrderID)
			if err != nil {
				return err
			}
			if err := visible(p, target); err != nil {
				return err
			}
			item.OrderID = target.ID
		}
		return u.SaveItem(item)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order item updated", zap.Uint("order_id", order.ID), zap.Uint("item_id", id), zap.Bool("moved", moving))
	s.afterChange(ctx, &before, order)
	if moving {
		if target, err := s.store.Orders.Get(ctx, *in.OrderID, nil); err == nil {
			s.publish(ctx, events.New(events.OrderTotalChanged, target.ID, totalData(target)))
		}
	}
	return s.store.Orders.Item(ctx, id, nil)
}

// DeleteItem removes a line and recomputes the order total.
func (s *OrderService) DeleteItem(ctx context.Context, p models.Principal, id, version uint) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	current, err := s.store.Orders.Item(ctx, id, orderScope(p))
	if err != nil {
		return err
	}
	var before models.Order
	order, err := s.mutate(ctx, current.OrderID, version, nil, func(u *repository.OrderTx) error {
		before = *u.Order
		if err := visible(p, u.Order); err != nil {
			return err
		}
		return u.DeleteItem(id)
	})
	if err != nil {
		return err
	}
	s.log.Info("order item removed", zap.Uint("order_id", order.ID), zap.Uint("item_id", id))
	s.afterChange(ctx, &before, order)
	return nil
}

// orderRef checks that an order referenced by a line item exists and that p
// may write to it.
func (s *OrderService) orderRef(ctx context.Context, p models.Principal, fe FieldErrors, orderID uint) error {
	_, err := s.store.Orders.Get(ctx, orderID, orderScope(p))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		fe.add("order_id", "does not exist")
		return nil
	}
	return err
}
