// Package services holds the business rules of the admin API. Every call takes
// the caller's Principal explicitly; handlers never decide visibility.
package services

import (
	"context"

	"restaurant-admin-api/events"
	"restaurant-admin-api/models"
	"restaurant-admin-api/repository"

	"go.uber.org/zap"
)

type Services struct {
	Auth        *AuthService
	Restaurants *RestaurantService
	Menus       *MenuService
	Dishes      *DishService
	Customers   *CustomerService
	Drivers     *DriverService
	Orders      *OrderService
	Payments    *PaymentService
	Deliveries  *DeliveryService
	Reviews     *ReviewService
}

func New(store *repository.Store, pub events.Publisher, log *zap.Logger) *Services {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	b := base{store: store, events: pub, log: log}
	return &Services{
		Auth:        &AuthService{base: b},
		Restaurants: &RestaurantService{base: b},
		Menus:       &MenuService{base: b},
		Dishes:      &DishService{base: b},
		Customers:   &CustomerService{base: b},
		Drivers:     &DriverService{base: b},
		Orders:      &OrderService{base: b},
		Payments:    &PaymentService{base: b},
		Deliveries:  &DeliveryService{base: b},
		Reviews:     &ReviewService{base: b},
	}
}

type base struct {
	store  *repository.Store
	events events.Publisher
	log    *zap.Logger
}

// publish sends evt after the change has committed. A broker failure is
// logged and never undoes the write.
func (b base) publish(ctx context.Context, evt events.Event) {
	if err := b.events.Publish(ctx, evt); err != nil {
		b.log.Warn("event publish failed",
			zap.String("event_id", evt.ID),
			zap.String("type", evt.Type),
			zap.Uint("order_id", evt.OrderID),
			zap.Error(err),
		)
	}
}

// exists adds a field error when the referenced row is missing.
func (b base) exists(ctx context.Context, fe FieldErrors, field string, model any, id uint) error {
	ok, err := b.store.Exists(ctx, model, id)
	if err != nil {
		return err
	}
	if !ok {
		fe.add(field, "does not exist")
	}
	return nil
}

func requireAuth(p models.Principal) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// orderScope limits orders and their line items to what p may see.
func orderScope(p models.Principal) repository.Scope {
	switch {
	case p.IsStaff():
		return repository.Everything
	case p.IsCustomer():
		return repository.Where("orders.customer_id", p.CustomerID)
	}
	return repository.Nothing
}

func reviewScope(p models.Principal) repository.Scope {
	switch {
	case p.IsStaff():
		return repository.Everything
	case p.IsCustomer():
		return repository.Where("reviews.customer_id", p.CustomerID)
	}
	return repository.Nothing
}
