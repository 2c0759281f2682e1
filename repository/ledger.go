package repository

import (
	"context"

	"restaurant-admin-api/models"

	"gorm.io/gorm"
)

var paymentListSpec = listSpec{
	table:   "payments",
	filters: map[string]string{"status": "payments.status", "method": "payments.method", "order_id": "payments.order_id"},
	ordering: map[string]string{
		"paid_at": "payments.paid_at",
		"amount":  "payments.amount",
	},
	defaultOrder: "payments.paid_at DESC",
	preloads:     paymentPreloads,
}

var paymentPreloads = under("Order", orderPreloads)

type PaymentRepository struct {
	db *gorm.DB
}

func (r *PaymentRepository) List(ctx context.Context, opts ListOptions) ([]models.Payment, int64, error) {
	return list[models.Payment](ctx, r.db, paymentListSpec, opts, nil)
}

func (r *PaymentRepository) Get(ctx context.Context, id uint) (*models.Payment, error) {
	return first[models.Payment](ctx, r.db, id, nil, paymentPreloads...)
}

func (r *PaymentRepository) Create(ctx context.Context, v *models.Payment) error {
	return create(ctx, r.db, v)
}

func (r *PaymentRepository) Save(ctx context.Context, v *models.Payment) error {
	return save(ctx, r.db, v)
}

func (r *PaymentRepository) Delete(ctx context.Context, id uint) error {
	return remove[models.Payment](ctx, r.db, id)
}

var deliveryListSpec = listSpec{
	table:   "deliveries",
	filters: map[string]string{"status": "deliveries.status", "driver_id": "deliveries.driver_id"},
	ordering: map[string]string{
		"status":     "deliveries.status",
		"created_at": "deliveries.created_at",
	},
	defaultOrder: "deliveries.created_at DESC",
	preloads:     deliveryPreloads,
}

var deliveryPreloads = append(under("Order", orderPreloads), "Driver")

type DeliveryRepository struct {
	db *gorm.DB
}

func (r *DeliveryRepository) List(ctx context.Context, opts ListOptions) ([]models.Delivery, int64, error) {
	return list[models.Delivery](ctx, r.db, deliveryListSpec, opts, nil)
}

func (r *DeliveryRepository) Get(ctx context.Context, id uint) (*models.Delivery, error) {
	return first[models.Delivery](ctx, r.db, id, nil, deliveryPreloads...)
}

func (r *DeliveryRepository) Create(ctx context.Context, v *models.Delivery) error {
	return create(ctx, r.db, v)
}

func (r *DeliveryRepository) Save(ctx context.Context, v *models.Delivery) error {
	return save(ctx, r.db, v)
}

func (r *DeliveryRepository) Delete(ctx context.Context, id uint) error {
	return remove[models.Delivery](ctx, r.db, id)
}

// Reviews may point at no restaurant or driver, so those joins are outer.
var reviewListSpec = listSpec{
	table: "reviews",
	joins: []string{
		"JOIN customers ON customers.id = reviews.customer_id",
		"LEFT JOIN restaurants ON restaurants.id = reviews.restaurant_id",
		"LEFT JOIN drivers ON drivers.id = reviews.driver_id",
	},
	filters: map[string]string{"rating": "reviews.rating", "restaurant_id": "reviews.restaurant_id"},
	search:  []string{"customers.full_name", "restaurants.name", "drivers.full_name"},
	ordering: map[string]string{
		"rating":     "reviews.rating",
		"created_at": "reviews.created_at",
	},
	defaultOrder: "reviews.created_at DESC",
	preloads:     []string{"Customer.User", "Restaurant.Reviews.Customer"},
}

type ReviewRepository struct {
	db *gorm.DB
}

func (r *ReviewRepository) List(ctx context.Context, opts ListOptions, scope Scope) ([]models.Review, int64, error) {
	return list[models.Review](ctx, r.db, reviewListSpec, opts, scope)
}

func (r *ReviewRepository) Get(ctx context.Context, id uint, scope Scope) (*models.Review, error) {
	return first[models.Review](ctx, r.db, id, scope, "Customer.User", "Restaurant.Reviews.Customer")
}

func (r *ReviewRepository) Create(ctx context.Context, v *models.Review) error {
	return create(ctx, r.db, v)
}

func (r *ReviewRepository) Save(ctx context.Context, v *models.Review) error {
	return save(ctx, r.db, v)
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	return remove[models.Review](ctx, r.db, id)
}
