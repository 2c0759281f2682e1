package services

import (
	"context"
	"errors"
	"time"

	"restaurant-admin-api/events"
	"restaurant-admin-api/models"
	"restaurant-admin-api/repository"
	"restaurant-admin-api/statemachine"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PaymentInput struct {
	OrderID              *uint                 `json:"order_id"`
	Amount               *decimal.Decimal      `json:"amount" binding:"omitempty,gte=0"`
	Method               *models.PaymentMethod `json:"method" binding:"omitempty,oneof=cash card online"`
	Status               *models.PaymentStatus `json:"status" binding:"omitempty,oneof=pending paid failed"`
	TransactionReference *string               `json:"transaction_reference" binding:"omitempty,max=255"`
	PaidAt               *time.Time            `json:"paid_at"`
}

// PaymentService records payments as an independent ledger: the amount is
// kept as given even when it differs from the order total.
type PaymentService struct {
	base
}

func (s *PaymentService) List(ctx context.Context, p models.Principal, opts repository.ListOptions) ([]models.Payment, int64, error) {
	if err := requireAuth(p); err != nil {
		return nil, 0, err
	}
	return s.store.Payments.List(ctx, opts)
}

func (s *PaymentService) Get(ctx context.Context, p models.Principal, id uint) (*models.Payment, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	return s.store.Payments.Get(ctx, id)
}

func (s *PaymentService) Create(ctx context.Context, p models.Principal, in PaymentInput) (*models.Payment, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	pay := &models.Payment{Status: models.PaymentPending}
	if err := s.apply(ctx, pay, in, false); err != nil {
		return nil, err
	}
	if err := s.store.Payments.Create(ctx, pay); err != nil {
		return nil, err
	}
	return s.recorded(ctx, p, pay.ID)
}

func (s *PaymentService) Update(ctx context.Context, p models.Principal, id uint, in PaymentInput, partial bool) (*models.Payment, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	pay, err := s.store.Payments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	pay.Order = nil
	if err := s.apply(ctx, pay, in, partial); err != nil {
		return nil, err
	}
	if err := s.store.Payments.Save(ctx, pay); err != nil {
		return nil, err
	}
	return s.recorded(ctx, p, id)
}

func (s *PaymentService) Delete(ctx context.Context, p models.Principal, id uint) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	return s.store.Payments.Delete(ctx, id)
}

func (s *PaymentService) recorded(ctx context.Context, p models.Principal, id uint) (*models.Payment, error) {
	pay, err := s.store.Payments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("payment recorded",
		zap.Uint("payment_id", pay.ID),
		zap.Uint("order_id", pay.OrderID),
		zap.String("amount", pay.Amount.StringFixed(2)),
		zap.String("status", string(pay.Status)),
		zap.Uint("by", p.UserID),
	)
	s.publish(ctx, events.New(events.PaymentRecorded, pay.OrderID, map[string]any{
		"payment_id": pay.ID,
		"amount":     pay.Amount.StringFixed(2),
		"status":     pay.Status,
	}))
	return pay, nil
}

func (s *PaymentService) apply(ctx context.Context, pay *models.Payment, in PaymentInput, partial bool) error {
	fe := FieldErrors{}
	if !partial {
		fe.require("order_id", in.OrderID != nil)
		fe.require("amount", in.Amount != nil)
		fe.require("method", in.Method != nil)
	}
	fe.money("amount", in.Amount)
	if in.OrderID != nil {
		if err := s.exists(ctx, fe, "order_id", &models.Order{}, *in.OrderID); err != nil {
			return err
		}
	}
	if err := fe.err(); err != nil {
		return err
	}

	if in.OrderID != nil {
		pay.OrderID = *in.OrderID
	}
	if in.Amount != nil {
		pay.Amount = *in.Amount
	}
	if in.Method != nil {
		pay.Method = *in.Method
	}
	if in.Status != nil {
		pay.Status = *in.Status
	}
	if in.TransactionReference != nil {
		pay.TransactionReference = in.TransactionReference
	}
	if in.PaidAt != nil {
		pay.PaidAt = in.PaidAt
	}
	if pay.Status == models.PaymentPaid && pay.PaidAt == nil {
		now := time.Now().UTC()
		pay.PaidAt = &now
	}
	return nil
}

type DeliveryInput struct {
	OrderID              *uint                  `json:"order_id"`
	DriverID             *uint                  `json:"driver_id"`
	Status               *models.DeliveryStatus `json:"status" binding:"omitempty,oneof=assigned picked_up delivered"`
	PickupAt             *time.Time             `json:"pickup_at"`
	DeliveredAt          *time.Time             `json:"delivered_at"`
	EstimatedTimeSeconds *int64                 `json:"estimated_time_seconds" binding:"omitempty,gte=0"`
}

type DeliveryService struct {
	base
}

func (s *DeliveryService) List(ctx context.Context, opts repository.ListOptions) ([]models.Delivery, int64, error) {
	return s.store.Deliveries.List(ctx, opts)
}

func (s *DeliveryService) Get(ctx context.Context, id uint) (*models.Delivery, error) {
	return s.store.Deliveries.Get(ctx, id)
}

func (s *DeliveryService) Create(ctx context.Context, p models.Principal, in DeliveryInput) (*models.Delivery, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	d := &models.Delivery{Status: models.DeliveryAssigned}
	if err := s.apply(ctx, d, in, false, true); err != nil {
		return nil, err
	}
	if err := s.store.Deliveries.Create(ctx, d); err != nil {
		return nil, err
	}
	return s.changed(ctx, p, d.ID)
}

func (s *DeliveryService) Update(ctx context.Context, p models.Principal, id uint, in DeliveryInput, partial bool) (*models.Delivery, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	d, err := s.store.Deliveries.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Order, d.Driver = nil, nil
	if err := s.apply(ctx, d, in, partial, false); err != nil {
		return nil, err
	}
	if err := s.store.Deliveries.Save(ctx, d); err != nil {
		return nil, err
	}
	return s.changed(ctx, p, id)
}

func (s *DeliveryService) Delete(ctx context.Context, p models.Principal, id uint) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	return s.store.Deliveries.Delete(ctx, id)
}

func (s *DeliveryService) changed(ctx context.Context, p models.Principal, id uint) (*models.Delivery, error) {
	d, err := s.store.Deliveries.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("delivery changed",
		zap.Uint("delivery_id", d.ID),
		zap.Uint("order_id", d.OrderID),
		zap.String("status", string(d.Status)),
		zap.Uint("by", p.UserID),
	)
	s.publish(ctx, events.New(events.DeliveryChanged, d.OrderID, map[string]any{
		"delivery_id": d.ID,
		"status":      d.Status,
	}))
	return d, nil
}

// apply validates and writes the input. A new delivery may start at any
// status; an existing one only moves forward one step at a time.
func (s *DeliveryService) apply(ctx context.Context, d *models.Delivery, in DeliveryInput, partial, creating bool) error {
	fe := FieldErrors{}
	if !partial {
		fe.require("order_id", in.OrderID != nil)
	}
	if in.Status != nil && !creating {
		if err := statemachine.CanAdvanceDelivery(d.Status, *in.Status); err != nil {
			fe.add("status", err.Error())
		}
	}
	if in.OrderID != nil {
		if err := s.exists(ctx, fe, "order_id", &models.Order{}, *in.OrderID); err != nil {
			return err
		}
	}
	if in.DriverID != nil {
		if err := s.exists(ctx, fe, "driver_id", &models.Driver{}, *in.DriverID); err != nil {
			return err
		}
	}
	if err := fe.err(); err != nil {
		return err
	}

	if in.OrderID != nil {
		d.OrderID = *in.OrderID
	}
	if in.DriverID != nil {
		d.DriverID = in.DriverID
	}
	if in.Status != nil {
		d.Status = *in.Status
	}
	if in.PickupAt != nil {
		d.PickupAt = in.PickupAt
	}
	if in.DeliveredAt != nil {
		d.DeliveredAt = in.DeliveredAt
	}
	if in.EstimatedTimeSeconds != nil {
		d.EstimatedTimeSeconds = in.EstimatedTimeSeconds
	}

	now := time.Now().UTC()
	if d.Status != models.DeliveryAssigned && d.PickupAt == nil {
		d.PickupAt = &now
	}
	if d.Status == models.DeliveryDelivered && d.DeliveredAt == nil {
		d.DeliveredAt = &now
	}
	return nil
}

type ReviewInput struct {
	Rating       *int    `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Comment      *string `json:"comment"`
	CustomerID   *uint   `json:"customer_id"`
	OrderID      *uint   `json:"order_id"`
	RestaurantID *uint   `json:"restaurant_id"`
	DriverID     *uint   `json:"driver_id"`
}

type ReviewService struct {
	base
}

func (s *ReviewService) List(ctx context.Context, p models.Principal, opts repository.ListOptions) ([]models.Review, int64, error) {
	return s.store.Reviews.List(ctx, opts, reviewScope(p))
}

func (s *ReviewService) Get(ctx context.Context, p models.Principal, id uint) (*models.Review, error) {
	return s.store.Reviews.Get(ctx, id, reviewScope(p))
}

// Create stores a review. A customer always reviews as themselves.
func (s *ReviewService) Create(ctx context.Context, p models.Principal, in ReviewInput) (*models.Review, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	if p.IsCustomer() {
		in.CustomerID = &p.CustomerID
	}
	r := &models.Review{Rating: 5}
	if err := s.apply(ctx, p, r, in, false); err != nil {
		return nil, err
	}
	if err := s.store.Reviews.Create(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info("review created", zap.Uint("review_id", r.ID), zap.Int("rating", r.Rating))
	return s.store.Reviews.Get(ctx, r.ID, nil)
}

func (s *ReviewService) Update(ctx context.Context, p models.Principal, id uint, in ReviewInput, partial bool) (*models.Review, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	r, err := s.store.Reviews.Get(ctx, id, reviewScope(p))
	if err != nil {
		return nil, err
	}
	if p.IsCustomer() {
		if in.CustomerID != nil && *in.CustomerID != p.CustomerID {
			return nil, forbidden("a review cannot be moved to another customer")
		}
		in.CustomerID = &p.CustomerID
	}
	r.Customer, r.Restaurant = nil, nil
	if err := s.apply(ctx, p, r, in, partial); err != nil {
		return nil, err
	}
	if err := s.store.Reviews.Save(ctx, r); err != nil {
		return nil, err
	}
	return s.store.Reviews.Get(ctx, id, nil)
}

func (s *ReviewService) Delete(ctx context.Context, p models.Principal, id uint) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	if _, err := s.store.Reviews.Get(ctx, id, reviewScope(p)); err != nil {
		return err
	}
	return s.store.Reviews.Delete(ctx, id)
}

func (s *ReviewService) apply(ctx context.Context, p models.Principal, r *models.Review, in ReviewInput, partial bool) error {
	fe := FieldErrors{}
	if !partial {
		fe.require("customer_id", in.CustomerID != nil)
		fe.require("order_id", in.OrderID != nil)
	}
	checks := []struct {
		field string
		model any
		id    *uint
	}{
		{"customer_id", &models.Customer{}, in.CustomerID},
		{"restaurant_id", &models.Restaurant{}, in.RestaurantID},
		{"driver_id", &models.Driver{}, in.DriverID},
	}
	for _, c := range checks {
		if c.id == nil {
			continue
		}
		if err := s.exists(ctx, fe, c.field, c.model, *c.id); err != nil {
			return err
		}
	}
	if in.OrderID != nil {
		// customers review their own orders only
		if _, err := s.store.Orders.Get(ctx, *in.OrderID, orderScope(p)); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			fe.add("order_id", "does not exist")
		}
	}
	if err := fe.err(); err != nil {
		return err
	}

	if in.Rating != nil {
		r.Rating = *in.Rating
	}
	if in.Comment != nil {
		r.Comment = in.Comment
	}
	if in.CustomerID != nil {
		r.CustomerID = *in.CustomerID
	}
	if in.OrderID != nil {
		r.OrderID = *in.OrderID
	}
	if in.RestaurantID != nil {
		r.RestaurantID = in.RestaurantID
	}
	if in.DriverID != nil {
		r.DriverID = in.DriverID
	}
	return nil
}
