package services

import (
	"context"
	"strings"

	"restaurant-admin-api/models"
	"restaurant-admin-api/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CustomerInput struct {
	FullName *string `json:"full_name" binding:"omitempty,max=255"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	UserID   *uint   `json:"user"`
}

type CustomerService struct {
	base
}

func (s *CustomerService) List(ctx context.Context, opts repository.ListOptions) ([]models.Customer, int64, error) {
	return s.store.Customers.List(ctx, opts)
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	return s.store.Customers.Get(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, p models.Principal, in CustomerInput) (*models.Customer, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	c := &models.Customer{}
	if err := s.apply(ctx, c, in, false); err != nil {
		return nil, err
	}
	if err := s.store.Customers.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("customer created", zap.Uint("customer_id", c.ID), zap.Uint("by", p.UserID))
	return s.store.Customers.Get(ctx, c.ID)
}

func (s *CustomerService) Update(ctx context.Context, p models.Principal, id uint, in CustomerInput, partial bool) (*models.Customer, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	c, err := s.store.Customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, c, in, partial); err != nil {
		return nil, err
	}
	if err := s.store.Customers.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.store.Customers.Get(ctx, id)
}

func (s *CustomerService) Delete(ctx context.Context, p models.Principal, id uint) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	return s.store.Customers.Delete(ctx, id)
}

func (s *CustomerService) apply(ctx context.Context, c *models.Customer, in CustomerInput, partial bool) error {
	fe := FieldErrors{}
	if !partial {
		fe.require("full_name", given(in.FullName))
		fe.require("email", given(in.Email))
		fe.require("phone", given(in.Phone))
	}
	for field, v := range map[string]*string{"full_name": in.FullName, "email": in.Email, "phone": in.Phone} {
		if v != nil && !given(v) {
			fe.add(field, "may not be blank")
		}
	}
	if in.UserID != nil {
		if err := s.exists(ctx, fe, "user", &models.User{}, *in.UserID); err != nil {
			return err
		}
	}
	if err := fe.err(); err != nil {
		return err
	}

	if in.FullName != nil {
		c.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.UserID != nil {
		c.UserID = in.UserID
		c.User = nil
	}
	return nil
}

type DriverInput struct {
	FullName    *string          `json:"full_name" binding:"omitempty,max=255"`
	Phone       *string          `json:"phone" binding:"omitempty,max=20"`
	VehicleInfo *string          `json:"vehicle_info" binding:"omitempty,max=255"`
	IsActive    *bool            `json:"is_active"`
	IsOnline    *bool            `json:"is_online"`
	Rating      *decimal.Decimal `json:"rating" binding:"omitempty,gte=0,lte=5"`
}

var maxRating = decimal.NewFromInt(5)

type DriverService struct {
	base
}

func (s *DriverService) List(ctx context.Context, opts repository.ListOptions) ([]models.Driver, int64, error) {
	return s.store.Drivers.List(ctx, opts)
}

func (s *DriverService) Get(ctx context.Context, id uint) (*models.Driver, error) {
	return s.store.Drivers.Get(ctx, id)
}

func (s *DriverService) Create(ctx context.Context, p models.Principal, in DriverInput) (*models.Driver, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	d := &models.Driver{IsActive: true}
	if err := in.apply(d, false); err != nil {
		return nil, err
	}
	if err := s.store.Drivers.Create(ctx, d); err != nil {
		return nil, err
	}
	return s.store.Drivers.Get(ctx, d.ID)
}

func (s *DriverService) Update(ctx context.Context, p models.Principal, id uint, in DriverInput, partial bool) (*models.Driver, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	d, err := s.store.Drivers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(d, partial); err != nil {
		return nil, err
	}
	if err := s.store.Drivers.Save(ctx, d); err != nil {
		return nil, err
	}
	return s.store.Drivers.Get(ctx, id)
}

func (s *DriverService) Delete(ctx context.Context, p models.Principal, id uint) error {
	if err := requireAuth(p); err != nil {
		return err
	}
	return s.store.Drivers.Delete(ctx, id)
}

func (in DriverInput) apply(d *models.Driver, partial bool) error {
	fe := FieldErrors{}
	if !partial {
		fe.require("full_name", given(in.FullName))
		fe.require("phone", given(in.Phone))
		fe.require("vehicle_info", given(in.VehicleInfo))
	}
	if in.Rating != nil {
		switch {
		case in.Rating.IsNegative() || in.Rating.GreaterThan(maxRating):
			fe.add("rating", "must be between 0 and 5")
		case !in.Rating.Equal(in.Rating.Truncate(2)):
			fe.add("rating", "must have at most 2 decimal places")
		}
	}
	if err := fe.err(); err != nil {
		return err
	}

	if in.FullName != nil {
		d.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Phone != nil {
		d.Phone = *in.Phone
	}
	if in.VehicleInfo != nil {
		d.VehicleInfo = *in.VehicleInfo
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
	if in.IsOnline != nil {
		d.IsOnline = *in.IsOnline
	}
	if in.Rating != nil {
		d.Rating = *in.Rating
	}
	return nil
}
