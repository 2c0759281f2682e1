package repository

import (
	"context"
	"errors"

	"restaurant-admin-api/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Get(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](ctx, r.db, id, nil)
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return create(ctx, r.db, u)
}

// Register inserts a user and, when given, its customer profile in one
// transaction.
func (r *UserRepository) Register(ctx context.Context, u *models.User, c *models.Customer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := create(ctx, tx, u); err != nil {
			return err
		}
		if c == nil {
			return nil
		}
		c.UserID = &u.ID
		return create(ctx, tx, c)
	})
}

func (r *UserRepository) Promote(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_staff", true).Error
}

// Principal resolves the caller's role: staff, customer (with a linked
// profile) or plain member.
func (r *UserRepository) Principal(ctx context.Context, userID uint) (models.Principal, error) {
	u, err := r.Get(ctx, userID)
	if err != nil {
		return models.Anonymous(), err
	}
	if u.IsStaff {
		return models.Principal{UserID: u.ID, Role: models.RoleStaff}, nil
	}
	var c models.Customer
	err = r.db.WithContext(ctx).Select("id").Where("user_id = ?", u.ID).First(&c).Error
	switch {
	case err == nil:
		return models.Principal{UserID: u.ID, Role: models.RoleCustomer, CustomerID: c.ID}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.Principal{UserID: u.ID, Role: models.RoleMember}, nil
	}
	return models.Anonymous(), err
}

var customerListSpec = listSpec{
	table:        "customers",
	filters:      map[string]string{"email": "customers.email", "phone": "customers.phone"},
	search:       []string{"customers.full_name", "customers.email", "customers.phone"},
	ordering:     map[string]string{"full_name": "customers.full_name", "created_at": "customers.created_at"},
	defaultOrder: "customers.full_name ASC",
	preloads:     []string{"User"},
}

type CustomerRepository struct {
	db *gorm.DB
}

func (r *CustomerRepository) List(ctx context.Context, opts ListOptions) ([]models.Customer, int64, error) {
	return list[models.Customer](ctx, r.db, customerListSpec, opts, nil)
}

func (r *CustomerRepository) Get(ctx context.Context, id uint) (*models.Customer, error) {
	return first[models.Customer](ctx, r.db, id, nil, "User")
}

func (r *CustomerRepository) Create(ctx context.Context, v *models.Customer) error {
	return create(ctx, r.db, v)
}

func (r *CustomerRepository) Save(ctx context.Context, v *models.Customer) error {
	return save(ctx, r.db, v)
}

func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	return remove[models.Customer](ctx, r.db, id)
}

var driverListSpec = listSpec{
	table:        "drivers",
	flags:        map[string]string{"is_online": "drivers.is_online", "is_active": "drivers.is_active"},
	ordering:     map[string]string{"rating": "drivers.rating"},
	defaultOrder: "drivers.rating DESC",
}

type DriverRepository struct {
	db *gorm.DB
}

func (r *DriverRepository) List(ctx context.Context, opts ListOptions) ([]models.Driver, int64, error) {
	return list[models.Driver](ctx, r.db, driverListSpec, opts, nil)
}

func (r *DriverRepository) Get(ctx context.Context, id uint) (*models.Driver, error) {
	return first[models.Driver](ctx, r.db, id, nil)
}

func (r *DriverRepository) Create(ctx context.Context, v *models.Driver) error {
	return create(ctx, r.db, v)
}

func (r *DriverRepository) Save(ctx context.Context, v *models.Driver) error {
	return save(ctx, r.db, v)
}

func (r *DriverRepository) Delete(ctx context.Context, id uint) error {
	return remove[models.Driver](ctx, r.db, id)
}
