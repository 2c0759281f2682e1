package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("conflict")
)

// Scope narrows a query, typically to the rows a caller may see.
type Scope func(*gorm.DB) *gorm.DB

// Everything leaves the query untouched.
func Everything(db *gorm.DB) *gorm.DB { return db }

// Nothing matches no rows.
func Nothing(db *gorm.DB) *gorm.DB { return db.Where("1 = 0") }

// Where restricts column to value.
func Where(column string, value any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

// Store groups the repositories over one database handle.
type Store struct {
	DB          *gorm.DB
	Users       *UserRepository
	Restaurants *RestaurantRepository
	Menus       *MenuRepository
	Dishes      *DishRepository
	Customers   *CustomerRepository
	Drivers     *DriverRepository
	Orders      *OrderRepository
	Payments    *PaymentRepository
	Deliveries  *DeliveryRepository
	Reviews     *ReviewRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		DB:          db,
		Users:       &UserRepository{db: db},
		Restaurants: &RestaurantRepository{db: db},
		Menus:       &MenuRepository{db: db},
		Dishes:      &DishRepository{db: db},
		Customers:   &CustomerRepository{db: db},
		Drivers:     &DriverRepository{db: db},
		Orders:      &OrderRepository{db: db},
		Payments:    &PaymentRepository{db: db},
		Deliveries:  &DeliveryRepository{db: db},
		Reviews:     &ReviewRepository{db: db},
	}
}

// Exists reports whether a row of model with the given id exists.
func (s *Store) Exists(ctx context.Context, model any, id uint) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), isForeignKeyViolation(err):
		return fmt.Errorf("%w: record is still referenced: %v", ErrConflict, err)
	case isLockFailure(err):
		return fmt.Errorf("%w: concurrent update, retry the request: %v", ErrConflict, err)
	}
	return err
}

// isLockFailure matches postgres deadlocks and serialization failures.
func isLockFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40P01" || pgErr.Code == "40001"
	}
	msg := err.Error()
	return strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not serialize access")
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func isForeignKeyViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint")
}

func first[T any](ctx context.Context, db *gorm.DB, id uint, scope Scope, preloads ...string) (*T, error) {
	q := db.WithContext(ctx)
	if scope != nil {
		q = q.Scopes(scope)
	}
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var out T
	if err := q.First(&out, id).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func create[T any](ctx context.Context, db *gorm.DB, v *T) error {
	return translate(db.WithContext(ctx).Omit(clause.Associations).Create(v).Error)
}

func save[T any](ctx context.Context, db *gorm.DB, v *T) error {
	return translate(db.WithContext(ctx).Omit(clause.Associations).Save(v).Error)
}

func remove[T any](ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
