package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodCard   PaymentMethod = "card"
	MethodOnline PaymentMethod = "online"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment is a ledger entry against an order. Amount is recorded as given and
// is not forced to match the order total.
type Payment struct {
	ID                   uint            `json:"id" gorm:"primaryKey"`
	Amount               decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Method               PaymentMethod   `json:"method" gorm:"size:20;not null"`
	Status               PaymentStatus   `json:"status" gorm:"size:20;not null;default:'pending'"`
	TransactionReference *string         `json:"transaction_reference" gorm:"size:255"`
	PaidAt               *time.Time      `json:"paid_at" gorm:"index"`
	OrderID              uint            `json:"order_id" gorm:"uniqueIndex;not null"`
	Order                *Order          `json:"order,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time       `json:"created_at"`
}

type DeliveryStatus string

const (
	DeliveryAssigned  DeliveryStatus = "assigned"
	DeliveryPickedUp  DeliveryStatus = "picked_up"
	DeliveryDelivered DeliveryStatus = "delivered"
)

type Delivery struct {
	ID                   uint           `json:"id" gorm:"primaryKey"`
	Status               DeliveryStatus `json:"status" gorm:"size:20;not null;default:'assigned'"`
	PickupAt             *time.Time     `json:"pickup_at"`
	DeliveredAt          *time.Time     `json:"delivered_at"`
	EstimatedTimeSeconds *int64         `json:"estimated_time_seconds"`
	OrderID              uint           `json:"order_id" gorm:"uniqueIndex;not null"`
	Order                *Order         `json:"order,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DriverID             *uint          `json:"driver_id" gorm:"index"`
	Driver               *Driver        `json:"driver,omitempty" gorm:"foreignKey:DriverID;constraint:OnDelete:SET NULL"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

type Review struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Rating       int         `json:"rating" gorm:"not null;default:5;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	Comment      *string     `json:"comment"`
	CustomerID   uint        `json:"customer_id" gorm:"not null;index"`
	Customer     *Customer   `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	RestaurantID *uint       `json:"restaurant_id" gorm:"index"`
	Restaurant   *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	DriverID     *uint       `json:"driver_id" gorm:"index"`
	Driver       *Driver     `json:"driver,omitempty" gorm:"foreignKey:DriverID;constraint:OnDelete:SET NULL"`
	OrderID      uint        `json:"order_id" gorm:"not null;index"`
	Order        *Order      `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time   `json:"created_at" gorm:"index"`
}
