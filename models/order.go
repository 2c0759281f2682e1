package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPreparing  OrderStatus = "preparing"
	StatusDelivering OrderStatus = "delivering"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusDelivering, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is a customer's purchase against one restaurant. TotalAmount is derived
// from Items and is only written through RecomputeTotal.
type Order struct {
	ID                    uint                 `json:"id" gorm:"primaryKey"`
	DeliveryAddress       string               `json:"delivery_address" gorm:"not null"`
	Status                OrderStatus          `json:"status" gorm:"size:20;not null;default:'pending';index"`
	TotalAmount           decimal.Decimal      `json:"total_amount" gorm:"type:decimal(10,2);not null;default:0"`
	PlacedAt              time.Time            `json:"placed_at" gorm:"autoCreateTime;index"`
	UpdatedAt             time.Time            `json:"updated_at"`
	EstimatedDeliveryTime *time.Time           `json:"estimated_delivery_time"`
	Notes                 *string              `json:"notes"`
	CustomerID            uint                 `json:"customer_id" gorm:"not null;index"`
	Customer              *Customer            `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	RestaurantID          uint                 `json:"restaurant_id" gorm:"not null;index"`
	Restaurant            *Restaurant          `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	DriverID              *uint                `json:"driver_id"`
	Driver                *Driver              `json:"driver,omitempty" gorm:"foreignKey:DriverID;constraint:OnDelete:SET NULL"`
	Items                 []OrderItem          `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory         []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Version               uint                 `json:"version" gorm:"not null;default:1"`
}

// RecomputeTotal sets TotalAmount to the sum of the line item subtotals and
// returns it. An order without items totals zero.
func (o *Order) RecomputeTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	o.TotalAmount = total
	return total
}

// CheckTotal reports a total that no longer fits the amount column.
func (o *Order) CheckTotal() error {
	if o.TotalAmount.GreaterThan(MaxAmount) {
		return &ItemError{Field: "total_amount", Message: "order total exceeds the maximum amount"}
	}
	return nil
}

// OrderItem is a (dish, quantity, captured unit price) tuple owned by one order.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Quantity  int             `json:"quantity" gorm:"not null;default:1;check:chk_order_items_quantity,quantity >= 1"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"` // snapshot price at time of order
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	DishID    uint            `json:"dish_id" gorm:"not null;index"`
	Dish      *Dish           `json:"dish,omitempty" gorm:"foreignKey:DishID;constraint:OnDelete:RESTRICT"`
}

// Subtotal is quantity × unit price. It is never stored.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// MaxAmount is the largest value a decimal(10,2) column holds.
var MaxAmount = decimal.RequireFromString("99999999.99")

// ItemError reports the first invalid field of a line item.
type ItemError struct {
	Field   string
	Message string
}

func (e *ItemError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks an item before it can reach the total calculation.
func (i OrderItem) Validate() error {
	if i.Quantity < 1 {
		return &ItemError{Field: "quantity", Message: "must be at least 1"}
	}
	if i.UnitPrice.IsNegative() {
		return &ItemError{Field: "unit_price", Message: "must not be negative"}
	}
	if i.UnitPrice.Exponent() < -2 && !i.UnitPrice.Equal(i.UnitPrice.Truncate(2)) {
		return &ItemError{Field: "unit_price", Message: "must have at most 2 decimal places"}
	}
	if i.UnitPrice.GreaterThan(MaxAmount) {
		return &ItemError{Field: "unit_price", Message: "exceeds the maximum amount"}
	}
	if i.Subtotal().GreaterThan(MaxAmount) {
		return &ItemError{Field: "quantity", Message: "line total exceeds the maximum amount"}
	}
	return nil
}

// MarshalJSON adds the computed total_price to the stored fields.
func (i OrderItem) MarshalJSON() ([]byte, error) {
	type plain OrderItem
	return json.Marshal(struct {
		plain
		TotalPrice decimal.Decimal `json:"total_price"`
	}{plain(i), i.Subtotal()})
}

// OrderStatusHistory tracks every status change of an order
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
