package handlers

import (
	"time"

	"restaurant-admin-api/models"

	"github.com/shopspring/decimal"
)

// Read shapes. Each view embeds its model and replaces nested relations with
// their own views, so a relation renders the same wherever it appears.

type reviewMini struct {
	ID           uint      `json:"id"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment"`
	CustomerName *string   `json:"customer_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type restaurantView struct {
	models.Restaurant
	Reviews       []reviewMini     `json:"reviews"`
	AverageRating *decimal.Decimal `json:"average_rating"`
}

func restaurantOf(r *models.Restaurant) *restaurantView {
	if r == nil {
		return nil
	}
	v := &restaurantView{Restaurant: *r, Reviews: make([]reviewMini, 0, len(r.Reviews))}
	sum := int64(0)
	for _, rv := range r.Reviews {
		m := reviewMini{ID: rv.ID, Rating: rv.Rating, Comment: rv.Comment, CreatedAt: rv.CreatedAt}
		if rv.Customer != nil {
			name := rv.Customer.FullName
			m.CustomerName = &name
		}
		v.Reviews = append(v.Reviews, m)
		sum += int64(rv.Rating)
	}
	if n := len(r.Reviews); n > 0 {
		avg := decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(int64(n)), 2)
		v.AverageRating = &avg
	}
	return v
}

type menuView struct {
	models.Menu
	Restaurant *restaurantView `json:"restaurant,omitempty"`
}

func menuOf(m *models.Menu) *menuView {
	if m == nil {
		return nil
	}
	return &menuView{Menu: *m, Restaurant: restaurantOf(m.Restaurant)}
}

type dishView struct {
	models.Dish
	Menu *menuView `json:"menu,omitempty"`
}

func dishOf(d *models.Dish) *dishView {
	return &dishView{Dish: *d, Menu: menuOf(d.Menu)}
}

type customerView struct {
	models.Customer
	UserFullName *string `json:"user_full_name"`
}

func customerOf(c *models.Customer) *customerView {
	if c == nil {
		return nil
	}
	v := &customerView{Customer: *c}
	if c.User != nil {
		name := c.User.FullName()
		v.UserFullName = &name
	}
	return v
}

type orderView struct {
	models.Order
	Customer   *customerView   `json:"customer,omitempty"`
	Restaurant *restaurantView `json:"restaurant,omitempty"`
}

func orderOf(o *models.Order) *orderView {
	if o == nil {
		return nil
	}
	v := &orderView{Order: *o, Customer: customerOf(o.Customer), Restaurant: restaurantOf(o.Restaurant)}
	if v.Items == nil {
		v.Items = []models.OrderItem{}
	}
	return v
}

type paymentView struct {
	models.Payment
	Order         *orderView       `json:"order,omitempty"`
	OrderTotal    *decimal.Decimal `json:"order_total"`
	Outstanding   *decimal.Decimal `json:"outstanding"`
	StatusDisplay string           `json:"status_display"`
}

var paymentStatusLabels = map[models.PaymentStatus]string{
	models.PaymentPending: "Pending",
	models.PaymentPaid:    "Paid",
	models.PaymentFailed:  "Failed",
}

func paymentOf(p *models.Payment) *paymentView {
	v := &paymentView{Payment: *p, Order: orderOf(p.Order), StatusDisplay: paymentStatusLabels[p.Status]}
	if p.Order != nil {
		total := p.Order.TotalAmount
		outstanding := total.Sub(p.Amount)
		v.OrderTotal, v.Outstanding = &total, &outstanding
	}
	return v
}

type deliveryView struct {
	models.Delivery
	Order *orderView `json:"order,omitempty"`
}

func deliveryOf(d *models.Delivery) *deliveryView {
	return &deliveryView{Delivery: *d, Order: orderOf(d.Order)}
}

type reviewView struct {
	models.Review
	Customer   *customerView   `json:"customer,omitempty"`
	Restaurant *restaurantView `json:"restaurant,omitempty"`
}

func reviewOf(r *models.Review) *reviewView {
	return &reviewView{Review: *r, Customer: customerOf(r.Customer), Restaurant: restaurantOf(r.Restaurant)}
}

// each maps a loaded page through a view function.
func each[T any, V any](rows []T, view func(*T) V) []V {
	out := make([]V, len(rows))
	for i := range rows {
		out[i] = view(&rows[i])
	}
	return out
}
