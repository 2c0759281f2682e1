package repository

import (
	"context"
	"testing"

	"restaurant-admin-api/models"
	"restaurant-admin-api/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	store      *Store
	restaurant models.Restaurant
	customer   models.Customer
	other      models.Customer
	pasta      models.Dish
	soup       models.Dish
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	f := &fixture{store: NewStore(db)}

	f.restaurant = models.Restaurant{Name: "Luigi's", Address: "1 Main St", Phone: "555-0100", Email: "luigi@example.com", IsActive: true}
	require.NoError(t, db.Create(&f.restaurant).Error)
	menu := models.Menu{Name: "Dinner", IsActive: true, RestaurantID: f.restaurant.ID}
	require.NoError(t, db.Create(&menu).Error)
	f.pasta = models.Dish{Name: "Pasta", Price: dec("5.99"), IsAvailable: true, PrepTimeMinutes: 10, MenuID: menu.ID}
	f.soup = models.Dish{Name: "Soup", Price: dec("2.99"), IsAvailable: true, PrepTimeMinutes: 5, MenuID: menu.ID}
	require.NoError(t, db.Create(&f.pasta).Error)
	require.NoError(t, db.Create(&f.soup).Error)

	f.customer = models.Customer{FullName: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0001"}
	f.other = models.Customer{FullName: "Alan Turing", Email: "alan@example.com", Phone: "555-0002"}
	require.NoError(t, db.Create(&f.customer).Error)
	require.NoError(t, db.Create(&f.other).Error)
	return f
}

func (f *fixture) order(t *testing.T, customer models.Customer, items ...models.OrderItem) *models.Order {
	t.Helper()
	o, err := f.store.Orders.Create(context.Background(), &models.Order{
		DeliveryAddress: "221B Baker St",
		Status:          models.StatusPending,
		CustomerID:      customer.ID,
		RestaurantID:    f.restaurant.ID,
		Items:           items,
	}, 0)
	require.NoError(t, err)
	return o
}

func (f *fixture) line(d models.Dish, qty int) models.OrderItem {
	return models.OrderItem{DishID: d.ID, Quantity: qty, UnitPrice: d.Price}
}

func storedTotal(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var o models.Order
	require.NoError(t, db.First(&o, id).Error)
	return o.TotalAmount.StringFixed(2)
}

func TestCreateComputesTotal(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, f.customer, f.line(f.pasta, 2), f.line(f.soup, 1))

	assert.Equal(t, "14.97", o.TotalAmount.StringFixed(2))
	assert.Equal(t, uint(1), o.Version)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, "14.97", storedTotal(t, f.store.DB, o.ID))

	history, err := f.store.Orders.History(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusPending, history[0].ToStatus)
}

func TestCreateWithoutItemsTotalsZero(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, f.customer)
	assert.True(t, o.TotalAmount.IsZero())
	assert.NotNil(t, o.Items)
}

func TestMutateWithoutChangesKeepsTotal(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, f.customer, f.line(f.pasta, 2), f.line(f.soup, 1))

	again, err := f.store.Orders.Mutate(context.Background(), o.ID, o.Version, nil)
	require.NoError(t, err)
	assert.Equal(t, "14.97", again.TotalAmount.StringFixed(2))
	assert.Equal(t, o.Version+1, again.Version)
}

func TestMutateQuantityChangeRecomputes(t *testing.T) {
	f := newFixture(t)
	item := models.OrderItem{DishID: f.pasta.ID, Quantity: 1, UnitPrice: dec("3.25")}
	o := f.order(t, f.customer, item)
	require.Equal(t, "3.25", o.TotalAmount.StringFixed(2))

	updated, err := f.store.Orders.Mutate(context.Background(), o.ID, o.Version, func(u *OrderTx) error {
		it, err := u.ItemIn(o.Items[0].ID)
		if err != nil {
			return err
		}
		it.Quantity = 3
		return u.SaveItem(it)
	})
	require.NoError(t, err)
	assert.Equal(t, "9.75", updated.TotalAmount.StringFixed(2))
	assert.Equal(t, "9.75", storedTotal(t, f.store.DB, o.ID))
}

func TestMutateRemovingAllItemsZeroesTotal(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, f.customer, f.line(f.pasta, 2), f.line(f.soup, 1))

	updated, err := f.store.Orders.Mutate(context.Background(), o.ID, o.Version, func(u *OrderTx) error {
		for _, it := range o.Items {
			if err := u.DeleteItem(it.ID); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.IsZero())
	assert.Empty(t, updated.Items)
}

func TestMutateReplaceItems(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, f.customer, f.line(f.pasta, 1))

	updated, err := f.store.Orders.Mutate(context.Background(), o.ID, 0, func(u *OrderTx) error {
		return u.ReplaceItems([]models.OrderItem{f.line(f.soup, 4)})
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, f.soup.ID, updated.Items[0].DishID)
	assert.Equal(t, "11.96", updated.TotalAmount.StringFixed(2))
}

func TestMutateStaleVersionConflicts(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, f.customer, f.line(f.pasta, 1))

	_, err := f.store.Orders.Mutate(context.Background(), o.ID, o.Version, func(u *OrderTx) error {
		return u.AddItems([]models.OrderItem{f.line(f.soup, 1)})
	})
	require.NoError(t, err)

	_, err = f.store.Orders.Mutate(context.Background(), o.ID, o.Version, func(u *OrderTx) error {
		return u.AddItems([]models.OrderItem{f.line(f.soup, 5)})
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "8.98", storedTotal(t, f.store.DB, o.ID))
}

func TestMutateRollsBackOnError(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, f.customer, f.line(f.pasta, 1))

	_, err := f.store.Orders.Mutate(context.Background(), o.ID, o.Version, func(u *OrderTx) error {
		if err := u.AddItems([]models.OrderItem{f.line(f.soup, 1)}); err != nil {
			return err
		}
		return ErrNotFound
	})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.store.Orders.Get(context.Background(), o.ID, nil)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, o.Version, got.Version)
	assert.Equal(t, "5.99", got.TotalAmount.StringFixed(2))
}

func TestMutateMissingOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Orders.Mutate(context.Background(), 999, 0, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMovingItemRecomputesBothOrders(t *testing.T) {
	f := newFixture(t)
	src := f.order(t, f.customer, f.line(f.pasta, 2), f.line(f.soup, 1))
	dst := f.order(t, f.customer, f.line(f.soup, 1))

	_, err := f.store.Orders.Mutate(context.Background(), src.ID, src.Version, func(u *OrderTx) error {
		it, err := u.ItemIn(src.Items[0].ID)
		if err != nil {
			return err
		}
		target, err := u.Also(dst.ID)
		if err != nil {
			return err
		}
		it.OrderID = target.ID
		return u.SaveItem(it)
	})
	require.NoError(t, err)

	assert.Equal(t, "2.99", storedTotal(t, f.store.DB, src.ID))
	assert.Equal(t, "14.97", storedTotal(t, f.store.DB, dst.ID))
}

func TestItemInRejectsForeignItem(t *testing.T) {
	f := newFixture(t)
	a := f.order(t, f.customer, f.line(f.pasta, 1))
	b := f.order(t, f.other, f.line(f.soup, 1))

	_, err := f.store.Orders.Mutate(context.Background(), a.ID, 0, func(u *OrderTx) error {
		_, err := u.ItemIn(b.Items[0].ID)
		return err
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesOwnedRows(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, f.customer, f.line(f.pasta, 1))
	require.NoError(t, f.store.DB.Create(&models.Payment{Amount: dec("5.99"), Method: models.MethodCard, Status: models.PaymentPending, OrderID: o.ID}).Error)

	require.NoError(t, f.store.Orders.Delete(context.Background(), o.ID))

	var n int64
	f.store.DB.Model(&models.OrderItem{}).Where("order_id = ?", o.ID).Count(&n)
	assert.Zero(t, n)
	f.store.DB.Model(&models.Payment{}).Where("order_id = ?", o.ID).Count(&n)
	assert.Zero(t, n)

	_, err := f.store.Orders.Get(context.Background(), o.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.store.Orders.Delete(context.Background(), o.ID), ErrNotFound)
}

func TestOrderScope(t *testing.T) {
	f := newFixture(t)
	mine := f.order(t, f.customer, f.line(f.pasta, 1))
	f.order(t, f.other, f.line(f.soup, 1))

	scope := Where("orders.customer_id", f.customer.ID)
	orders, total, err := f.store.Orders.List(context.Background(), ListOptions{}, scope)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)

	_, _, err = f.store.Orders.List(context.Background(), ListOptions{}, Nothing)
	require.NoError(t, err)
	items, n, err := f.store.Orders.Items(context.Background(), ListOptions{}, Nothing)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, items)

	_, err = f.store.Orders.Item(context.Background(), mine.Items[0].ID, Where("orders.customer_id", f.other.ID))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderListSearchAndFilter(t *testing.T) {
	f := newFixture(t)
	f.order(t, f.customer, f.line(f.pasta, 1))
	f.order(t, f.other, f.line(f.soup, 1))

	orders, total, err := f.store.Orders.List(context.Background(), ListOptions{Search: "ADA"}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, f.customer.ID, orders[0].CustomerID)

	orders, _, err = f.store.Orders.List(context.Background(), ListOptions{
		Filters: map[string]string{"customer_id": "999"},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	f.order(t, f.customer, f.line(f.pasta, 2))
	f.order(t, f.other, f.line(f.soup, 1))

	rows, err := f.store.Orders.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusPending, rows[0].Status)
	assert.EqualValues(t, 2, rows[0].Count)
	assert.Equal(t, "14.97", rows[0].Amount.StringFixed(2))
}
