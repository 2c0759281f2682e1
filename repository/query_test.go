package repository

import (
	"context"
	"testing"

	"restaurant-admin-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		page, size    int
		offset, limit int
	}{
		{0, 20, 0, -1},
		{1, 0, 0, DefaultPageSize},
		{1, 5, 0, 5},
		{3, 5, 10, 5},
		{2, MaxPageSize + 1, DefaultPageSize, DefaultPageSize},
	}
	for _, tt := range tests {
		offset, limit := Paginate(tt.page, tt.size)
		assert.Equal(t, tt.offset, offset, "page %d size %d", tt.page, tt.size)
		assert.Equal(t, tt.limit, limit, "page %d size %d", tt.page, tt.size)
	}
}

func TestOrderClause(t *testing.T) {
	allowed := map[string]string{"name": "t.name", "price": "t.price"}

	assert.Equal(t, "t.id DESC", orderClause("", allowed, "t.id DESC"))
	assert.Equal(t, "t.price DESC", orderClause("-price", allowed, "x"))
	assert.Equal(t, "t.name ASC, t.price DESC", orderClause("name, -price", allowed, "x"))
	assert.Equal(t, "x", orderClause("password", allowed, "x"))
	assert.Equal(t, "t.name ASC", orderClause("password,name", allowed, "x"))
}

func TestRestaurantListSearchOrderPaginate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, r := range []models.Restaurant{
		{Name: "Burger Barn", Address: "9 Elm St", Phone: "555-0200", Email: "bb@example.com", IsActive: true},
		{Name: "Pizza Palace", Address: "4 Oak Ave", Phone: "555-0300", Email: "pp@example.com", IsActive: true},
	} {
		r := r
		require.NoError(t, f.store.Restaurants.Create(ctx, &r))
	}

	got, total, err := f.store.Restaurants.List(ctx, ListOptions{Search: "pizza"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Pizza Palace", got[0].Name)

	got, _, err = f.store.Restaurants.List(ctx, ListOptions{Search: "oak palace"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, _, err = f.store.Restaurants.List(ctx, ListOptions{Search: "oak barn"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, total, err = f.store.Restaurants.List(ctx, ListOptions{Ordering: "-name", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 2)
	assert.Equal(t, "Pizza Palace", got[0].Name)
	assert.Equal(t, "Luigi's", got[1].Name)

	got, _, err = f.store.Restaurants.List(ctx, ListOptions{Filters: map[string]string{"name": "Burger Barn"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "555-0200", got[0].Phone)
}

func TestDishListSearchesRestaurantName(t *testing.T) {
	f := newFixture(t)
	dishes, total, err := f.store.Dishes.List(context.Background(), ListOptions{Search: "luigi", Ordering: "price"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, dishes, 2)
	assert.Equal(t, "Soup", dishes[0].Name)
	require.NotNil(t, dishes[0].Menu)
	require.NotNil(t, dishes[0].Menu.Restaurant)
	assert.Equal(t, f.restaurant.ID, dishes[0].Menu.Restaurant.ID)
}

func TestUniqueViolationIsConflict(t *testing.T) {
	f := newFixture(t)
	dup := models.Customer{FullName: "Copy", Email: f.customer.Email, Phone: "555-9999"}
	err := f.store.Customers.Create(context.Background(), &dup)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRestaurantDeleteCascadesCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Restaurants.Delete(ctx, f.restaurant.ID))

	_, err := f.store.Dishes.Get(ctx, f.pasta.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.store.Restaurants.Delete(ctx, f.restaurant.ID), ErrNotFound)
}

func TestPrincipalResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	staff := models.User{Email: "staff@example.com", PasswordHash: "x", IsStaff: true}
	member := models.User{Email: "member@example.com", PasswordHash: "x"}
	buyer := models.User{Email: "buyer@example.com", PasswordHash: "x"}
	require.NoError(t, f.store.Users.Create(ctx, &staff))
	require.NoError(t, f.store.Users.Create(ctx, &member))
	profile := models.Customer{FullName: "Buyer", Email: "buyer@example.com", Phone: "555-0777"}
	require.NoError(t, f.store.Users.Register(ctx, &buyer, &profile))

	p, err := f.store.Users.Principal(ctx, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, p.Role)

	p, err = f.store.Users.Principal(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, p.Role)

	p, err = f.store.Users.Principal(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, p.Role)
	assert.Equal(t, profile.ID, p.CustomerID)

	_, err = f.store.Users.Principal(ctx, 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}
