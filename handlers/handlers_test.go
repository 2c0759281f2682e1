package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurant-admin-api/events"
	"restaurant-admin-api/handlers"
	"restaurant-admin-api/middleware"
	"restaurant-admin-api/models"
	"restaurant-admin-api/repository"
	"restaurant-admin-api/routes"
	"restaurant-admin-api/services"
	"restaurant-admin-api/testutil"
	"restaurant-admin-api/validation"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type server struct {
	t      *testing.T
	router *gin.Engine
	store  *repository.Store
	tokens middleware.Tokens
	events *events.Recorder
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Register()

	store := repository.NewStore(testutil.DB(t))
	rec := &events.Recorder{}
	svc := services.New(store, rec, zap.NewNop())
	tokens := middleware.Tokens{Secret: []byte("test-secret"), TTL: time.Hour}
	router := routes.NewRouter(handlers.New(svc, tokens, zap.NewNop()), tokens, svc.Auth, zap.NewNop())
	return &server{t: t, router: router, store: store, tokens: tokens, events: rec}
}

type response struct {
	Code int
	Body map[string]any
	Raw  []byte
}

func (s *server) do(method, path, token string, body any) response {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := response{Code: w.Code, Raw: w.Body.Bytes()}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out.Body))
	}
	return out
}

// register signs up through the API and returns the issued token.
func (s *server) register(email, phone string) string {
	s.t.Helper()
	body := map[string]any{"email": email, "password": "secret1", "first_name": "Test", "last_name": "User"}
	if phone != "" {
		body["phone"] = phone
	}
	res := s.do(http.MethodPost, "/api/auth/register", "", body)
	require.Equal(s.t, http.StatusCreated, res.Code, string(res.Raw))
	return res.Body["token"].(string)
}

func (s *server) staffToken() string {
	s.t.Helper()
	u := &models.User{Email: "staff@example.com", PasswordHash: "x", IsStaff: true}
	require.NoError(s.t, s.store.Users.Create(context.Background(), u))
	token, err := s.tokens.GenerateToken(u)
	require.NoError(s.t, err)
	return token
}

type catalog struct {
	restaurant, pasta, soup uint
}

func (s *server) seedCatalog() catalog {
	s.t.Helper()
	res := s.do(http.MethodPost, "/api/restaurants", "", map[string]any{
		"name": "Luigi's", "address": "1 Main St", "phone": "555-0100", "email": "luigi@example.com",
	})
	require.Equal(s.t, http.StatusCreated, res.Code, string(res.Raw))
	restaurant := id(res.Body["restaurant"])

	res = s.do(http.MethodPost, "/api/menus", "", map[string]any{"name": "Dinner", "restaurant_id": restaurant})
	require.Equal(s.t, http.StatusCreated, res.Code, string(res.Raw))
	menu := id(res.Body["menu"])

	dish := func(name, price string) uint {
		res := s.do(http.MethodPost, "/api/dishes", "", map[string]any{"name": name, "price": price, "menu_id": menu})
		require.Equal(s.t, http.StatusCreated, res.Code, string(res.Raw))
		return id(res.Body["dish"])
	}
	return catalog{restaurant: restaurant, pasta: dish("Pasta", "5.99"), soup: dish("Soup", "2.99")}
}

func id(v any) uint {
	return uint(v.(map[string]any)["id"].(float64))
}

func money(t *testing.T, v any) string {
	t.Helper()
	d, err := decimal.NewFromString(fmt.Sprint(v))
	require.NoError(t, err)
	return d.StringFixed(2)
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	res := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "healthy", res.Body["status"])

	res = s.do(http.MethodGet, "/api/order-statuses", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Body["statuses"], 5)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRestaurantSearchFilterAndPaging(t *testing.T) {
	s := newServer(t)
	s.seedCatalog()
	res := s.do(http.MethodPost, "/api/restaurants", "", map[string]any{
		"name": "Pizza Palace", "address": "4 Oak Ave", "phone": "555-0300", "email": "pp@example.com",
	})
	require.Equal(t, http.StatusCreated, res.Code)

	res = s.do(http.MethodGet, "/api/restaurants?search=pizza", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.Body["count"])

	res = s.do(http.MethodGet, "/api/restaurants?ordering=-name&page=1&page_size=1", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 2, res.Body["count"])
	rows := res.Body["restaurants"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Pizza Palace", rows[0].(map[string]any)["name"])

	res = s.do(http.MethodGet, "/api/restaurants?name=Luigi's", "", nil)
	assert.EqualValues(t, 1, res.Body["count"])

	res = s.do(http.MethodGet, "/api/restaurants?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(http.MethodGet, "/api/dishes?search=luigi&ordering=price", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	dishes := res.Body["dishes"].([]any)
	require.Len(t, dishes, 2)
	assert.Equal(t, "Soup", dishes[0].(map[string]any)["name"])
}

func TestRestaurantValidationAndConflicts(t *testing.T) {
	s := newServer(t)
	s.seedCatalog()

	res := s.do(http.MethodPost, "/api/restaurants", "", map[string]any{"name": "No Address"})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body["fields"], "address")

	res = s.do(http.MethodPost, "/api/restaurants", "", map[string]any{
		"name": "Copy", "address": "2 Main St", "phone": "555-0100", "email": "copy@example.com",
	})
	assert.Equal(t, http.StatusConflict, res.Code)

	res = s.do(http.MethodGet, "/api/restaurants/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	res = s.do(http.MethodGet, "/api/restaurants/999", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestOrderTotalsEndToEnd(t *testing.T) {
	s := newServer(t)
	cat := s.seedCatalog()
	token := s.register("ada@example.com", "555-0001")

	res := s.do(http.MethodPost, "/api/orders", token, map[string]any{
		"delivery_address": "221B Baker St",
		"restaurant_id":    cat.restaurant,
		"items": []map[string]any{
			{"dish_id": cat.pasta, "quantity": 2},
			{"dish_id": cat.soup, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	order := res.Body["order"].(map[string]any)
	orderID := uint(order["id"].(float64))
	assert.Equal(t, "14.97", money(t, order["total_amount"]))
	assert.Equal(t, "pending", order["status"])
	items := order["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "11.98", money(t, items[0].(map[string]any)["total_price"]))

	res = s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d/total", orderID), token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "14.97", money(t, res.Body["total_amount"]))
	assert.EqualValues(t, 1, res.Body["version"])
	assert.EqualValues(t, 2, res.Body["item_count"])

	// bare array body with the version in the query
	res = s.do(http.MethodPut, fmt.Sprintf("/api/orders/%d/items?version=1", orderID), token,
		fmt.Sprintf(`[{"dish_id": %d, "quantity": 3, "unit_price": "3.25"}]`, cat.pasta))
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	order = res.Body["order"].(map[string]any)
	assert.Equal(t, "9.75", money(t, order["total_amount"]))
	assert.EqualValues(t, 2, order["version"])

	res = s.do(http.MethodPut, fmt.Sprintf("/api/orders/%d/items", orderID), token, map[string]any{
		"items":   []map[string]any{{"dish_id": cat.soup, "quantity": 1}},
		"version": 1,
	})
	assert.Equal(t, http.StatusConflict, res.Code)

	res = s.do(http.MethodPut, fmt.Sprintf("/api/orders/%d/items", orderID), token, map[string]any{
		"items": []map[string]any{{"dish_id": cat.soup, "quantity": 0}},
	})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body["fields"], "items[0].quantity")

	res = s.do(http.MethodPut, fmt.Sprintf("/api/orders/%d/items", orderID), token, map[string]any{"version": 2})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body["fields"], "items")

	res = s.do(http.MethodPut, fmt.Sprintf("/api/orders/%d/items", orderID), token, `[]`)
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Equal(t, "0.00", money(t, res.Body["order"].(map[string]any)["total_amount"]))

	res = s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d/total", orderID), token, nil)
	assert.Equal(t, "0.00", money(t, res.Body["total_amount"]))
	assert.EqualValues(t, 0, res.Body["item_count"])

	assert.Contains(t, s.events.Types(), events.OrderTotalChanged)
}

func TestOrderItemEndpoints(t *testing.T) {
	s := newServer(t)
	cat := s.seedCatalog()
	token := s.register("ada@example.com", "555-0001")

	res := s.do(http.MethodPost, "/api/orders", token, map[string]any{
		"delivery_address": "221B Baker St",
		"restaurant_id":    cat.restaurant,
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	orderID := id(res.Body["order"])

	res = s.do(http.MethodPost, "/api/order-items", token, map[string]any{"order_id": orderID, "dish_id": cat.pasta, "quantity": 0})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body["fields"], "quantity")

	res = s.do(http.MethodPost, "/api/order-items", token, map[string]any{"order_id": orderID, "dish_id": cat.pasta, "quantity": 1})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	itemID := id(res.Body["order_item"])

	res = s.do(http.MethodPatch, fmt.Sprintf("/api/order-items/%d", itemID), token, map[string]any{"quantity": 3})
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Equal(t, "17.97", money(t, res.Body["order_item"].(map[string]any)["total_price"]))

	res = s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d/total", orderID), token, nil)
	assert.Equal(t, "17.97", money(t, res.Body["total_amount"]))

	res = s.do(http.MethodGet, "/api/order-items", token, nil)
	assert.EqualValues(t, 1, res.Body["count"])
	res = s.do(http.MethodGet, "/api/order-items", "", nil)
	assert.EqualValues(t, 0, res.Body["count"])

	res = s.do(http.MethodDelete, fmt.Sprintf("/api/order-items/%d?version=1", itemID), token, nil)
	assert.Equal(t, http.StatusConflict, res.Code)
	res = s.do(http.MethodDelete, fmt.Sprintf("/api/order-items/%d", itemID), token, nil)
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d/total", orderID), token, nil)
	assert.Equal(t, "0.00", money(t, res.Body["total_amount"]))
}

func TestOrderAccessControl(t *testing.T) {
	s := newServer(t)
	cat := s.seedCatalog()
	ada := s.register("ada@example.com", "555-0001")
	alan := s.register("alan@example.com", "555-0002")
	staff := s.staffToken()

	res := s.do(http.MethodPost, "/api/orders", "", map[string]any{"delivery_address": "x", "restaurant_id": cat.restaurant})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = s.do(http.MethodPost, "/api/orders", ada, map[string]any{
		"delivery_address": "221B Baker St",
		"restaurant_id":    cat.restaurant,
		"items":            []map[string]any{{"dish_id": cat.pasta, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, res.Code)
	path := fmt.Sprintf("/api/orders/%d", id(res.Body["order"]))

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, path, ada, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, alan, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, path, staff, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path+"/total", alan, nil).Code)

	res = s.do(http.MethodGet, "/api/orders", alan, nil)
	assert.EqualValues(t, 0, res.Body["count"])
	res = s.do(http.MethodGet, "/api/orders", staff, nil)
	assert.EqualValues(t, 1, res.Body["count"])

	res = s.do(http.MethodPatch, path, ada, map[string]any{"status": "preparing"})
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = s.do(http.MethodPatch, path, staff, map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	res = s.do(http.MethodPatch, path, staff, map[string]any{"status": "preparing"})
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))

	res = s.do(http.MethodGet, path+"/history", ada, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Body["history"], 2)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, path, alan, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, path, ada, nil).Code)
}

func TestAuthFailures(t *testing.T) {
	s := newServer(t)

	res := s.do(http.MethodGet, "/api/restaurants", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = s.do(http.MethodGet, "/api/payments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	res = s.do(http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	s.register("grace@example.com", "")
	res = s.do(http.MethodPost, "/api/auth/register", "", map[string]any{"email": "grace@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, res.Code)
	res = s.do(http.MethodPost, "/api/auth/register", "", map[string]any{"email": "nope", "password": "123"})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body["fields"], "email")
	assert.Contains(t, res.Body["fields"], "password")

	res = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "grace@example.com", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "grace@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, res.Code)
	token := res.Body["token"].(string)

	res = s.do(http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "member", res.Body["role"])
	assert.Nil(t, res.Body["customer_id"])

	// members are authenticated but own no orders
	res = s.do(http.MethodGet, "/api/orders", token, nil)
	assert.EqualValues(t, 0, res.Body["count"])
}

func TestAdminRoutes(t *testing.T) {
	s := newServer(t)
	cat := s.seedCatalog()
	ada := s.register("ada@example.com", "555-0001")
	staff := s.staffToken()

	res := s.do(http.MethodPost, "/api/orders", ada, map[string]any{
		"delivery_address": "221B Baker St",
		"restaurant_id":    cat.restaurant,
		"items":            []map[string]any{{"dish_id": cat.pasta, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, res.Code)
	orderID := id(res.Body["order"])

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/admin/orders/summary", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/admin/orders/summary", ada, nil).Code)

	res = s.do(http.MethodPut, fmt.Sprintf("/api/admin/orders/%d/status", orderID), staff, map[string]any{
		"status": "completed",
		"reason": "delivered offline",
	})
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Equal(t, "completed", res.Body["order"].(map[string]any)["status"])

	res = s.do(http.MethodGet, "/api/admin/orders/summary", staff, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.Body["count"])
	assert.Equal(t, "11.98", money(t, res.Body["revenue"]))

	res = s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d/history", orderID), staff, nil)
	history := res.Body["history"].([]any)
	require.Len(t, history, 2)
	assert.Equal(t, "[STAFF OVERRIDE] delivered offline", history[1].(map[string]any)["note"])
}

func TestPaymentShowsOutstanding(t *testing.T) {
	s := newServer(t)
	cat := s.seedCatalog()
	ada := s.register("ada@example.com", "555-0001")

	res := s.do(http.MethodPost, "/api/orders", ada, map[string]any{
		"delivery_address": "221B Baker St",
		"restaurant_id":    cat.restaurant,
		"items":            []map[string]any{{"dish_id": cat.pasta, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, res.Code)
	orderID := id(res.Body["order"])

	res = s.do(http.MethodPost, "/api/payments", ada, map[string]any{
		"order_id": orderID, "amount": "10.00", "method": "card", "status": "paid",
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	pay := res.Body["payment"].(map[string]any)
	assert.Equal(t, "Paid", pay["status_display"])
	assert.NotNil(t, pay["paid_at"])
	assert.Equal(t, "11.98", money(t, pay["order_total"]))
	assert.Equal(t, "1.98", money(t, pay["outstanding"]))

	res = s.do(http.MethodPost, "/api/payments", ada, map[string]any{"order_id": orderID, "amount": "1.00", "method": "bitcoin"})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body["fields"], "method")
}

func TestRestaurantAverageRating(t *testing.T) {
	s := newServer(t)
	cat := s.seedCatalog()
	ada := s.register("ada@example.com", "555-0001")

	res := s.do(http.MethodPost, "/api/orders", ada, map[string]any{"delivery_address": "x", "restaurant_id": cat.restaurant})
	require.Equal(t, http.StatusCreated, res.Code)
	orderID := id(res.Body["order"])

	for _, rating := range []int{4, 5} {
		res = s.do(http.MethodPost, "/api/reviews", ada, map[string]any{
			"order_id": orderID, "restaurant_id": cat.restaurant, "rating": rating,
		})
		require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	}
	res = s.do(http.MethodPost, "/api/reviews", ada, map[string]any{"order_id": orderID, "rating": 6})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(http.MethodGet, fmt.Sprintf("/api/restaurants/%d", cat.restaurant), "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	restaurant := res.Body["restaurant"].(map[string]any)
	assert.Equal(t, "4.50", money(t, restaurant["average_rating"]))
	assert.Len(t, restaurant["reviews"], 2)

	res = s.do(http.MethodGet, "/api/reviews", "", nil)
	assert.EqualValues(t, 0, res.Body["count"])
	res = s.do(http.MethodGet, "/api/reviews", ada, nil)
	assert.EqualValues(t, 2, res.Body["count"])
}

func TestDeleteRestaurantCascades(t *testing.T) {
	s := newServer(t)
	cat := s.seedCatalog()

	res := s.do(http.MethodDelete, fmt.Sprintf("/api/restaurants/%d", cat.restaurant), "", nil)
	require.Equal(t, http.StatusNoContent, res.Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, fmt.Sprintf("/api/dishes/%d", cat.pasta), "", nil).Code)
}

func TestCustomersAndDrivers(t *testing.T) {
	s := newServer(t)
	staff := s.staffToken()

	res := s.do(http.MethodPost, "/api/customers", "", map[string]any{"full_name": "Ada", "email": "ada@example.com", "phone": "555-0001"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = s.do(http.MethodPost, "/api/customers", staff, map[string]any{"full_name": "Ada Lovelace", "email": "ada@example.com", "phone": "555-0001"})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	customerID := id(res.Body["customer"])

	res = s.do(http.MethodPost, "/api/customers", staff, map[string]any{"full_name": "Copy", "email": "ada@example.com", "phone": "555-0009"})
	assert.Equal(t, http.StatusConflict, res.Code)

	res = s.do(http.MethodGet, "/api/customers?search=lovelace", "", nil)
	assert.EqualValues(t, 1, res.Body["count"])

	res = s.do(http.MethodPatch, fmt.Sprintf("/api/customers/%d", customerID), staff, map[string]any{"full_name": "  "})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body["fields"], "full_name")

	for _, d := range []map[string]any{
		{"full_name": "Slow Sam", "phone": "555-1001", "vehicle_info": "bike", "rating": "3.50"},
		{"full_name": "Fast Fay", "phone": "555-1002", "vehicle_info": "van", "rating": "4.90", "is_online": true},
	} {
		res = s.do(http.MethodPost, "/api/drivers", staff, d)
		require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
		assert.Equal(t, true, res.Body["driver"].(map[string]any)["is_active"])
	}

	res = s.do(http.MethodPost, "/api/drivers", staff, map[string]any{"full_name": "Bad", "phone": "555-1003", "vehicle_info": "car", "rating": "7"})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body["fields"], "rating")

	res = s.do(http.MethodGet, "/api/drivers", "", nil)
	rows := res.Body["drivers"].([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "Fast Fay", rows[0].(map[string]any)["full_name"])

	res = s.do(http.MethodGet, "/api/drivers?is_online=true", "", nil)
	assert.EqualValues(t, 1, res.Body["count"])

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, fmt.Sprintf("/api/customers/%d", customerID), staff, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, fmt.Sprintf("/api/customers/%d", customerID), "", nil).Code)
}
