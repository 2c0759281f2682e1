package routes

import (
	"restaurant-admin-api/handlers"
	"restaurant-admin-api/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type resource struct {
	list, get, create, update, remove gin.HandlerFunc
}

// mount registers the standard list/retrieve/create/update/partial-update/
// delete routes of one resource under g.
func mount(g *gin.RouterGroup, path string, r resource) {
	g.GET(path, r.list)
	g.GET(path+"/:id", r.get)
	g.POST(path, r.create)
	g.PUT(path+"/:id", r.update)
	g.PATCH(path+"/:id", r.update)
	g.DELETE(path+"/:id", r.remove)
}

// NewRouter builds the engine with its middleware chain and every route.
func NewRouter(h *handlers.Handler, tokens middleware.Tokens, resolver middleware.PrincipalResolver, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log))
	SetupRoutes(r, h, tokens, resolver)
	return r
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, tokens middleware.Tokens, resolver middleware.PrincipalResolver) {
	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	api.Use(middleware.Authenticate(tokens, resolver))

	// ── Public routes ──────────────────────────────────────────────
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/order-statuses", handlers.GetStateMachineInfo)

		// Catalog is open to anyone, writes included
		mount(api, "/restaurants", resource{h.ListRestaurants, h.GetRestaurant, h.CreateRestaurant, h.UpdateRestaurant, h.DeleteRestaurant})
		mount(api, "/menus", resource{h.ListMenus, h.GetMenu, h.CreateMenu, h.UpdateMenu, h.DeleteMenu})
		mount(api, "/dishes", resource{h.ListDishes, h.GetDish, h.CreateDish, h.UpdateDish, h.DeleteDish})
	}

	// ── Read open, writes authenticated ────────────────────────────
	open := api.Group("")
	open.Use(middleware.ReadOnlyOrAuthenticated())
	{
		mount(open, "/customers", resource{h.ListCustomers, h.GetCustomer, h.CreateCustomer, h.UpdateCustomer, h.DeleteCustomer})
		mount(open, "/drivers", resource{h.ListDrivers, h.GetDriver, h.CreateDriver, h.UpdateDriver, h.DeleteDriver})
		mount(open, "/orders", resource{h.ListOrders, h.GetOrder, h.PlaceOrder, h.UpdateOrder, h.DeleteOrder})
		mount(open, "/order-items", resource{h.ListOrderItems, h.GetOrderItem, h.CreateOrderItem, h.UpdateOrderItem, h.DeleteOrderItem})
		mount(open, "/deliveries", resource{h.ListDeliveries, h.GetDelivery, h.CreateDelivery, h.UpdateDelivery, h.DeleteDelivery})
		mount(open, "/reviews", resource{h.ListReviews, h.GetReview, h.CreateReview, h.UpdateReview, h.DeleteReview})

		open.GET("/orders/:id/total", h.GetOrderTotal)
		open.GET("/orders/:id/history", h.GetOrderHistory)
		open.PUT("/orders/:id/items", h.ReplaceOrderItems)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := api.Group("")
	auth.Use(middleware.RequireAuth())
	{
		auth.GET("/profile", h.GetProfile)
		mount(auth, "/payments", resource{h.ListPayments, h.GetPayment, h.CreatePayment, h.UpdatePayment, h.DeletePayment})
	}

	// ── Staff routes ───────────────────────────────────────────────
	admin := api.Group("/admin")
	admin.Use(middleware.RequireStaff())
	{
		admin.GET("/orders/summary", h.AdminOrderSummary)
		admin.PUT("/orders/:id/status", h.AdminForceOrderStatus)
	}
}
