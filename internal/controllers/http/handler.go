package http

import (
	"shop-service/internal/domain"
	"shop-service/internal/infra/storage"
	"shop-service/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	auth    *services.AuthService
	users   *services.UserService
	catalog *services.CatalogService
	cart    *services.CartService
	orders  *services.OrderService
	images  storage.ImageStore
}

func NewHandler(
	auth *services.AuthService,
	users *services.UserService,
	catalog *services.CatalogService,
	cart *services.CartService,
	orders *services.OrderService,
	images storage.ImageStore,
) *Handler {
	return &Handler{
		auth:    auth,
		users:   users,
		catalog: catalog,
		cart:    cart,
		orders:  orders,
		images:  images,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		ok(c, 200, gin.H{"status": "ok", "service": "shop-service"})
	})

	auth := r.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	items := r.Group("/items", h.Authenticate)
	items.GET("", h.ListItems)
	items.GET("/:id", h.GetItem)
	items.POST("", h.RequireRoles(domain.RoleAdmin), h.CreateItem)
	items.PUT("/:id", h.RequireRoles(domain.RoleAdmin), h.UpdateItem)
	items.DELETE("/:id", h.RequireRoles(domain.RoleAdmin), h.DeleteItem)

	cart := r.Group("/cart", h.Authenticate)
	cart.GET("", h.GetCart)
	cart.POST("/items", h.AddCartItem)
	cart.PATCH("/items/:itemId", h.UpdateCartLine)
	cart.DELETE("/items/:itemId", h.RemoveCartLine)
	cart.DELETE("", h.ClearCart)

	orders := r.Group("/orders", h.Authenticate)
	orders.GET("", h.ListOrders)
	orders.POST("", h.PlaceOrder)
	orders.GET("/admin", h.RequireRoles(domain.RoleAdmin), h.ListAllOrders)
	orders.PATCH("/:id/status", h.RequireRoles(domain.RoleAdmin), h.UpdateOrderStatus)

	users := r.Group("/users", h.Authenticate)
	users.GET("", h.ListUsers)
}
