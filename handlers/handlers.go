package handlers

import (
	"context"
	"net/http"
	"os"

	"storefront-service/internal/auth"
	"storefront-service/internal/cart"
	"storefront-service/internal/checkout"
	"storefront-service/internal/orders"
	"storefront-service/internal/products"
	"storefront-service/middleware"

	"github.com/gin-gonic/gin"
)

// Catalogue is the product lookup the storefront reads prices from.
type Catalogue interface {
	ListProducts(ctx context.Context, category string) ([]products.Product, error)
	GetProduct(ctx context.Context, id string) (products.Product, error)
}

// OrderAdmin is the read/update side of the orders table used by the admin panel.
type OrderAdmin interface {
	ListOrders(ctx context.Context) ([]orders.Record, error)
	SearchOrders(ctx context.Context, term string) ([]orders.Record, error)
	GetOrder(ctx context.Context, orderID string) (orders.Record, error)
	Stats(ctx context.Context) (orders.Stats, error)
	UpdateStatus(ctx context.Context, orderID string, status orders.Status, adminEmail string) (orders.Record, orders.Status, error)
	LogSecurityEvent(ctx context.Context, ev orders.SecurityEvent) error
}

type Handler struct {
	carts     cart.Store
	catalogue Catalogue
	gateway   *checkout.Gateway
	admin     OrderAdmin
	admins    *auth.Admins
	keys      *auth.Keys
	publisher checkout.Publisher

	paymentCredentials map[string]bool
}

// Deps lists what the handlers need. Nil fields switch the matching endpoints to 503.
type Deps struct {
	Carts              cart.Store
	Catalogue          Catalogue
	Gateway            *checkout.Gateway
	Admin              OrderAdmin
	Admins             *auth.Admins
	Keys               *auth.Keys
	Publisher          checkout.Publisher
	PaymentCredentials map[string]bool
}

func NewHandler(d Deps) *Handler {
	carts := d.Carts
	if carts == nil {
		carts = cart.NewMemoryStore()
	}
	return &Handler{
		carts:              carts,
		catalogue:          d.Catalogue,
		gateway:            d.Gateway,
		admin:              d.Admin,
		admins:             d.Admins,
		keys:               d.Keys,
		publisher:          d.Publisher,
		paymentCredentials: d.PaymentCredentials,
	}
}

func API(endpointPrefix string, h *Handler) *gin.Engine {
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()

	r.Use(middleware.Logger(), gin.Recovery())
	r.GET("/ping", HealthCheck)

	v1 := r.Group(endpointPrefix)
	{
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/:id", h.GetProduct)

		v1.GET("/cart", h.GetCart)
		v1.DELETE("/cart", h.ClearCart)
		v1.POST("/cart/items", h.AddCartItem)
		v1.PATCH("/cart/items/:id", h.UpdateCartItem)
		v1.DELETE("/cart/items/:id", h.RemoveCartItem)

		v1.POST("/orders", h.SubmitOrder)

		v1.POST("/payments/create-order", h.CreatePaymentOrder)
		v1.POST("/payments/capture-order", h.CapturePaymentOrder)
		v1.GET("/payments/check-env", h.CheckPaymentEnv)
	}

	admin := r.Group(endpointPrefix + "/admin")
	m, err := middleware.NewMid(h.keys)
	if err != nil {
		// no signing key: every admin route answers 503
		admin.Any("/*path", adminUnavailable)
		return r
	}
	{
		admin.POST("/login", h.AdminLogin)
		admin.Use(m.Authentication())
		admin.GET("/orders", m.Authorize(h.ListOrders, auth.RoleAdmin))
		admin.GET("/orders/search", m.Authorize(h.SearchOrders, auth.RoleAdmin))
		admin.GET("/orders/stats", m.Authorize(h.OrderStats, auth.RoleAdmin))
		admin.GET("/orders/:orderId", m.Authorize(h.GetOrder, auth.RoleAdmin))
		admin.PUT("/orders/:orderId/status", m.Authorize(h.UpdateOrderStatus, auth.RoleAdmin))
	}
	return r
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

func adminUnavailable(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin authentication not configured"})
}
