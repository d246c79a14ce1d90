package adminapi

import (
	"context"
	"fmt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jazzyjizz/candycommerce/config"
	"github.com/jazzyjizz/candycommerce/internal/shop"
	"github.com/jazzyjizz/candycommerce/internal/store"
	"github.com/jazzyjizz/candycommerce/pkg/common"
)

// Server hosts the storefront endpoints (catalog reads, checkout, order
// lookup) and the JWT-protected admin endpoints (product CRUD, order
// management).
type Server struct {
	cfg          *config.AppConfig
	svc          *shop.Service
	cache        *shop.ProductCache
	catalog      store.Catalog
	orders       store.Orders
	passwordHash string
	e            *echo.Echo
}

// NewServer wires routes onto a fresh echo instance.
func NewServer(cfg *config.AppConfig, svc *shop.Service, cache *shop.ProductCache, st store.Store) *Server {
	s := &Server{
		cfg:          cfg,
		svc:          svc,
		cache:        cache,
		catalog:      st,
		orders:       st,
		passwordHash: common.Sha256HashWithSalt(cfg.Web.AdminPassword, common.GetSecretSalt()),
	}
	s.e = echo.New()
	s.e.HideBanner = true
	s.e.Use(middleware.Recover())
	s.initRoutes()
	return s
}

func (s *Server) initRoutes() {
	api := s.e.Group("/api")
	api.POST("/login", s.login)
	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)
	api.POST("/checkout", s.checkout)
	api.GET("/orders", s.listCustomerOrders)

	admin := api.Group("/admin")
	admin.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(s.cfg.Web.Secret),
	}))
	admin.GET("/products", s.adminListProducts)
	admin.GET("/products/:id", s.getProduct)
	admin.POST("/products", s.createProduct)
	admin.PUT("/products/:id", s.updateProduct)
	admin.DELETE("/products/:id", s.deleteProduct)
	admin.GET("/orders", s.adminListOrders)
	admin.GET("/orders/:id", s.getOrder)
	admin.PUT("/orders/:id/status", s.updateOrderStatus)
	admin.DELETE("/orders/:id", s.deleteOrder)
}

// Echo exposes the router, mainly for handler tests.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	return s.e.Start(fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port))
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
