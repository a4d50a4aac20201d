package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/altmarket/storefront/internal/config"
	"github.com/altmarket/storefront/internal/server/http/handlers"
	"github.com/altmarket/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, rdb *redis.Client, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	categoryHandler := handlers.NewCategoryHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)

	authRequired := middleware.AuthRequired(facade)
	throttled := middleware.RateLimit(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow)

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	profile := auth.Group("")
	profile.Use(authRequired)
	profile.GET("/profile", authHandler.Profile)
	profile.PATCH("/profile", authHandler.UpdateProfile)
	profile.POST("/change-password", authHandler.ChangePassword)
	profile.DELETE("/profile", authHandler.DeleteAccount)

	categories := api.Group("/categories")
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.Get)

	categoriesAuth := categories.Group("")
	categoriesAuth.Use(authRequired)
	categoriesAuth.POST("", categoryHandler.Create)
	categoriesAuth.PUT("/:id", categoryHandler.Update)
	categoriesAuth.DELETE("/:id", categoryHandler.Delete)

	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.GET("/sku/:sku", productHandler.GetBySKU)

	productsAuth := products.Group("")
	productsAuth.Use(authRequired)
	productsAuth.POST("", productHandler.Create)
	productsAuth.PUT("/:id", productHandler.Update)
	productsAuth.PATCH("/:id/stock", productHandler.AdjustStock)
	productsAuth.DELETE("/:id", productHandler.Delete)

	orders := api.Group("/orders")
	orders.Use(authRequired)
	orders.POST("", orderHandler.Place)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)

	payments := api.Group("/payments")
	payments.Use(authRequired, throttled)
	payments.POST("/create-intent", paymentHandler.CreateIntent)
	payments.POST("/confirm", paymentHandler.Confirm)
	payments.GET("", paymentHandler.List)
	payments.GET("/:id", paymentHandler.Get)
	payments.GET("/order/:orderId", paymentHandler.GetByOrder)

	return engine
}
