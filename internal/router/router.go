// internal/router/router.go
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/edark-import/marketplace-backend/internal/config"
	"github.com/edark-import/marketplace-backend/internal/handlers"
	"github.com/edark-import/marketplace-backend/internal/middleware"
	"github.com/edark-import/marketplace-backend/internal/services"
	"github.com/edark-import/marketplace-backend/internal/store"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Services
	gormStore := store.NewGormStore(db)
	notificationService := services.NewNotificationService(cfg.Email, cfg.Store.Name, logger)
	orderService := services.NewOrderService(gormStore, notificationService, logger)
	productService := services.NewProductService(db)
	authService := services.NewAuthService(db, cfg.JWT)
	blogService := services.NewBlogService(db)
	adService := services.NewAdService(db)
	reportService := services.NewReportService(db)
	paymentService := services.NewPaymentService(cfg.Payment, logger)

	var storageService *services.StorageService
	if cfg.AWS.AccessKeyID != "" {
		var err error
		storageService, err = services.NewStorageService(cfg.AWS)
		if err != nil {
			logger.WithError(err).Warn("S3 storage disabled")
			storageService = nil
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, storageService, cfg.Store)
	orderHandler := handlers.NewOrderHandler(orderService, db)
	catalogHandler := handlers.NewCatalogHandler(productService, cfg.Store)
	blogHandler := handlers.NewBlogHandler(blogService, authService)
	adHandler := handlers.NewAdHandler(adService)
	reportHandler := handlers.NewReportHandler(reportService, cfg.Store)
	paymentHandler := handlers.NewPaymentHandler(paymentService, orderService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.RateLimiter(rate.Limit(20), 40))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	api := r.Group("/api")
	{
		// Auth
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
			auth.GET("/verify", middleware.AuthRequired(), authHandler.Me)
			auth.PATCH("/users/:id/role", middleware.AuthRequired(), middleware.AdminRequired(), authHandler.ChangeRole)
		}

		// Public storefront
		api.GET("/catalog/view", catalogHandler.View)
		api.GET("/products/:id", productHandler.Get)

		// Orders
		api.POST("/orders", orderHandler.Place)
		api.GET("/orders/:id", orderHandler.Get)
		api.POST("/orders/:id/payment-intent", paymentHandler.CreateIntent)
		api.POST("/orders/:id/payment-confirm", paymentHandler.Confirm)

		// Blog (public)
		api.GET("/blog", middleware.OptionalAuth(), blogHandler.List)
		api.GET("/blog/categories", blogHandler.Categories)
		api.GET("/blog/:slug", blogHandler.GetBySlug)

		// Ads (public)
		api.GET("/ads/placement/:placement", adHandler.ByPlacement)
		api.POST("/ads/:id/impression", adHandler.RecordImpression)
		api.POST("/ads/:id/click", adHandler.RecordClick)

		// Admin
		admin := api.Group("/admin", middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/products", productHandler.List)
			admin.POST("/products", productHandler.Create)
			admin.PUT("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)
			admin.GET("/products/low-stock", productHandler.LowStock)
			admin.POST("/products/images", productHandler.UploadImage)

			admin.GET("/orders", orderHandler.List)
			admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus)

			admin.POST("/blog", blogHandler.Create)
			admin.PUT("/blog/:id", blogHandler.Update)
			admin.DELETE("/blog/:id", blogHandler.Delete)

			admin.GET("/ads", adHandler.List)
			admin.POST("/ads", adHandler.Create)
			admin.PUT("/ads/:id", adHandler.Update)
			admin.DELETE("/ads/:id", adHandler.Delete)
			admin.GET("/ads/stats", adHandler.Stats)

			admin.GET("/reports/dashboard", reportHandler.Dashboard)
			admin.GET("/reports/sales", reportHandler.Sales)
			admin.GET("/reports/top-products", reportHandler.TopProducts)
			admin.GET("/reports/inventory", reportHandler.Inventory)
			admin.GET("/reports/customers", reportHandler.TopCustomers)
			admin.GET("/reports/orders/export", reportHandler.ExportOrders)
			admin.GET("/reports/products/export", reportHandler.ExportProducts)
		}
	}

	return r
}
