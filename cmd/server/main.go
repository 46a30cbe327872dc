package main

import (
	"log"
	"time"

	"gscore/internal/config"
	"gscore/internal/database"
	"gscore/internal/handlers"
	"gscore/internal/hooks"
	"gscore/internal/redis"
	"gscore/internal/repository"
	"gscore/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	shippingItemRepo := repository.NewShippingItemRepository(db)
	couponItemRepo := repository.NewCouponItemRepository(db)
	productRepo := repository.NewProductRepository(db)
	fieldGroupRepo := repository.NewFieldGroupRepository(db)
	shippingMethodRepo := repository.NewShippingMethodRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	taxRateRepo := repository.NewTaxRateRepository(db)
	recalcLogRepo := repository.NewRecalcLogRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo)
	taxService := services.NewTaxService(taxRateRepo, userRepo)
	markupService := services.NewMarkupService(settingsRepo, redisClient, time.Duration(cfg.MarkupCacheTTL)*time.Second)
	addonService := services.NewAddonService(fieldGroupRepo)
	overrideService := services.NewOverrideService()
	couponService := services.NewCouponService(orderRepo, couponRepo, couponItemRepo, orderItemRepo)
	shippingService := services.NewShippingService(shippingMethodRepo, shippingItemRepo, orderItemRepo, productRepo, couponItemRepo, markupService, taxService)
	orderService := services.NewOrderService(orderRepo, orderItemRepo, shippingItemRepo, couponItemRepo, userRepo, taxService)
	recalcService := services.NewRecalcService(orderRepo, orderItemRepo, shippingItemRepo, productRepo, recalcLogRepo, orderService, addonService, overrideService, shippingService, couponService, taxService)

	if cfg.SeedDefaultData {
		if err := markupService.EnsureDefaults(); err != nil {
			log.Printf("Warning: failed to seed markup defaults: %v", err)
		}
	}

	// Wire the recalculation pipeline onto the order save lifecycle
	dispatcher := hooks.NewDispatcher()
	recalcService.Register(dispatcher)

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(dispatcher, orderService, recalcService, couponService, taxService, orderItemRepo, shippingItemRepo, productRepo, redisClient, time.Duration(cfg.NonceTTL)*time.Second)
	settingsHandler := handlers.NewSettingsHandler(markupService)
	authHandler := handlers.NewAuthHandler(userService, redisClient, time.Duration(cfg.SessionTTL)*time.Second)

	// Setup routes
	router := gin.Default()

	router.POST("/admin/login", authHandler.Login)
	router.POST("/admin/logout", authHandler.Logout)

	admin := router.Group("/admin", handlers.AdminRequired(userService, redisClient))
	{
		admin.POST("/orders", orderHandler.CreateOrder)
		admin.GET("/orders/:id", orderHandler.GetOrder)
		admin.POST("/orders/:id/save", orderHandler.SaveOrder)
		admin.POST("/orders/:id/items", orderHandler.SaveOrderItems)
		admin.POST("/orders/:id/line-items", orderHandler.AddLineItem)
		admin.POST("/orders/:id/shipping-items", orderHandler.AddShippingItem)
		admin.POST("/orders/:id/coupons", orderHandler.ApplyCoupon)
		admin.DELETE("/orders/:id/coupons", orderHandler.RemoveCoupon)

		admin.GET("/nonce", orderHandler.IssueNonce)
		admin.POST("/ajax/save-order-item-addons", orderHandler.AjaxSaveItemAddons)
		admin.GET("/ajax/tax-exempt", orderHandler.AjaxTaxExempt)

		admin.GET("/sales-reps", orderHandler.SalesReps)
		admin.GET("/settings/regional-markups", settingsHandler.GetRegionalMarkups)
		admin.POST("/settings/regional-markups", settingsHandler.SaveRegionalMarkups)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
