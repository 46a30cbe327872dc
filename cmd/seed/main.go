package main

import (
	"fmt"
	"log"
	"time"

	"gscore/internal/config"
	"gscore/internal/database"
	"gscore/internal/models"
	"gscore/internal/repository"
	"gscore/internal/services"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Create default admin user
	fmt.Println("Creating default admin user...")
	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo)

	existingUser, err := userService.GetUserByUsername("admin")
	if err == nil && existingUser != nil {
		fmt.Println("Admin user already exists")
	} else {
		admin := &models.User{
			Username:    "admin",
			DisplayName: "Store Admin",
			Role:        models.RoleAdmin,
		}
		if err := userService.CreateUser(admin, "admin123"); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			fmt.Println("Admin user created successfully")
			fmt.Println("Username: admin")
			fmt.Println("Password: admin123")
		}
	}

	// Sales rep used by order attribution
	rep := &models.User{
		Username:    "jsmith",
		DisplayName: "J. Smith",
		Role:        models.RoleClient,
	}
	if err := userService.CreateUser(rep, "rep123"); err != nil {
		log.Printf("Warning: Failed to create sales rep: %v", err)
	}

	// Seed the regional markup tables
	fmt.Println("Seeding regional markup tables...")
	settingsRepo := repository.NewSettingsRepository(db)
	markupService := services.NewMarkupService(settingsRepo, nil, time.Duration(cfg.MarkupCacheTTL)*time.Second)
	if err := markupService.EnsureDefaults(); err != nil {
		log.Printf("Warning: Failed to seed markup tables: %v", err)
	}

	// Tax rates
	fmt.Println("Seeding tax rates...")
	db.Create(&models.TaxRate{Country: "US", State: "NJ", Rate: 6.625, Shipping: true})
	db.Create(&models.TaxRate{Country: "US", State: "CA", Rate: 7.25, Shipping: true})

	// Flexible shipping instance with a banded rate table
	fmt.Println("Seeding shipping method...")
	db.Create(&models.ShippingZoneMethod{
		InstanceID: 1,
		MethodID:   models.FlexibleShippingMethodID,
		Enabled:    true,
		Title:      "Freight Delivery",
		TaxStatus:  "taxable",
		CostRules: []models.ShippingCostRule{
			{MinValue: 0, MaxValue: 500, Cost: 60},
			{MinValue: 500, MaxValue: 2000, Cost: 120},
			{MinValue: 2000, MaxValue: 0, Cost: 120, CostPerUnit: 25, PerValue: 1000},
		},
	})

	// Demo product with an engraving add-on group
	fmt.Println("Seeding demo catalog...")
	product := &models.Product{Name: "Liberty Colonial 23", SKU: "LC23", Price: 100, Taxable: true, Stock: 4, NeedsShipping: true}
	db.Create(product)

	db.Create(&models.FieldGroup{
		ProductID: product.ID,
		Fields: []models.Field{
			{
				ID:    "engraving",
				Type:  models.FieldCheckboxes,
				Label: "Engraving",
				Choices: []models.Choice{
					{Slug: "front-panel", Label: "Front Panel", PriceAmount: 25},
					{Slug: "door-interior", Label: "Door Interior", PriceAmount: 15},
				},
			},
			{
				ID:          "white-glove",
				Type:        models.FieldCheckbox,
				Label:       "White Glove Delivery",
				PriceAmount: 199,
			},
		},
		RuleGroups: []models.RuleGroup{
			{Rules: []models.Rule{{Condition: "product", ValueIDs: []uint{product.ID}}}},
		},
	})

	// Coupons
	db.Create(&models.Coupon{Code: "SAVE10", Type: models.CouponPercent, Amount: 10, Active: true})
	db.Create(&models.Coupon{Code: "FREIGHT50", Type: models.CouponFixed, Amount: 50, Active: true})

	fmt.Println("Database initialization completed successfully!")
}
