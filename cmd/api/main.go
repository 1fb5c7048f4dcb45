package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"central-pos/internal/handler"
	"central-pos/internal/middleware"
	"central-pos/internal/model"
	"central-pos/internal/repository"
	"central-pos/internal/service"
	"central-pos/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
	); err != nil {
		log.Fatal("Migration failed: ", err)
	}

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)

	productService := service.NewProductService(productRepo, supplierRepo)
	supplierService := service.NewSupplierService(supplierRepo, productRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, db)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)

	productHandler := handler.NewProductHandler(productService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	saleHandler := handler.NewSaleHandler(saleService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Central Computers POS v1.0",
	})

	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api")

	// Auth (public)
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.RequireAuth(userRepo), authHandler.Me)

	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Products
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/low-stock", productHandler.GetLowStockProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", middleware.RequireRoles(model.RoleAdmin, model.RoleOwner), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireRoles(model.RoleAdmin, model.RoleOwner), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireRoles(model.RoleAdmin, model.RoleOwner), productHandler.DeleteProduct)

	// Suppliers
	protected.Get("/suppliers", supplierHandler.GetSuppliers)
	protected.Get("/suppliers/:id", supplierHandler.GetSupplier)
	protected.Post("/suppliers", middleware.RequireRoles(model.RoleAdmin, model.RoleOwner), supplierHandler.CreateSupplier)
	protected.Put("/suppliers/:id", middleware.RequireRoles(model.RoleAdmin, model.RoleOwner), supplierHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", middleware.RequireRoles(model.RoleAdmin, model.RoleOwner), supplierHandler.DeleteSupplier)

	// Sales (statistics route must precede :id)
	protected.Get("/sales", saleHandler.GetSales)
	protected.Get("/sales/statistics", saleHandler.GetStatistics)
	protected.Get("/sales/:id", saleHandler.GetSale)
	protected.Post("/sales", saleHandler.CreateSale)
	protected.Put("/sales/:id", saleHandler.UpdateSale)
	protected.Delete("/sales/:id", middleware.RequireRoles(model.RoleAdmin, model.RoleOwner), saleHandler.DeleteSale)

	// User management (admin only)
	users := protected.Group("/users", middleware.RequireRoles(model.RoleAdmin))
	users.Get("/", userHandler.GetUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Post("/", userHandler.CreateUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default admin account on first boot.
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	if _, err := userRepo.FindByEmail("admin@example.com"); err == nil {
		return
	}

	admin := &model.User{
		Username: "admin",
		Email:    "admin@example.com",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword("admin123"); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Println("Admin user created: admin / admin123")
	}
}
