package main

import (
	"log"

	"central-pos/internal/model"
	"central-pos/internal/repository"
	"central-pos/internal/service"
	"central-pos/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Loads demo data for development: users for each role, suppliers, a small
// product catalog, and a couple of sales created through the real sale
// workflow so stock and invoice numbers stay consistent.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

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

	wipe(db)

	users := seedUsers(db)
	suppliers := seedSuppliers(db)
	products := seedProducts(db, suppliers)
	seedSales(db, users, products)

	log.Println("Seeding complete")
}

func wipe(db *gorm.DB) {
	for _, m := range []interface{}{&model.SaleItem{}, &model.Sale{}, &model.Product{}, &model.Supplier{}, &model.User{}} {
		if err := db.Unscoped().Where("1 = 1").Delete(m).Error; err != nil {
			log.Printf("Warning: failed to clear table: %v", err)
		}
	}
}

func seedUsers(db *gorm.DB) []model.User {
	users := []model.User{
		{Username: "admin", Email: "admin@example.com", Role: model.RoleAdmin, IsActive: true},
		{Username: "owner", Email: "owner@example.com", Role: model.RoleOwner, IsActive: true},
		{Username: "karyawan", Email: "karyawan@example.com", Role: model.RoleKaryawan, IsActive: true},
	}
	for i := range users {
		if err := users[i].SetPassword("password123"); err != nil {
			log.Fatal("hash password: ", err)
		}
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatal("seed user: ", err)
		}
	}
	log.Printf("%d users created", len(users))
	return users
}

func seedSuppliers(db *gorm.DB) []model.Supplier {
	suppliers := []model.Supplier{
		{
			Name:          "PT Komputer Sejahtera",
			ContactPerson: "Budi Santoso",
			Email:         "budi@komputersejahtera.com",
			Phone:         "081234567890",
			Address:       "Jl. Komputer No. 123",
			City:          "Jakarta",
			PostalCode:    "12345",
			IsActive:      true,
		},
		{
			Name:          "CV Elektronik Maju",
			ContactPerson: "Siti Aminah",
			Email:         "siti@elektronikmaju.com",
			Phone:         "087654321098",
			Address:       "Jl. Elektronik No. 456",
			City:          "Bandung",
			PostalCode:    "54321",
			IsActive:      true,
		},
		{
			Name:          "UD Komponen Lengkap",
			ContactPerson: "Agus Widodo",
			Email:         "agus@komponenlengkap.com",
			Phone:         "089876543210",
			Address:       "Jl. Komponen No. 789",
			City:          "Surabaya",
			PostalCode:    "67890",
			IsActive:      true,
		},
	}
	for i := range suppliers {
		if err := db.Create(&suppliers[i]).Error; err != nil {
			log.Fatal("seed supplier: ", err)
		}
	}
	log.Printf("%d suppliers created", len(suppliers))
	return suppliers
}

func seedProducts(db *gorm.DB, suppliers []model.Supplier) []model.Product {
	duration := 60
	products := []model.Product{
		{
			Name:        "Laptop ASUS VivoBook 14",
			Type:        model.ProductPhysical,
			SKU:         "LAP-ASUS-001",
			Price:       8500000,
			Cost:        7800000,
			Quantity:    12,
			MinQuantity: 3,
			Category:    "Laptop",
			Brand:       "ASUS",
			SupplierID:  &suppliers[0].ID,
			IsActive:    true,
		},
		{
			Name:        "RAM DDR4 16GB",
			Type:        model.ProductPhysical,
			SKU:         "RAM-DDR4-16",
			Price:       850000,
			Cost:        700000,
			Quantity:    30,
			MinQuantity: 10,
			Category:    "Komponen",
			Brand:       "Corsair",
			SupplierID:  &suppliers[2].ID,
			IsActive:    true,
		},
		{
			Name:        "SSD NVMe 1TB",
			Type:        model.ProductPhysical,
			SKU:         "SSD-NVME-1T",
			Price:       1400000,
			Cost:        1150000,
			Quantity:    20,
			MinQuantity: 5,
			Category:    "Komponen",
			Brand:       "Samsung",
			SupplierID:  &suppliers[2].ID,
			IsActive:    true,
		},
		{
			Name:        "Monitor 24 inch IPS",
			Type:        model.ProductPhysical,
			SKU:         "MON-IPS-24",
			Price:       2100000,
			Cost:        1750000,
			Quantity:    8,
			MinQuantity: 2,
			Category:    "Monitor",
			Brand:       "LG",
			SupplierID:  &suppliers[1].ID,
			IsActive:    true,
		},
		{
			Name:           "Instalasi Ulang OS",
			Type:           model.ProductService,
			SKU:            "SVC-OS-001",
			Price:          150000,
			IsActive:       true,
			Duration:       &duration,
			ServiceDetails: "Instalasi ulang sistem operasi termasuk driver dan update",
		},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			log.Fatal("seed product: ", err)
		}
	}
	log.Printf("%d products created", len(products))
	return products
}

func seedSales(db *gorm.DB, users []model.User, products []model.Product) {
	saleRepo := repository.NewSaleRepo(db)
	productRepo := repository.NewProductRepo(db)
	saleService := service.NewSaleService(saleRepo, productRepo, db)

	kasir := users[2].ID
	requests := []*service.CreateSaleRequest{
		{
			CustomerName:  "Andi Pratama",
			CustomerPhone: "081111111111",
			Items: []service.SaleItemInput{
				{ProductID: products[0].ID, Quantity: 1},
				{ProductID: products[1].ID, Quantity: 2},
			},
			PaymentMethod: model.PaymentCash,
			PaymentStatus: model.PaymentPaid,
		},
		{
			CustomerName: "Dewi Lestari",
			Items: []service.SaleItemInput{
				{ProductID: products[2].ID, Quantity: 1},
				{ProductID: products[4].ID, Quantity: 1},
			},
			PaymentMethod: model.PaymentTransfer,
			PaymentStatus: model.PaymentPaid,
		},
	}

	for _, req := range requests {
		if _, err := saleService.CreateSale(req, &kasir); err != nil {
			log.Fatal("seed sale: ", err)
		}
	}
	log.Printf("%d sales created", len(requests))
}
