package service

import (
	"fmt"
	"math"
	"testing"
	"time"

	"central-pos/internal/apperr"
	"central-pos/internal/model"
	"central-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSaleTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Supplier{}, &model.Product{}, &model.Sale{}, &model.SaleItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newSaleService(db *gorm.DB) SaleService {
	return NewSaleService(repository.NewSaleRepo(db), repository.NewProductRepo(db), db)
}

func seedPhysicalProduct(t *testing.T, db *gorm.DB, sku string, price float64, quantity, minQuantity int) model.Product {
	t.Helper()
	product := model.Product{
		Name:        "Product " + sku,
		Type:        model.ProductPhysical,
		SKU:         sku,
		Price:       price,
		Quantity:    quantity,
		MinQuantity: minQuantity,
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func seedServiceProduct(t *testing.T, db *gorm.DB, sku string, price float64) model.Product {
	t.Helper()
	product := model.Product{
		Name:     "Service " + sku,
		Type:     model.ProductService,
		SKU:      sku,
		Price:    price,
		IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed service product: %v", err)
	}
	return product
}

func reloadProduct(t *testing.T, db *gorm.DB, id uuid.UUID) model.Product {
	t.Helper()
	var product model.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return product
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func TestCreateSaleComputesTotalsAndDecrementsStock(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)
	product := seedPhysicalProduct(t, db, "SKU-1", 100000, 5, 3)

	sale, err := svc.CreateSale(&CreateSaleRequest{
		CustomerName: "Andi",
		Items:        []SaleItemInput{{ProductID: product.ID, Quantity: 5}},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	if !almostEqual(sale.Subtotal, 500000) {
		t.Errorf("subtotal = %v, want 500000", sale.Subtotal)
	}
	if !almostEqual(sale.Tax, 55000) {
		t.Errorf("tax = %v, want 55000", sale.Tax)
	}
	if !almostEqual(sale.Total, 555000) {
		t.Errorf("total = %v, want 555000", sale.Total)
	}
	if len(sale.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(sale.Items))
	}
	if sale.Items[0].ProductName != product.Name || sale.Items[0].ProductSKU != product.SKU {
		t.Errorf("item snapshot = %q/%q, want %q/%q", sale.Items[0].ProductName, sale.Items[0].ProductSKU, product.Name, product.SKU)
	}

	after := reloadProduct(t, db, product.ID)
	if after.Quantity != 0 {
		t.Errorf("quantity after sale = %d, want 0", after.Quantity)
	}

	// Quantity 0 is below the threshold of 3, so the product shows up in
	// the low-stock report.
	low, err := repository.NewProductRepo(db).FindLowStock()
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(low) != 1 || low[0].ID != product.ID {
		t.Errorf("expected product in low stock report, got %d entries", len(low))
	}
}

func TestCreateSaleInsufficientStockIsAtomic(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)
	ok := seedPhysicalProduct(t, db, "SKU-OK", 50000, 10, 2)
	scarce := seedPhysicalProduct(t, db, "SKU-LOW", 100000, 5, 3)

	_, err := svc.CreateSale(&CreateSaleRequest{
		Items: []SaleItemInput{
			{ProductID: ok.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 6},
		},
	}, nil)
	if !apperr.Is(err, apperr.KindInsufficientStock) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}

	// Nothing may be persisted: no sale, no items, no stock change on the
	// product that had enough.
	var saleCount, itemCount int64
	db.Model(&model.Sale{}).Count(&saleCount)
	db.Model(&model.SaleItem{}).Count(&itemCount)
	if saleCount != 0 || itemCount != 0 {
		t.Errorf("expected no persisted rows, got %d sales and %d items", saleCount, itemCount)
	}
	if q := reloadProduct(t, db, ok.ID).Quantity; q != 10 {
		t.Errorf("first product quantity = %d, want 10 after rollback", q)
	}
	if q := reloadProduct(t, db, scarce.ID).Quantity; q != 5 {
		t.Errorf("scarce product quantity = %d, want 5 after rollback", q)
	}
}

func TestCreateSaleServiceProductSkipsStock(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)
	svcProduct := seedServiceProduct(t, db, "SVC-1", 150000)

	sale, err := svc.CreateSale(&CreateSaleRequest{
		Items: []SaleItemInput{{ProductID: svcProduct.ID, Quantity: 3}},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if !almostEqual(sale.Subtotal, 450000) {
		t.Errorf("subtotal = %v, want 450000", sale.Subtotal)
	}

	if q := reloadProduct(t, db, svcProduct.ID).Quantity; q != 0 {
		t.Errorf("service product quantity = %d, want 0", q)
	}
}

func TestCreateSaleValidation(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)

	_, err := svc.CreateSale(&CreateSaleRequest{Items: nil}, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("empty items: expected validation error, got %v", err)
	}

	product := seedPhysicalProduct(t, db, "SKU-V", 1000, 10, 1)
	_, err = svc.CreateSale(&CreateSaleRequest{
		Items: []SaleItemInput{{ProductID: product.ID, Quantity: 0}},
	}, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("zero quantity: expected validation error, got %v", err)
	}
}

func TestCreateSaleUnknownProduct(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)

	_, err := svc.CreateSale(&CreateSaleRequest{
		Items: []SaleItemInput{{ProductID: uuid.New(), Quantity: 1}},
	}, nil)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCreateSalePriceOverrideAndDiscountClamp(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)
	product := seedPhysicalProduct(t, db, "SKU-P", 100000, 10, 1)

	override := 80000.0
	sale, err := svc.CreateSale(&CreateSaleRequest{
		Items:    []SaleItemInput{{ProductID: product.ID, Quantity: 1, Price: &override}},
		Discount: 1000000, // far above subtotal+tax, must be clamped
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	if !almostEqual(sale.Subtotal, 80000) {
		t.Errorf("subtotal = %v, want 80000 (request price wins)", sale.Subtotal)
	}
	if sale.Total < 0 {
		t.Errorf("total = %v, must never be negative", sale.Total)
	}
	if !almostEqual(sale.Total, 0) {
		t.Errorf("total = %v, want 0 with clamped discount", sale.Total)
	}
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)
	product := seedPhysicalProduct(t, db, "SKU-D", 100000, 5, 3)
	svcProduct := seedServiceProduct(t, db, "SVC-D", 50000)

	sale, err := svc.CreateSale(&CreateSaleRequest{
		Items: []SaleItemInput{
			{ProductID: product.ID, Quantity: 3},
			{ProductID: svcProduct.ID, Quantity: 1},
		},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if q := reloadProduct(t, db, product.ID).Quantity; q != 2 {
		t.Fatalf("quantity after sale = %d, want 2", q)
	}

	if err := svc.DeleteSale(sale.ID); err != nil {
		t.Fatalf("delete sale: %v", err)
	}

	// Create-then-delete is a no-op on stock.
	if q := reloadProduct(t, db, product.ID).Quantity; q != 5 {
		t.Errorf("quantity after delete = %d, want 5", q)
	}

	var saleCount, itemCount int64
	db.Model(&model.Sale{}).Count(&saleCount)
	db.Model(&model.SaleItem{}).Count(&itemCount)
	if saleCount != 0 || itemCount != 0 {
		t.Errorf("expected sale and items removed, got %d sales and %d items", saleCount, itemCount)
	}
}

func TestDeleteSaleSkipsDeactivatedProducts(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)
	product := seedPhysicalProduct(t, db, "SKU-X", 100000, 5, 3)

	sale, err := svc.CreateSale(&CreateSaleRequest{
		Items: []SaleItemInput{{ProductID: product.ID, Quantity: 2}},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	if err := db.Model(&model.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product: %v", err)
	}

	if err := svc.DeleteSale(sale.ID); err != nil {
		t.Fatalf("delete sale: %v", err)
	}

	// Restoration is best-effort and skips deactivated products.
	if q := reloadProduct(t, db, product.ID).Quantity; q != 3 {
		t.Errorf("quantity = %d, want 3 (no restoration)", q)
	}
}

func TestDeleteSaleNotFound(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)

	err := svc.DeleteSale(uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUpdateSaleHeaderOnly(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)
	product := seedPhysicalProduct(t, db, "SKU-U", 100000, 5, 1)

	sale, err := svc.CreateSale(&CreateSaleRequest{
		CustomerName: "Before",
		Items:        []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	name := "After"
	status := model.PaymentRefunded
	updated, err := svc.UpdateSale(sale.ID, &UpdateSaleRequest{
		CustomerName:  &name,
		PaymentStatus: &status,
	}, "tester")
	if err != nil {
		t.Fatalf("update sale: %v", err)
	}

	if updated.CustomerName != "After" || updated.PaymentStatus != model.PaymentRefunded {
		t.Errorf("header not updated: %q %q", updated.CustomerName, updated.PaymentStatus)
	}
	if !almostEqual(updated.Total, sale.Total) {
		t.Errorf("total changed on header update: %v -> %v", sale.Total, updated.Total)
	}
	// Stock untouched by a header update.
	if q := reloadProduct(t, db, product.ID).Quantity; q != 4 {
		t.Errorf("quantity = %d, want 4", q)
	}

	_, err = svc.UpdateSale(uuid.New(), &UpdateSaleRequest{CustomerName: &name}, "tester")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestInvoiceNumbersAreSequentialWithinDay(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)
	product := seedPhysicalProduct(t, db, "SKU-I", 1000, 100, 1)

	first, err := svc.CreateSale(&CreateSaleRequest{
		Items: []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("first sale: %v", err)
	}
	second, err := svc.CreateSale(&CreateSaleRequest{
		Items: []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("second sale: %v", err)
	}

	day := time.Now().Format("20060102")
	if want := fmt.Sprintf("INV-%s-0001", day); first.InvoiceNumber != want {
		t.Errorf("first invoice = %s, want %s", first.InvoiceNumber, want)
	}
	if want := fmt.Sprintf("INV-%s-0002", day); second.InvoiceNumber != want {
		t.Errorf("second invoice = %s, want %s", second.InvoiceNumber, want)
	}
}

func TestStatisticsAggregation(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)
	a := seedPhysicalProduct(t, db, "SKU-A", 100000, 50, 1)
	b := seedPhysicalProduct(t, db, "SKU-B", 50000, 50, 1)

	s1, err := svc.CreateSale(&CreateSaleRequest{
		Items: []SaleItemInput{{ProductID: a.ID, Quantity: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("sale 1: %v", err)
	}
	s2, err := svc.CreateSale(&CreateSaleRequest{
		Items: []SaleItemInput{{ProductID: b.ID, Quantity: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("sale 2: %v", err)
	}

	stats, err := svc.GetStatistics(nil, nil)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}

	wantTotal := s1.Total + s2.Total
	if !almostEqual(stats.TotalSales, wantTotal) {
		t.Errorf("totalSales = %v, want %v", stats.TotalSales, wantTotal)
	}
	if stats.TotalOrders != 2 {
		t.Errorf("totalOrders = %d, want 2", stats.TotalOrders)
	}
	if !almostEqual(stats.AverageSaleValue, wantTotal/2) {
		t.Errorf("averageSaleValue = %v, want %v", stats.AverageSaleValue, wantTotal/2)
	}

	if len(stats.DailySales) != 1 {
		t.Fatalf("dailySales entries = %d, want 1", len(stats.DailySales))
	}
	if stats.DailySales[0].Count != 2 || !almostEqual(stats.DailySales[0].Total, wantTotal) {
		t.Errorf("daily entry = %+v, want count 2 total %v", stats.DailySales[0], wantTotal)
	}

	if len(stats.TopProducts) != 2 {
		t.Fatalf("topProducts entries = %d, want 2", len(stats.TopProducts))
	}
	if len(stats.RecentSales) != 2 {
		t.Errorf("recentSales entries = %d, want 2", len(stats.RecentSales))
	}
}

func TestStatisticsZeroOrders(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)

	stats, err := svc.GetStatistics(nil, nil)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}

	if stats.TotalSales != 0 || stats.TotalOrders != 0 {
		t.Errorf("expected zero totals, got %v/%d", stats.TotalSales, stats.TotalOrders)
	}
	if stats.AverageSaleValue != 0 {
		t.Errorf("averageSaleValue = %v, want 0 (never NaN)", stats.AverageSaleValue)
	}
	if stats.DailySales == nil || stats.TopProducts == nil || stats.RecentSales == nil {
		t.Error("breakdowns must be empty slices, not nil")
	}
}

func TestStatisticsRecentSalesRespectRange(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)
	product := seedPhysicalProduct(t, db, "SKU-R", 1000, 10, 1)

	if _, err := svc.CreateSale(&CreateSaleRequest{
		Items: []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
	}, nil); err != nil {
		t.Fatalf("create sale: %v", err)
	}

	// A window entirely in the past excludes today's sale from every
	// breakdown, including recent sales.
	end := time.Now().AddDate(0, 0, -60)
	start := end.AddDate(0, 0, -30)
	stats, err := svc.GetStatistics(&start, &end)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}

	if stats.TotalOrders != 0 || len(stats.RecentSales) != 0 {
		t.Errorf("expected empty range, got %d orders and %d recent sales", stats.TotalOrders, len(stats.RecentSales))
	}
}

func TestGetSalesPagination(t *testing.T) {
	db := setupSaleTestDB(t)
	svc := newSaleService(db)
	product := seedPhysicalProduct(t, db, "SKU-PG", 1000, 100, 1)

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSale(&CreateSaleRequest{
			Items: []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
		}, nil); err != nil {
			t.Fatalf("sale %d: %v", i, err)
		}
	}

	page, err := svc.GetSales(1, 2, nil, nil)
	if err != nil {
		t.Fatalf("get sales: %v", err)
	}
	if page.Count != 3 || page.TotalPages != 2 || len(page.Sales) != 2 {
		t.Errorf("page = count %d, pages %d, rows %d; want 3/2/2", page.Count, page.TotalPages, len(page.Sales))
	}
}
