package service

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"central-pos/internal/apperr"
	"central-pos/internal/model"
	"central-pos/internal/repository"
	"central-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleService interface {
	CreateSale(req *CreateSaleRequest, userID *uuid.UUID) (*model.Sale, error)
	UpdateSale(id uuid.UUID, req *UpdateSaleRequest, updatedBy string) (*model.Sale, error)
	DeleteSale(id uuid.UUID) error
	GetSaleByID(id uuid.UUID) (*model.Sale, error)
	GetSales(page, limit int, startDate, endDate *time.Time) (*SalePage, error)
	GetStatistics(startDate, endDate *time.Time) (*SalesStatistics, error)
}

// SaleItemInput is one requested line. Price is optional and falls back to
// the product's current price.
type SaleItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
	Price     *float64  `json:"price" validate:"omitempty,gte=0"`
	Discount  float64   `json:"discount" validate:"gte=0"`
}

type CreateSaleRequest struct {
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	CustomerEmail string          `json:"customer_email" validate:"omitempty,email"`
	Items         []SaleItemInput `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,oneof=cash credit_card debit_card transfer e_wallet"`
	PaymentStatus string          `json:"payment_status" validate:"omitempty,oneof=pending paid partial cancelled refunded"`
	Discount      float64         `json:"discount" validate:"gte=0"`
	Notes         string          `json:"notes"`
}

// UpdateSaleRequest only covers header fields. Line items and the computed
// totals are immutable once a sale exists.
type UpdateSaleRequest struct {
	CustomerName  *string `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone"`
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,oneof=cash credit_card debit_card transfer e_wallet"`
	PaymentStatus *string `json:"payment_status" validate:"omitempty,oneof=pending paid partial cancelled refunded"`
	Notes         *string `json:"notes"`
}

type SalePage struct {
	Sales       []model.Sale `json:"data"`
	Count       int64        `json:"count"`
	TotalPages  int          `json:"total_pages"`
	CurrentPage int          `json:"current_page"`
}

type SalesStatistics struct {
	TotalSales       float64                    `json:"total_sales"`
	TotalOrders      int64                      `json:"total_orders"`
	AverageSaleValue float64                    `json:"average_sale_value"`
	DailySales       []repository.DailySalesRow `json:"daily_sales"`
	TopProducts      []repository.TopProductRow `json:"top_products"`
	RecentSales      []model.Sale               `json:"recent_sales"`
}

type saleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewSaleService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository, db *gorm.DB) SaleService {
	return &saleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		db:          db,
	}
}

// round2 snaps a monetary value to the currency's minimum unit.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateSale runs the whole sale workflow in one transaction: item
// validation, stock checks and decrements, totals, invoice numbering, and
// the sale + item inserts. Any failure rolls back every stock change.
func (s *saleService) CreateSale(req *CreateSaleRequest, userID *uuid.UUID) (*model.Sale, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("Validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = model.PaymentCash
	}
	if req.PaymentStatus == "" {
		req.PaymentStatus = model.PaymentPaid
	}

	createdBy := "system"
	if userID != nil {
		createdBy = userID.String()
	}

	var saleID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		items := make([]model.SaleItem, 0, len(req.Items))

		for _, input := range req.Items {
			var product model.Product
			if err := tx.First(&product, "id = ?", input.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("Product with ID %s not found", input.ProductID)
				}
				return apperr.Persistence(err)
			}

			if product.IsPhysical() && product.Quantity < input.Quantity {
				return apperr.InsufficientStock(product.Name)
			}

			price := product.Price
			if input.Price != nil {
				price = *input.Price
			}
			lineSubtotal := round2(price*float64(input.Quantity) - input.Discount)
			subtotal += lineSubtotal

			items = append(items, model.SaleItem{
				BaseModel:   model.BaseModel{CreatedBy: createdBy, UpdatedBy: createdBy},
				ProductID:   product.ID,
				Quantity:    input.Quantity,
				Price:       price,
				Discount:    input.Discount,
				Subtotal:    lineSubtotal,
				ProductName: product.Name,
				ProductSKU:  product.SKU,
			})

			if product.IsPhysical() {
				// The conditional decrement is the authoritative stock
				// check: a concurrent sale that drained the stock after the
				// read above makes this touch zero rows.
				rows, err := s.productRepo.DecrementStock(tx, product.ID, input.Quantity)
				if err != nil {
					return apperr.Persistence(err)
				}
				if rows == 0 {
					return apperr.InsufficientStock(product.Name)
				}
			}
		}

		subtotal = round2(subtotal)
		tax := round2(subtotal * model.TaxRate)

		// Discount is clamped so the grand total can never go negative.
		discount := req.Discount
		if discount > subtotal+tax {
			discount = subtotal + tax
		}
		total := round2(subtotal + tax - discount)

		invoiceNumber, err := s.nextInvoiceNumber(tx)
		if err != nil {
			return apperr.Persistence(err)
		}

		sale := model.Sale{
			BaseModel:     model.BaseModel{CreatedBy: createdBy, UpdatedBy: createdBy},
			InvoiceNumber: invoiceNumber,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			CustomerEmail: req.CustomerEmail,
			Subtotal:      subtotal,
			Tax:           tax,
			Discount:      discount,
			Total:         total,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: req.PaymentStatus,
			Notes:         req.Notes,
			UserID:        userID,
			Items:         items,
		}

		if err := tx.Create(&sale).Error; err != nil {
			return apperr.Persistence(err)
		}

		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.saleRepo.FindByID(saleID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return created, nil
}

// nextInvoiceNumber builds INV-YYYYMMDD-NNNN where the sequence restarts
// every local calendar day.
func (s *saleService) nextInvoiceNumber(tx *gorm.DB) (string, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	count, err := s.saleRepo.CountCreatedSince(tx, midnight)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("INV-%s-%04d", now.Format("20060102"), count+1), nil
}

func (s *saleService) UpdateSale(id uuid.UUID, req *UpdateSaleRequest, updatedBy string) (*model.Sale, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("Validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	var sale model.Sale
	if err := s.db.First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Sale not found")
		}
		return nil, apperr.Persistence(err)
	}

	if req.CustomerName != nil {
		sale.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		sale.CustomerPhone = *req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		sale.CustomerEmail = *req.CustomerEmail
	}
	if req.PaymentMethod != nil {
		sale.PaymentMethod = *req.PaymentMethod
	}
	if req.PaymentStatus != nil {
		sale.PaymentStatus = *req.PaymentStatus
	}
	if req.Notes != nil {
		sale.Notes = *req.Notes
	}
	sale.UpdatedBy = updatedBy

	if err := s.db.Save(&sale).Error; err != nil {
		return nil, apperr.Persistence(err)
	}

	updated, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return updated, nil
}

// DeleteSale removes a sale and its items, restoring on-hand stock for every
// physical line. Restoration is best-effort: products that disappeared or
// were deactivated since the sale are skipped.
func (s *saleService) DeleteSale(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var sale model.Sale
		if err := tx.Preload("Items").First(&sale, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Sale not found")
			}
			return apperr.Persistence(err)
		}

		for _, item := range sale.Items {
			var product model.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return apperr.Persistence(err)
			}
			if !product.IsPhysical() || !product.IsActive {
				continue
			}
			if err := s.productRepo.RestoreStock(tx, product.ID, item.Quantity); err != nil {
				return apperr.Persistence(err)
			}
		}

		if err := tx.Unscoped().Where("sale_id = ?", id).Delete(&model.SaleItem{}).Error; err != nil {
			return apperr.Persistence(err)
		}
		if err := tx.Unscoped().Delete(&sale).Error; err != nil {
			return apperr.Persistence(err)
		}

		return nil
	})
}

func (s *saleService) GetSaleByID(id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Sale not found")
		}
		return nil, apperr.Persistence(err)
	}
	return sale, nil
}

func (s *saleService) GetSales(page, limit int, startDate, endDate *time.Time) (*SalePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	sales, count, err := s.saleRepo.FindPage(limit, offset, startDate, endDate)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	totalPages := int(math.Ceil(float64(count) / float64(limit)))
	return &SalePage{
		Sales:       sales,
		Count:       count,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// GetStatistics aggregates the range (default: last 30 days). The daily,
// top-product, and recent-sale breakdowns degrade to empty results when
// their query fails; only the headline totals propagate an error.
func (s *saleService) GetStatistics(startDate, endDate *time.Time) (*SalesStatistics, error) {
	end := time.Now()
	if endDate != nil {
		end = *endDate
	}
	start := end.AddDate(0, 0, -30)
	if startDate != nil {
		start = *startDate
	}

	totalSales, totalOrders, err := s.saleRepo.SumAndCount(start, end)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	averageSaleValue := 0.0
	if totalOrders > 0 {
		averageSaleValue = totalSales / float64(totalOrders)
	}

	dailySales, err := s.saleRepo.DailySales(start, end)
	if err != nil {
		log.Printf("Warning: daily sales aggregation failed: %v", err)
		dailySales = nil
	}
	if dailySales == nil {
		dailySales = []repository.DailySalesRow{}
	}

	topProducts, err := s.saleRepo.TopProducts(start, end, 5)
	if err != nil {
		log.Printf("Warning: top products aggregation failed: %v", err)
		topProducts = nil
	}
	if topProducts == nil {
		topProducts = []repository.TopProductRow{}
	}

	recentSales, err := s.saleRepo.RecentSales(start, end, 5)
	if err != nil {
		log.Printf("Warning: recent sales query failed: %v", err)
		recentSales = nil
	}
	if recentSales == nil {
		recentSales = []model.Sale{}
	}

	return &SalesStatistics{
		TotalSales:       totalSales,
		TotalOrders:      totalOrders,
		AverageSaleValue: averageSaleValue,
		DailySales:       dailySales,
		TopProducts:      topProducts,
		RecentSales:      recentSales,
	}, nil
}
