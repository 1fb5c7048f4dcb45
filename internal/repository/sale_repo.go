package repository

import (
	"time"

	"central-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	FindPage(limit, offset int, startDate, endDate *time.Time) ([]model.Sale, int64, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	CountCreatedSince(tx *gorm.DB, since time.Time) (int64, error)
	SumAndCount(startDate, endDate time.Time) (float64, int64, error)
	DailySales(startDate, endDate time.Time) ([]DailySalesRow, error)
	TopProducts(startDate, endDate time.Time, limit int) ([]TopProductRow, error)
	RecentSales(startDate, endDate time.Time, limit int) ([]model.Sale, error)
}

// DailySalesRow is one calendar day in the statistics breakdown.
type DailySalesRow struct {
	Date  string  `json:"date"`
	Count int64   `json:"count"`
	Total float64 `json:"total"`
}

// TopProductRow aggregates quantity sold and revenue per product.
type TopProductRow struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	TotalQuantity int64     `json:"total_quantity"`
	TotalAmount   float64   `json:"total_amount"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) FindPage(limit, offset int, startDate, endDate *time.Time) ([]model.Sale, int64, error) {
	dateFilter := func(q *gorm.DB) *gorm.DB {
		if startDate != nil && endDate != nil {
			return q.Where("created_at BETWEEN ? AND ?", *startDate, *endDate)
		}
		if startDate != nil {
			return q.Where("created_at >= ?", *startDate)
		}
		if endDate != nil {
			return q.Where("created_at <= ?", *endDate)
		}
		return q
	}

	var count int64
	if err := dateFilter(r.db.Model(&model.Sale{})).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var sales []model.Sale
	err := dateFilter(r.db.Preload("User").Preload("Items").Preload("Items.Product")).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&sales).Error
	return sales, count, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("User").Preload("Items").Preload("Items.Product").
		First(&sale, "id = ?", id).Error
	return &sale, err
}

// CountCreatedSince counts sales created at or after the given instant.
// Runs on the caller's transaction so the invoice sequence is read in the
// same snapshot that writes the new sale.
func (r *saleRepo) CountCreatedSince(tx *gorm.DB, since time.Time) (int64, error) {
	var count int64
	err := tx.Model(&model.Sale{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *saleRepo) SumAndCount(startDate, endDate time.Time) (float64, int64, error) {
	var total float64
	err := r.db.Model(&model.Sale{}).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, 0, err
	}

	var count int64
	err = r.db.Model(&model.Sale{}).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Count(&count).Error
	if err != nil {
		return 0, 0, err
	}

	return total, count, nil
}

func (r *saleRepo) DailySales(startDate, endDate time.Time) ([]DailySalesRow, error) {
	var results []DailySalesRow

	rows, err := r.db.Model(&model.Sale{}).
		Select("DATE(created_at) as date, COUNT(id) as count, COALESCE(SUM(total), 0) as total").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row DailySalesRow
		if err := rows.Scan(&row.Date, &row.Count, &row.Total); err != nil {
			return nil, err
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

func (r *saleRepo) TopProducts(startDate, endDate time.Time, limit int) ([]TopProductRow, error) {
	var results []TopProductRow

	rows, err := r.db.Model(&model.SaleItem{}).
		Select(`sale_items.product_id,
			sale_items.product_name,
			SUM(sale_items.quantity) as total_quantity,
			COALESCE(SUM(sale_items.subtotal), 0) as total_amount`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.created_at BETWEEN ? AND ?", startDate, endDate).
		Group("sale_items.product_id, sale_items.product_name").
		Order("total_quantity DESC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row TopProductRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.TotalQuantity, &row.TotalAmount); err != nil {
			return nil, err
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

func (r *saleRepo) RecentSales(startDate, endDate time.Time, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("User").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}
