package repository

import (
	"central-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(productType string) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Update(product *model.Product) error
	FindLowStock() ([]model.Product, error)
	CountBySupplier(supplierID uuid.UUID) (int64, error)
	DecrementStock(tx *gorm.DB, id uuid.UUID, qty int) (int64, error)
	RestoreStock(tx *gorm.DB, id uuid.UUID, qty int) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(productType string) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Preload("Supplier")
	if productType == string(model.ProductPhysical) || productType == string(model.ProductService) {
		q = q.Where("type = ?", productType)
	}
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Supplier").First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	return &product, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

// FindLowStock returns active physical products whose on-hand quantity fell
// below their threshold, with supplier contact info for reordering.
func (r *productRepo) FindLowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Supplier").
		Where("is_active = ? AND type = ? AND quantity < min_quantity", true, model.ProductPhysical).
		Order("quantity ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CountBySupplier(supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("supplier_id = ?", supplierID).Count(&count).Error
	return count, err
}

// DecrementStock subtracts qty from on-hand stock only if enough is
// available, and reports the number of rows changed. Zero rows means the
// guard failed and the caller must treat the stock as insufficient. The
// conditional update makes concurrent sales against the same product safe
// without row locks.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	return res.RowsAffected, res.Error
}

// RestoreStock adds qty back after a sale is deleted.
func (r *productRepo) RestoreStock(tx *gorm.DB, id uuid.UUID, qty int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty)).Error
}
