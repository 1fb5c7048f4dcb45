package service

import (
	"errors"

	"central-pos/internal/apperr"
	"central-pos/internal/model"
	"central-pos/internal/repository"
	"central-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(req *CreateProductRequest, createdBy string) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *UpdateProductRequest, updatedBy string) (*model.Product, error)
	DeactivateProduct(id uuid.UUID, updatedBy string) error
	GetProducts(productType string) ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	GetLowStockProducts() ([]model.Product, error)
}

type CreateProductRequest struct {
	Name           string     `json:"name" validate:"required"`
	Description    string     `json:"description"`
	Type           string     `json:"type" validate:"omitempty,oneof=physical service"`
	SKU            string     `json:"sku" validate:"required"`
	Barcode        string     `json:"barcode"`
	Price          float64    `json:"price" validate:"gte=0"`
	Cost           float64    `json:"cost" validate:"gte=0"`
	Quantity       int        `json:"quantity" validate:"gte=0"`
	MinQuantity    *int       `json:"min_quantity" validate:"omitempty,gte=0"`
	Category       string     `json:"category"`
	Brand          string     `json:"brand"`
	Location       string     `json:"location"`
	SupplierID     *uuid.UUID `json:"supplier_id"`
	Duration       *int       `json:"duration"`
	ServiceDetails string     `json:"service_details"`
}

type UpdateProductRequest struct {
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	Type           *string    `json:"type" validate:"omitempty,oneof=physical service"`
	SKU            *string    `json:"sku"`
	Barcode        *string    `json:"barcode"`
	Price          *float64   `json:"price" validate:"omitempty,gte=0"`
	Cost           *float64   `json:"cost" validate:"omitempty,gte=0"`
	Quantity       *int       `json:"quantity" validate:"omitempty,gte=0"`
	MinQuantity    *int       `json:"min_quantity" validate:"omitempty,gte=0"`
	Category       *string    `json:"category"`
	Brand          *string    `json:"brand"`
	Location       *string    `json:"location"`
	SupplierID     *uuid.UUID `json:"supplier_id"`
	IsActive       *bool      `json:"is_active"`
	Duration       *int       `json:"duration"`
	ServiceDetails *string    `json:"service_details"`
}

type productService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
}

func NewProductService(productRepo repository.ProductRepository, supplierRepo repository.SupplierRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
	}
}

func (s *productService) CreateProduct(req *CreateProductRequest, createdBy string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("Validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	existing, err := s.productRepo.FindBySKU(req.SKU)
	if err == nil && existing.ID != uuid.Nil {
		return nil, apperr.Conflict("Product with this SKU already exists")
	}

	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(*req.SupplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("Supplier not found")
			}
			return nil, apperr.Persistence(err)
		}
	}

	productType := model.ProductType(req.Type)
	if productType == "" {
		productType = model.ProductPhysical
	}

	minQuantity := 5
	if req.MinQuantity != nil {
		minQuantity = *req.MinQuantity
	}

	product := model.Product{
		BaseModel:   model.BaseModel{CreatedBy: createdBy, UpdatedBy: createdBy},
		Name:        req.Name,
		Description: req.Description,
		Type:        productType,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		Price:       req.Price,
		Cost:        req.Cost,
		Quantity:    req.Quantity,
		MinQuantity: minQuantity,
		Category:    req.Category,
		Brand:       req.Brand,
		Location:    req.Location,
		SupplierID:  req.SupplierID,
		IsActive:    true,
	}

	// Service products never track stock; physical products never carry
	// service attributes.
	if productType == model.ProductService {
		product.Quantity = 0
		product.MinQuantity = 0
		product.Duration = req.Duration
		product.ServiceDetails = req.ServiceDetails
	}

	if err := s.productRepo.Create(&product); err != nil {
		return nil, apperr.Persistence(err)
	}

	return &product, nil
}

func (s *productService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest, updatedBy string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("Validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Persistence(err)
	}

	if req.SKU != nil && *req.SKU != product.SKU {
		existing, err := s.productRepo.FindBySKU(*req.SKU)
		if err == nil && existing.ID != uuid.Nil {
			return nil, apperr.Conflict("Product with this SKU already exists")
		}
		product.SKU = *req.SKU
	}

	if req.SupplierID != nil && (product.SupplierID == nil || *req.SupplierID != *product.SupplierID) {
		if _, err := s.supplierRepo.FindByID(*req.SupplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("Supplier not found")
			}
			return nil, apperr.Persistence(err)
		}
		product.SupplierID = req.SupplierID
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Type != nil {
		product.Type = model.ProductType(*req.Type)
	}
	if req.Barcode != nil {
		product.Barcode = *req.Barcode
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.MinQuantity != nil {
		product.MinQuantity = *req.MinQuantity
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Location != nil {
		product.Location = *req.Location
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.Duration != nil {
		product.Duration = req.Duration
	}
	if req.ServiceDetails != nil {
		product.ServiceDetails = *req.ServiceDetails
	}

	if product.Type == model.ProductService {
		product.Quantity = 0
		product.MinQuantity = 0
	} else {
		product.Duration = nil
		product.ServiceDetails = ""
	}

	product.UpdatedBy = updatedBy
	product.Supplier = nil // avoid re-saving the preloaded association

	if err := s.productRepo.Update(product); err != nil {
		return nil, apperr.Persistence(err)
	}

	updated, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return updated, nil
}

// DeactivateProduct is the delete operation: products referenced by past
// sales are flagged inactive, never removed.
func (s *productService) DeactivateProduct(id uuid.UUID, updatedBy string) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Product not found")
		}
		return apperr.Persistence(err)
	}

	product.IsActive = false
	product.UpdatedBy = updatedBy
	product.Supplier = nil

	if err := s.productRepo.Update(product); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (s *productService) GetProducts(productType string) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(productType)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return products, nil
}

func (s *productService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Persistence(err)
	}
	return product, nil
}

func (s *productService) GetLowStockProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindLowStock()
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return products, nil
}
