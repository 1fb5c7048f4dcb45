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

type SupplierService interface {
	CreateSupplier(req *CreateSupplierRequest, createdBy string) (*model.Supplier, error)
	UpdateSupplier(id uuid.UUID, req *UpdateSupplierRequest, updatedBy string) (*model.Supplier, error)
	DeactivateSupplier(id uuid.UUID, updatedBy string) error
	GetSuppliers() ([]model.Supplier, error)
	GetSupplierByID(id uuid.UUID) (*model.Supplier, error)
}

type CreateSupplierRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Notes         string `json:"notes"`
}

type UpdateSupplierRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	PostalCode    *string `json:"postal_code"`
	Notes         *string `json:"notes"`
	IsActive      *bool   `json:"is_active"`
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
}

func NewSupplierService(supplierRepo repository.SupplierRepository, productRepo repository.ProductRepository) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
	}
}

func (s *supplierService) CreateSupplier(req *CreateSupplierRequest, createdBy string) (*model.Supplier, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("Validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	supplier := model.Supplier{
		BaseModel:     model.BaseModel{CreatedBy: createdBy, UpdatedBy: createdBy},
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Notes:         req.Notes,
		IsActive:      true,
	}

	if err := s.supplierRepo.Create(&supplier); err != nil {
		return nil, apperr.Persistence(err)
	}
	return &supplier, nil
}

func (s *supplierService) UpdateSupplier(id uuid.UUID, req *UpdateSupplierRequest, updatedBy string) (*model.Supplier, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("Validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Supplier not found")
		}
		return nil, apperr.Persistence(err)
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.ContactPerson != nil {
		supplier.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.City != nil {
		supplier.City = *req.City
	}
	if req.PostalCode != nil {
		supplier.PostalCode = *req.PostalCode
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}

	supplier.UpdatedBy = updatedBy
	supplier.Products = nil

	if err := s.supplierRepo.Update(supplier); err != nil {
		return nil, apperr.Persistence(err)
	}
	return supplier, nil
}

// DeactivateSupplier refuses to remove a supplier that products still
// reference, then flags it inactive.
func (s *supplierService) DeactivateSupplier(id uuid.UUID, updatedBy string) error {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Supplier not found")
		}
		return apperr.Persistence(err)
	}

	count, err := s.productRepo.CountBySupplier(id)
	if err != nil {
		return apperr.Persistence(err)
	}
	if count > 0 {
		return apperr.Conflict("Cannot delete supplier. %d products are associated with this supplier.", count)
	}

	supplier.IsActive = false
	supplier.UpdatedBy = updatedBy
	supplier.Products = nil

	if err := s.supplierRepo.Update(supplier); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (s *supplierService) GetSuppliers() ([]model.Supplier, error) {
	suppliers, err := s.supplierRepo.FindAll()
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return suppliers, nil
}

func (s *supplierService) GetSupplierByID(id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Supplier not found")
		}
		return nil, apperr.Persistence(err)
	}
	return supplier, nil
}
