package model

import "github.com/google/uuid"

type ProductType string

const (
	ProductPhysical ProductType = "physical"
	ProductService  ProductType = "service"
)

type Product struct {
	BaseModel
	Name        string      `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string      `gorm:"type:text" json:"description"`
	Type        ProductType `gorm:"type:varchar(10);not null;default:physical" json:"type" validate:"required,oneof=physical service"`
	SKU         string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Barcode     string      `gorm:"type:varchar(50)" json:"barcode"`
	Price       float64     `gorm:"type:numeric(15,2);not null;default:0" json:"price" validate:"gte=0"`
	Cost        float64     `gorm:"type:numeric(15,2);not null;default:0" json:"cost" validate:"gte=0"`

	// Stock is only meaningful for physical products; service products keep
	// both fields at 0.
	Quantity    int `gorm:"not null;default:0" json:"quantity" validate:"gte=0"`
	MinQuantity int `gorm:"not null;default:5" json:"min_quantity" validate:"gte=0"`

	Category string `gorm:"type:varchar(100)" json:"category"`
	Brand    string `gorm:"type:varchar(100)" json:"brand"`
	Location string `gorm:"type:varchar(100)" json:"location"`

	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	// Sales keep historical references to products, so products are
	// deactivated instead of removed.
	IsActive bool `gorm:"default:true" json:"is_active"`

	// Service-only attributes. Duration is in minutes.
	Duration       *int   `json:"duration,omitempty"`
	ServiceDetails string `gorm:"type:text" json:"service_details,omitempty"`
}

// IsPhysical reports whether the product tracks stock.
func (p *Product) IsPhysical() bool {
	return p.Type == ProductPhysical
}

// IsLowStock reports whether on-hand quantity dropped below the threshold.
func (p *Product) IsLowStock() bool {
	return p.IsPhysical() && p.Quantity < p.MinQuantity
}
