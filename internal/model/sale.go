package model

import "github.com/google/uuid"

// Payment methods accepted at the register.
const (
	PaymentCash       = "cash"
	PaymentCreditCard = "credit_card"
	PaymentDebitCard  = "debit_card"
	PaymentTransfer   = "transfer"
	PaymentEWallet    = "e_wallet"
)

// Payment statuses a sale can be in.
const (
	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentPartial   = "partial"
	PaymentCancelled = "cancelled"
	PaymentRefunded  = "refunded"
)

// TaxRate is applied to every sale subtotal. Fixed, not configurable per
// sale.
const TaxRate = 0.11

// Sale is one completed purchase: monetary aggregates, customer contact as
// free text (no customer entity), and the owned line items.
type Sale struct {
	BaseModel
	InvoiceNumber string `gorm:"type:varchar(30);uniqueIndex" json:"invoice_number"`

	CustomerName  string `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone string `gorm:"type:varchar(30)" json:"customer_phone"`
	CustomerEmail string `gorm:"type:varchar(255)" json:"customer_email"`

	Subtotal float64 `gorm:"type:numeric(15,2);not null;default:0" json:"subtotal"`
	Tax      float64 `gorm:"type:numeric(15,2);not null;default:0" json:"tax"`
	Discount float64 `gorm:"type:numeric(15,2);not null;default:0" json:"discount"`
	Total    float64 `gorm:"type:numeric(15,2);not null;default:0" json:"total"`

	PaymentMethod string `gorm:"type:varchar(20);not null;default:cash" json:"payment_method"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:pending" json:"payment_status"`
	Notes         string `gorm:"type:text" json:"notes"`

	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User   *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
}

// SaleItem is one product line within a sale. Price, name, and SKU are
// snapshots taken at sale time so historical receipts survive later product
// edits.
type SaleItem struct {
	BaseModel
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Quantity int     `gorm:"not null;default:1" json:"quantity" validate:"gte=1"`
	Price    float64 `gorm:"type:numeric(15,2);not null;default:0" json:"price"`
	Discount float64 `gorm:"type:numeric(15,2);not null;default:0" json:"discount"`
	Subtotal float64 `gorm:"type:numeric(15,2);not null;default:0" json:"subtotal"`

	ProductName string `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductSKU  string `gorm:"type:varchar(50)" json:"product_sku"`
}
