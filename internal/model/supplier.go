package model

type Supplier struct {
	BaseModel
	Name          string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ContactPerson string `gorm:"type:varchar(255)" json:"contact_person"`
	Email         string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Phone         string `gorm:"type:varchar(30)" json:"phone"`
	Address       string `gorm:"type:text" json:"address"`
	City          string `gorm:"type:varchar(100)" json:"city"`
	PostalCode    string `gorm:"type:varchar(10)" json:"postal_code"`
	Notes         string `gorm:"type:text" json:"notes"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`

	Products []Product `gorm:"foreignKey:SupplierID" json:"products,omitempty"`
}
