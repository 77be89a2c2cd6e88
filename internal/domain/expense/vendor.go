package expense

import (
	"strings"

	"github.com/kyber/backend/internal/domain/shared"
)

// Vendor is a supplier that expenses can be attributed to
type Vendor struct {
	shared.BaseEntity
	Name    string `gorm:"type:varchar(200);not null"`
	Email   string `gorm:"type:varchar(200)"`
	Phone   string `gorm:"type:varchar(50)"`
	Address string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a new vendor
func NewVendor(name, email, phone, address string) (*Vendor, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor name cannot be empty")
	}

	return &Vendor{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Phone:      phone,
		Address:    address,
	}, nil
}

// Update replaces the vendor contact fields
func (v *Vendor) Update(name, email, phone, address string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Vendor name cannot be empty")
	}
	v.Name = name
	v.Email = email
	v.Phone = phone
	v.Address = address
	v.Touch()
	return nil
}
