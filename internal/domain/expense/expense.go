package expense

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kyber/backend/internal/domain/shared"
)

// Expense represents a business cost recorded against a category and
// optionally a vendor. Expenses feed the profit side of reporting.
type Expense struct {
	shared.BaseAggregateRoot
	Description string          `gorm:"type:varchar(500);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendorID    *uuid.UUID      `gorm:"type:uuid;index"`
	Date        time.Time       `gorm:"not null;index"`
	Notes       string          `gorm:"type:text"`
	ReceiptURL  string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates a new expense record
func NewExpense(description string, amount decimal.Decimal, categoryID uuid.UUID, date time.Time) (*Expense, error) {
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Expense description cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Expense amount must be positive")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Expense category is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Description:       description,
		Amount:            amount.Round(2),
		CategoryID:        categoryID,
		Date:              date,
	}, nil
}

// Update replaces the mutable fields of the expense
func (e *Expense) Update(description string, amount decimal.Decimal, categoryID uuid.UUID, date time.Time) error {
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Expense description cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Expense amount must be positive")
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Expense category is required")
	}

	e.Description = description
	e.Amount = amount.Round(2)
	e.CategoryID = categoryID
	if !date.IsZero() {
		e.Date = date
	}
	e.Touch()
	return nil
}

// SetVendor links the expense to a vendor; nil clears the link
func (e *Expense) SetVendor(vendorID *uuid.UUID) {
	e.VendorID = vendorID
	e.Touch()
}

// SetNotes sets the free-form notes
func (e *Expense) SetNotes(notes string) {
	e.Notes = notes
	e.Touch()
}

// AttachReceipt stores the URL of the uploaded receipt file
func (e *Expense) AttachReceipt(url string) error {
	if strings.TrimSpace(url) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Receipt URL cannot be empty")
	}
	e.ReceiptURL = url
	e.Touch()
	return nil
}

// InRange reports whether the expense date falls in [start, end] inclusive
func (e *Expense) InRange(start, end time.Time) bool {
	return !e.Date.Before(start) && !e.Date.After(end)
}
