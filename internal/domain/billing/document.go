package billing

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kyber/backend/internal/domain/shared"
)

// DefaultTaxRate is applied when a document does not specify its own rate
var DefaultTaxRate = decimal.NewFromFloat(0.10)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateClient checks the client fields shared by quotes and invoices
func ValidateClient(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Client name cannot be empty")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("VALIDATION_ERROR", "Client email is not a valid address")
	}
	return nil
}

// DocumentItem represents a line item on a quote or invoice.
// Quote and invoice items live in the same table; DocumentID points at
// the owning document. Conversion copies items by value with fresh IDs.
type DocumentItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // round2(Quantity * UnitPrice)
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentItem) TableName() string {
	return "document_items"
}

// NewDocumentItem creates a new line item for the given document
func NewDocumentItem(documentID uuid.UUID, description string, quantity, unitPrice decimal.Decimal) (*DocumentItem, error) {
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Item description cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Item quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Item unit price cannot be negative")
	}

	now := time.Now()
	return &DocumentItem{
		ID:          uuid.New(),
		DocumentID:  documentID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice).Round(2),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the quantity and recalculates the amount
func (i *DocumentItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Item quantity cannot be negative")
	}
	i.Quantity = quantity
	i.Amount = i.Quantity.Mul(i.UnitPrice).Round(2)
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateUnitPrice updates the unit price and recalculates the amount
func (i *DocumentItem) UpdateUnitPrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Item unit price cannot be negative")
	}
	i.UnitPrice = unitPrice
	i.Amount = i.Quantity.Mul(i.UnitPrice).Round(2)
	i.UpdatedAt = time.Now()
	return nil
}

// copyFor returns a value copy of the item attached to another document.
// The copy gets a fresh identity so later edits never touch the source.
func (i DocumentItem) copyFor(documentID uuid.UUID) DocumentItem {
	now := time.Now()
	return DocumentItem{
		ID:          uuid.New(),
		DocumentID:  documentID,
		Description: i.Description,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		Amount:      i.Amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ItemInput is the raw line item data accepted by document constructors
// and full-replacement updates
type ItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Totals holds the derived monetary fields of a document
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives the document totals from its items and tax rate.
// Each derived field is rounded half-up to cents exactly once.
func ComputeTotals(items []DocumentItem, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
