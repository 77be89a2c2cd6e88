package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kyber/backend/internal/domain/shared"
)

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusSent      QuoteStatus = "sent"
	QuoteStatusConverted QuoteStatus = "converted"
)

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusConverted:
		return true
	}
	return false
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusSent || target == QuoteStatusConverted
	case QuoteStatusSent:
		return target == QuoteStatusConverted
	case QuoteStatusConverted:
		return false // Terminal state
	}
	return false
}

// Quote represents a price offer sent to a client.
// Converting a quote produces an invoice and freezes the quote forever.
type Quote struct {
	shared.BaseAggregateRoot
	Number             string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientName         string          `gorm:"type:varchar(200);not null"`
	ClientEmail        string          `gorm:"type:varchar(200);not null"`
	ClientAddress      string          `gorm:"type:varchar(500)"`
	Items              []DocumentItem  `gorm:"foreignKey:DocumentID"`
	TaxRate            decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Tax                decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status             QuoteStatus     `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes              string          `gorm:"type:text"`
	ValidUntil         *time.Time
	SentAt             *time.Time
	ConvertedAt        *time.Time
	ConvertedInvoiceID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a new draft quote
func NewQuote(number, clientName, clientEmail, clientAddress string, items []ItemInput) (*Quote, error) {
	if number == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quote number cannot be empty")
	}
	if err := ValidateClient(clientName, clientEmail); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quote must have at least one item")
	}

	quote := &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		ClientName:        clientName,
		ClientEmail:       clientEmail,
		ClientAddress:     clientAddress,
		Items:             make([]DocumentItem, 0, len(items)),
		TaxRate:           DefaultTaxRate,
		Status:            QuoteStatusDraft,
	}

	for _, input := range items {
		item, err := NewDocumentItem(quote.ID, input.Description, input.Quantity, input.UnitPrice)
		if err != nil {
			return nil, err
		}
		quote.Items = append(quote.Items, *item)
	}
	quote.recalculateTotals()

	quote.AddDomainEvent(NewQuoteCreatedEvent(quote))

	return quote, nil
}

// UpdateClient updates the client fields.
// Not allowed once the quote is converted.
func (q *Quote) UpdateClient(name, email, address string) error {
	if !q.CanModify() {
		return shared.NewDomainError("STATE_CONFLICT", "Cannot modify a converted quote")
	}
	if err := ValidateClient(name, email); err != nil {
		return err
	}
	q.ClientName = name
	q.ClientEmail = email
	q.ClientAddress = address
	q.Touch()
	return nil
}

// ReplaceItems replaces all line items and recalculates totals
func (q *Quote) ReplaceItems(items []ItemInput) error {
	if !q.CanModify() {
		return shared.NewDomainError("STATE_CONFLICT", "Cannot modify a converted quote")
	}
	if len(items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Quote must have at least one item")
	}

	replacement := make([]DocumentItem, 0, len(items))
	for _, input := range items {
		item, err := NewDocumentItem(q.ID, input.Description, input.Quantity, input.UnitPrice)
		if err != nil {
			return err
		}
		replacement = append(replacement, *item)
	}
	q.Items = replacement
	q.recalculateTotals()
	q.Touch()
	return nil
}

// AddItem adds a single line item
func (q *Quote) AddItem(description string, quantity, unitPrice decimal.Decimal) (*DocumentItem, error) {
	if !q.CanModify() {
		return nil, shared.NewDomainError("STATE_CONFLICT", "Cannot modify a converted quote")
	}

	item, err := NewDocumentItem(q.ID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	q.Items = append(q.Items, *item)
	q.recalculateTotals()
	q.Touch()
	return item, nil
}

// RemoveItem removes a line item. The last item cannot be removed.
func (q *Quote) RemoveItem(itemID uuid.UUID) error {
	if !q.CanModify() {
		return shared.NewDomainError("STATE_CONFLICT", "Cannot modify a converted quote")
	}
	if len(q.Items) == 1 {
		return shared.NewDomainError("VALIDATION_ERROR", "Quote must have at least one item")
	}

	for idx, item := range q.Items {
		if item.ID == itemID {
			q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
			q.recalculateTotals()
			q.Touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Quote item not found")
}

// SetTaxRate overrides the tax rate and recalculates totals
func (q *Quote) SetTaxRate(rate decimal.Decimal) error {
	if !q.CanModify() {
		return shared.NewDomainError("STATE_CONFLICT", "Cannot modify a converted quote")
	}
	if rate.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Tax rate cannot be negative")
	}
	q.TaxRate = rate
	q.recalculateTotals()
	q.Touch()
	return nil
}

// SetNotes sets the free-form notes
func (q *Quote) SetNotes(notes string) error {
	if !q.CanModify() {
		return shared.NewDomainError("STATE_CONFLICT", "Cannot modify a converted quote")
	}
	q.Notes = notes
	q.Touch()
	return nil
}

// SetValidUntil sets the expiry date of the offer
func (q *Quote) SetValidUntil(validUntil *time.Time) error {
	if !q.CanModify() {
		return shared.NewDomainError("STATE_CONFLICT", "Cannot modify a converted quote")
	}
	q.ValidUntil = validUntil
	q.Touch()
	return nil
}

// CanSend reports whether the quote is ready for email dispatch
func (q *Quote) CanSend() error {
	if q.Status == QuoteStatusConverted {
		return shared.NewDomainError("STATE_CONFLICT", "Cannot send a converted quote")
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Cannot send a quote without items")
	}
	return ValidateClient(q.ClientName, q.ClientEmail)
}

// MarkSent records a successful email dispatch.
// Only a draft changes status; re-sending a sent quote is a no-op.
func (q *Quote) MarkSent() error {
	if q.Status == QuoteStatusConverted {
		return shared.NewDomainError("STATE_CONFLICT", "Cannot send a converted quote")
	}
	now := time.Now()
	q.SentAt = &now
	if q.Status == QuoteStatusDraft {
		q.Status = QuoteStatusSent
		q.AddDomainEvent(NewQuoteSentEvent(q))
	}
	q.Touch()
	return nil
}

// MarkConverted flags the quote as converted into the given invoice.
// Converting twice is an error; the first conversion wins.
func (q *Quote) MarkConverted(invoiceID uuid.UUID) error {
	if q.Status == QuoteStatusConverted {
		return shared.ErrAlreadyConverted
	}
	if !q.Status.CanTransitionTo(QuoteStatusConverted) {
		return shared.NewDomainError("STATE_CONFLICT", fmt.Sprintf("Cannot convert quote in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuoteStatusConverted
	q.ConvertedAt = &now
	q.ConvertedInvoiceID = &invoiceID
	q.Touch()

	q.AddDomainEvent(NewQuoteConvertedEvent(q, invoiceID))

	return nil
}

// recalculateTotals rederives the cached totals from items and tax rate
func (q *Quote) recalculateTotals() {
	totals := ComputeTotals(q.Items, q.TaxRate)
	q.Subtotal = totals.Subtotal
	q.Tax = totals.Tax
	q.Total = totals.Total
}

// CanModify returns true if the quote content can still change
func (q *Quote) CanModify() bool {
	return q.Status != QuoteStatusConverted
}

// CanDelete returns true if the quote may be deleted.
// Converted quotes stay as the audit trail to their invoice.
func (q *Quote) CanDelete() bool {
	return q.Status != QuoteStatusConverted
}

// IsConverted returns true if the quote has been converted
func (q *Quote) IsConverted() bool {
	return q.Status == QuoteStatusConverted
}

// ItemCount returns the number of line items
func (q *Quote) ItemCount() int {
	return len(q.Items)
}
