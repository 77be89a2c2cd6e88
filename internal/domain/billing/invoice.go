package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kyber/backend/internal/domain/shared"
)

// InvoiceStatus represents the persisted status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Payment is allowed from any non-terminal state; overdue is a derived
// view of sent, so it shares the same outgoing edges.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent || target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusSent, InvoiceStatusOverdue:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false // Terminal states
	}
	return false
}

// Invoice represents a bill issued to a client, either created directly
// or produced by converting a quote
type Invoice struct {
	shared.BaseAggregateRoot
	Number        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientName    string          `gorm:"type:varchar(200);not null"`
	ClientEmail   string          `gorm:"type:varchar(200);not null"`
	ClientAddress string          `gorm:"type:varchar(500)"`
	Items         []DocumentItem  `gorm:"foreignKey:DocumentID"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Tax           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes         string          `gorm:"type:text"`
	DueDate       *time.Time      `gorm:"index"`
	SentAt        *time.Time
	PaidAt        *time.Time `gorm:"index"`
	PaymentID     string     `gorm:"type:varchar(200)"`
	QuoteID       *uuid.UUID `gorm:"type:uuid;index"` // origin quote, when converted
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new draft invoice
func NewInvoice(number, clientName, clientEmail, clientAddress string, items []ItemInput) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice number cannot be empty")
	}
	if err := ValidateClient(clientName, clientEmail); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice must have at least one item")
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		ClientName:        clientName,
		ClientEmail:       clientEmail,
		ClientAddress:     clientAddress,
		Items:             make([]DocumentItem, 0, len(items)),
		TaxRate:           DefaultTaxRate,
		Status:            InvoiceStatusDraft,
	}

	for _, input := range items {
		item, err := NewDocumentItem(invoice.ID, input.Description, input.Quantity, input.UnitPrice)
		if err != nil {
			return nil, err
		}
		invoice.Items = append(invoice.Items, *item)
	}
	invoice.recalculateTotals()

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// NewInvoiceFromQuote builds the invoice side of a quote conversion.
// Client fields, notes and tax rate carry over; items are copied by
// value with fresh identities so the documents diverge independently.
func NewInvoiceFromQuote(quote *Quote, number string) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice number cannot be empty")
	}
	if quote.IsConverted() {
		return nil, shared.ErrAlreadyConverted
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		ClientName:        quote.ClientName,
		ClientEmail:       quote.ClientEmail,
		ClientAddress:     quote.ClientAddress,
		Items:             make([]DocumentItem, 0, len(quote.Items)),
		TaxRate:           quote.TaxRate,
		Status:            InvoiceStatusDraft,
		Notes:             quote.Notes,
	}
	quoteID := quote.ID
	invoice.QuoteID = &quoteID

	for _, item := range quote.Items {
		invoice.Items = append(invoice.Items, item.copyFor(invoice.ID))
	}
	invoice.recalculateTotals()

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// UpdateClient updates the client fields.
// Not allowed once the invoice is paid or cancelled.
func (inv *Invoice) UpdateClient(name, email, address string) error {
	if !inv.CanModify() {
		return shared.NewDomainError("STATE_CONFLICT", fmt.Sprintf("Cannot modify invoice in %s status", inv.Status))
	}
	if err := ValidateClient(name, email); err != nil {
		return err
	}
	inv.ClientName = name
	inv.ClientEmail = email
	inv.ClientAddress = address
	inv.Touch()
	return nil
}

// ReplaceItems replaces all line items and recalculates totals
func (inv *Invoice) ReplaceItems(items []ItemInput) error {
	if !inv.CanModify() {
		return shared.NewDomainError("STATE_CONFLICT", fmt.Sprintf("Cannot modify invoice in %s status", inv.Status))
	}
	if len(items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Invoice must have at least one item")
	}

	replacement := make([]DocumentItem, 0, len(items))
	for _, input := range items {
		item, err := NewDocumentItem(inv.ID, input.Description, input.Quantity, input.UnitPrice)
		if err != nil {
			return err
		}
		replacement = append(replacement, *item)
	}
	inv.Items = replacement
	inv.recalculateTotals()
	inv.Touch()
	return nil
}

// AddItem adds a single line item
func (inv *Invoice) AddItem(description string, quantity, unitPrice decimal.Decimal) (*DocumentItem, error) {
	if !inv.CanModify() {
		return nil, shared.NewDomainError("STATE_CONFLICT", fmt.Sprintf("Cannot modify invoice in %s status", inv.Status))
	}

	item, err := NewDocumentItem(inv.ID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	inv.Items = append(inv.Items, *item)
	inv.recalculateTotals()
	inv.Touch()
	return item, nil
}

// RemoveItem removes a line item. The last item cannot be removed.
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if !inv.CanModify() {
		return shared.NewDomainError("STATE_CONFLICT", fmt.Sprintf("Cannot modify invoice in %s status", inv.Status))
	}
	if len(inv.Items) == 1 {
		return shared.NewDomainError("VALIDATION_ERROR", "Invoice must have at least one item")
	}

	for idx, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:idx], inv.Items[idx+1:]...)
			inv.recalculateTotals()
			inv.Touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Invoice item not found")
}

// SetTaxRate overrides the tax rate and recalculates totals
func (inv *Invoice) SetTaxRate(rate decimal.Decimal) error {
	if !inv.CanModify() {
		return shared.NewDomainError("STATE_CONFLICT", fmt.Sprintf("Cannot modify invoice in %s status", inv.Status))
	}
	if rate.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Tax rate cannot be negative")
	}
	inv.TaxRate = rate
	inv.recalculateTotals()
	inv.Touch()
	return nil
}

// SetNotes sets the free-form notes
func (inv *Invoice) SetNotes(notes string) error {
	if !inv.CanModify() {
		return shared.NewDomainError("STATE_CONFLICT", fmt.Sprintf("Cannot modify invoice in %s status", inv.Status))
	}
	inv.Notes = notes
	inv.Touch()
	return nil
}

// SetDueDate sets the payment due date
func (inv *Invoice) SetDueDate(dueDate *time.Time) error {
	if !inv.CanModify() {
		return shared.NewDomainError("STATE_CONFLICT", fmt.Sprintf("Cannot modify invoice in %s status", inv.Status))
	}
	inv.DueDate = dueDate
	inv.Touch()
	return nil
}

// CanSend reports whether the invoice is ready for email dispatch
func (inv *Invoice) CanSend() error {
	if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("STATE_CONFLICT", fmt.Sprintf("Cannot send invoice in %s status", inv.Status))
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Cannot send an invoice without items")
	}
	return ValidateClient(inv.ClientName, inv.ClientEmail)
}

// MarkSent records a successful email dispatch.
// Only a draft changes status; re-sending is a no-op on status.
func (inv *Invoice) MarkSent() error {
	if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("STATE_CONFLICT", fmt.Sprintf("Cannot send invoice in %s status", inv.Status))
	}
	now := time.Now()
	inv.SentAt = &now
	if inv.Status == InvoiceStatusDraft {
		inv.Status = InvoiceStatusSent
		inv.AddDomainEvent(NewInvoiceSentEvent(inv))
	}
	inv.Touch()
	return nil
}

// MarkPaid records an external payment against the invoice.
// The operation is idempotent for the same payment reference; a second
// payment with a different reference is rejected and changes nothing.
func (inv *Invoice) MarkPaid(paymentID string) error {
	if paymentID == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment reference cannot be empty")
	}
	if inv.Status == InvoiceStatusPaid {
		if inv.PaymentID == paymentID {
			return nil
		}
		return shared.ErrDuplicatePayment
	}
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("STATE_CONFLICT", "Cannot pay a cancelled invoice")
	}

	now := time.Now()
	inv.Status = InvoiceStatusPaid
	inv.PaidAt = &now
	inv.PaymentID = paymentID
	inv.Touch()

	inv.AddDomainEvent(NewInvoicePaidEvent(inv))

	return nil
}

// Cancel voids the invoice. Paid invoices cannot be cancelled.
func (inv *Invoice) Cancel() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewDomainError("STATE_CONFLICT", fmt.Sprintf("Cannot cancel invoice in %s status", inv.Status))
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.Touch()

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))

	return nil
}

// IsOverdue reports whether the invoice is past due and unpaid
func (inv *Invoice) IsOverdue(now time.Time) bool {
	if inv.Status != InvoiceStatusSent && inv.Status != InvoiceStatusOverdue {
		return false
	}
	return inv.DueDate != nil && inv.DueDate.Before(now)
}

// EffectiveStatus returns the status as seen by readers. Overdue is
// derived from the due date so no background job has to flip it, and
// payment always overrides it.
func (inv *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if inv.IsOverdue(now) {
		return InvoiceStatusOverdue
	}
	return inv.Status
}

// recalculateTotals rederives the cached totals from items and tax rate
func (inv *Invoice) recalculateTotals() {
	totals := ComputeTotals(inv.Items, inv.TaxRate)
	inv.Subtotal = totals.Subtotal
	inv.Tax = totals.Tax
	inv.Total = totals.Total
}

// CanModify returns true if the invoice content can still change
func (inv *Invoice) CanModify() bool {
	return inv.Status != InvoiceStatusPaid && inv.Status != InvoiceStatusCancelled
}

// IsPaid returns true if the invoice is paid
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// IsOutstanding returns true if the invoice still awaits payment
func (inv *Invoice) IsOutstanding() bool {
	return inv.Status == InvoiceStatusDraft || inv.Status == InvoiceStatusSent || inv.Status == InvoiceStatusOverdue
}

// ItemCount returns the number of line items
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}
