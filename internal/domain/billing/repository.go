package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kyber/backend/internal/domain/shared"
)

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	// FindByID finds a quote by ID with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)

	// FindByNumber finds a quote by its document number
	FindByNumber(ctx context.Context, number string) (*Quote, error)

	// FindAll finds quotes with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Quote, error)

	// Save creates or updates a quote and its items
	Save(ctx context.Context, quote *Quote) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, quote *Quote) error

	// SaveConversion persists the invoice and the quote's converted flip
	// in a single transaction. The quote save is version checked, so a
	// concurrent conversion loses with a CONCURRENCY_CONFLICT.
	SaveConversion(ctx context.Context, quote *Quote, invoice *Invoice) error

	// Delete removes a quote and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts quotes matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts quotes in the given status
	CountByStatus(ctx context.Context, status QuoteStatus) (int64, error)

	// GenerateNumber generates the next sequential quote number
	GenerateNumber(ctx context.Context) (string, error)
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its document number
	FindByNumber(ctx context.Context, number string) (*Invoice, error)

	// FindAll finds invoices with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// FindPaidBetween finds paid invoices whose payment date falls in
	// the inclusive [start, end] range
	FindPaidBetween(ctx context.Context, start, end time.Time) ([]Invoice, error)

	// FindOutstanding finds invoices that still await payment
	FindOutstanding(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// Save creates or updates an invoice and its items
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts invoices in the given status
	CountByStatus(ctx context.Context, status InvoiceStatus) (int64, error)

	// GenerateNumber generates the next sequential invoice number
	GenerateNumber(ctx context.Context) (string, error)
}
