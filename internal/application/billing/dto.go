package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kyber/backend/internal/domain/billing"
)

// ==================== Shared document DTOs ====================

// DocumentItemInput represents a line item in create and update requests
type DocumentItemInput struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// DocumentItemResponse represents a line item in responses
type DocumentItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// SendDocumentRequest represents a request to email a document
type SendDocumentRequest struct {
	TemplateID *uuid.UUID `json:"template_id"`
}

func toItemInputs(items []DocumentItemInput) []billing.ItemInput {
	inputs := make([]billing.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, billing.ItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return inputs
}

func toItemResponses(items []billing.DocumentItem) []DocumentItemResponse {
	responses := make([]DocumentItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, DocumentItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	return responses
}

// ==================== Quote DTOs ====================

// CreateQuoteRequest represents a request to create a quote
type CreateQuoteRequest struct {
	ClientName    string              `json:"client_name" binding:"required,min=1,max=200"`
	ClientEmail   string              `json:"client_email" binding:"required,email"`
	ClientAddress string              `json:"client_address" binding:"max=500"`
	Items         []DocumentItemInput `json:"items" binding:"required,min=1"`
	TaxRate       *decimal.Decimal    `json:"tax_rate"`
	Notes         string              `json:"notes"`
	ValidUntil    *time.Time          `json:"valid_until"`
}

// UpdateQuoteRequest represents a request to update a quote
type UpdateQuoteRequest struct {
	ClientName    *string             `json:"client_name"`
	ClientEmail   *string             `json:"client_email"`
	ClientAddress *string             `json:"client_address"`
	Items         []DocumentItemInput `json:"items"`
	TaxRate       *decimal.Decimal    `json:"tax_rate"`
	Notes         *string             `json:"notes"`
	ValidUntil    *time.Time          `json:"valid_until"`
}

// QuoteListFilter represents filter options for listing quotes
type QuoteListFilter struct {
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir"`
	Search    string     `form:"search"`
	Status    *string    `form:"status"`
	StartDate *time.Time `form:"start_date"`
	EndDate   *time.Time `form:"end_date"`
}

// QuoteResponse represents a quote with its items
type QuoteResponse struct {
	ID                 uuid.UUID              `json:"id"`
	Number             string                 `json:"number"`
	ClientName         string                 `json:"client_name"`
	ClientEmail        string                 `json:"client_email"`
	ClientAddress      string                 `json:"client_address"`
	Items              []DocumentItemResponse `json:"items"`
	TaxRate            decimal.Decimal        `json:"tax_rate"`
	Subtotal           decimal.Decimal        `json:"subtotal"`
	Tax                decimal.Decimal        `json:"tax"`
	Total              decimal.Decimal        `json:"total"`
	Status             string                 `json:"status"`
	Notes              string                 `json:"notes"`
	ValidUntil         *time.Time             `json:"valid_until"`
	SentAt             *time.Time             `json:"sent_at"`
	ConvertedAt        *time.Time             `json:"converted_at"`
	ConvertedInvoiceID *uuid.UUID             `json:"converted_invoice_id"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// QuoteListItemResponse represents a quote in list responses
type QuoteListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"number"`
	ClientName  string          `json:"client_name"`
	ClientEmail string          `json:"client_email"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	ValidUntil  *time.Time      `json:"valid_until"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToQuoteResponse converts a domain quote to a response DTO
func ToQuoteResponse(quote *billing.Quote) QuoteResponse {
	return QuoteResponse{
		ID:                 quote.ID,
		Number:             quote.Number,
		ClientName:         quote.ClientName,
		ClientEmail:        quote.ClientEmail,
		ClientAddress:      quote.ClientAddress,
		Items:              toItemResponses(quote.Items),
		TaxRate:            quote.TaxRate,
		Subtotal:           quote.Subtotal,
		Tax:                quote.Tax,
		Total:              quote.Total,
		Status:             quote.Status.String(),
		Notes:              quote.Notes,
		ValidUntil:         quote.ValidUntil,
		SentAt:             quote.SentAt,
		ConvertedAt:        quote.ConvertedAt,
		ConvertedInvoiceID: quote.ConvertedInvoiceID,
		CreatedAt:          quote.CreatedAt,
		UpdatedAt:          quote.UpdatedAt,
	}
}

// ToQuoteListItemResponses converts domain quotes to list item DTOs
func ToQuoteListItemResponses(quotes []billing.Quote) []QuoteListItemResponse {
	responses := make([]QuoteListItemResponse, 0, len(quotes))
	for _, quote := range quotes {
		responses = append(responses, QuoteListItemResponse{
			ID:          quote.ID,
			Number:      quote.Number,
			ClientName:  quote.ClientName,
			ClientEmail: quote.ClientEmail,
			Total:       quote.Total,
			Status:      quote.Status.String(),
			ValidUntil:  quote.ValidUntil,
			CreatedAt:   quote.CreatedAt,
		})
	}
	return responses
}

// ==================== Invoice DTOs ====================

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	ClientName    string              `json:"client_name" binding:"required,min=1,max=200"`
	ClientEmail   string              `json:"client_email" binding:"required,email"`
	ClientAddress string              `json:"client_address" binding:"max=500"`
	Items         []DocumentItemInput `json:"items" binding:"required,min=1"`
	TaxRate       *decimal.Decimal    `json:"tax_rate"`
	Notes         string              `json:"notes"`
	DueDate       *time.Time          `json:"due_date"`
}

// UpdateInvoiceRequest represents a request to update an invoice
type UpdateInvoiceRequest struct {
	ClientName    *string             `json:"client_name"`
	ClientEmail   *string             `json:"client_email"`
	ClientAddress *string             `json:"client_address"`
	Items         []DocumentItemInput `json:"items"`
	TaxRate       *decimal.Decimal    `json:"tax_rate"`
	Notes         *string             `json:"notes"`
	DueDate       *time.Time          `json:"due_date"`
}

// InvoiceListFilter represents filter options for listing invoices
type InvoiceListFilter struct {
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir"`
	Search      string     `form:"search"`
	Status      *string    `form:"status"`
	StartDate   *time.Time `form:"start_date"`
	EndDate     *time.Time `form:"end_date"`
	Outstanding bool       `form:"outstanding"`
}

// MarkPaidRequest represents a manual payment registration
type MarkPaidRequest struct {
	PaymentID string `json:"payment_id" binding:"required,min=1,max=200"`
}

// InvoiceResponse represents an invoice with its items.
// Status carries the effective status, with overdue derived from the
// due date at read time.
type InvoiceResponse struct {
	ID            uuid.UUID              `json:"id"`
	Number        string                 `json:"number"`
	ClientName    string                 `json:"client_name"`
	ClientEmail   string                 `json:"client_email"`
	ClientAddress string                 `json:"client_address"`
	Items         []DocumentItemResponse `json:"items"`
	TaxRate       decimal.Decimal        `json:"tax_rate"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Tax           decimal.Decimal        `json:"tax"`
	Total         decimal.Decimal        `json:"total"`
	Status        string                 `json:"status"`
	Notes         string                 `json:"notes"`
	DueDate       *time.Time             `json:"due_date"`
	SentAt        *time.Time             `json:"sent_at"`
	PaidAt        *time.Time             `json:"paid_at"`
	PaymentID     string                 `json:"payment_id"`
	QuoteID       *uuid.UUID             `json:"quote_id"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// InvoiceListItemResponse represents an invoice in list responses
type InvoiceListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"number"`
	ClientName  string          `json:"client_name"`
	ClientEmail string          `json:"client_email"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	DueDate     *time.Time      `json:"due_date"`
	PaidAt      *time.Time      `json:"paid_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(invoice *billing.Invoice, now time.Time) InvoiceResponse {
	return InvoiceResponse{
		ID:            invoice.ID,
		Number:        invoice.Number,
		ClientName:    invoice.ClientName,
		ClientEmail:   invoice.ClientEmail,
		ClientAddress: invoice.ClientAddress,
		Items:         toItemResponses(invoice.Items),
		TaxRate:       invoice.TaxRate,
		Subtotal:      invoice.Subtotal,
		Tax:           invoice.Tax,
		Total:         invoice.Total,
		Status:        invoice.EffectiveStatus(now).String(),
		Notes:         invoice.Notes,
		DueDate:       invoice.DueDate,
		SentAt:        invoice.SentAt,
		PaidAt:        invoice.PaidAt,
		PaymentID:     invoice.PaymentID,
		QuoteID:       invoice.QuoteID,
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
	}
}

// ToInvoiceListItemResponses converts domain invoices to list item DTOs
func ToInvoiceListItemResponses(invoices []billing.Invoice, now time.Time) []InvoiceListItemResponse {
	responses := make([]InvoiceListItemResponse, 0, len(invoices))
	for i := range invoices {
		invoice := &invoices[i]
		responses = append(responses, InvoiceListItemResponse{
			ID:          invoice.ID,
			Number:      invoice.Number,
			ClientName:  invoice.ClientName,
			ClientEmail: invoice.ClientEmail,
			Total:       invoice.Total,
			Status:      invoice.EffectiveStatus(now).String(),
			DueDate:     invoice.DueDate,
			PaidAt:      invoice.PaidAt,
			CreatedAt:   invoice.CreatedAt,
		})
	}
	return responses
}

// PublicInvoiceResponse is the read model for the unauthenticated
// payment page. It exposes only what the client needs to review and
// pay the invoice.
type PublicInvoiceResponse struct {
	Number         string                 `json:"number"`
	ClientName     string                 `json:"client_name"`
	Items          []DocumentItemResponse `json:"items"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	Tax            decimal.Decimal        `json:"tax"`
	Total          decimal.Decimal        `json:"total"`
	Status         string                 `json:"status"`
	DueDate        *time.Time             `json:"due_date"`
	CompanyName    string                 `json:"company_name"`
	LogoURL        string                 `json:"logo_url"`
	PrimaryColor   string                 `json:"primary_color"`
	AccentColor    string                 `json:"accent_color"`
	PayPalClientID string                 `json:"paypal_client_id,omitempty"`
	PayPalSandbox  bool                   `json:"paypal_sandbox"`
}
