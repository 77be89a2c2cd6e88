package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kyber/backend/internal/domain/billing"
	"github.com/kyber/backend/internal/domain/shared"
)

// sendRetries bounds the version-conflict retries when flipping a
// document to sent after a successful dispatch
const sendRetries = 3

// QuoteService handles quote business operations
type QuoteService struct {
	quoteRepo   billing.QuoteRepository
	invoiceRepo billing.InvoiceRepository
	renderer    DocumentRenderer
	dispatcher  DocumentDispatcher
	logger      *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quoteRepo billing.QuoteRepository,
	invoiceRepo billing.InvoiceRepository,
	renderer DocumentRenderer,
	dispatcher DocumentDispatcher,
	logger *zap.Logger,
) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{
		quoteRepo:   quoteRepo,
		invoiceRepo: invoiceRepo,
		renderer:    renderer,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Create creates a new draft quote with a generated number
func (s *QuoteService) Create(ctx context.Context, req CreateQuoteRequest) (*QuoteResponse, error) {
	number, err := s.quoteRepo.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}

	quote, err := billing.NewQuote(number, req.ClientName, req.ClientEmail, req.ClientAddress, toItemInputs(req.Items))
	if err != nil {
		return nil, err
	}

	if req.TaxRate != nil {
		if err := quote.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := quote.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}
	if req.ValidUntil != nil {
		if err := quote.SetValidUntil(req.ValidUntil); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// GetByID retrieves a quote by ID
func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// List retrieves quotes with filtering and pagination
func (s *QuoteService) List(ctx context.Context, filter QuoteListFilter) ([]QuoteListItemResponse, int64, error) {
	domainFilter := buildQuoteFilter(filter)

	quotes, err := s.quoteRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.quoteRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToQuoteListItemResponses(quotes), total, nil
}

// Update applies a partial update to a quote
func (s *QuoteService) Update(ctx context.Context, id uuid.UUID, req UpdateQuoteRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClientName != nil || req.ClientEmail != nil || req.ClientAddress != nil {
		name := quote.ClientName
		email := quote.ClientEmail
		address := quote.ClientAddress
		if req.ClientName != nil {
			name = *req.ClientName
		}
		if req.ClientEmail != nil {
			email = *req.ClientEmail
		}
		if req.ClientAddress != nil {
			address = *req.ClientAddress
		}
		if err := quote.UpdateClient(name, email, address); err != nil {
			return nil, err
		}
	}

	if req.Items != nil {
		if err := quote.ReplaceItems(toItemInputs(req.Items)); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := quote.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := quote.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}
	if req.ValidUntil != nil {
		if err := quote.SetValidUntil(req.ValidUntil); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.SaveWithLock(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// Delete removes a quote. Converted quotes stay as the audit trail to
// their invoice and cannot be deleted.
func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !quote.CanDelete() {
		return shared.NewDomainError("STATE_CONFLICT", "Converted quotes cannot be deleted")
	}

	return s.quoteRepo.Delete(ctx, id)
}

// Send emails the quote to its client with the PDF attached. The email
// goes out first; only a successful dispatch flips a draft to sent.
func (s *QuoteService) Send(ctx context.Context, id uuid.UUID, req SendDocumentRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := quote.CanSend(); err != nil {
		return nil, err
	}

	template, err := s.dispatcher.ResolveTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	pdfBytes, err := s.renderer.RenderQuote(ctx, quote, string(template.Theme))
	if err != nil {
		return nil, err
	}

	email := DocumentEmail{
		Kind:        "quote",
		Number:      quote.Number,
		ClientName:  quote.ClientName,
		ClientEmail: quote.ClientEmail,
		Total:       quote.Total,
		PDF:         pdfBytes,
		PDFFilename: fmt.Sprintf("%s.pdf", quote.Number),
	}
	if err := s.dispatcher.SendDocument(ctx, template, email); err != nil {
		return nil, err
	}

	if err := s.markSentWithRetry(ctx, quote); err != nil {
		return nil, err
	}

	s.logger.Info("quote sent",
		zap.String("number", quote.Number),
		zap.String("client_email", quote.ClientEmail))

	response := ToQuoteResponse(quote)
	return &response, nil
}

// markSentWithRetry flips the quote to sent, refetching on version
// conflicts. The email already went out, so the flip must not be lost
// to a concurrent edit.
func (s *QuoteService) markSentWithRetry(ctx context.Context, quote *billing.Quote) error {
	if err := quote.MarkSent(); err != nil {
		return err
	}
	err := s.quoteRepo.SaveWithLock(ctx, quote)
	for attempt := 0; errors.Is(err, shared.ErrConcurrencyConflict) && attempt < sendRetries; attempt++ {
		fresh, findErr := s.quoteRepo.FindByID(ctx, quote.ID)
		if findErr != nil {
			return findErr
		}
		*quote = *fresh
		if markErr := quote.MarkSent(); markErr != nil {
			return markErr
		}
		err = s.quoteRepo.SaveWithLock(ctx, quote)
	}
	return err
}

// ConvertQuoteRequest carries the optional invoice fields applied at
// conversion time
type ConvertQuoteRequest struct {
	DueDate *time.Time `json:"due_date"`
}

// ConvertToInvoice converts a quote into a new draft invoice. The first
// conversion wins; any later attempt fails and returns the conflict.
func (s *QuoteService) ConvertToInvoice(ctx context.Context, id uuid.UUID, req ConvertQuoteRequest) (*InvoiceResponse, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.IsConverted() {
		return nil, shared.ErrAlreadyConverted
	}

	number, err := s.invoiceRepo.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoiceFromQuote(quote, number)
	if err != nil {
		return nil, err
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}

	if err := quote.MarkConverted(invoice.ID); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.SaveConversion(ctx, quote, invoice); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			// Losing a conversion race means someone else converted it
			if fresh, findErr := s.quoteRepo.FindByID(ctx, id); findErr == nil && fresh.IsConverted() {
				return nil, shared.ErrAlreadyConverted
			}
		}
		return nil, err
	}

	s.logger.Info("quote converted",
		zap.String("quote_number", quote.Number),
		zap.String("invoice_number", invoice.Number))

	response := ToInvoiceResponse(invoice, time.Now())
	return &response, nil
}

// RenderPDF renders the quote as a themed PDF for download
func (s *QuoteService) RenderPDF(ctx context.Context, id uuid.UUID, theme string) ([]byte, string, error) {
	quote, err := s.quoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if theme == "" {
		if template, err := s.dispatcher.ResolveTemplate(ctx, nil); err == nil {
			theme = string(template.Theme)
		}
	}

	pdfBytes, err := s.renderer.RenderQuote(ctx, quote, theme)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, fmt.Sprintf("%s.pdf", quote.Number), nil
}

func buildQuoteFilter(filter QuoteListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	return domainFilter
}
