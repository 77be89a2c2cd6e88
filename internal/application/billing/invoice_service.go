package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kyber/backend/internal/domain/billing"
	"github.com/kyber/backend/internal/domain/settings"
	"github.com/kyber/backend/internal/domain/shared"
	"github.com/kyber/backend/internal/infrastructure/crypto"
)

// markPaidRetries bounds the version-conflict retries when recording a
// payment. The money already moved, so payment registration must not be
// lost to a concurrent edit.
const markPaidRetries = 3

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	settingsRepo settings.SettingsRepository
	secrets      *crypto.SecretBox
	renderer     DocumentRenderer
	dispatcher   DocumentDispatcher
	logger       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	settingsRepo settings.SettingsRepository,
	secrets *crypto.SecretBox,
	renderer DocumentRenderer,
	dispatcher DocumentDispatcher,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
		secrets:      secrets,
		renderer:     renderer,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// Create creates a new draft invoice with a generated number
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	number, err := s.invoiceRepo.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(number, req.ClientName, req.ClientEmail, req.ClientAddress, toItemInputs(req.Items))
	if err != nil {
		return nil, err
	}

	if req.TaxRate != nil {
		if err := invoice.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := invoice.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice, time.Now())
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice, time.Now())
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceListItemResponse, int64, error) {
	domainFilter := buildInvoiceFilter(filter)

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceListItemResponses(invoices, time.Now()), total, nil
}

// Update applies a partial update to an invoice
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClientName != nil || req.ClientEmail != nil || req.ClientAddress != nil {
		name := invoice.ClientName
		email := invoice.ClientEmail
		address := invoice.ClientAddress
		if req.ClientName != nil {
			name = *req.ClientName
		}
		if req.ClientEmail != nil {
			email = *req.ClientEmail
		}
		if req.ClientAddress != nil {
			address = *req.ClientAddress
		}
		if err := invoice.UpdateClient(name, email, address); err != nil {
			return nil, err
		}
	}

	if req.Items != nil {
		if err := invoice.ReplaceItems(toItemInputs(req.Items)); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := invoice.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := invoice.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice, time.Now())
	return &response, nil
}

// Delete removes an invoice. Paid invoices are the payment record and
// cannot be deleted.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if invoice.IsPaid() {
		return shared.NewDomainError("STATE_CONFLICT", "Paid invoices cannot be deleted")
	}

	return s.invoiceRepo.Delete(ctx, id)
}

// Send emails the invoice to its client with the PDF attached. The
// email goes out first; only a successful dispatch flips a draft to
// sent.
func (s *InvoiceService) Send(ctx context.Context, id uuid.UUID, req SendDocumentRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.CanSend(); err != nil {
		return nil, err
	}

	template, err := s.dispatcher.ResolveTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	pdfBytes, err := s.renderer.RenderInvoice(ctx, invoice, string(template.Theme))
	if err != nil {
		return nil, err
	}

	email := DocumentEmail{
		Kind:        "invoice",
		Number:      invoice.Number,
		ClientName:  invoice.ClientName,
		ClientEmail: invoice.ClientEmail,
		Total:       invoice.Total,
		PDF:         pdfBytes,
		PDFFilename: fmt.Sprintf("%s.pdf", invoice.Number),
	}
	if err := s.dispatcher.SendDocument(ctx, template, email); err != nil {
		return nil, err
	}

	if err := s.markSentWithRetry(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("invoice sent",
		zap.String("number", invoice.Number),
		zap.String("client_email", invoice.ClientEmail))

	response := ToInvoiceResponse(invoice, time.Now())
	return &response, nil
}

func (s *InvoiceService) markSentWithRetry(ctx context.Context, invoice *billing.Invoice) error {
	if err := invoice.MarkSent(); err != nil {
		return err
	}
	err := s.invoiceRepo.SaveWithLock(ctx, invoice)
	for attempt := 0; errors.Is(err, shared.ErrConcurrencyConflict) && attempt < sendRetries; attempt++ {
		fresh, findErr := s.invoiceRepo.FindByID(ctx, invoice.ID)
		if findErr != nil {
			return findErr
		}
		*invoice = *fresh
		if markErr := invoice.MarkSent(); markErr != nil {
			return markErr
		}
		err = s.invoiceRepo.SaveWithLock(ctx, invoice)
	}
	return err
}

// MarkPaid records an external payment against the invoice. The write
// retries through version conflicts because a confirmed payment always
// wins over concurrent edits. A repeated call with the same payment
// reference is a no-op; a different reference on a paid invoice is
// rejected.
func (s *InvoiceService) MarkPaid(ctx context.Context, id uuid.UUID, req MarkPaidRequest) (*InvoiceResponse, error) {
	var invoice *billing.Invoice
	for attempt := 0; ; attempt++ {
		var err error
		invoice, err = s.invoiceRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		alreadyPaid := invoice.IsPaid()
		if err := invoice.MarkPaid(req.PaymentID); err != nil {
			return nil, err
		}
		if alreadyPaid {
			// Same reference replayed, nothing to persist
			break
		}

		err = s.invoiceRepo.SaveWithLock(ctx, invoice)
		if err == nil {
			s.logger.Info("invoice paid",
				zap.String("number", invoice.Number),
				zap.String("payment_id", req.PaymentID))
			break
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt >= markPaidRetries {
			return nil, err
		}
	}

	response := ToInvoiceResponse(invoice, time.Now())
	return &response, nil
}

// Cancel voids the invoice
func (s *InvoiceService) Cancel(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := invoice.Cancel(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice, time.Now())
	return &response, nil
}

// RenderPDF renders the invoice as a themed PDF for download
func (s *InvoiceService) RenderPDF(ctx context.Context, id uuid.UUID, theme string) ([]byte, string, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if theme == "" {
		if template, err := s.dispatcher.ResolveTemplate(ctx, nil); err == nil {
			theme = string(template.Theme)
		}
	}

	pdfBytes, err := s.renderer.RenderInvoice(ctx, invoice, theme)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, fmt.Sprintf("%s.pdf", invoice.Number), nil
}

// GetPublic builds the read model for the unauthenticated payment page.
// Cancelled invoices are hidden from it. The PayPal client ID is the
// only credential that leaves the server, and only when configured.
func (s *InvoiceService) GetPublic(ctx context.Context, id uuid.UUID) (*PublicInvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == billing.InvoiceStatusCancelled {
		return nil, shared.ErrNotFound
	}

	response := &PublicInvoiceResponse{
		Number:       invoice.Number,
		ClientName:   invoice.ClientName,
		Items:        toItemResponses(invoice.Items),
		Subtotal:     invoice.Subtotal,
		Tax:          invoice.Tax,
		Total:        invoice.Total,
		Status:       invoice.EffectiveStatus(time.Now()).String(),
		DueDate:      invoice.DueDate,
		CompanyName:  "Your Business",
		PrimaryColor: "#1f2937",
		AccentColor:  "#6366f1",
	}

	if branding, err := s.settingsRepo.GetBranding(ctx); err == nil && branding != nil {
		response.CompanyName = branding.CompanyName
		response.LogoURL = branding.LogoURL
		response.PrimaryColor = branding.PrimaryColor
		response.AccentColor = branding.AccentColor
	}

	if paypal, err := s.settingsRepo.GetPayPal(ctx); err == nil && paypal.IsConfigured() {
		clientID, decErr := s.secrets.Decrypt(paypal.EncryptedClientID)
		if decErr != nil {
			s.logger.Error("failed to decrypt PayPal client ID", zap.Error(decErr))
		} else {
			response.PayPalClientID = clientID
			response.PayPalSandbox = paypal.Sandbox
		}
	}

	return response, nil
}

func buildInvoiceFilter(filter InvoiceListFilter) shared.Filter {
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
	if filter.Outstanding {
		domainFilter.Filters["statuses"] = []string{
			billing.InvoiceStatusDraft.String(),
			billing.InvoiceStatusSent.String(),
			billing.InvoiceStatusOverdue.String(),
		}
	}

	return domainFilter
}
