package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kyber/backend/internal/domain/billing"
	"github.com/kyber/backend/internal/domain/settings"
	"github.com/kyber/backend/internal/domain/shared"
	"github.com/kyber/backend/internal/infrastructure/pdf"
)

const documentDateFormat = "Jan 2, 2006"

var hundred = decimal.NewFromInt(100)

// DocumentRenderer produces the printable PDF for a document
type DocumentRenderer interface {
	RenderQuote(ctx context.Context, quote *billing.Quote, theme string) ([]byte, error)
	RenderInvoice(ctx context.Context, invoice *billing.Invoice, theme string) ([]byte, error)
}

// DocumentPDFService renders documents to PDF through the headless
// browser, themed with the company branding.
type DocumentPDFService struct {
	settingsRepo settings.SettingsRepository
	registry     *pdf.TemplateRegistry
	renderer     pdf.Renderer
}

// NewDocumentPDFService creates a new DocumentPDFService
func NewDocumentPDFService(settingsRepo settings.SettingsRepository, registry *pdf.TemplateRegistry, renderer pdf.Renderer) *DocumentPDFService {
	return &DocumentPDFService{
		settingsRepo: settingsRepo,
		registry:     registry,
		renderer:     renderer,
	}
}

// RenderQuote renders a quote to PDF
func (s *DocumentPDFService) RenderQuote(ctx context.Context, quote *billing.Quote, theme string) ([]byte, error) {
	data := pdf.DocumentData{
		Kind:          "Quote",
		Number:        quote.Number,
		Status:        quote.Status.String(),
		ClientName:    quote.ClientName,
		ClientEmail:   quote.ClientEmail,
		ClientAddress: quote.ClientAddress,
		IssuedDate:    quote.CreatedAt.Format(documentDateFormat),
		DueLabel:      "Valid until",
		Items:         toPDFItems(quote.Items),
		Subtotal:      quote.Subtotal.StringFixed(2),
		TaxRate:       formatTaxRate(quote),
		Tax:           quote.Tax.StringFixed(2),
		Total:         quote.Total.StringFixed(2),
		Notes:         quote.Notes,
	}
	if quote.ValidUntil != nil {
		data.DueDate = quote.ValidUntil.Format(documentDateFormat)
	}

	return s.render(ctx, theme, data)
}

// RenderInvoice renders an invoice to PDF
func (s *DocumentPDFService) RenderInvoice(ctx context.Context, invoice *billing.Invoice, theme string) ([]byte, error) {
	data := pdf.DocumentData{
		Kind:          "Invoice",
		Number:        invoice.Number,
		Status:        invoice.EffectiveStatus(time.Now()).String(),
		ClientName:    invoice.ClientName,
		ClientEmail:   invoice.ClientEmail,
		ClientAddress: invoice.ClientAddress,
		IssuedDate:    invoice.CreatedAt.Format(documentDateFormat),
		DueLabel:      "Due date",
		Items:         toPDFItems(invoice.Items),
		Subtotal:      invoice.Subtotal.StringFixed(2),
		TaxRate:       fmt.Sprintf("%s%%", invoice.TaxRate.Mul(hundred).StringFixed(0)),
		Tax:           invoice.Tax.StringFixed(2),
		Total:         invoice.Total.StringFixed(2),
		Notes:         invoice.Notes,
	}
	if invoice.DueDate != nil {
		data.DueDate = invoice.DueDate.Format(documentDateFormat)
	}

	return s.render(ctx, theme, data)
}

// Themes returns the available PDF theme names
func (s *DocumentPDFService) Themes() []string {
	return s.registry.Themes()
}

func (s *DocumentPDFService) render(ctx context.Context, theme string, data pdf.DocumentData) ([]byte, error) {
	s.applyBranding(ctx, &data)

	html, err := s.registry.RenderHTML(theme, data)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, html)
}

// applyBranding fills the company fields from the stored branding.
// Missing branding falls back to neutral defaults instead of failing
// the render.
func (s *DocumentPDFService) applyBranding(ctx context.Context, data *pdf.DocumentData) {
	branding, err := s.settingsRepo.GetBranding(ctx)
	if err != nil || branding == nil {
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return
		}
		data.CompanyName = "Your Business"
		data.PrimaryColor = "#1f2937"
		data.AccentColor = "#6366f1"
		return
	}

	data.CompanyName = branding.CompanyName
	data.CompanyTagline = branding.Tagline
	data.CompanyEmail = branding.Email
	data.CompanyPhone = branding.Phone
	data.CompanyAddress = branding.Address
	data.LogoURL = branding.LogoURL
	data.PrimaryColor = branding.PrimaryColor
	data.AccentColor = branding.AccentColor
}

func toPDFItems(items []billing.DocumentItem) []pdf.DocumentItem {
	result := make([]pdf.DocumentItem, 0, len(items))
	for _, item := range items {
		result = append(result, pdf.DocumentItem{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Amount:      item.Amount.StringFixed(2),
		})
	}
	return result
}

func formatTaxRate(quote *billing.Quote) string {
	return fmt.Sprintf("%s%%", quote.TaxRate.Mul(hundred).StringFixed(0))
}

// Ensure DocumentPDFService implements DocumentRenderer
var _ DocumentRenderer = (*DocumentPDFService)(nil)
