package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kyber/backend/internal/domain/billing"
	"github.com/kyber/backend/internal/domain/settings"
	"github.com/kyber/backend/internal/domain/shared"
	"github.com/kyber/backend/internal/infrastructure/crypto"
)

func newDraftInvoice(t *testing.T) *billing.Invoice {
	t.Helper()
	invoice, err := billing.NewInvoice("INV-2026-00001", "Acme Corp", "billing@acme.test", "1 Main St", []billing.ItemInput{
		{Description: "Consulting", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(150)},
	})
	require.NoError(t, err)
	return invoice
}

func newInvoiceTestService(invoiceRepo *MockInvoiceRepository, settingsRepo *MockSettingsRepository, secrets *crypto.SecretBox, renderer *stubRenderer, dispatcher *stubDispatcher) *InvoiceService {
	return NewInvoiceService(invoiceRepo, settingsRepo, secrets, renderer, dispatcher, nil)
}

func TestInvoiceService_Create(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoiceRepo.On("GenerateNumber", ctx).Return("INV-2026-00001", nil)
	invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	dueDate := time.Now().AddDate(0, 1, 0)
	response, err := service.Create(ctx, CreateInvoiceRequest{
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.test",
		Items: []DocumentItemInput{
			{Description: "Consulting", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(150)},
		},
		DueDate: &dueDate,
	})

	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001", response.Number)
	assert.Equal(t, "draft", response.Status)
	assert.True(t, response.Total.Equal(decimal.NewFromInt(1650)))
	require.NotNil(t, response.DueDate)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_List_OutstandingFilter(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	expected := mock.MatchedBy(func(f shared.Filter) bool {
		statuses, ok := f.Filters["statuses"].([]string)
		return ok && len(statuses) == 3
	})
	invoiceRepo.On("FindAll", ctx, expected).Return([]billing.Invoice{*newDraftInvoice(t)}, nil)
	invoiceRepo.On("Count", ctx, expected).Return(int64(1), nil)

	items, total, err := service.List(ctx, InvoiceListFilter{Outstanding: true})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
}

func TestInvoiceService_List_OverdueDerived(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	pastDue := time.Now().AddDate(0, 0, -7)
	require.NoError(t, invoice.SetDueDate(&pastDue))
	require.NoError(t, invoice.MarkSent())

	invoiceRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return([]billing.Invoice{*invoice}, nil)
	invoiceRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	items, _, err := service.List(ctx, InvoiceListFilter{})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "overdue", items[0].Status)
}

func TestInvoiceService_MarkPaid(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	require.NoError(t, invoice.MarkSent())
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil)

	response, err := service.MarkPaid(ctx, invoice.ID, MarkPaidRequest{PaymentID: "PAY-123"})

	require.NoError(t, err)
	assert.Equal(t, "paid", response.Status)
	assert.Equal(t, "PAY-123", response.PaymentID)
	require.NotNil(t, response.PaidAt)
}

func TestInvoiceService_MarkPaid_IdempotentSameReference(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	require.NoError(t, invoice.MarkPaid("PAY-123"))
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)

	response, err := service.MarkPaid(ctx, invoice.ID, MarkPaidRequest{PaymentID: "PAY-123"})

	require.NoError(t, err)
	assert.Equal(t, "paid", response.Status)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestInvoiceService_MarkPaid_DifferentReferenceRejected(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	require.NoError(t, invoice.MarkPaid("PAY-123"))
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)

	_, err := service.MarkPaid(ctx, invoice.ID, MarkPaidRequest{PaymentID: "PAY-999"})

	assert.ErrorIs(t, err, shared.ErrDuplicatePayment)
}

func TestInvoiceService_MarkPaid_RetriesVersionConflict(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	require.NoError(t, invoice.MarkSent())
	// The retry refetches, so each FindByID must hand back the pre-payment
	// state; a shared pointer would already be paid on the second fetch.
	refetched := *invoice
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil).Once()
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(&refetched, nil).Once()
	invoiceRepo.On("SaveWithLock", ctx, invoice).Return(shared.ErrConcurrencyConflict).Once()
	invoiceRepo.On("SaveWithLock", ctx, &refetched).Return(nil).Once()

	response, err := service.MarkPaid(ctx, invoice.ID, MarkPaidRequest{PaymentID: "PAY-123"})

	require.NoError(t, err)
	assert.Equal(t, "paid", response.Status)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_MarkPaid_Cancelled(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	require.NoError(t, invoice.Cancel())
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)

	_, err := service.MarkPaid(ctx, invoice.ID, MarkPaidRequest{PaymentID: "PAY-123"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STATE_CONFLICT", domainErr.Code)
}

func TestInvoiceService_Cancel(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil)

	response, err := service.Cancel(ctx, invoice.ID)

	require.NoError(t, err)
	assert.Equal(t, "cancelled", response.Status)
}

func TestInvoiceService_Cancel_PaidRejected(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	require.NoError(t, invoice.MarkPaid("PAY-123"))
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)

	_, err := service.Cancel(ctx, invoice.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STATE_CONFLICT", domainErr.Code)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestInvoiceService_Send(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	renderer := &stubRenderer{pdf: []byte("%PDF-1.7")}
	dispatcher := newStubDispatcher()
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, renderer, dispatcher)
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil)

	response, err := service.Send(ctx, invoice.ID, SendDocumentRequest{})

	require.NoError(t, err)
	assert.Equal(t, "sent", response.Status)
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "invoice", dispatcher.sent[0].Kind)
	assert.Equal(t, "INV-2026-00001.pdf", dispatcher.sent[0].PDFFilename)
}

func TestInvoiceService_Send_DispatchFailureKeepsDraft(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	dispatcher := newStubDispatcher()
	dispatcher.sendErr = shared.NewDomainError("EXTERNAL_FAILURE", "smtp down")
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, dispatcher)
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)

	_, err := service.Send(ctx, invoice.ID, SendDocumentRequest{})

	require.Error(t, err)
	assert.Equal(t, billing.InvoiceStatusDraft, invoice.Status)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestInvoiceService_Delete_PaidRejected(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	require.NoError(t, invoice.MarkPaid("PAY-123"))
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)

	err := service.Delete(ctx, invoice.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STATE_CONFLICT", domainErr.Code)
	invoiceRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestInvoiceService_GetPublic(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	settingsRepo := new(MockSettingsRepository)
	secrets, err := crypto.NewSecretBox("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	service := newInvoiceTestService(invoiceRepo, settingsRepo, secrets, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)

	branding, err := settings.NewBrandingSettings("Kyber Consulting")
	require.NoError(t, err)
	settingsRepo.On("GetBranding", ctx).Return(branding, nil)

	encryptedID, err := secrets.Encrypt("paypal-client-id")
	require.NoError(t, err)
	paypal, err := settings.NewPayPalSettings(encryptedID, "", true)
	require.NoError(t, err)
	settingsRepo.On("GetPayPal", ctx).Return(paypal, nil)

	response, err := service.GetPublic(ctx, invoice.ID)

	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001", response.Number)
	assert.Equal(t, "Kyber Consulting", response.CompanyName)
	assert.Equal(t, "paypal-client-id", response.PayPalClientID)
	assert.True(t, response.PayPalSandbox)
	require.Len(t, response.Items, 1)
}

func TestInvoiceService_GetPublic_NoSettings(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	settingsRepo := new(MockSettingsRepository)
	service := newInvoiceTestService(invoiceRepo, settingsRepo, nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	settingsRepo.On("GetBranding", ctx).Return(nil, shared.ErrNotFound)
	settingsRepo.On("GetPayPal", ctx).Return(nil, shared.ErrNotFound)

	response, err := service.GetPublic(ctx, invoice.ID)

	require.NoError(t, err)
	assert.Equal(t, "Your Business", response.CompanyName)
	assert.Empty(t, response.PayPalClientID)
}

func TestInvoiceService_GetPublic_CancelledHidden(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	service := newInvoiceTestService(invoiceRepo, new(MockSettingsRepository), nil, &stubRenderer{}, newStubDispatcher())
	ctx := context.Background()

	invoice := newDraftInvoice(t)
	require.NoError(t, invoice.Cancel())
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)

	_, err := service.GetPublic(ctx, invoice.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
