package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyber/backend/internal/domain/billing"
	"github.com/kyber/backend/internal/domain/shared"
)

func newTestQuote(t *testing.T, number string) *billing.Quote {
	t.Helper()
	quote, err := billing.NewQuote(number, "Acme Corp", "billing@acme.example", "1 Main St", []billing.ItemInput{
		{Description: "Consulting", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(150)},
		{Description: "Travel", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromFloat(99.99)},
	})
	require.NoError(t, err)
	return quote
}

func TestGormQuoteRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	quote := newTestQuote(t, "QT-2026-00001")
	require.NoError(t, repo.Save(ctx, quote))

	found, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "QT-2026-00001", found.Number)
	assert.Equal(t, "Acme Corp", found.ClientName)
	assert.Len(t, found.Items, 2)
	assert.True(t, found.Total.Equal(quote.Total))

	byNumber, err := repo.FindByNumber(ctx, "QT-2026-00001")
	require.NoError(t, err)
	assert.Equal(t, quote.ID, byNumber.ID)
}

func TestGormQuoteRepository_FindByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)

	quote := newTestQuote(t, "QT-2026-00001")
	_, err := repo.FindByID(context.Background(), quote.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormQuoteRepository_SaveReconcilesItems(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	quote := newTestQuote(t, "QT-2026-00001")
	require.NoError(t, repo.Save(ctx, quote))

	require.NoError(t, quote.ReplaceItems([]billing.ItemInput{
		{Description: "Retainer", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500)},
	}))
	require.NoError(t, repo.Save(ctx, quote))

	found, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Retainer", found.Items[0].Description)

	var itemCount int64
	require.NoError(t, db.Model(&billing.DocumentItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(1), itemCount)
}

func TestGormQuoteRepository_SaveWithLock_Conflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	quote := newTestQuote(t, "QT-2026-00001")
	require.NoError(t, repo.Save(ctx, quote))

	first, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)

	require.NoError(t, first.SetNotes("first writer"))
	require.NoError(t, repo.SaveWithLock(ctx, first))

	require.NoError(t, second.SetNotes("second writer"))
	err = repo.SaveWithLock(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	found, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "first writer", found.Notes)
}

func TestGormQuoteRepository_SaveConversion(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	invoiceRepo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	quote := newTestQuote(t, "QT-2026-00001")
	require.NoError(t, repo.Save(ctx, quote))

	loaded, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)

	invoice, err := billing.NewInvoiceFromQuote(loaded, "INV-2026-00001")
	require.NoError(t, err)
	require.NoError(t, loaded.MarkConverted(invoice.ID))

	require.NoError(t, repo.SaveConversion(ctx, loaded, invoice))

	savedQuote, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.QuoteStatusConverted, savedQuote.Status)
	require.NotNil(t, savedQuote.ConvertedInvoiceID)
	assert.Equal(t, invoice.ID, *savedQuote.ConvertedInvoiceID)

	savedInvoice, err := invoiceRepo.FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, savedInvoice.Items, 2)
	assert.True(t, savedInvoice.Total.Equal(savedQuote.Total))
}

func TestGormQuoteRepository_SaveConversion_LosesRace(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	quote := newTestQuote(t, "QT-2026-00001")
	require.NoError(t, repo.Save(ctx, quote))

	first, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, quote.ID)
	require.NoError(t, err)

	firstInvoice, err := billing.NewInvoiceFromQuote(first, "INV-2026-00001")
	require.NoError(t, err)
	require.NoError(t, first.MarkConverted(firstInvoice.ID))
	require.NoError(t, repo.SaveConversion(ctx, first, firstInvoice))

	secondInvoice, err := billing.NewInvoiceFromQuote(second, "INV-2026-00002")
	require.NoError(t, err)
	require.NoError(t, second.MarkConverted(secondInvoice.ID))
	err = repo.SaveConversion(ctx, second, secondInvoice)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	// The losing invoice rolled back with the transaction
	var invoiceCount int64
	require.NoError(t, db.Model(&billing.Invoice{}).Count(&invoiceCount).Error)
	assert.Equal(t, int64(1), invoiceCount)
}

func TestGormQuoteRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	quote := newTestQuote(t, "QT-2026-00001")
	require.NoError(t, repo.Save(ctx, quote))

	require.NoError(t, repo.Delete(ctx, quote.ID))

	_, err := repo.FindByID(ctx, quote.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var itemCount int64
	require.NoError(t, db.Model(&billing.DocumentItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(0), itemCount)

	assert.ErrorIs(t, repo.Delete(ctx, quote.ID), shared.ErrNotFound)
}

func TestGormQuoteRepository_GenerateNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	first, err := repo.GenerateNumber(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^QT-\d{4}-00001$`, first)

	quote := newTestQuote(t, first)
	require.NoError(t, repo.Save(ctx, quote))

	second, err := repo.GenerateNumber(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^QT-\d{4}-00002$`, second)
}

func TestGormQuoteRepository_FindAllAndCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	q1 := newTestQuote(t, "QT-2026-00001")
	require.NoError(t, repo.Save(ctx, q1))
	q2 := newTestQuote(t, "QT-2026-00002")
	require.NoError(t, q2.MarkSent())
	require.NoError(t, repo.Save(ctx, q2))

	filter := shared.DefaultFilter()
	all, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filter.Filters["status"] = billing.QuoteStatusSent
	sent, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "QT-2026-00002", sent[0].Number)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	draftCount, err := repo.CountByStatus(ctx, billing.QuoteStatusDraft)
	require.NoError(t, err)
	assert.Equal(t, int64(1), draftCount)
}

func TestGormQuoteRepository_FindAll_SortInputIsWhitelisted(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormQuoteRepository(db)
	ctx := context.Background()

	for _, number := range []string{"QT-2026-00001", "QT-2026-00002"} {
		require.NoError(t, repo.Save(ctx, newTestQuote(t, number)))
	}

	byNumber, err := repo.FindAll(ctx, shared.Filter{OrderBy: "number", OrderDir: "desc"})
	require.NoError(t, err)
	require.Len(t, byNumber, 2)
	assert.Equal(t, "QT-2026-00002", byNumber[0].Number)

	// Sort input from the query string must never reach the ORDER BY
	// clause raw. Anything off the whitelist sorts by the default
	// column instead of executing.
	hostile := []string{
		"(SELECT password_hash FROM users LIMIT 1)",
		"password_hash",
		"number; DROP TABLE quotes;--",
	}
	for _, orderBy := range hostile {
		got, err := repo.FindAll(ctx, shared.Filter{OrderBy: orderBy})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	}

	count, err := repo.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
