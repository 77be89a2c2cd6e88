package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kyber/backend/internal/domain/billing"
	"github.com/kyber/backend/internal/domain/shared"
)

// GormQuoteRepository implements QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote by its ID with items
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quote, error) {
	var quote billing.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&quote, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindByNumber finds a quote by its document number
func (r *GormQuoteRepository) FindByNumber(ctx context.Context, number string) (*billing.Quote, error) {
	var quote billing.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("number = ?", number).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindAll finds quotes with filtering and pagination.
// Items are not loaded; the list view reads the cached totals.
func (r *GormQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Quote, error) {
	var quotes []billing.Quote
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Quote{}), filter)

	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Save creates or updates a quote and reconciles its items
func (r *GormQuoteRepository) Save(ctx context.Context, quote *billing.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(quote).Error; err != nil {
			return err
		}
		return saveDocumentItems(tx, quote.ID, quote.Items)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormQuoteRepository) SaveWithLock(ctx context.Context, quote *billing.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateQuoteWithVersionCheck(tx, quote); err != nil {
			return err
		}
		return saveDocumentItems(tx, quote.ID, quote.Items)
	})
}

// SaveConversion persists the invoice and the quote's converted flip in
// one transaction. The quote update is version checked, so when two
// conversions race the first one wins and the second rolls back.
func (r *GormQuoteRepository) SaveConversion(ctx context.Context, quote *billing.Quote, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		for i := range invoice.Items {
			invoice.Items[i].DocumentID = invoice.ID
			if err := tx.Create(&invoice.Items[i]).Error; err != nil {
				return err
			}
		}
		return updateQuoteWithVersionCheck(tx, quote)
	})
}

// updateQuoteWithVersionCheck applies a version-checked column update.
// The caller holds the quote at the version it loaded; a zero row count
// means someone else got there first.
func updateQuoteWithVersionCheck(tx *gorm.DB, quote *billing.Quote) error {
	var currentVersion int
	if err := tx.Model(&billing.Quote{}).
		Where("id = ?", quote.ID).
		Select("version").
		Scan(&currentVersion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	if currentVersion == 0 {
		return shared.ErrNotFound
	}
	if currentVersion != quote.Version {
		return shared.ErrConcurrencyConflict
	}

	quote.Version++
	quote.UpdatedAt = time.Now()

	result := tx.Model(&billing.Quote{}).
		Where("id = ? AND version = ?", quote.ID, currentVersion).
		Updates(map[string]interface{}{
			"client_name":          quote.ClientName,
			"client_email":         quote.ClientEmail,
			"client_address":       quote.ClientAddress,
			"tax_rate":             quote.TaxRate,
			"subtotal":             quote.Subtotal,
			"tax":                  quote.Tax,
			"total":                quote.Total,
			"status":               quote.Status,
			"notes":                quote.Notes,
			"valid_until":          quote.ValidUntil,
			"sent_at":              quote.SentAt,
			"converted_at":         quote.ConvertedAt,
			"converted_invoice_id": quote.ConvertedInvoiceID,
			"version":              quote.Version,
			"updated_at":           quote.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// saveDocumentItems reconciles the stored items of a document with the
// in-memory list: removed items are deleted, the rest upserted.
func saveDocumentItems(tx *gorm.DB, documentID uuid.UUID, items []billing.DocumentItem) error {
	currentItemIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("document_id = ? AND id NOT IN ?", documentID, currentItemIDs).
			Delete(&billing.DocumentItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("document_id = ?", documentID).
			Delete(&billing.DocumentItem{}).Error; err != nil {
			return err
		}
	}

	for i := range items {
		items[i].DocumentID = documentID
		if err := tx.Save(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a quote and its items
func (r *GormQuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&billing.DocumentItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&billing.Quote{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts quotes matching the filter
func (r *GormQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&billing.Quote{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts quotes in the given status
func (r *GormQuoteRepository) CountByStatus(ctx context.Context, status billing.QuoteStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Quote{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateNumber generates a unique quote number
// Format: QT-YYYY-NNNNN (e.g., QT-2026-00001)
func (r *GormQuoteRepository) GenerateNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("QT-%d-", year)

	var lastQuote billing.Quote
	err := r.db.WithContext(ctx).
		Model(&billing.Quote{}).
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		First(&lastQuote).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastQuote.Number != "" {
		parts := strings.Split(lastQuote.Number, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	number := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.existsByNumber(ctx, number)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			number = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.existsByNumber(ctx, number)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return number, nil
}

func (r *GormQuoteRepository) existsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Quote{}).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, QuoteSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormQuoteRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR client_name ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "client_email":
			query = query.Where("client_email = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormQuoteRepository implements QuoteRepository
var _ billing.QuoteRepository = (*GormQuoteRepository)(nil)
