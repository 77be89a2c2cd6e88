package expense

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kyber/backend/internal/domain/expense"
	"github.com/kyber/backend/internal/domain/shared"
	"github.com/kyber/backend/internal/infrastructure/storage"
)

// maxReceiptSize caps receipt uploads at 10 MiB
const maxReceiptSize = 10 << 20

// receiptContentTypes maps the accepted upload content types to their
// stored file extensions
var receiptContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// ExpenseService handles expense business operations
type ExpenseService struct {
	expenseRepo  expense.ExpenseRepository
	categoryRepo expense.CategoryRepository
	vendorRepo   expense.VendorRepository
	files        storage.FileStorage
	logger       *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo expense.ExpenseRepository,
	categoryRepo expense.CategoryRepository,
	vendorRepo expense.VendorRepository,
	files storage.FileStorage,
	logger *zap.Logger,
) *ExpenseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		vendorRepo:   vendorRepo,
		files:        files,
		logger:       logger,
	}
}

// Create records a new expense
func (s *ExpenseService) Create(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if req.VendorID != nil {
		if _, err := s.vendorRepo.FindByID(ctx, *req.VendorID); err != nil {
			return nil, err
		}
	}

	exp, err := expense.NewExpense(req.Description, req.Amount, req.CategoryID, req.Date)
	if err != nil {
		return nil, err
	}
	if req.VendorID != nil {
		exp.SetVendor(req.VendorID)
	}
	if req.Notes != "" {
		exp.SetNotes(req.Notes)
	}

	if err := s.expenseRepo.Save(ctx, exp); err != nil {
		return nil, err
	}

	response := ToExpenseResponse(exp)
	return &response, nil
}

// GetByID retrieves an expense by ID
func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	exp, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToExpenseResponse(exp)
	return &response, nil
}

// List retrieves expenses with filtering and pagination
func (s *ExpenseService) List(ctx context.Context, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter := buildExpenseFilter(filter)

	expenses, err := s.expenseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.expenseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToExpenseResponses(expenses), total, nil
}

// Update replaces the mutable fields of an expense
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	exp, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if req.VendorID != nil {
		if _, err := s.vendorRepo.FindByID(ctx, *req.VendorID); err != nil {
			return nil, err
		}
	}

	if err := exp.Update(req.Description, req.Amount, req.CategoryID, req.Date); err != nil {
		return nil, err
	}
	exp.SetVendor(req.VendorID)
	if req.Notes != nil {
		exp.SetNotes(*req.Notes)
	}

	if err := s.expenseRepo.Save(ctx, exp); err != nil {
		return nil, err
	}

	response := ToExpenseResponse(exp)
	return &response, nil
}

// Delete removes an expense and its stored receipt
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	exp, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}

	if exp.ReceiptURL != "" && s.files != nil {
		key := receiptKeyFromURL(exp.ReceiptURL)
		if err := s.files.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete receipt file",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	return nil
}

// UploadReceipt stores a receipt file and attaches its URL to the
// expense. Re-uploading replaces the previous attachment.
func (s *ExpenseService) UploadReceipt(ctx context.Context, id uuid.UUID, contentType string, data []byte) (*ExpenseResponse, error) {
	exp, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, ok := receiptContentTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receipt must be a JPEG, PNG, GIF, WebP or PDF file")
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receipt file is empty")
	}
	if len(data) > maxReceiptSize {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receipt file exceeds the 10MB limit")
	}

	key := fmt.Sprintf("receipts/%s%s", exp.ID, ext)
	url, err := s.files.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, shared.NewDomainError("EXTERNAL_FAILURE", "Failed to store receipt file")
	}

	if err := exp.AttachReceipt(url); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, exp); err != nil {
		return nil, err
	}

	response := ToExpenseResponse(exp)
	return &response, nil
}

// receiptKeyFromURL recovers the storage key from a stored receipt URL
func receiptKeyFromURL(url string) string {
	idx := strings.Index(url, "receipts/")
	if idx < 0 {
		return path.Base(url)
	}
	return url[idx:]
}

func buildExpenseFilter(filter ExpenseListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "date"
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

	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.VendorID != nil {
		domainFilter.Filters["vendor_id"] = *filter.VendorID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}
	if filter.MinAmount != nil {
		domainFilter.Filters["min_amount"] = *filter.MinAmount
	}
	if filter.MaxAmount != nil {
		domainFilter.Filters["max_amount"] = *filter.MaxAmount
	}

	return domainFilter
}
